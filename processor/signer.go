package processor

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/asn1"
	"encoding/hex"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

const (
	HeaderIdentity  = "X-Identity"
	HeaderSignature = "X-Signature"
)

// ECDSASigner signs requests the way the processor expects for token
// authenticated clients: X-Signature is the hex DER secp256k1 signature of
// sha256(full URL + body) and X-Identity is the hex compressed public key.
type ECDSASigner struct {
	key      *ecdsa.PrivateKey
	identity string
}

func NewECDSASigner(key *ecdsa.PrivateKey) (*ECDSASigner, error) {
	if key == nil {
		return nil, signerError(nil, "processor: private key is required")
	}
	return &ECDSASigner{
		key:      key,
		identity: hex.EncodeToString(crypto.CompressPubkey(&key.PublicKey)),
	}, nil
}

// NewECDSASignerFromHex accepts a hex private key with or without 0x.
func NewECDSASignerFromHex(hexKey string) (*ECDSASigner, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, signerError(err, "processor: invalid private key")
	}
	return NewECDSASigner(key)
}

// NewECDSASignerFromFile reads a hex private key file.
func NewECDSASignerFromFile(path string) (*ECDSASigner, error) {
	key, err := crypto.LoadECDSA(strings.TrimSpace(path))
	if err != nil {
		return nil, signerError(err, "processor: load private key file")
	}
	return NewECDSASigner(key)
}

func (s *ECDSASigner) Identity() string {
	if s == nil {
		return ""
	}
	return s.identity
}

func (s *ECDSASigner) SignRequest(req *http.Request, body []byte) error {
	if s == nil || req == nil || req.URL == nil {
		return signerError(nil, "processor: signer or request missing")
	}
	signature, err := s.Sign(req.URL.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderIdentity, s.identity)
	req.Header.Set(HeaderSignature, signature)
	return nil
}

// Sign returns the hex DER signature for url+body.
func (s *ECDSASigner) Sign(url string, body []byte) (string, error) {
	digest := sha256.Sum256(append([]byte(url), body...))
	raw, err := crypto.Sign(digest[:], s.key)
	if err != nil {
		return "", signerError(err, "processor: sign request")
	}
	der, err := asn1.Marshal(struct {
		R, S *big.Int
	}{
		R: new(big.Int).SetBytes(raw[:32]),
		S: new(big.Int).SetBytes(raw[32:64]),
	})
	if err != nil {
		return "", signerError(err, "processor: encode signature")
	}
	return hex.EncodeToString(der), nil
}

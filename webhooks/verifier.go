package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"github.com/goliatone/go-payhooks/credentials"
)

// ValidationRequest is the per-notification input to a SignatureVerifier.
type ValidationRequest struct {
	Credential credentials.Credential
	RawBody    []byte
	Signature  string
}

type ValidationResult struct {
	Header     string `json:"header"`
	Calculated string `json:"calculated"`
	Validated  bool   `json:"validated"`
}

type SignatureVerifier interface {
	Sign(credential credentials.Credential, rawBody []byte) (string, error)
	Verify(credential credentials.Credential, rawBody []byte, signature string) (ValidationResult, error)
}

// HMACVerifier signs with base64(HMAC-SHA256(secret, body)) and compares the
// encoded strings in constant time. No normalization is applied.
type HMACVerifier struct{}

var _ SignatureVerifier = HMACVerifier{}

func (HMACVerifier) Sign(credential credentials.Credential, rawBody []byte) (string, error) {
	return Sign(credential.Secret(), rawBody)
}

func (v HMACVerifier) Verify(credential credentials.Credential, rawBody []byte, signature string) (ValidationResult, error) {
	calculated, err := v.Sign(credential, rawBody)
	if err != nil {
		return ValidationResult{}, err
	}
	return ValidationResult{
		Header:     signature,
		Calculated: calculated,
		Validated:  subtle.ConstantTimeCompare([]byte(calculated), []byte(signature)) == 1,
	}, nil
}

// Sign computes the x-signature value for rawBody under secret.
func Sign(secret string, rawBody []byte) (string, error) {
	if secret == "" {
		return "", signatureUnavailableError(fmt.Errorf("webhooks: signing secret is empty"))
	}
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(rawBody)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

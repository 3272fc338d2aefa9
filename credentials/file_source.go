package credentials

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-payhooks/security"
	"gopkg.in/yaml.v3"
)

// Opener decrypts sealed token values. security.AppKeySecretProvider
// implements it.
type Opener interface {
	Open(ctx context.Context, value string) (string, error)
}

// ClientFile is the processor client configuration for one environment.
type ClientFile struct {
	Environment    string
	PrivateKey     string
	PrivateKeyPath string
	Tokens         map[Scope]string
}

type clientFileDocument struct {
	BitPay *bitPayConfiguration `json:"BitPayConfiguration" yaml:"BitPayConfiguration"`
}

// flatLayout is the compact form: {"environment": "test", "private_key": "...",
// "tokens": {"merchant": "...", "payout": "..."}}.
type flatLayout struct {
	Environment    string            `json:"environment" yaml:"environment"`
	PrivateKey     string            `json:"private_key" yaml:"private_key"`
	PrivateKeyPath string            `json:"private_key_path" yaml:"private_key_path"`
	Tokens         map[string]string `json:"tokens" yaml:"tokens"`
}

type bitPayConfiguration struct {
	Environment string                       `json:"Environment" yaml:"Environment"`
	EnvConfig   map[string]bitPayEnvironment `json:"EnvConfig" yaml:"EnvConfig"`
}

type bitPayEnvironment struct {
	PrivateKeyPath string            `json:"PrivateKeyPath" yaml:"PrivateKeyPath"`
	PrivateKey     string            `json:"PrivateKey" yaml:"PrivateKey"`
	ApiTokens      map[string]string `json:"ApiTokens" yaml:"ApiTokens"`
}

// ReadClientFile parses a JSON or YAML processor client file. environment
// overrides the file's own environment selector when set.
func ReadClientFile(path string, environment string) (ClientFile, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return ClientFile{}, clientFileError(nil, "credentials: client file path is required", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ClientFile{}, clientFileError(err, "credentials: read client file", path)
	}
	return ParseClientFile(data, environment, filepath.Dir(path))
}

// ParseClientFile decodes client file bytes. Relative private key paths are
// resolved against baseDir.
func ParseClientFile(data []byte, environment string, baseDir string) (ClientFile, error) {
	var doc clientFileDocument
	if err := decodeClientFile(data, &doc); err != nil {
		return ClientFile{}, clientFileError(err, "credentials: decode client file", baseDir)
	}
	var flat flatLayout
	if doc.BitPay == nil {
		if err := decodeClientFile(data, &flat); err != nil {
			return ClientFile{}, clientFileError(err, "credentials: decode client file", baseDir)
		}
	}

	var out ClientFile
	if doc.BitPay != nil {
		selected := strings.TrimSpace(environment)
		if selected == "" {
			selected = doc.BitPay.Environment
		}
		env, name, ok := lookupEnvironment(doc.BitPay.EnvConfig, selected)
		if !ok {
			return ClientFile{}, clientFileError(nil, fmt.Sprintf("credentials: environment %q not found in client file", selected), baseDir)
		}
		out = ClientFile{
			Environment:    strings.ToLower(name),
			PrivateKey:     env.PrivateKey,
			PrivateKeyPath: env.PrivateKeyPath,
			Tokens:         scopedTokens(env.ApiTokens),
		}
	} else {
		out = ClientFile{
			Environment:    strings.ToLower(strings.TrimSpace(flat.Environment)),
			PrivateKey:     flat.PrivateKey,
			PrivateKeyPath: flat.PrivateKeyPath,
			Tokens:         scopedTokens(flat.Tokens),
		}
		if environment = strings.TrimSpace(environment); environment != "" {
			out.Environment = strings.ToLower(environment)
		}
	}

	if len(out.Tokens) == 0 {
		return ClientFile{}, clientFileError(nil, "credentials: client file has no tokens", baseDir)
	}
	out.PrivateKey = strings.TrimSpace(out.PrivateKey)
	out.PrivateKeyPath = strings.TrimSpace(out.PrivateKeyPath)
	if out.PrivateKeyPath != "" && !filepath.IsAbs(out.PrivateKeyPath) && baseDir != "" {
		out.PrivateKeyPath = filepath.Join(baseDir, out.PrivateKeyPath)
	}
	return out, nil
}

// decodeClientFile accepts the processor SDK's JSON file as well as YAML.
func decodeClientFile(data []byte, target any) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		return json.Unmarshal(trimmed, target)
	}
	return yaml.Unmarshal(trimmed, target)
}

func lookupEnvironment(envs map[string]bitPayEnvironment, selected string) (bitPayEnvironment, string, bool) {
	for name, env := range envs {
		if strings.EqualFold(name, selected) {
			return env, name, true
		}
	}
	return bitPayEnvironment{}, "", false
}

func scopedTokens(raw map[string]string) map[Scope]string {
	out := make(map[Scope]string, len(raw))
	for key, value := range raw {
		scope := Scope(strings.ToLower(strings.TrimSpace(key)))
		if !scope.Valid() {
			continue
		}
		out[scope] = value
	}
	return out
}

// FileTokenSource reads tokens from the processor client file on every call,
// so Store.Reload observes edits. Sealed values are opened with Opener.
type FileTokenSource struct {
	Path        string
	Environment string
	Opener      Opener
}

func NewFileTokenSource(path string, environment string, opener Opener) *FileTokenSource {
	return &FileTokenSource{Path: path, Environment: environment, Opener: opener}
}

func (s *FileTokenSource) Token(ctx context.Context, scope Scope) (string, error) {
	if s == nil {
		return "", notInitializedError()
	}
	if !scope.Valid() {
		return "", unknownScopeError(scope)
	}
	file, err := ReadClientFile(s.Path, s.Environment)
	if err != nil {
		return "", err
	}
	token := file.Tokens[scope]
	if !security.IsSealed(token) {
		return token, nil
	}
	if s.Opener == nil {
		return "", clientFileError(nil, "credentials: sealed token requires security.app_key", s.Path)
	}
	opened, err := s.Opener.Open(ctx, strings.TrimSpace(token))
	if err != nil {
		return "", clientFileError(err, "credentials: open sealed token", s.Path)
	}
	return opened, nil
}

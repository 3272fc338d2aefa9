package credentials

import (
	"encoding/json"
	"fmt"
)

const redacted = "[REDACTED]"

// Credential is a scope-bound secret. The zero value carries no secret.
// Formatting and JSON encoding never include the secret.
type Credential struct {
	scope  Scope
	secret string
}

func NewCredential(scope Scope, secret string) Credential {
	return Credential{scope: scope, secret: secret}
}

func (c Credential) Scope() Scope {
	return c.scope
}

func (c Credential) Secret() string {
	return c.secret
}

func (c Credential) IsZero() bool {
	return c.secret == ""
}

func (c Credential) String() string {
	return fmt.Sprintf("credential(%s:%s)", c.scope, redacted)
}

func (c Credential) GoString() string {
	return fmt.Sprintf("credentials.Credential{scope:%q, secret:%q}", c.scope, redacted)
}

func (c Credential) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Scope  Scope  `json:"scope"`
		Secret string `json:"secret"`
	}{Scope: c.scope, Secret: redacted})
}

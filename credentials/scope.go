package credentials

import "strings"

type Scope string

const (
	ScopeMerchant Scope = "merchant"
	ScopePayout   Scope = "payout"
)

// Scopes lists every scope a Store loads.
func Scopes() []Scope {
	return []Scope{ScopeMerchant, ScopePayout}
}

func (s Scope) String() string {
	return string(s)
}

func (s Scope) Valid() bool {
	switch s {
	case ScopeMerchant, ScopePayout:
		return true
	default:
		return false
	}
}

func ParseScope(value string) (Scope, error) {
	scope := Scope(strings.ToLower(strings.TrimSpace(value)))
	if !scope.Valid() {
		return "", unknownScopeError(Scope(value))
	}
	return scope, nil
}

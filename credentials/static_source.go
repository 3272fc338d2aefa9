package credentials

import "context"

// StaticTokenSource serves tokens from memory.
type StaticTokenSource map[Scope]string

func (s StaticTokenSource) Token(_ context.Context, scope Scope) (string, error) {
	if !scope.Valid() {
		return "", unknownScopeError(scope)
	}
	return s[scope], nil
}

package credentials

import (
	"context"
	"strings"
	"sync/atomic"
)

// TokenSource fetches the processor token for a scope.
type TokenSource interface {
	Token(ctx context.Context, scope Scope) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context, scope Scope) (string, error)

func (fn TokenSourceFunc) Token(ctx context.Context, scope Scope) (string, error) {
	return fn(ctx, scope)
}

type snapshot map[Scope]Credential

// Store serves credentials from an immutable snapshot. Reads take no locks;
// Reload swaps the snapshot atomically.
type Store struct {
	source  TokenSource
	current atomic.Pointer[snapshot]
}

// Load fetches every scope from source once and returns a ready Store.
func Load(ctx context.Context, source TokenSource) (*Store, error) {
	store := &Store{source: source}
	if err := store.Reload(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// Reload refetches all scopes. On failure the previous snapshot stays active.
func (s *Store) Reload(ctx context.Context) error {
	if s == nil || s.source == nil {
		return notInitializedError()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	next := make(snapshot, len(Scopes()))
	for _, scope := range Scopes() {
		token, err := s.source.Token(ctx, scope)
		if err != nil {
			return sourceError(err, scope)
		}
		if strings.TrimSpace(token) == "" {
			return tokenMissingError(scope)
		}
		next[scope] = NewCredential(scope, token)
	}
	s.current.Store(&next)
	return nil
}

// Get returns the credential for scope.
func (s *Store) Get(scope Scope) (Credential, error) {
	if s == nil {
		return Credential{}, notInitializedError()
	}
	current := s.current.Load()
	if current == nil {
		return Credential{}, notInitializedError()
	}
	if !scope.Valid() {
		return Credential{}, unknownScopeError(scope)
	}
	credential, ok := (*current)[scope]
	if !ok {
		return Credential{}, notInitializedError()
	}
	return credential, nil
}

// Token is Get(scope).Secret() for callers that only need the raw token,
// such as the processor client.
func (s *Store) Token(_ context.Context, scope Scope) (string, error) {
	credential, err := s.Get(scope)
	if err != nil {
		return "", err
	}
	return credential.Secret(), nil
}

func (s *Store) Loaded() bool {
	return s != nil && s.current.Load() != nil
}

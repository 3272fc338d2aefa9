package webhooks

import (
	"sort"

	"github.com/goliatone/go-payhooks/credentials"
)

// eventScopes maps every known processor event to the credential scope that
// signs it. Lookups are exact and case sensitive.
var eventScopes = map[string]credentials.Scope{
	"invoice_paidInFull":       credentials.ScopeMerchant,
	"invoice_expired":          credentials.ScopeMerchant,
	"invoice_confirmed":        credentials.ScopeMerchant,
	"invoice_completed":        credentials.ScopeMerchant,
	"invoice_manuallyNotified": credentials.ScopeMerchant,
	"invoice_failedToConfirm":  credentials.ScopeMerchant,
	"invoice_refundComplete":   credentials.ScopeMerchant,
	"invoice_declined":         credentials.ScopeMerchant,
	"refund_created":           credentials.ScopeMerchant,
	"refund_pending":           credentials.ScopeMerchant,
	"refund_success":           credentials.ScopeMerchant,
	"refund_failure":           credentials.ScopeMerchant,

	"recipient_invited":          credentials.ScopePayout,
	"recipient_unverified":       credentials.ScopePayout,
	"recipient_verified":         credentials.ScopePayout,
	"recipient_active":           credentials.ScopePayout,
	"recipient_paused":           credentials.ScopePayout,
	"recipient_removed":          credentials.ScopePayout,
	"recipient_manuallyNotified": credentials.ScopePayout,
	"payout_funded":              credentials.ScopePayout,
	"payout_processing":          credentials.ScopePayout,
	"payout_completed":           credentials.ScopePayout,
	"payout_cancelled":           credentials.ScopePayout,
	"payout_manuallyNotified":    credentials.ScopePayout,
}

// CredentialGetter is satisfied by *credentials.Store.
type CredentialGetter interface {
	Get(scope credentials.Scope) (credentials.Credential, error)
}

type Router struct {
	store CredentialGetter
}

func NewRouter(store CredentialGetter) *Router {
	return &Router{store: store}
}

// ScopeForEvent returns the scope permitted to sign eventName.
func ScopeForEvent(eventName string) (credentials.Scope, bool) {
	scope, ok := eventScopes[eventName]
	return scope, ok
}

// Events returns the known event names, sorted.
func Events() []string {
	events := make([]string, 0, len(eventScopes))
	for name := range eventScopes {
		events = append(events, name)
	}
	sort.Strings(events)
	return events
}

// Resolve returns the credential for eventName. Unknown or empty names yield
// ok=false and a nil error; err is set only when the store fails.
func (r *Router) Resolve(eventName string) (credentials.Credential, bool, error) {
	scope, ok := ScopeForEvent(eventName)
	if !ok {
		return credentials.Credential{}, false, nil
	}
	if r == nil || r.store == nil {
		return credentials.Credential{}, false, credentialLookupError(nil, eventName)
	}
	credential, err := r.store.Get(scope)
	if err != nil {
		return credentials.Credential{}, false, credentialLookupError(err, eventName)
	}
	if credential.IsZero() {
		return credentials.Credential{}, false, nil
	}
	return credential, true, nil
}

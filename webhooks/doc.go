// Package webhooks authenticates inbound payment processor notifications.
//
// A notification is routed to a credential scope by its event.name and its
// x-signature header is checked against base64(HMAC-SHA256(token, body)).
// Preconditions are checked in order: signature, body, routable event. A
// signature mismatch is reported in the outcome, not as an error.
package webhooks

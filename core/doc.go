// Package core contains the shared payhooks contracts: configuration,
// error envelopes, logging and metrics seams. Domain packages (credentials,
// webhooks, processor) depend on core; core must not depend on them.
package core

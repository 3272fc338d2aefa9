// Package credentials holds the processor API tokens used as webhook signing
// keys. Tokens are grouped by scope and loaded once through a TokenSource.
package credentials

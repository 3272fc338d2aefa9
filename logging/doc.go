// Package logging provides the zap-backed implementation of the glog logger
// contract used across payhooks, plus request-scoped context helpers.
package logging

package webhooks

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorSignatureRequired    = "WEBHOOK_SIGNATURE_REQUIRED"
	ErrorBodyRequired         = "WEBHOOK_BODY_REQUIRED"
	ErrorTokenNotFound        = "WEBHOOK_TOKEN_NOT_FOUND"
	ErrorSignatureUnavailable = "WEBHOOK_SIGNATURE_UNAVAILABLE"
	ErrorCredentialLookup     = "WEBHOOK_CREDENTIAL_LOOKUP_FAILED"
)

const (
	MessageSignatureRequired = "The x-signature header is required."
	MessageBodyRequired      = "A non-empty body is required."
	MessageTokenNotFound     = "Token not found."
)

func webhookError(
	message string,
	category goerrors.Category,
	code int,
	textCode string,
	metadata map[string]any,
) *goerrors.Error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func webhookWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) *goerrors.Error {
	if source == nil {
		return webhookError(message, category, code, textCode, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func rejection(message string, textCode string) *goerrors.Error {
	return webhookError(message, goerrors.CategoryBadInput, http.StatusBadRequest, textCode, nil)
}

func signatureRequiredError() *goerrors.Error {
	return rejection(MessageSignatureRequired, ErrorSignatureRequired)
}

func bodyRequiredError() *goerrors.Error {
	return rejection(MessageBodyRequired, ErrorBodyRequired)
}

func tokenNotFoundError() *goerrors.Error {
	return rejection(MessageTokenNotFound, ErrorTokenNotFound)
}

func signatureUnavailableError(source error) *goerrors.Error {
	return webhookWrapError(
		source,
		goerrors.CategoryInternal,
		"webhooks: signature could not be computed",
		http.StatusInternalServerError,
		ErrorSignatureUnavailable,
		nil,
	)
}

func credentialLookupError(source error, event string) *goerrors.Error {
	return webhookWrapError(
		source,
		goerrors.CategoryInternal,
		"webhooks: credential lookup failed",
		http.StatusInternalServerError,
		ErrorCredentialLookup,
		map[string]any{"event": event},
	)
}

// IsRejection reports whether err is a precondition rejection (missing
// signature, missing body or unroutable event) as opposed to an
// infrastructure failure.
func IsRejection(err error) bool {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return false
	}
	switch richErr.TextCode {
	case ErrorSignatureRequired, ErrorBodyRequired, ErrorTokenNotFound:
		return true
	default:
		return false
	}
}

func textCodeOf(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode
	}
	return ""
}

package processor

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorAPI              = "PROCESSOR_API_ERROR"
	ErrorDecode           = "PROCESSOR_DECODE_FAILED"
	ErrorTokenUnavailable = "PROCESSOR_TOKEN_UNAVAILABLE"
	ErrorUnsupported      = "PROCESSOR_UNSUPPORTED"
	ErrorBadInput         = "PROCESSOR_BAD_INPUT"
	ErrorSigner           = "PROCESSOR_SIGNER_INVALID"
)

func processorError(
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

func processorWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) *goerrors.Error {
	if source == nil {
		return processorError(message, category, code, textCode, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func badInputError(message string, field string) *goerrors.Error {
	return processorError(message, goerrors.CategoryBadInput, http.StatusBadRequest, ErrorBadInput,
		map[string]any{"field": field})
}

func apiError(message string, status int, path string) *goerrors.Error {
	return processorError(message, goerrors.CategoryExternal, http.StatusBadGateway, ErrorAPI,
		map[string]any{"status_code": status, "path": path})
}

func decodeError(source error, path string) *goerrors.Error {
	return processorWrapError(source, goerrors.CategoryExternal, "processor: decode response",
		http.StatusBadGateway, ErrorDecode, map[string]any{"path": path})
}

func tokenError(source error, scope string) *goerrors.Error {
	return processorWrapError(source, goerrors.CategoryInternal, "processor: token unavailable",
		http.StatusInternalServerError, ErrorTokenUnavailable, map[string]any{"scope": scope})
}

func signerError(source error, message string) *goerrors.Error {
	return processorWrapError(source, goerrors.CategoryInternal, message,
		http.StatusInternalServerError, ErrorSigner, nil)
}

func unsupportedError(message string, metadata map[string]any) *goerrors.Error {
	return processorError(message, goerrors.CategoryOperation, http.StatusBadRequest, ErrorUnsupported, metadata)
}

func encodeError(source error, path string) *goerrors.Error {
	return processorWrapError(source, goerrors.CategoryInternal, "processor: encode request",
		http.StatusInternalServerError, ErrorBadInput, map[string]any{"path": path})
}

package credentials

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorNotInitialized = "CREDENTIALS_NOT_INITIALIZED"
	ErrorScopeUnknown   = "CREDENTIALS_SCOPE_UNKNOWN"
	ErrorTokenMissing   = "CREDENTIALS_TOKEN_MISSING"
	ErrorSourceFailed   = "CREDENTIALS_SOURCE_FAILED"
	ErrorClientFile     = "CREDENTIALS_CLIENT_FILE_INVALID"
)

func credentialsError(
	message string,
	category goerrors.Category,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func credentialsWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	if source == nil {
		return credentialsError(message, category, code, textCode, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func notInitializedError() error {
	return credentialsError(
		"credentials: store has not been initialized",
		goerrors.CategoryInternal,
		http.StatusInternalServerError,
		ErrorNotInitialized,
		nil,
	)
}

func unknownScopeError(scope Scope) error {
	return credentialsError(
		"credentials: unknown scope",
		goerrors.CategoryInternal,
		http.StatusInternalServerError,
		ErrorScopeUnknown,
		map[string]any{"scope": string(scope)},
	)
}

func tokenMissingError(scope Scope) error {
	return credentialsError(
		"credentials: token is empty",
		goerrors.CategoryInternal,
		http.StatusInternalServerError,
		ErrorTokenMissing,
		map[string]any{"scope": string(scope)},
	)
}

func sourceError(source error, scope Scope) error {
	return credentialsWrapError(
		source,
		goerrors.CategoryInternal,
		"credentials: token source failed",
		http.StatusInternalServerError,
		ErrorSourceFailed,
		map[string]any{"scope": string(scope)},
	)
}

func clientFileError(source error, message string, path string) error {
	return credentialsWrapError(
		source,
		goerrors.CategoryInternal,
		message,
		http.StatusInternalServerError,
		ErrorClientFile,
		map[string]any{"path": path},
	)
}

// IsNotInitialized reports whether err came from reading an unloaded store.
func IsNotInitialized(err error) bool {
	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.TextCode == ErrorNotInitialized
}

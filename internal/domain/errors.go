package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrAIUnavailable = errors.New("ai service unavailable")
	ErrAIOutput      = errors.New("ai returned unusable output")
)

// NotFound wraps ErrNotFound with the missing identifier.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// InvalidInput wraps ErrInvalidInput with a reason.
func InvalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// HTTPStatus returns the status code an error should be reported with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrAIUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrAIOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

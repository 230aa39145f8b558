package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prattikkk/Incubyte/internal/api"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("not authorized")
)

// mapBackendError turns an adapter error into one of the service sentinels,
// keeping the backend-provided message when there is one and falling back to
// the operation's generic wording otherwise.
func mapBackendError(err error, fallback string) error {
	var se *api.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%s: %w", fallback, err)
	}

	msg := se.Message
	if msg == "" {
		msg = fallback
	}

	switch se.Status {
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, ErrInvalidInput)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", msg, ErrConflict)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

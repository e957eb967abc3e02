package httpapi

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-formflow/pkg/engine"
)

var (
	// ErrUnknownForm is returned when a session is requested for an
	// unregistered form.
	ErrUnknownForm = errors.New("httpapi: unknown form")
	// ErrUnknownSession is returned for session ids that are not live.
	ErrUnknownSession = errors.New("httpapi: unknown session")
	// ErrNotLastStep is returned when submitting before the last visible step.
	ErrNotLastStep = errors.New("httpapi: session is not on the last step")
)

// StatusError pairs an error with the HTTP status it should produce.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status, defaulting to 500.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var statusErr StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.StatusCode()
	case errors.Is(err, ErrUnknownForm), errors.Is(err, ErrUnknownSession):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrStepOutOfRange), errors.Is(err, engine.ErrStepNotVisited):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrSubmitInProgress), errors.Is(err, ErrNotLastStep):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

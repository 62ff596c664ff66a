// Package apierr carries the error taxonomy surfaced by the HTTP layer.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidRequest      = "invalid_request"
	CodeUnauthenticated     = "unauthenticated"
	CodeRateLimited         = "rate_limited"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodePersistenceFailed   = "persistence_failed"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func InvalidRequest(err error) *Error {
	return New(http.StatusBadRequest, CodeInvalidRequest, err)
}

func Unauthenticated(err error) *Error {
	return New(http.StatusUnauthorized, CodeUnauthenticated, err)
}

func RateLimited(err error) *Error {
	return New(http.StatusTooManyRequests, CodeRateLimited, err)
}

func UpstreamUnavailable(err error) *Error {
	return New(http.StatusBadGateway, CodeUpstreamUnavailable, err)
}

func PersistenceFailed(err error) *Error {
	return New(http.StatusInternalServerError, CodePersistenceFailed, err)
}

// AsError returns the typed error when err carries one anywhere in its chain.
func AsError(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

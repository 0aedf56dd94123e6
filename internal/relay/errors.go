package relay

import (
	"errors"
	"net/http"
)

// Kind names a terminal state of the pipeline.
type Kind string

const (
	KindMisconfiguration     Kind = "misconfigured"
	KindUnauthenticated      Kind = "unauthenticated"
	KindBadRequest           Kind = "bad-request"
	KindUnsupportedMediaType Kind = "unsupported-media"
	KindPayloadTooLarge      Kind = "too-large"
	KindUpstream             Kind = "upstream-error"
	KindInternal             Kind = "internal-error"
	KindSuccess              Kind = "success"
)

// Error is a failure the relay turns into a plain-text response.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

var (
	errNoFile   = &Error{Kind: KindBadRequest, Status: http.StatusBadRequest, Message: "No file provided"}
	errBadMime  = &Error{Kind: KindUnsupportedMediaType, Status: http.StatusUnsupportedMediaType, Message: "Invalid mime type"}
	errTooLarge = &Error{Kind: KindPayloadTooLarge, Status: http.StatusRequestEntityTooLarge, Message: "File too large (max 25MB)"}
)

func misconfigured(err error) *Error {
	return &Error{
		Kind:    KindMisconfiguration,
		Status:  http.StatusInternalServerError,
		Message: "Server misconfigured: " + err.Error(),
		Err:     err,
	}
}

func unauthenticated(err error) *Error {
	return &Error{Kind: KindUnauthenticated, Status: http.StatusUnauthorized, Message: "Unauthorized", Err: err}
}

func upstream(detail string, err error) *Error {
	return &Error{
		Kind:    KindUpstream,
		Status:  http.StatusInternalServerError,
		Message: "OpenAI error: " + detail,
		Err:     err,
	}
}

// classify converts any pipeline error into an *Error, falling back to
// InternalError for faults no stage anticipated.
func classify(err error) *Error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: "Server error: " + err.Error(),
		Err:     err,
	}
}

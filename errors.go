package wowapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the library. These can be used with errors.Is()
// to check for broad error conditions.
//
// Example:
//
//	_, err := client.Realm(ctx)
//	if errors.Is(err, wowapi.ErrTransport) {
//	    // Network is down; decide whether to retry at the application level.
//	}
var (
	// ErrInvalidConfig is returned when construction options are invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidArgument is returned for invalid field-selector or sort-key arguments
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTransport is returned when the origin could not be reached
	ErrTransport = errors.New("transport failure")

	// ErrNotFound is returned when the origin reports 404 for a resource
	ErrNotFound = errors.New("resource not found")
)

// StatusTransport is the local sentinel code carried by transport-level
// errors, which have no origin HTTP status.
const StatusTransport = 0

// ErrorKind categorizes an Error for handling decisions.
type ErrorKind int

const (
	// KindUnknown represents an unclassified error
	KindUnknown ErrorKind = iota
	// KindConfiguration represents invalid construction options
	KindConfiguration
	// KindArgument represents a caller programming error (bad fields/sort key)
	KindArgument
	// KindTransport represents a connection failure or timeout
	KindTransport
	// KindAPI represents a non-2xx response from the origin
	KindAPI
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindArgument:
		return "argument"
	case KindTransport:
		return "transport"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Error is the single error value surfaced by every stage of the pipeline:
// configuration validation, argument checks, the HTTP transport, and origin
// error responses. It carries a machine code, a human message, and the
// decoded error body from the origin when one was present, so calling code
// has a single catch point.
//
// Example:
//
//	var apiErr *wowapi.Error
//	if errors.As(err, &apiErr) {
//	    switch apiErr.Kind {
//	    case wowapi.KindAPI:
//	        log.Printf("origin said %d: %s", apiErr.Code, apiErr.Message)
//	    case wowapi.KindTransport:
//	        log.Printf("network: %s", apiErr.Message)
//	    }
//	}
type Error struct {
	// Kind categorizes the error
	Kind ErrorKind `json:"kind"`
	// Code is the origin HTTP status, or StatusTransport for transport
	// failures and 0 for local (configuration/argument) errors
	Code int `json:"code"`
	// Message is the origin reason phrase or a local description
	Message string `json:"message"`
	// Details is the decoded JSON error body from the origin, when present
	Details map[string]interface{} `json:"details,omitempty"`
	// wrapped is the underlying error, if any
	wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Is implements errors.Is against the package sentinels
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindConfiguration:
		return errors.Is(target, ErrInvalidConfig)
	case KindArgument:
		return errors.Is(target, ErrInvalidArgument)
	case KindTransport:
		return errors.Is(target, ErrTransport)
	case KindAPI:
		if e.Code == http.StatusNotFound {
			return errors.Is(target, ErrNotFound)
		}
	}
	return false
}

// WithDetail adds a detail entry to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// newConfigError reports an invalid construction option, naming the field
// and its allowed set.
func newConfigError(field string, got interface{}, allowed []string) *Error {
	return &Error{
		Kind:    KindConfiguration,
		Message: fmt.Sprintf("invalid %s %q, allowed: %v", field, fmt.Sprint(got), allowed),
		Details: map[string]interface{}{
			"field":   field,
			"allowed": allowed,
		},
	}
}

// newArgumentError reports a caller programming error in a service call.
func newArgumentError(format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindArgument,
		Message: fmt.Sprintf(format, args...),
	}
}

// newTransportError wraps a connection or timeout failure from the HTTP
// client. The code is the StatusTransport sentinel; the message is the
// underlying transport message.
func newTransportError(err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Code:    StatusTransport,
		Message: err.Error(),
		wrapped: err,
	}
}

// newAPIError translates a non-2xx origin response. Code is the origin
// status, message the reason phrase, and detail the decoded error body when
// the origin supplied one.
func newAPIError(status int, reason string, body map[string]interface{}) *Error {
	return &Error{
		Kind:    KindAPI,
		Code:    status,
		Message: reason,
		Details: body,
	}
}

// IsNotFound reports whether the error represents a 404 from the origin.
//
// Example:
//
//	char, err := client.Character(ctx, "Hyjal", "Ardeel")
//	if wowapi.IsNotFound(err) {
//	    // No such character on that realm.
//	}
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAPI && e.Code == http.StatusNotFound
}

// IsConfiguration reports whether the error was raised by construction-time
// option validation.
func IsConfiguration(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindConfiguration
}

// IsArgument reports whether the error was raised by field-selector or
// sort-key validation.
func IsArgument(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindArgument
}

// IsTransport reports whether the error came from the HTTP transport rather
// than the origin.
func IsTransport(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransport
}

// IsAPI reports whether the error is a non-2xx origin response.
func IsAPI(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAPI
}

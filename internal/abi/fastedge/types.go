//lint:file-ignore U1000 Ignore all unused code
//revive:disable:exported

// Copyright 2024 G-Core Innovations SARL

package fastedge

import (
	"fmt"
)

// Status models the u32 result code of the raw exported-function boundary
// style. The numeric values are shared across calls, but their meaning is
// call-specific: consult the status table documented on each hostcall before
// interpreting anything other than StatusOK.
type Status uint32

const (
	// StatusOK is success for every call in this boundary. Variable-length
	// results may still be absent: a null out-pointer under StatusOK means
	// "no value", never an error.
	StatusOK Status = 0

	// StatusNotFound means the named key, secret, or store is unknown to the
	// host (per-call: "key not found" for dictionary and secret lookups,
	// "no such store" for store open).
	StatusNotFound Status = 1

	// StatusDenied means the calling application is not authorized for the
	// named resource (store open only).
	StatusDenied Status = 2
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not found"
	case StatusDenied:
		return "access denied"
	default:
		return fmt.Sprintf("status %d", uint32(s))
	}
}

// KVHandle is an opaque handle to an open key-value store. Handles are owned
// by the call site that opened them, are not reference counted, and stay
// valid for the lifetime of the invocation; there is no close call.
type KVHandle uint32

// HTTPErrorCode enumerates the host's failure modes for the outbound
// send-request call of the structured boundary style.
type HTTPErrorCode uint32

const (
	HTTPErrorUnknown HTTPErrorCode = iota
	HTTPErrorInvalidURL
	HTTPErrorDestinationNotAllowed
	HTTPErrorTooManyRequests
	HTTPErrorTimeout
	HTTPErrorInternal
)

// String implements fmt.Stringer.
func (c HTTPErrorCode) String() string {
	switch c {
	case HTTPErrorUnknown:
		return "unknown error"
	case HTTPErrorInvalidURL:
		return "invalid url"
	case HTTPErrorDestinationNotAllowed:
		return "destination not allowed"
	case HTTPErrorTooManyRequests:
		return "too many requests"
	case HTTPErrorTimeout:
		return "timeout"
	case HTTPErrorInternal:
		return "internal error"
	default:
		return fmt.Sprintf("error %d", uint32(c))
	}
}

// HTTPError decorates an HTTPErrorCode returned by the host's send-request
// call and implements the error interface.
//
// Note that TinyGo doesn't fully support errors.As. Callers can use the
// IsHTTPError helper instead.
type HTTPError struct {
	Code HTTPErrorCode
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Code.String()
}

func (e HTTPError) getCode() HTTPErrorCode {
	return e.Code
}

// IsHTTPError detects and unwraps an HTTPError to its component parts.
func IsHTTPError(err error) (HTTPErrorCode, bool) {
	if e, ok := err.(interface{ getCode() HTTPErrorCode }); ok {
		return e.getCode(), true
	}
	return 0, false
}

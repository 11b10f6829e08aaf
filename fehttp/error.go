// Copyright 2024 G-Core Innovations SARL

package fehttp

import (
	"errors"
	"fmt"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// ErrInvalidBody indicates message parts that could not be assembled into a
// valid HTTP request or response.
var ErrInvalidBody = errors.New("invalid http body")

// UnsupportedMethodError reports an HTTP method outside the closed set the
// gateway forwards.
type UnsupportedMethodError struct {
	Method string
}

// Error implements the error interface.
func (e UnsupportedMethodError) Error() string {
	return fmt.Sprintf("method `%s` is not supported", e.Method)
}

// InvalidStatusCodeError reports a status code outside the range HTTP
// defines.
type InvalidStatusCodeError struct {
	Code int
}

// Error implements the error interface.
func (e InvalidStatusCodeError) Error() string {
	return fmt.Sprintf("invalid status code %d", e.Code)
}

// HTTPErrorCode identifies why the host HTTP client failed an exchange,
// re-exported from the boundary package.
type HTTPErrorCode = fastedge.HTTPErrorCode

// Client failure codes carried by HostError.
const (
	// ErrorCodeUnknown covers failures the host does not classify.
	ErrorCodeUnknown = fastedge.HTTPErrorUnknown

	// ErrorCodeInvalidURL indicates the request URL could not be parsed or
	// used by the host client.
	ErrorCodeInvalidURL = fastedge.HTTPErrorInvalidURL

	// ErrorCodeDestinationNotAllowed indicates the application is not
	// permitted to reach the requested origin.
	ErrorCodeDestinationNotAllowed = fastedge.HTTPErrorDestinationNotAllowed

	// ErrorCodeTooManyRequests indicates the host refused the exchange to
	// enforce a rate limit.
	ErrorCodeTooManyRequests = fastedge.HTTPErrorTooManyRequests

	// ErrorCodeTimeout indicates the origin did not answer in time.
	ErrorCodeTimeout = fastedge.HTTPErrorTimeout

	// ErrorCodeInternal indicates a failure inside the host client.
	ErrorCodeInternal = fastedge.HTTPErrorInternal
)

// HostError reports a failure of the host HTTP client itself: the exchange
// did not produce a response.
//
// Example usage:
//
//	resp, err := req.Send(ctx)
//	if err != nil {
//	    if code, ok := fehttp.IsHostError(err); ok && code == fehttp.ErrorCodeTimeout {
//	        // the origin did not answer in time
//	    }
//	    return err
//	}
type HostError struct {
	Code HTTPErrorCode
}

// Error implements the error interface.
func (e HostError) Error() string {
	return fmt.Sprintf("http error: %s", e.Code)
}

// IsHostError returns the client failure code carried by err, if any.
func IsHostError(err error) (HTTPErrorCode, bool) {
	if e, ok := err.(HostError); ok {
		return e.Code, true
	}
	return 0, false
}

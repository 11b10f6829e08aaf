// Copyright 2024 G-Core Innovations SARL

package fehttp

import (
	"context"
	"fmt"
	"net/url"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// Request represents an HTTP request received by this application from a
// requesting client, or to be sent through the host HTTP client during this
// execution.
type Request struct {
	// Method specifies the HTTP method. Only the canonical uppercase names
	// GET, POST, PUT, DELETE, HEAD, PATCH and OPTIONS cross the boundary;
	// anything else fails with UnsupportedMethodError.
	Method string

	// URL is the parsed URL of the request. For incoming requests it is the
	// URL the client requested; for outgoing requests it names the origin
	// resource and must be absolute.
	URL *url.URL

	// Header contains the request header fields either received in the
	// incoming request, or to be sent with the outgoing request.
	Header *Header

	// Body is the request payload. For incoming requests the content type
	// reflects only how the payload arrived, not any content-type header.
	Body Body
}

// NewRequest builds an outbound request for the host HTTP client.
func NewRequest(method, rawurl string, body Body) (*Request, error) {
	if _, ok := fastedge.ParseMethod(method); !ok {
		return nil, UnsupportedMethodError{Method: method}
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}
	return &Request{
		Method: method,
		URL:    u,
		Header: NewHeader(),
		Body:   body,
	}, nil
}

// Send performs the exchange through the host HTTP client and returns the
// parsed response.
//
// The hostcall itself cannot be interrupted; ctx is consulted only before
// the request leaves the guest.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := r.toRecord()
	if err != nil {
		return nil, err
	}
	out, err := fastedge.SendRequest(rec)
	if err != nil {
		if code, ok := fastedge.IsHTTPError(err); ok {
			return nil, HostError{Code: code}
		}
		return nil, err
	}
	return responseFromRecord(out)
}

// toRecord flattens the request for the boundary. The wire shape has no
// optional fields: headers and body are always present, possibly empty.
func (r *Request) toRecord() (fastedge.RequestRecord, error) {
	m, ok := fastedge.ParseMethod(r.Method)
	if !ok {
		return fastedge.RequestRecord{}, UnsupportedMethodError{Method: r.Method}
	}
	if r.URL == nil {
		return fastedge.RequestRecord{}, ErrInvalidBody
	}
	return fastedge.RequestRecord{
		Method:  m,
		URI:     r.URL.String(),
		Headers: r.Header.pairs(),
		Body:    r.Body.Bytes(),
	}, nil
}

// requestFromRecord builds the incoming client request from its flattened
// form. Failures here surface as a decode fault to the client, never as a
// handler invocation.
func requestFromRecord(rec fastedge.RequestRecord) (*Request, error) {
	u, err := url.Parse(rec.URI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}

	req := &Request{
		Method: rec.Method.String(),
		URL:    u,
		Header: NewHeader(),
	}
	for _, p := range rec.Headers {
		req.Header.Add(p.Name, p.Value)
	}
	if rec.Body != nil {
		req.Body = BinaryBody(rec.Body)
	}
	return req, nil
}

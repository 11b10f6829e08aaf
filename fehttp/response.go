// Copyright 2024 G-Core Innovations SARL

package fehttp

import (
	"errors"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// Response represents an HTTP response, either produced by the application
// for the incoming client request or received from an origin through the
// host HTTP client.
type Response struct {
	// StatusCode is the HTTP status of the response. A code outside the
	// 100-599 range cannot cross the boundary in either direction.
	StatusCode int

	// Header contains the response header fields. A nil Header is treated
	// as empty.
	Header *Header

	// Body is the response payload. For origin responses the content type
	// reflects only how the payload arrived, not any content-type header.
	Body Body
}

// toRecord flattens the response for the boundary. An empty header set is
// lowered as an absent option, which tells the host to set no headers at
// all; the body is always present.
func (r *Response) toRecord() (fastedge.ResponseRecord, error) {
	if r == nil {
		return fastedge.ResponseRecord{}, errors.New("nil response")
	}
	if r.StatusCode < 100 || r.StatusCode > 599 {
		return fastedge.ResponseRecord{}, InvalidStatusCodeError{Code: r.StatusCode}
	}

	body := r.Body.Bytes()
	if body == nil {
		body = []byte{}
	}
	rec := fastedge.ResponseRecord{
		Status: uint32(r.StatusCode),
		Body:   body,
	}
	if pairs := r.Header.pairs(); len(pairs) > 0 {
		rec.Headers = pairs
	}
	return rec, nil
}

// responseFromRecord builds an origin response from its flattened form,
// rejecting status codes no valid HTTP response can carry.
func responseFromRecord(rec fastedge.ResponseRecord) (*Response, error) {
	if rec.Status < 100 || rec.Status > 599 {
		return nil, InvalidStatusCodeError{Code: int(rec.Status)}
	}

	resp := &Response{
		StatusCode: int(rec.Status),
		Header:     NewHeader(),
	}
	for _, p := range rec.Headers {
		resp.Header.Add(p.Name, p.Value)
	}
	if rec.Body != nil {
		resp.Body = BinaryBody(rec.Body)
	}
	return resp, nil
}

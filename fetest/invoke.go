// Copyright 2024 G-Core Innovations SARL

package fetest

import (
	"fmt"
	"net/url"

	"github.com/G-Core/FastEdge-sdk-go/fehttp"
	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// SendRequest implements the outbound HTTP hostcall by handing the exchange
// to the Transport. Errors the Transport reports via fehttp.HostError keep
// their code; any other error surfaces as an internal client failure.
func (h *Host) SendRequest(rec fastedge.RequestRecord) (fastedge.ResponseRecord, error) {
	h.mu.Lock()
	transport := h.Transport
	h.mu.Unlock()

	if transport == nil {
		return fastedge.ResponseRecord{}, fastedge.HTTPError{Code: fastedge.HTTPErrorUnknown}
	}

	u, err := url.Parse(rec.URI)
	if err != nil {
		return fastedge.ResponseRecord{}, fastedge.HTTPError{Code: fastedge.HTTPErrorInvalidURL}
	}
	req := &fehttp.Request{
		Method: rec.Method.String(),
		URL:    u,
		Header: fehttp.NewHeader(),
		Body:   fehttp.BinaryBody(rec.Body),
	}
	for _, p := range rec.Headers {
		req.Header.Add(p.Name, p.Value)
	}

	resp, err := transport(req)
	if err != nil {
		if code, ok := fehttp.IsHostError(err); ok {
			return fastedge.ResponseRecord{}, fastedge.HTTPError{Code: code}
		}
		return fastedge.ResponseRecord{}, fastedge.HTTPError{Code: fastedge.HTTPErrorInternal}
	}
	if resp == nil {
		return fastedge.ResponseRecord{}, fastedge.HTTPError{Code: fastedge.HTTPErrorInternal}
	}

	out := fastedge.ResponseRecord{
		Status: uint32(resp.StatusCode),
		Body:   resp.Body.Bytes(),
	}
	if out.Body == nil {
		out.Body = []byte{}
	}
	for _, k := range resp.Header.Keys() {
		for _, v := range resp.Header.Values(k) {
			out.Headers = append(out.Headers, fastedge.HeaderPair{Name: k, Value: v})
		}
	}
	return out, nil
}

// Invoke drives one request through the handler registered with
// fehttp.Serve, the way the platform delivers it: flatten the request, run
// the process pipeline, lift the answer. Pipeline faults come back as the
// plain 500 responses a real client would see.
//
// A zero-length body crosses the boundary as absent, which is how the
// platform delivers bodyless requests.
func Invoke(req *fehttp.Request) *fehttp.Response {
	m, ok := fastedge.ParseMethod(req.Method)
	if !ok {
		panic(fmt.Sprintf("fetest: method %q cannot cross the boundary", req.Method))
	}

	rec := fastedge.RequestRecord{
		Method:  m,
		URI:     req.URL.String(),
		Headers: []fastedge.HeaderPair{},
	}
	for _, k := range req.Header.Keys() {
		for _, v := range req.Header.Values(k) {
			rec.Headers = append(rec.Headers, fastedge.HeaderPair{Name: k, Value: v})
		}
	}
	if req.Body.Len() > 0 {
		rec.Body = req.Body.Bytes()
	}

	out := fastedge.InvokeProcess(rec)

	resp := &fehttp.Response{
		StatusCode: int(out.Status),
		Header:     fehttp.NewHeader(),
	}
	for _, p := range out.Headers {
		resp.Header.Add(p.Name, p.Value)
	}
	if out.Body != nil {
		resp.Body = fehttp.BinaryBody(out.Body)
	}
	return resp
}

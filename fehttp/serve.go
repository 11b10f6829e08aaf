// Copyright 2024 G-Core Innovations SARL

package fehttp

import (
	"context"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// A Handler responds to an incoming HTTP request.
type Handler interface {
	ServeHTTP(ctx context.Context, r *Request) (*Response, error)
}

// HandlerFunc adapts a function to a Handler.
type HandlerFunc func(ctx context.Context, r *Request) (*Response, error)

// ServeHTTP implements Handler by calling f.
func (f HandlerFunc) ServeHTTP(ctx context.Context, r *Request) (*Response, error) {
	return f(ctx, r)
}

// Serve registers h as the application's request handler and returns. The
// host drives the handler once per execution: h receives a context that is
// canceled when the invocation ends, and the incoming client Request. The
// Response it returns, or the error in its place, is delivered to the
// client.
//
// Faults are isolated per stage: a request that cannot be decoded, an error
// returned by the handler, and a response that cannot be encoded each
// produce a plain 500 without running the later stages.
func Serve(h Handler) {
	fastedge.RegisterProcess(func(rec fastedge.RequestRecord) fastedge.ResponseRecord {
		return dispatch(h, rec)
	})
}

// ServeFunc is sugar for Serve(HandlerFunc(f)).
func ServeFunc(f HandlerFunc) {
	Serve(f)
}

func dispatch(h Handler, rec fastedge.RequestRecord) fastedge.ResponseRecord {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := requestFromRecord(rec)
	if err != nil {
		return internalError("http request decode error")
	}

	resp, err := h.ServeHTTP(ctx, req)
	if err != nil {
		return internalError(err.Error())
	}

	out, err := resp.toRecord()
	if err != nil {
		return internalError("http response encode error")
	}
	return out
}

// internalError is the bare 500 the host receives when the pipeline cannot
// produce the handler's own response. The header list is present but empty
// so the host applies none.
func internalError(msg string) fastedge.ResponseRecord {
	return fastedge.ResponseRecord{
		Status:  StatusInternalServerError,
		Headers: []fastedge.HeaderPair{},
		Body:    []byte(msg),
	}
}

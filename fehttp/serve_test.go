// Copyright 2024 G-Core Innovations SARL

package fehttp

import (
	"context"
	"errors"
	"testing"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

func TestDispatch(t *testing.T) {
	t.Parallel()

	h := HandlerFunc(func(ctx context.Context, r *Request) (*Response, error) {
		if ctx.Err() != nil {
			t.Error("handler context canceled before the handler returned")
		}
		resp := &Response{
			StatusCode: 201,
			Header:     NewHeader(),
			Body:       TextBody(r.URL.Path + "|" + r.Header.Get("x-echo")),
		}
		resp.Header.Set("x-handled", "yes")
		return resp, nil
	})

	rec := dispatch(h, fastedge.RequestRecord{
		Method:  fastedge.MethodGet,
		URI:     "https://example.com/hello",
		Headers: []fastedge.HeaderPair{{Name: "X-Echo", Value: "1"}},
	})

	if rec.Status != 201 {
		t.Errorf("status = %d, want 201", rec.Status)
	}
	if want, have := "/hello|1", string(rec.Body); want != have {
		t.Errorf("body: want %q, have %q", want, have)
	}
	if len(rec.Headers) != 1 || rec.Headers[0].Name != "x-handled" {
		t.Errorf("headers = %v, want the handler's pair", rec.Headers)
	}
}

func TestDispatchDecodeFault(t *testing.T) {
	t.Parallel()

	called := false
	h := HandlerFunc(func(ctx context.Context, r *Request) (*Response, error) {
		called = true
		return &Response{StatusCode: 200}, nil
	})

	rec := dispatch(h, fastedge.RequestRecord{URI: "://bad"})
	if called {
		t.Error("handler must not run when the request cannot be decoded")
	}
	if rec.Status != 500 {
		t.Errorf("status = %d, want 500", rec.Status)
	}
	if want, have := "http request decode error", string(rec.Body); want != have {
		t.Errorf("body: want %q, have %q", want, have)
	}
	if rec.Headers == nil || len(rec.Headers) != 0 {
		t.Errorf("headers = %v, want present but empty", rec.Headers)
	}
}

func TestDispatchHandlerError(t *testing.T) {
	t.Parallel()

	h := HandlerFunc(func(ctx context.Context, r *Request) (*Response, error) {
		return nil, errors.New("origin exploded")
	})

	rec := dispatch(h, fastedge.RequestRecord{URI: "https://example.com/"})
	if rec.Status != 500 {
		t.Errorf("status = %d, want 500", rec.Status)
	}
	if want, have := "origin exploded", string(rec.Body); want != have {
		t.Errorf("body: want %q, have %q", want, have)
	}
}

func TestDispatchEncodeFault(t *testing.T) {
	t.Parallel()

	for name, h := range map[string]HandlerFunc{
		"invalid status": func(ctx context.Context, r *Request) (*Response, error) {
			return &Response{}, nil
		},
		"nil response": func(ctx context.Context, r *Request) (*Response, error) {
			return nil, nil
		},
	} {
		rec := dispatch(h, fastedge.RequestRecord{URI: "https://example.com/"})
		if rec.Status != 500 {
			t.Errorf("%s: status = %d, want 500", name, rec.Status)
		}
		if want, have := "http response encode error", string(rec.Body); want != have {
			t.Errorf("%s: body: want %q, have %q", name, want, have)
		}
	}
}

func TestServeRegistersHandler(t *testing.T) {
	defer fastedge.RegisterProcess(nil)

	ServeFunc(func(ctx context.Context, r *Request) (*Response, error) {
		return &Response{StatusCode: 204}, nil
	})

	rec := fastedge.InvokeProcess(fastedge.RequestRecord{
		Method: fastedge.MethodGet,
		URI:    "https://example.com/x",
	})
	if rec.Status != 204 {
		t.Errorf("status = %d, want 204", rec.Status)
	}
}

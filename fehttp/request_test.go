// Copyright 2024 G-Core Innovations SARL

package fehttp

import (
	"errors"
	"reflect"
	"testing"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

func TestRequestToRecord(t *testing.T) {
	t.Parallel()

	req, err := NewRequest("POST", "https://example.com/items?x=1", TextBody("payload"))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Add("X-One", "1")

	rec, err := req.toRecord()
	if err != nil {
		t.Fatalf("toRecord: %v", err)
	}
	if rec.Method != fastedge.MethodPost {
		t.Errorf("method tag = %v, want %v", rec.Method, fastedge.MethodPost)
	}
	if want, have := "https://example.com/items?x=1", rec.URI; want != have {
		t.Errorf("uri: want %q, have %q", want, have)
	}
	if want, have := "payload", string(rec.Body); want != have {
		t.Errorf("body: want %q, have %q", want, have)
	}
	if len(rec.Headers) != 1 || rec.Headers[0].Name != "x-one" {
		t.Errorf("headers = %v, want the lowercased pair", rec.Headers)
	}
}

func TestMethodRoundTrip(t *testing.T) {
	t.Parallel()

	for _, m := range []string{"GET", "POST", "PUT", "DELETE", "HEAD", "PATCH", "OPTIONS"} {
		req, err := NewRequest(m, "https://example.com/", Body{})
		if err != nil {
			t.Fatalf("NewRequest(%s): %v", m, err)
		}
		rec, err := req.toRecord()
		if err != nil {
			t.Fatalf("toRecord(%s): %v", m, err)
		}
		back, err := requestFromRecord(rec)
		if err != nil {
			t.Fatalf("requestFromRecord(%s): %v", m, err)
		}
		if back.Method != m {
			t.Errorf("round trip: want %q, have %q", m, back.Method)
		}
	}
}

func TestUnsupportedMethod(t *testing.T) {
	t.Parallel()

	_, err := NewRequest("CONNECT", "https://example.com/", Body{})
	e, ok := err.(UnsupportedMethodError)
	if !ok {
		t.Fatalf("err = %v, want UnsupportedMethodError", err)
	}
	if e.Method != "CONNECT" {
		t.Errorf("method = %q, want CONNECT", e.Method)
	}
	if want, have := "method `CONNECT` is not supported", err.Error(); want != have {
		t.Errorf("text: want %q, have %q", want, have)
	}
}

func TestRequestFromRecord(t *testing.T) {
	t.Parallel()

	rec := fastedge.RequestRecord{
		Method: fastedge.MethodGet,
		URI:    "https://example.com/p?q=2",
		Headers: []fastedge.HeaderPair{
			{Name: "X-A", Value: "1"},
			{Name: "x-a", Value: "2"},
		},
	}
	req, err := requestFromRecord(rec)
	if err != nil {
		t.Fatalf("requestFromRecord: %v", err)
	}
	if want, have := "GET", req.Method; want != have {
		t.Errorf("method: want %q, have %q", want, have)
	}
	if want, have := "/p", req.URL.Path; want != have {
		t.Errorf("path: want %q, have %q", want, have)
	}
	if want, have := "q=2", req.URL.RawQuery; want != have {
		t.Errorf("query: want %q, have %q", want, have)
	}
	if got, want := req.Header.Values("x-a"), []string{"1", "2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("x-a: got %q, want %q", got, want)
	}
	if req.Body.Len() != 0 {
		t.Errorf("absent wire body must lift to an empty Body, have %d bytes", req.Body.Len())
	}
}

func TestRequestFromRecordBadURI(t *testing.T) {
	t.Parallel()

	_, err := requestFromRecord(fastedge.RequestRecord{URI: "://bad"})
	if !errors.Is(err, ErrInvalidBody) {
		t.Errorf("err = %v, want ErrInvalidBody", err)
	}
}

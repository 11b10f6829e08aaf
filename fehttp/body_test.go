// Copyright 2024 G-Core Innovations SARL

package fehttp

import "testing"

func TestBodyContentTypes(t *testing.T) {
	t.Parallel()

	if want, have := "text/plain; charset=utf-8", TextBody("hi").ContentType(); want != have {
		t.Errorf("text: want %q, have %q", want, have)
	}
	if want, have := "application/octet-stream", BinaryBody([]byte{1}).ContentType(); want != have {
		t.Errorf("binary: want %q, have %q", want, have)
	}

	b, err := JSONBody(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("JSONBody: %v", err)
	}
	if want, have := "application/json", b.ContentType(); want != have {
		t.Errorf("json: want %q, have %q", want, have)
	}
	if want, have := `{"a":1}`, b.String(); want != have {
		t.Errorf("json payload: want %q, have %q", want, have)
	}
}

func TestBodyZeroValue(t *testing.T) {
	t.Parallel()

	var b Body
	if b.Len() != 0 || b.Bytes() != nil {
		t.Errorf("zero body must be empty, have %d bytes", b.Len())
	}
	if want, have := "text/plain; charset=utf-8", b.ContentType(); want != have {
		t.Errorf("zero body content type: want %q, have %q", want, have)
	}
}

func TestJSONBodyError(t *testing.T) {
	t.Parallel()

	if _, err := JSONBody(make(chan int)); err == nil {
		t.Error("expected an error for an unencodable value")
	}
}

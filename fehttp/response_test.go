// Copyright 2024 G-Core Innovations SARL

package fehttp

import (
	"testing"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

func TestResponseToRecord(t *testing.T) {
	t.Parallel()

	resp := &Response{StatusCode: 200}
	rec, err := resp.toRecord()
	if err != nil {
		t.Fatalf("toRecord: %v", err)
	}
	if rec.Headers != nil {
		t.Error("an empty header set must lower to an absent option")
	}
	if rec.Body == nil {
		t.Error("the body must always be present on the wire")
	}

	resp = &Response{StatusCode: 302, Header: NewHeader(), Body: TextBody("moved")}
	resp.Header.Set("Location", "/new")
	rec, err = resp.toRecord()
	if err != nil {
		t.Fatalf("toRecord: %v", err)
	}
	if len(rec.Headers) != 1 || rec.Headers[0].Name != "location" {
		t.Errorf("headers = %v, want the location pair", rec.Headers)
	}
	if want, have := "moved", string(rec.Body); want != have {
		t.Errorf("body: want %q, have %q", want, have)
	}
}

func TestResponseToRecordInvalidStatus(t *testing.T) {
	t.Parallel()

	for _, code := range []int{0, 99, 600, -1, 70000} {
		resp := &Response{StatusCode: code}
		if _, err := resp.toRecord(); err == nil {
			t.Errorf("status %d: expected an error", code)
		}
	}

	var nilResp *Response
	if _, err := nilResp.toRecord(); err == nil {
		t.Error("nil response: expected an error")
	}
}

func TestResponseFromRecordStatusRange(t *testing.T) {
	t.Parallel()

	for _, status := range []uint32{100, 200, 404, 599} {
		resp, err := responseFromRecord(fastedge.ResponseRecord{Status: status})
		if err != nil {
			t.Fatalf("status %d: %v", status, err)
		}
		if resp.StatusCode != int(status) {
			t.Errorf("status: want %d, have %d", status, resp.StatusCode)
		}
	}

	for _, status := range []uint32{0, 99, 600} {
		_, err := responseFromRecord(fastedge.ResponseRecord{Status: status})
		e, ok := err.(InvalidStatusCodeError)
		if !ok {
			t.Fatalf("status %d: err = %v, want InvalidStatusCodeError", status, err)
		}
		if e.Code != int(status) {
			t.Errorf("code = %d, want %d", e.Code, status)
		}
	}
}

func TestResponseFromRecordHeaders(t *testing.T) {
	t.Parallel()

	rec := fastedge.ResponseRecord{
		Status: 200,
		Headers: []fastedge.HeaderPair{
			{Name: "Set-Cookie", Value: "a=1"},
			{Name: "set-cookie", Value: "b=2"},
		},
		Body: []byte("ok"),
	}
	resp, err := responseFromRecord(rec)
	if err != nil {
		t.Fatalf("responseFromRecord: %v", err)
	}
	if got := resp.Header.Values("set-cookie"); len(got) != 2 {
		t.Errorf("set-cookie: got %q, want both values", got)
	}
	if want, have := "ok", resp.Body.String(); want != have {
		t.Errorf("body: want %q, have %q", want, have)
	}
	if want, have := "application/octet-stream", resp.Body.ContentType(); want != have {
		t.Errorf("lifted body content type: want %q, have %q", want, have)
	}
}

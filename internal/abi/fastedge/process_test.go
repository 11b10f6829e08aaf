// Copyright 2024 G-Core Innovations SARL

package fastedge

import "testing"

func TestInvokeProcess(t *testing.T) {
	defer RegisterProcess(nil)
	RegisterProcess(func(req RequestRecord) ResponseRecord {
		return ResponseRecord{
			Status:  204,
			Headers: []HeaderPair{{Name: "echo-uri", Value: req.URI}},
		}
	})

	resp := InvokeProcess(RequestRecord{Method: MethodGet, URI: "/ping"})
	if resp.Status != 204 {
		t.Errorf("status = %d, want 204", resp.Status)
	}
	if len(resp.Headers) != 1 || resp.Headers[0].Value != "/ping" {
		t.Errorf("headers = %v, want the echoed uri", resp.Headers)
	}
}

func TestInvokeProcessNoHandler(t *testing.T) {
	resp := InvokeProcess(RequestRecord{Method: MethodGet, URI: "/"})
	if resp.Status != 500 {
		t.Errorf("status = %d, want 500", resp.Status)
	}
	if string(resp.Body) != "no request handler" {
		t.Errorf("body = %q, want the fallback text", resp.Body)
	}
	if resp.Headers == nil {
		t.Error("fallback response must carry a present header list")
	}
}

// Copyright 2024 G-Core Innovations SARL

package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/G-Core/FastEdge-sdk-go/fehttp"
)

// maxResponseBody caps how much of an origin response the runner buffers
// before handing it to the guest.
const maxResponseBody = 32 << 20

// Transport adapts net/http into the fixture host's outbound hook,
// enforcing the fixture's host allowlist. An empty allowlist permits any
// destination.
func Transport(client *http.Client, allowedHosts []string) func(*fehttp.Request) (*fehttp.Response, error) {
	return func(req *fehttp.Request) (*fehttp.Response, error) {
		if !hostAllowed(allowedHosts, req.URL.Hostname()) {
			return nil, fehttp.HostError{Code: fehttp.ErrorCodeDestinationNotAllowed}
		}

		hreq, err := http.NewRequest(req.Method, req.URL.String(), bytes.NewReader(req.Body.Bytes()))
		if err != nil {
			return nil, fehttp.HostError{Code: fehttp.ErrorCodeInvalidURL}
		}
		for _, k := range req.Header.Keys() {
			for _, v := range req.Header.Values(k) {
				hreq.Header.Add(k, v)
			}
		}

		hresp, err := client.Do(hreq)
		if err != nil {
			if isTimeout(err) {
				return nil, fehttp.HostError{Code: fehttp.ErrorCodeTimeout}
			}
			return nil, fehttp.HostError{Code: fehttp.ErrorCodeInternal}
		}
		defer hresp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(hresp.Body, maxResponseBody))
		if err != nil {
			return nil, fehttp.HostError{Code: fehttp.ErrorCodeInternal}
		}

		resp := &fehttp.Response{
			StatusCode: hresp.StatusCode,
			Header:     fehttp.NewHeader(),
			Body:       fehttp.BinaryBody(body),
		}
		for name, vals := range hresp.Header {
			for _, v := range vals {
				resp.Header.Add(name, v)
			}
		}
		return resp, nil
	}
}

func hostAllowed(allowed []string, host string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(a, host) {
			return true
		}
	}
	return false
}

func isTimeout(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
}

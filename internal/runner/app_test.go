// Copyright 2024 G-Core Innovations SARL

package runner

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

func TestRequestRecord(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "http://app.test/items?limit=5", strings.NewReader("payload"))
	r.Header.Set("X-B", "2")
	r.Header.Set("X-A", "1")

	rec, err := requestRecord(r, httptest.NewRecorder())
	require.NoError(t, err)

	assert.Equal(t, fastedge.MethodPost, rec.Method)
	assert.Equal(t, "http://app.test/items?limit=5", rec.URI)
	assert.Equal(t, []byte("payload"), rec.Body)

	// Names arrive sorted so runs are reproducible.
	var names []string
	for _, p := range rec.Headers {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"X-A", "X-B"}, names)
}

func TestRequestRecordBodylessIsAbsent(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "http://app.test/", nil)
	rec, err := requestRecord(r, httptest.NewRecorder())
	require.NoError(t, err)
	assert.Nil(t, rec.Body)
}

func TestRequestRecordRejectsConnect(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("CONNECT", "http://app.test/", nil)
	_, err := requestRecord(r, httptest.NewRecorder())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONNECT")
}

func TestLogWriterSplitsLines(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))

	w := &logWriter{logger: logger, stream: "stdout"}
	w.Write([]byte("first li"))
	w.Write([]byte("ne\nsecond line\npart"))

	logged := out.String()
	assert.Contains(t, logged, "first line")
	assert.Contains(t, logged, "second line")
	assert.NotContains(t, logged, "part")

	w.Write([]byte("ial\n"))
	assert.Contains(t, out.String(), "partial")
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), []byte("not a wasm binary"), Options{
		Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile guest")
}

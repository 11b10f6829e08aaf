// Copyright 2024 G-Core Innovations SARL

// Package runner is a development host for FastEdge applications. It loads
// a guest binary, provisions it from a fixture document, and serves it over
// plain HTTP, instantiating a fresh guest instance per request the way the
// platform does.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/G-Core/FastEdge-sdk-go/fetest"
	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
	"github.com/G-Core/FastEdge-sdk-go/internal/runner/fixture"
	"github.com/G-Core/FastEdge-sdk-go/internal/runner/hostserv"
)

// maxRequestBody caps how much of a client request body the runner buffers
// before handing it to the guest.
const maxRequestBody = 32 << 20

// Options configures an App.
type Options struct {
	// Fixture provisions the host services. Nil means an empty document:
	// nothing provisioned, outbound open to any host.
	Fixture *fixture.Document

	// Logger receives runner and guest output. Nil means slog.Default().
	Logger *slog.Logger

	// HTTPClient performs outbound requests on the guest's behalf. Nil
	// means a client with a 30 second timeout.
	HTTPClient *http.Client
}

// App is one loaded guest application. It implements http.Handler; each
// served request runs in a fresh guest instance.
type App struct {
	rt       wazero.Runtime
	compiled wazero.CompiledModule
	host     *fetest.Host
	env      map[string]string
	logger   *slog.Logger
}

// Load compiles a guest binary and prepares the host environment around it.
// Close must be called when the app is no longer needed.
func Load(ctx context.Context, wasm []byte, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	doc := opts.Fixture
	if doc == nil {
		doc = &fixture.Document{}
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	host := doc.Host()
	host.Transport = Transport(client, doc.AllowedHosts)

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("instantiate wasi: %w", err)
	}
	serv := &hostserv.Serv{Host: host, Logger: logger}
	if err := serv.Instantiate(ctx, rt); err != nil {
		rt.Close(ctx)
		return nil, err
	}

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("compile guest: %w", err)
	}

	return &App{
		rt:       rt,
		compiled: compiled,
		host:     host,
		env:      doc.Env,
		logger:   logger,
	}, nil
}

// LoadFile is Load for a guest binary on disk.
func LoadFile(ctx context.Context, path string, opts Options) (*App, error) {
	wasm, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guest binary: %w", err)
	}
	return Load(ctx, wasm, opts)
}

// Close releases the runtime and everything compiled into it.
func (a *App) Close(ctx context.Context) error {
	return a.rt.Close(ctx)
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := ulid.Make().String()
	logger := a.logger.With("request_id", id)
	start := time.Now()

	rec, err := requestRecord(r, w)
	if err != nil {
		var unsupported unsupportedMethodError
		if errors.As(err, &unsupported) {
			http.Error(w, err.Error(), http.StatusMethodNotAllowed)
			return
		}
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	out, err := a.invoke(r.Context(), rec, logger)
	if err != nil {
		logger.Error("guest invocation failed", "error", err)
		http.Error(w, "guest invocation failed", http.StatusBadGateway)
		return
	}
	if out.Status < 100 || out.Status > 599 {
		logger.Error("guest returned an invalid status", "status", out.Status)
		http.Error(w, "invalid guest response", http.StatusBadGateway)
		return
	}

	for _, p := range out.Headers {
		w.Header().Add(p.Name, p.Value)
	}
	w.WriteHeader(int(out.Status))
	w.Write(out.Body)

	logger.Info("request served",
		"method", r.Method,
		"path", r.URL.Path,
		"status", out.Status,
		"duration", time.Since(start),
	)
}

// invoke runs one request through a fresh guest instance.
func (a *App) invoke(ctx context.Context, rec fastedge.RequestRecord, logger *slog.Logger) (fastedge.ResponseRecord, error) {
	cfg := wazero.NewModuleConfig().
		WithName("").
		WithStdout(&logWriter{logger: logger, stream: "stdout"}).
		WithStderr(&logWriter{logger: logger, stream: "stderr"}).
		WithStartFunctions()
	for k, v := range a.env {
		cfg = cfg.WithEnv(k, v)
	}

	mod, err := a.rt.InstantiateModule(ctx, a.compiled, cfg)
	if err != nil {
		return fastedge.ResponseRecord{}, fmt.Errorf("instantiate guest: %w", err)
	}
	defer mod.Close(ctx)

	if err := startGuest(ctx, mod); err != nil {
		return fastedge.ResponseRecord{}, err
	}

	proc := mod.ExportedFunction("process")
	if proc == nil {
		return fastedge.ResponseRecord{}, errors.New("guest does not export process")
	}

	args, err := hostserv.LowerRequest(ctx, mod, rec)
	if err != nil {
		return fastedge.ResponseRecord{}, fmt.Errorf("lower request: %w", err)
	}
	results, err := proc.Call(ctx, args...)
	if err != nil {
		return fastedge.ResponseRecord{}, fmt.Errorf("process: %w", err)
	}
	if len(results) == 0 {
		return fastedge.ResponseRecord{}, errors.New("process returned no result")
	}
	return hostserv.LiftResponse(mod, uint32(results[0]))
}

// startGuest runs the guest's initializer. Reactor builds export
// _initialize; command builds export _start, whose clean exit is not an
// error.
func startGuest(ctx context.Context, mod api.Module) error {
	if fn := mod.ExportedFunction("_initialize"); fn != nil {
		if _, err := fn.Call(ctx); err != nil {
			return fmt.Errorf("_initialize: %w", err)
		}
		return nil
	}
	if fn := mod.ExportedFunction("_start"); fn != nil {
		if _, err := fn.Call(ctx); err != nil {
			var exit *sys.ExitError
			if errors.As(err, &exit) && exit.ExitCode() == 0 {
				return nil
			}
			return fmt.Errorf("_start: %w", err)
		}
	}
	return nil
}

type unsupportedMethodError struct {
	method string
}

func (e unsupportedMethodError) Error() string {
	return fmt.Sprintf("method %s is not supported", e.method)
}

// requestRecord flattens an incoming client request. Header names come back
// sorted: net/http keeps them in a map, and a stable order makes runs
// reproducible.
func requestRecord(r *http.Request, w http.ResponseWriter) (fastedge.RequestRecord, error) {
	method, ok := fastedge.ParseMethod(r.Method)
	if !ok {
		return fastedge.RequestRecord{}, unsupportedMethodError{method: r.Method}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		return fastedge.RequestRecord{}, fmt.Errorf("read request body: %w", err)
	}

	rec := fastedge.RequestRecord{
		Method:  method,
		URI:     requestURI(r),
		Headers: headerPairs(r.Header),
	}
	if len(body) > 0 {
		rec.Body = body
	}
	return rec, nil
}

// requestURI rebuilds the absolute URL the client used. The guest sees full
// URLs, as it does on the platform.
func requestURI(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func headerPairs(h http.Header) []fastedge.HeaderPair {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]fastedge.HeaderPair, 0, len(h))
	for _, name := range names {
		for _, v := range h[name] {
			pairs = append(pairs, fastedge.HeaderPair{Name: name, Value: v})
		}
	}
	return pairs
}

// logWriter forwards whole guest output lines to the logger.
type logWriter struct {
	logger *slog.Logger
	stream string

	mu  sync.Mutex
	buf []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(string(w.buf[:i]), "\r")
		if line != "" {
			w.logger.Info("guest output", "stream", w.stream, "line", line)
		}
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Copyright 2024 G-Core Innovations SARL

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/G-Core/FastEdge-sdk-go/internal/runner"
	"github.com/G-Core/FastEdge-sdk-go/internal/runner/fixture"
)

var serveCmd = &cobra.Command{
	Use:   "serve <app.wasm>",
	Short: "Serve a guest application over HTTP",
	Long: `Serve loads a FastEdge guest binary and answers HTTP requests with it,
instantiating a fresh guest per request the way the platform does.

Dictionary entries, secrets, key-value stores, the app environment and the
outbound allowlist come from a YAML fixture file:

    dictionary:
      origin: https://api.example.com
    secrets:
      api-key: hunter2
    stores:
      default:
        values:
          greeting: hello
    allowed_hosts:
      - api.example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "127.0.0.1:8181", "address to serve on")
	serveCmd.Flags().String("fixture", "", "YAML fixture file provisioning host services")
	serveCmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")
	serveCmd.Flags().String("log-format", "text", "log format: text or json")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := buildLogger(v.GetString("log-level"), v.GetString("log-format"))
	if err != nil {
		return err
	}

	doc := &fixture.Document{}
	if path := v.GetString("fixture"); path != "" {
		doc, err = fixture.Load(path)
		if err != nil {
			return fmt.Errorf("load fixture: %w", err)
		}
	}

	app, err := runner.LoadFile(cmd.Context(), args[0], runner.Options{
		Fixture: doc,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	addr := v.GetString("listen")
	srv := &http.Server{Addr: addr, Handler: app}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logger.Info("serving", "addr", addr, "app", args[0])

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("log format %q: want text or json", format)
	}
}

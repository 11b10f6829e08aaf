// Copyright 2024 G-Core Innovations SARL

// Package fehttp provides HTTP functionality for Gcore's FastEdge
// environment.
//
// A FastEdge application is an HTTP request handler. Each execution is
// triggered by one incoming client request and produces exactly one
// response. The Serve function registers a Handler for the host to drive;
// handlers return a Response value rather than writing to a stream, because
// the boundary exchanges whole messages.
//
// The types in this package are similar to, but not the same as,
// corresponding types in the standard library's package net/http. Refer to
// the documentation for important caveats about usage.
package fehttp

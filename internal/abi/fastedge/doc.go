// Copyright 2024 G-Core Innovations SARL

// Package fastedge provides access to the FastEdge hostcall ABI.
//
// The SDK is modeled in layers. Each layer has a single purpose. This package
// is the lowest layer, and its singular purpose is to adapt each FastEdge
// boundary crossing to a function which is basically idiomatic Go.
//
// Two boundary styles coexist. HTTP delivery and the outbound client use the
// structured interface of the gcore:fastedge world: flat request/response
// records marshalled through linear memory, with the host driving the exported
// process function. The auxiliary services (dictionary, secrets, key-value
// store, diagnostics) use raw exported functions with out-pointer parameters
// and per-call status tables.
//
// Buffers handed back by the host are allocated through the guest's exported
// allocator and adopted exactly once; see arena.go for the transfer protocol.
//
// This package is not and should not be user-accessible. All features,
// capabilities, etc. that should be accessible by users should be made
// available via separate packages that treat this package as a dependency.
package fastedge

// Copyright 2024 G-Core Innovations SARL

// Package prim contains primitive types used in Wasm ABI functions. It acts as
// a common dependency for package fastedge, which provides access to hostcalls
// specific to the FastEdge environment.
package prim

// Copyright 2024 G-Core Innovations SARL

// Package kvstore provides access to the key-value stores attached to the
// application.
//
// A store holds plain values, sorted sets queried by score range or member
// pattern, and Bloom filters. All access is read-only at runtime.
package kvstore

import (
	"errors"
	"fmt"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

var (
	// ErrStoreNotFound indicates the named store doesn't exist.
	ErrStoreNotFound = errors.New("store not found")

	// ErrAccessDenied indicates the application may not use the named
	// store.
	ErrAccessDenied = errors.New("access denied")

	// ErrKeyNotFound indicates a key isn't in the store.
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnexpected indicates an unexpected error occurred.
	ErrUnexpected = errors.New("unexpected error")
)

// ErrMalformedList reports a multi-value result the host encoded wrongly,
// re-exported from the boundary package for errors.Is checks.
var ErrMalformedList = fastedge.ErrMalformedList

// ScoredMember is one member of a sorted set together with its score.
type ScoredMember struct {
	Value []byte
	Score float64
}

// Store is a handle to an open key-value store.
type Store struct {
	h fastedge.KVHandle
}

// Open returns the key-value store with the given name. Names are case
// sensitive.
func Open(name string) (*Store, error) {
	status, h := fastedge.KVStoreOpen(name)
	switch status {
	case fastedge.StatusOK:
		return &Store{h: h}, nil
	case fastedge.StatusNotFound:
		return nil, ErrStoreNotFound
	case fastedge.StatusDenied:
		return nil, ErrAccessDenied
	default:
		return nil, fmt.Errorf("%w (%s)", ErrUnexpected, status)
	}
}

// OpenDefault returns the store every application is provisioned with.
func OpenDefault() (*Store, error) {
	return Open("default")
}

// Get returns the value in the store with the given key, if it exists. A
// missing key and a store failure are distinct: only the former is
// ErrKeyNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	if s == nil {
		return nil, ErrKeyNotFound
	}

	status, val := fastedge.KVStoreGet(s.h, key)
	if status != fastedge.StatusOK {
		return nil, fmt.Errorf("%w (%s)", ErrUnexpected, status)
	}
	if val == nil {
		return nil, ErrKeyNotFound
	}
	return val, nil
}

// Scan returns the keys in the store matching a glob pattern, for example
// "session:*". An empty result is not an error.
func (s *Store) Scan(pattern string) ([]string, error) {
	if s == nil {
		return nil, nil
	}

	status, raw := fastedge.KVStoreScan(s.h, pattern)
	if status != fastedge.StatusOK {
		return nil, fmt.Errorf("%w (%s)", ErrUnexpected, status)
	}
	items, err := fastedge.DecodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = string(item)
	}
	return keys, nil
}

// ZRangeByScore returns the members of the sorted set at key whose scores
// fall within [min, max], in ascending score order. A missing key is an
// empty result, not an error.
func (s *Store) ZRangeByScore(key string, min, max float64) ([]ScoredMember, error) {
	if s == nil {
		return nil, nil
	}

	status, raw := fastedge.KVStoreZRangeByScore(s.h, key, min, max)
	if status != fastedge.StatusOK {
		return nil, fmt.Errorf("%w (%s)", ErrUnexpected, status)
	}
	return scoredMembers(raw)
}

// ZScan returns the members of the sorted set at key whose values match a
// glob pattern, together with their scores.
func (s *Store) ZScan(key, pattern string) ([]ScoredMember, error) {
	if s == nil {
		return nil, nil
	}

	status, raw := fastedge.KVStoreZScan(s.h, key, pattern)
	if status != fastedge.StatusOK {
		return nil, fmt.Errorf("%w (%s)", ErrUnexpected, status)
	}
	return scoredMembers(raw)
}

// BFExists reports whether item was probably added to the Bloom filter at
// key. False positives are possible by construction; false negatives are
// not.
func (s *Store) BFExists(key, item string) (bool, error) {
	if s == nil {
		return false, nil
	}

	status, exists := fastedge.KVStoreBFExists(s.h, key, item)
	if status != fastedge.StatusOK {
		return false, fmt.Errorf("%w (%s)", ErrUnexpected, status)
	}
	return exists != 0, nil
}

func scoredMembers(raw []byte) ([]ScoredMember, error) {
	items, err := fastedge.DecodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	members := make([]ScoredMember, len(items))
	for i, item := range items {
		value, score := fastedge.SplitScore(item)
		members[i] = ScoredMember{Value: value, Score: score}
	}
	return members, nil
}

// Copyright 2024 G-Core Innovations SARL

// Package dictionary provides read access to the application's settings
// dictionary.
//
// The dictionary is configured per application and is read-only at runtime.
package dictionary

import (
	"errors"
	"fmt"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// ErrKeyNotFound indicates a key isn't in the dictionary. A key configured
// with no value reports the same error.
var ErrKeyNotFound = errors.New("key not found")

// Get returns the value in the dictionary with the given key, if it exists.
// Keys are case sensitive.
func Get(key string) (string, error) {
	buf, err := GetBytes(key)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// GetBytes returns the value in the dictionary for the given key, if it
// exists, as a byte slice.
func GetBytes(key string) ([]byte, error) {
	status, val := fastedge.DictionaryGet(key)
	switch status {
	case fastedge.StatusOK:
		if val == nil {
			return nil, ErrKeyNotFound
		}
		return val, nil
	case fastedge.StatusNotFound:
		return nil, ErrKeyNotFound
	default:
		// The host defines no other statuses for this call; there is
		// nothing sensible to limp along with.
		panic(fmt.Sprintf("unexpected status: %d", status))
	}
}

// Copyright 2024 G-Core Innovations SARL

package fehttp

import (
	"strings"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// Header represents the key-value pairs in a set of HTTP headers. Unlike
// net/http, keys are normalized to their lowercase wire form, and iteration
// order is defined: names appear in first-insertion order, with every value
// of a name grouped together.
type Header struct {
	names  []string
	values map[string][]string
}

// NewHeader returns an initialized and empty set of headers.
func NewHeader() *Header {
	return &Header{values: map[string][]string{}}
}

// Add adds the key, value pair to the headers. It appends to any existing
// values associated with key. The key is case insensitive; it is stored in
// its lowercase form.
func (h *Header) Add(key, value string) {
	key = strings.ToLower(key)
	if h.values == nil {
		h.values = map[string][]string{}
	}
	if _, ok := h.values[key]; !ok {
		h.names = append(h.names, key)
	}
	h.values[key] = append(h.values[key], value)
}

// Set sets the header entries associated with key to the single element
// value. It replaces any existing values associated with key. The key is
// case insensitive; it is stored in its lowercase form.
func (h *Header) Set(key, value string) {
	key = strings.ToLower(key)
	if h.values == nil {
		h.values = map[string][]string{}
	}
	if _, ok := h.values[key]; !ok {
		h.names = append(h.names, key)
	}
	h.values[key] = []string{value}
}

// Get gets the first value associated with the given key. The key is case
// insensitive. If there are no values associated with the key, Get returns
// "".
func (h *Header) Get(key string) string {
	if h == nil {
		return ""
	}
	if values := h.values[strings.ToLower(key)]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Values returns all values associated with the given key, in the order they
// were added. The key is case insensitive. The returned slice is not a copy.
func (h *Header) Values(key string) []string {
	if h == nil {
		return nil
	}
	return h.values[strings.ToLower(key)]
}

// Del deletes the values associated with key. The key is case insensitive.
func (h *Header) Del(key string) {
	if h == nil {
		return
	}
	key = strings.ToLower(key)
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	for i, name := range h.names {
		if name == key {
			h.names = append(h.names[:i], h.names[i+1:]...)
			break
		}
	}
}

// Keys returns all keys in the header collection, in first-insertion order.
func (h *Header) Keys() []string {
	if h == nil {
		return nil
	}
	keys := make([]string, len(h.names))
	copy(keys, h.names)
	return keys
}

// Len returns the number of distinct header names.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Clone returns a copy of the headers.
func (h *Header) Clone() *Header {
	clone := NewHeader()
	if h == nil {
		return clone
	}
	for _, name := range h.names {
		for _, value := range h.values[name] {
			clone.Add(name, value)
		}
	}
	return clone
}

// pairs flattens the headers into wire order: names in first-insertion
// order, every value of a name grouped under it.
func (h *Header) pairs() []fastedge.HeaderPair {
	if h == nil || len(h.names) == 0 {
		return nil
	}
	out := make([]fastedge.HeaderPair, 0, len(h.names))
	for _, name := range h.names {
		for _, value := range h.values[name] {
			out = append(out, fastedge.HeaderPair{Name: name, Value: value})
		}
	}
	return out
}

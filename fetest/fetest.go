// Copyright 2024 G-Core Innovations SARL

// Package fetest provides utilities for testing FastEdge applications
// off-platform.
//
// In native builds the platform hostcalls are routed through a process-wide
// host that fails every call. Installing a Host replaces that routing with
// an in-memory fake, so handlers, store access and the outbound HTTP client
// can be exercised with ordinary go test.
package fetest

import (
	"encoding/binary"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/G-Core/FastEdge-sdk-go/fehttp"
	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// SecretVersion is one version of a secret, effective from a point in time
// onwards.
type SecretVersion struct {
	Value         string
	EffectiveFrom time.Time
}

// StoreData is the content of one key-value store.
type StoreData struct {
	// Denied marks a store that exists but may not be opened by the
	// application.
	Denied bool

	// Values holds the plain keys.
	Values map[string]string

	// ZSets maps a key to the members of its sorted set and their scores.
	ZSets map[string]map[string]float64

	// Blooms maps a key to the items of its Bloom filter. The fake answers
	// membership exactly; it never produces the false positives a real
	// filter may.
	Blooms map[string]map[string]bool
}

// Host is an in-memory stand-in for the FastEdge platform. The zero value
// is a host with nothing provisioned: lookups miss, opens fail and sends
// error.
type Host struct {
	// Dictionary holds the application settings.
	Dictionary map[string]string

	// Secrets maps secret names to their versions, in any order.
	Secrets map[string][]SecretVersion

	// Stores maps store names to contents. kvstore.OpenDefault reaches for
	// "default".
	Stores map[string]*StoreData

	// Transport answers outbound exchanges. A nil Transport fails every
	// send with the unknown error code.
	Transport func(*fehttp.Request) (*fehttp.Response, error)

	// Diag collects the diagnostic messages set during the test, in order.
	Diag []string

	mu         sync.Mutex
	handles    map[fastedge.KVHandle]*StoreData
	nextHandle fastedge.KVHandle
}

// Install routes hostcalls to h. The returned function restores the
// default routing. The routing is process-wide, so tests that install a
// host must not run in parallel.
func (h *Host) Install() (restore func()) {
	fastedge.SetHost(h)
	return func() { fastedge.SetHost(nil) }
}

// statusBadHandle answers calls on a handle the fake never issued. Like the
// platform's own value for this case it is outside the documented set.
const statusBadHandle = fastedge.Status(100)

// DictionaryGet implements the dictionary lookup hostcall.
func (h *Host) DictionaryGet(key string) (fastedge.Status, []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if v, ok := h.Dictionary[key]; ok {
		return fastedge.StatusOK, []byte(v)
	}
	return fastedge.StatusNotFound, nil
}

// SecretGet implements the secret lookup hostcall.
func (h *Host) SecretGet(key string) (fastedge.Status, []byte) {
	return h.SecretGetEffectiveAt(key, uint32(time.Now().Unix()))
}

// SecretGetEffectiveAt implements the versioned secret lookup hostcall. A
// secret whose versions all lie in the future reports success with no
// value, exactly as the platform does.
func (h *Host) SecretGetEffectiveAt(key string, at uint32) (fastedge.Status, []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	versions, ok := h.Secrets[key]
	if !ok {
		return fastedge.StatusNotFound, nil
	}

	cutoff := time.Unix(int64(at), 0)
	var best *SecretVersion
	for i := range versions {
		v := &versions[i]
		if v.EffectiveFrom.After(cutoff) {
			continue
		}
		if best == nil || v.EffectiveFrom.After(best.EffectiveFrom) {
			best = v
		}
	}
	if best == nil {
		return fastedge.StatusOK, nil
	}
	return fastedge.StatusOK, []byte(best.Value)
}

// KVStoreOpen implements the store open hostcall.
func (h *Host) KVStoreOpen(name string) (fastedge.Status, fastedge.KVHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sd, ok := h.Stores[name]
	if !ok {
		return fastedge.StatusNotFound, 0
	}
	if sd.Denied {
		return fastedge.StatusDenied, 0
	}
	if h.handles == nil {
		h.handles = map[fastedge.KVHandle]*StoreData{}
	}
	h.nextHandle++
	h.handles[h.nextHandle] = sd
	return fastedge.StatusOK, h.nextHandle
}

// KVStoreGet implements the store read hostcall. A missing key is success
// with no value.
func (h *Host) KVStoreGet(handle fastedge.KVHandle, key string) (fastedge.Status, []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sd := h.handles[handle]
	if sd == nil {
		return statusBadHandle, nil
	}
	v, ok := sd.Values[key]
	if !ok {
		return fastedge.StatusOK, nil
	}
	return fastedge.StatusOK, []byte(v)
}

// KVStoreScan implements the key scan hostcall. Keys come back sorted so
// tests see a stable order.
func (h *Host) KVStoreScan(handle fastedge.KVHandle, pattern string) (fastedge.Status, []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sd := h.handles[handle]
	if sd == nil {
		return statusBadHandle, nil
	}

	var keys []string
	for k := range sd.Values {
		if matchGlob(pattern, k) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return fastedge.StatusOK, nil
	}
	sort.Strings(keys)

	items := make([][]byte, len(keys))
	for i, k := range keys {
		items[i] = []byte(k)
	}
	return fastedge.StatusOK, fastedge.AppendList(nil, items)
}

// KVStoreZRangeByScore implements the sorted-set range hostcall.
func (h *Host) KVStoreZRangeByScore(handle fastedge.KVHandle, key string, min, max float64) (fastedge.Status, []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sd := h.handles[handle]
	if sd == nil {
		return statusBadHandle, nil
	}
	return fastedge.StatusOK, encodeMembers(sd.ZSets[key], func(_ string, score float64) bool {
		return score >= min && score <= max
	})
}

// KVStoreZScan implements the sorted-set scan hostcall.
func (h *Host) KVStoreZScan(handle fastedge.KVHandle, key, pattern string) (fastedge.Status, []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sd := h.handles[handle]
	if sd == nil {
		return statusBadHandle, nil
	}
	return fastedge.StatusOK, encodeMembers(sd.ZSets[key], func(member string, _ float64) bool {
		return matchGlob(pattern, member)
	})
}

// KVStoreBFExists implements the Bloom filter hostcall.
func (h *Host) KVStoreBFExists(handle fastedge.KVHandle, key, item string) (fastedge.Status, uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sd := h.handles[handle]
	if sd == nil {
		return statusBadHandle, 0
	}
	if sd.Blooms[key][item] {
		return fastedge.StatusOK, 1
	}
	return fastedge.StatusOK, 0
}

// StatsSetUserDiag implements the diagnostics hostcall.
func (h *Host) StatsSetUserDiag(msg string) fastedge.Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Diag = append(h.Diag, msg)
	return fastedge.StatusOK
}

// encodeMembers wire-encodes the members of one sorted set that pass keep,
// in ascending score order with ties broken by member value. An empty
// selection encodes to no buffer at all.
func encodeMembers(zset map[string]float64, keep func(string, float64) bool) []byte {
	type entry struct {
		member string
		score  float64
	}
	var picked []entry
	for m, s := range zset {
		if keep(m, s) {
			picked = append(picked, entry{m, s})
		}
	}
	if len(picked) == 0 {
		return nil
	}
	sort.Slice(picked, func(i, j int) bool {
		if picked[i].score != picked[j].score {
			return picked[i].score < picked[j].score
		}
		return picked[i].member < picked[j].member
	})

	items := make([][]byte, len(picked))
	for i, e := range picked {
		items[i] = binary.LittleEndian.AppendUint64([]byte(e.member), math.Float64bits(e.score))
	}
	return fastedge.AppendList(nil, items)
}

// matchGlob reports whether s matches pattern, where '*' matches any run of
// bytes and '?' exactly one byte.
func matchGlob(pattern, s string) bool {
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == s[si]):
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == '*':
			star, mark = pi, si
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}

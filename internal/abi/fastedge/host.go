// Copyright 2024 G-Core Innovations SARL

package fastedge

// Host is the in-process stand-in for the FastEdge host used by builds
// without wasm hostcalls. Methods mirror the hostcall surface one to one,
// at the value level: statuses and buffers, with a nil buffer meaning the
// host produced no value.
//
// Package fetest provides the canonical implementation backed by fixture
// data; the default host fails every call the way an unprovisioned
// environment would.
type Host interface {
	DictionaryGet(key string) (Status, []byte)

	SecretGet(key string) (Status, []byte)
	SecretGetEffectiveAt(key string, at uint32) (Status, []byte)

	KVStoreOpen(name string) (Status, KVHandle)
	KVStoreGet(h KVHandle, key string) (Status, []byte)
	KVStoreScan(h KVHandle, pattern string) (Status, []byte)
	KVStoreZRangeByScore(h KVHandle, key string, min, max float64) (Status, []byte)
	KVStoreZScan(h KVHandle, key, pattern string) (Status, []byte)
	KVStoreBFExists(h KVHandle, key, item string) (Status, uint32)

	StatsSetUserDiag(msg string) Status

	SendRequest(req RequestRecord) (ResponseRecord, error)
}

var host Host = unavailableHost{}

// SetHost replaces the in-process host. It has no effect on wasm builds,
// where calls go to the real host instead; tests install a fetest host here.
func SetHost(h Host) {
	if h == nil {
		host = unavailableHost{}
		return
	}
	host = h
}

// unavailableHost answers every lookup with "not found" and fails outbound
// calls, which is how a guest with no provisioned services behaves.
type unavailableHost struct{}

func (unavailableHost) DictionaryGet(string) (Status, []byte) { return StatusNotFound, nil }

func (unavailableHost) SecretGet(string) (Status, []byte) { return StatusNotFound, nil }

func (unavailableHost) SecretGetEffectiveAt(string, uint32) (Status, []byte) {
	return StatusNotFound, nil
}

func (unavailableHost) KVStoreOpen(string) (Status, KVHandle) { return StatusNotFound, 0 }

func (unavailableHost) KVStoreGet(KVHandle, string) (Status, []byte) { return StatusOK, nil }

func (unavailableHost) KVStoreScan(KVHandle, string) (Status, []byte) { return StatusOK, nil }

func (unavailableHost) KVStoreZRangeByScore(KVHandle, string, float64, float64) (Status, []byte) {
	return StatusOK, nil
}

func (unavailableHost) KVStoreZScan(KVHandle, string, string) (Status, []byte) {
	return StatusOK, nil
}

func (unavailableHost) KVStoreBFExists(KVHandle, string, string) (Status, uint32) {
	return StatusOK, 0
}

func (unavailableHost) StatsSetUserDiag(string) Status { return StatusOK }

func (unavailableHost) SendRequest(RequestRecord) (ResponseRecord, error) {
	return ResponseRecord{}, HTTPError{Code: HTTPErrorUnknown}
}

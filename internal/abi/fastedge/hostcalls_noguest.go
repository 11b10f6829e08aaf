//go:build ((!tinygo.wasm || !wasi) && !wasip1) || nofastedgehostcalls

//revive:disable:exported

// Copyright 2024 G-Core Innovations SARL

package fastedge

// Value-level twins of the guest hostcall wrappers. They delegate to the
// process-wide Host so native builds and tests see the same surface the
// guest build does, without any pointer plumbing.

func DictionaryGet(key string) (Status, []byte) {
	return host.DictionaryGet(key)
}

func SecretGet(key string) (Status, []byte) {
	return host.SecretGet(key)
}

func SecretGetEffectiveAt(key string, at uint32) (Status, []byte) {
	return host.SecretGetEffectiveAt(key, at)
}

func KVStoreOpen(name string) (Status, KVHandle) {
	return host.KVStoreOpen(name)
}

func KVStoreGet(h KVHandle, key string) (Status, []byte) {
	return host.KVStoreGet(h, key)
}

func KVStoreScan(h KVHandle, pattern string) (Status, []byte) {
	return host.KVStoreScan(h, pattern)
}

func KVStoreZRangeByScore(h KVHandle, key string, min, max float64) (Status, []byte) {
	return host.KVStoreZRangeByScore(h, key, min, max)
}

func KVStoreZScan(h KVHandle, key, pattern string) (Status, []byte) {
	return host.KVStoreZScan(h, key, pattern)
}

func KVStoreBFExists(h KVHandle, key, item string) (Status, uint32) {
	return host.KVStoreBFExists(h, key, item)
}

func StatsSetUserDiag(msg string) Status {
	return host.StatsSetUserDiag(msg)
}

func SendRequest(req RequestRecord) (ResponseRecord, error) {
	return host.SendRequest(req)
}

//go:build ((tinygo.wasm && wasi) || wasip1) && !nofastedgehostcalls

// Copyright 2024 G-Core Innovations SARL

package fastedge

import (
	"github.com/G-Core/FastEdge-sdk-go/internal/abi/prim"
)

// adopt converts a written out-parameter pair into an owned buffer, taking
// the one ownership transfer the protocol allows. A null pointer under a
// success status means the host produced no value; under a failure status
// the out-parameters are meaningless and ignored.
func adopt(status Status, data prim.Pointer[prim.U8], n prim.Usize) []byte {
	if status != StatusOK || data == 0 {
		return nil
	}
	return arenaTake(uintptr(data), uint32(n))
}

// The raw boundary style imports everything from module "env" with C-shaped
// signatures. Variable-length results come back through a pointer/length
// out-parameter pair; the buffer behind the pointer was obtained from our
// exported allocator and is adopted via the arena.

// Dictionary lookup:
//
//	(import "env" "proxy_dictionary_get"
//	  (func (param $key_data i32) (param $key_len i32)
//	        (param $return_value_data i32) (param $return_value_len i32)
//	        (result i32)))
//
//go:wasmimport env proxy_dictionary_get
//go:noescape
func proxyDictionaryGet(
	keyData prim.Pointer[prim.U8], keyLen prim.Usize,
	returnValueData prim.Pointer[prim.Pointer[prim.U8]], returnValueLen prim.Pointer[prim.Usize],
) Status

// DictionaryGet looks up key in the application dictionary.
//
// Status table: 0 ok (null data when the key has no value), 1 key not found.
// Other statuses are undocumented.
func DictionaryGet(key string) (Status, []byte) {
	var (
		keyBuf  = prim.NewReadBufferFromString(key)
		retData prim.Pointer[prim.U8]
		retLen  prim.Usize
	)
	status := proxyDictionaryGet(
		keyBuf.U8Pointer(), keyBuf.Len(),
		prim.ToPointer(&retData), prim.ToPointer(&retLen),
	)
	return status, adopt(status, retData, retLen)
}

// Secret lookup:
//
//	(import "env" "proxy_secret_get"
//	  (func (param $key_data i32) (param $key_len i32)
//	        (param $return_value_data i32) (param $return_value_len i32)
//	        (result i32)))
//
//go:wasmimport env proxy_secret_get
//go:noescape
func proxySecretGet(
	keyData prim.Pointer[prim.U8], keyLen prim.Usize,
	returnValueData prim.Pointer[prim.Pointer[prim.U8]], returnValueLen prim.Pointer[prim.Usize],
) Status

// SecretGet returns the currently effective value of the named secret.
//
// Status table: 0 ok (null data when the secret has no value), 1 secret not
// found. Other statuses are undocumented.
func SecretGet(key string) (Status, []byte) {
	var (
		keyBuf  = prim.NewReadBufferFromString(key)
		retData prim.Pointer[prim.U8]
		retLen  prim.Usize
	)
	status := proxySecretGet(
		keyBuf.U8Pointer(), keyBuf.Len(),
		prim.ToPointer(&retData), prim.ToPointer(&retLen),
	)
	return status, adopt(status, retData, retLen)
}

// Versioned secret lookup:
//
//	(import "env" "proxy_secret_get_effective_at"
//	  (func (param $key_data i32) (param $key_len i32) (param $at i32)
//	        (param $return_value_data i32) (param $return_value_len i32)
//	        (result i32)))
//
//go:wasmimport env proxy_secret_get_effective_at
//go:noescape
func proxySecretGetEffectiveAt(
	keyData prim.Pointer[prim.U8], keyLen prim.Usize, at prim.U32,
	returnValueData prim.Pointer[prim.Pointer[prim.U8]], returnValueLen prim.Pointer[prim.Usize],
) Status

// SecretGetEffectiveAt returns the value of the named secret that was or
// will be effective at the given Unix timestamp.
//
// Status table: same as SecretGet.
func SecretGetEffectiveAt(key string, at uint32) (Status, []byte) {
	var (
		keyBuf  = prim.NewReadBufferFromString(key)
		retData prim.Pointer[prim.U8]
		retLen  prim.Usize
	)
	status := proxySecretGetEffectiveAt(
		keyBuf.U8Pointer(), keyBuf.Len(), prim.U32(at),
		prim.ToPointer(&retData), prim.ToPointer(&retLen),
	)
	return status, adopt(status, retData, retLen)
}

// Store open:
//
//	(import "env" "proxy_kv_store_open"
//	  (func (param $name_data i32) (param $name_len i32)
//	        (param $return_handle i32)
//	        (result i32)))
//
//go:wasmimport env proxy_kv_store_open
//go:noescape
func proxyKVStoreOpen(
	nameData prim.Pointer[prim.U8], nameLen prim.Usize,
	returnHandle prim.Pointer[prim.U32],
) Status

// KVStoreOpen opens the key-value store with the given name.
//
// Status table: 0 ok, 1 no such store, 2 access denied. Other statuses are
// implementation errors.
func KVStoreOpen(name string) (Status, KVHandle) {
	var (
		nameBuf = prim.NewReadBufferFromString(name)
		handle  prim.U32
	)
	status := proxyKVStoreOpen(nameBuf.U8Pointer(), nameBuf.Len(), prim.ToPointer(&handle))
	return status, KVHandle(handle)
}

// Store read:
//
//	(import "env" "proxy_kv_store_get"
//	  (func (param $handle i32)
//	        (param $key_data i32) (param $key_len i32)
//	        (param $return_value_data i32) (param $return_value_len i32)
//	        (result i32)))
//
//go:wasmimport env proxy_kv_store_get
//go:noescape
func proxyKVStoreGet(
	handle prim.U32,
	keyData prim.Pointer[prim.U8], keyLen prim.Usize,
	returnValueData prim.Pointer[prim.Pointer[prim.U8]], returnValueLen prim.Pointer[prim.Usize],
) Status

// KVStoreGet returns the value stored under key.
//
// Status table: 0 ok; a missing key is 0 with a null pointer, not a distinct
// status. Other statuses are implementation errors.
func KVStoreGet(h KVHandle, key string) (Status, []byte) {
	var (
		keyBuf  = prim.NewReadBufferFromString(key)
		retData prim.Pointer[prim.U8]
		retLen  prim.Usize
	)
	status := proxyKVStoreGet(
		prim.U32(h),
		keyBuf.U8Pointer(), keyBuf.Len(),
		prim.ToPointer(&retData), prim.ToPointer(&retLen),
	)
	return status, adopt(status, retData, retLen)
}

// Key scan:
//
//	(import "env" "proxy_kv_store_scan"
//	  (func (param $handle i32)
//	        (param $pattern_data i32) (param $pattern_len i32)
//	        (param $return_value_data i32) (param $return_value_len i32)
//	        (result i32)))
//
//go:wasmimport env proxy_kv_store_scan
//go:noescape
func proxyKVStoreScan(
	handle prim.U32,
	patternData prim.Pointer[prim.U8], patternLen prim.Usize,
	returnValueData prim.Pointer[prim.Pointer[prim.U8]], returnValueLen prim.Pointer[prim.Usize],
) Status

// KVStoreScan returns the wire list of keys matching a glob pattern.
//
// Status table: 0 ok (null data for an empty result). Other statuses are
// implementation errors.
func KVStoreScan(h KVHandle, pattern string) (Status, []byte) {
	var (
		patBuf  = prim.NewReadBufferFromString(pattern)
		retData prim.Pointer[prim.U8]
		retLen  prim.Usize
	)
	status := proxyKVStoreScan(
		prim.U32(h),
		patBuf.U8Pointer(), patBuf.Len(),
		prim.ToPointer(&retData), prim.ToPointer(&retLen),
	)
	return status, adopt(status, retData, retLen)
}

// Sorted-set range read:
//
//	(import "env" "proxy_kv_store_zrange_by_score"
//	  (func (param $handle i32)
//	        (param $key_data i32) (param $key_len i32)
//	        (param $min f64) (param $max f64)
//	        (param $return_value_data i32) (param $return_value_len i32)
//	        (result i32)))
//
//go:wasmimport env proxy_kv_store_zrange_by_score
//go:noescape
func proxyKVStoreZRangeByScore(
	handle prim.U32,
	keyData prim.Pointer[prim.U8], keyLen prim.Usize,
	min prim.F64, max prim.F64,
	returnValueData prim.Pointer[prim.Pointer[prim.U8]], returnValueLen prim.Pointer[prim.Usize],
) Status

// KVStoreZRangeByScore returns the wire list of scored members of the sorted
// set at key whose scores fall within [min, max].
//
// Status table: 0 ok (null data for a missing key or an empty window).
// Other statuses are implementation errors.
func KVStoreZRangeByScore(h KVHandle, key string, min, max float64) (Status, []byte) {
	var (
		keyBuf  = prim.NewReadBufferFromString(key)
		retData prim.Pointer[prim.U8]
		retLen  prim.Usize
	)
	status := proxyKVStoreZRangeByScore(
		prim.U32(h),
		keyBuf.U8Pointer(), keyBuf.Len(),
		prim.F64(min), prim.F64(max),
		prim.ToPointer(&retData), prim.ToPointer(&retLen),
	)
	return status, adopt(status, retData, retLen)
}

// Sorted-set scan:
//
//	(import "env" "proxy_kv_store_zscan"
//	  (func (param $handle i32)
//	        (param $key_data i32) (param $key_len i32)
//	        (param $pattern_data i32) (param $pattern_len i32)
//	        (param $return_value_data i32) (param $return_value_len i32)
//	        (result i32)))
//
//go:wasmimport env proxy_kv_store_zscan
//go:noescape
func proxyKVStoreZScan(
	handle prim.U32,
	keyData prim.Pointer[prim.U8], keyLen prim.Usize,
	patternData prim.Pointer[prim.U8], patternLen prim.Usize,
	returnValueData prim.Pointer[prim.Pointer[prim.U8]], returnValueLen prim.Pointer[prim.Usize],
) Status

// KVStoreZScan returns the wire list of scored members of the sorted set at
// key whose member values match a glob pattern.
//
// Status table: same as KVStoreZRangeByScore.
func KVStoreZScan(h KVHandle, key, pattern string) (Status, []byte) {
	var (
		keyBuf  = prim.NewReadBufferFromString(key)
		patBuf  = prim.NewReadBufferFromString(pattern)
		retData prim.Pointer[prim.U8]
		retLen  prim.Usize
	)
	status := proxyKVStoreZScan(
		prim.U32(h),
		keyBuf.U8Pointer(), keyBuf.Len(),
		patBuf.U8Pointer(), patBuf.Len(),
		prim.ToPointer(&retData), prim.ToPointer(&retLen),
	)
	return status, adopt(status, retData, retLen)
}

// Bloom filter membership test:
//
//	(import "env" "proxy_kv_store_bf_exists"
//	  (func (param $handle i32)
//	        (param $key_data i32) (param $key_len i32)
//	        (param $item_data i32) (param $item_len i32)
//	        (param $return_exists i32)
//	        (result i32)))
//
//go:wasmimport env proxy_kv_store_bf_exists
//go:noescape
func proxyKVStoreBFExists(
	handle prim.U32,
	keyData prim.Pointer[prim.U8], keyLen prim.Usize,
	itemData prim.Pointer[prim.U8], itemLen prim.Usize,
	returnExists prim.Pointer[prim.U32],
) Status

// KVStoreBFExists tests item against the Bloom filter at key. The second
// return is nonzero when the item was probably added before.
//
// Status table: 0 ok. Other statuses are implementation errors.
func KVStoreBFExists(h KVHandle, key, item string) (Status, uint32) {
	var (
		keyBuf  = prim.NewReadBufferFromString(key)
		itemBuf = prim.NewReadBufferFromString(item)
		exists  prim.U32
	)
	status := proxyKVStoreBFExists(
		prim.U32(h),
		keyBuf.U8Pointer(), keyBuf.Len(),
		itemBuf.U8Pointer(), itemBuf.Len(),
		prim.ToPointer(&exists),
	)
	return status, uint32(exists)
}

// Diagnostic message:
//
//	(import "env" "stats_set_user_diag"
//	  (func (param $value_data i32) (param $value_len i32)
//	        (result i32)))
//
//go:wasmimport env stats_set_user_diag
//go:noescape
func statsSetUserDiag(valueData prim.Pointer[prim.U8], valueLen prim.Usize) Status

// StatsSetUserDiag attaches a diagnostic message to the current invocation.
//
// Status table: 0 ok. Other statuses are undocumented.
func StatsSetUserDiag(msg string) Status {
	buf := prim.NewReadBufferFromString(msg)
	return statsSetUserDiag(buf.U8Pointer(), buf.Len())
}

//go:build ((tinygo.wasm && wasi) || wasip1) && !nofastedgehostcalls

// Copyright 2024 G-Core Innovations SARL

package fastedge

import (
	"encoding/binary"
	"unsafe"

	"github.com/G-Core/FastEdge-sdk-go/internal/abi/prim"
)

// The host builds guest-side values through two allocator exports backed by
// the arena. proxy_on_memory_allocate serves the raw boundary style;
// cabi_realloc serves the structured style, which may also grow an earlier
// allocation while lowering a list.

//go:wasmexport proxy_on_memory_allocate
func proxyOnMemoryAllocate(size uint32) uint32 {
	return uint32(arenaAlloc(size))
}

//go:wasmexport cabi_realloc
func cabiRealloc(ptr, oldSize, align, newSize uint32) uint32 {
	return uint32(arenaRealloc(uintptr(ptr), oldSize, newSize))
}

// processResult retains the flattened response of the most recent process
// invocation. The host copies it out before calling into the instance again,
// so replacing the reference on the next call is what frees the previous
// buffer.
var processResult []byte

// process receives one inbound request, flattened per the layout notes next
// to the record types, and returns the address of the flattened response.
//
//go:wasmexport process
func process(
	method uint32,
	uriPtr, uriLen uint32,
	headersPtr, headersLen uint32,
	bodyTag, bodyPtr, bodyLen uint32,
) uint32 {
	req := RequestRecord{Method: Method(method)}
	if uriPtr != 0 {
		req.URI = string(arenaTake(uintptr(uriPtr), uriLen))
	}
	req.Headers = liftHeaderCells(uintptr(headersPtr), headersLen)
	if bodyTag != 0 {
		req.Body = liftBytes(uintptr(bodyPtr), bodyLen)
	}

	processResult = lowerResponse(InvokeProcess(req))
	return uint32(uintptr(unsafe.Pointer(unsafe.SliceData(processResult))))
}

// Outbound HTTP exchange:
//
//	(import "gcore:fastedge/http-client" "send-request"
//	  (func (param $method i32)
//	        (param $uri_data i32) (param $uri_len i32)
//	        (param $headers_data i32) (param $headers_len i32)
//	        (param $body_data i32) (param $body_len i32)
//	        (param $return_area i32)))
//
// The return area is SendResultSize bytes owned by the guest; the host
// writes a result tag followed by either a response record or an error code.
//
//go:wasmimport gcore:fastedge/http-client send-request
//go:noescape
func hostSendRequest(
	method prim.U32,
	uriData prim.Pointer[prim.U8], uriLen prim.Usize,
	headersData prim.Pointer[prim.U8], headersLen prim.Usize,
	bodyData prim.Pointer[prim.U8], bodyLen prim.Usize,
	returnArea prim.Pointer[prim.U8],
)

// SendRequest performs one outbound HTTP exchange through the host client.
// The request header list and body are plain fields on the wire, so a nil
// Body is sent as empty rather than absent.
func SendRequest(req RequestRecord) (ResponseRecord, error) {
	var (
		uriBuf  = prim.NewReadBufferFromString(req.URI)
		bodyBuf = prim.NewReadBufferFromBytes(req.Body)
		hdrBuf  = lowerHeaderCells(req.Headers)
		ret     [SendResultSize]byte
	)

	hostSendRequest(
		prim.U32(req.Method),
		uriBuf.U8Pointer(), uriBuf.Len(),
		hdrBuf.U8Pointer(), prim.Usize(len(req.Headers)),
		bodyBuf.U8Pointer(), bodyBuf.Len(),
		prim.ToPointer((*prim.U8)(unsafe.Pointer(&ret[0]))),
	)

	le := binary.LittleEndian
	if le.Uint32(ret[SendResultTagOff:]) != 0 {
		code := HTTPErrorCode(le.Uint32(ret[SendResultPayloadOff:]))
		return ResponseRecord{}, HTTPError{Code: code}
	}

	rec := ResponseRecord{
		Status: le.Uint32(ret[SendResultPayloadOff+RespStatusOff:]),
	}
	if le.Uint32(ret[SendResultPayloadOff+RespHdrTagOff:]) != 0 {
		rec.Headers = liftHeaderCells(
			uintptr(le.Uint32(ret[SendResultPayloadOff+RespHdrPtrOff:])),
			le.Uint32(ret[SendResultPayloadOff+RespHdrLenOff:]),
		)
		if rec.Headers == nil {
			rec.Headers = []HeaderPair{}
		}
	}
	if le.Uint32(ret[SendResultPayloadOff+RespBodyTagOff:]) != 0 {
		rec.Body = liftBytes(
			uintptr(le.Uint32(ret[SendResultPayloadOff+RespBodyPtrOff:])),
			le.Uint32(ret[SendResultPayloadOff+RespBodyLenOff:]),
		)
	}
	return rec, nil
}

// liftBytes adopts a present list<u8>. A null pointer is an empty list, kept
// distinct from nil so presence survives the round trip.
func liftBytes(ptr uintptr, n uint32) []byte {
	if ptr == 0 {
		return []byte{}
	}
	return arenaTake(ptr, n)
}

// liftHeaderCells adopts a header list lowered as count cells of
// HeaderCellSize bytes, each holding name_ptr, name_len, value_ptr and
// value_len, plus one adopted buffer per string.
func liftHeaderCells(ptr uintptr, count uint32) []HeaderPair {
	if ptr == 0 || count == 0 {
		return nil
	}
	le := binary.LittleEndian
	cells := arenaTake(ptr, count*HeaderCellSize)
	pairs := make([]HeaderPair, 0, count)
	for off := uint32(0); off < count*HeaderCellSize; off += HeaderCellSize {
		var pair HeaderPair
		if p := le.Uint32(cells[off:]); p != 0 {
			pair.Name = string(arenaTake(uintptr(p), le.Uint32(cells[off+4:])))
		}
		if p := le.Uint32(cells[off+8:]); p != 0 {
			pair.Value = string(arenaTake(uintptr(p), le.Uint32(cells[off+12:])))
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

// lowerHeaderCells flattens pairs into [cells][string bytes] with interior
// pointers and wraps the result in a ReadBuffer so the cell array can be
// passed by pointer. An empty list lowers to a null pointer.
func lowerHeaderCells(pairs []HeaderPair) prim.ReadBuffer {
	if len(pairs) == 0 {
		return prim.ReadBuffer{}
	}
	size := len(pairs) * HeaderCellSize
	for _, h := range pairs {
		size += len(h.Name) + len(h.Value)
	}
	buf := make([]byte, size)
	base := uint32(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))

	le := binary.LittleEndian
	cellOff := uint32(0)
	dataOff := uint32(len(pairs) * HeaderCellSize)
	for _, h := range pairs {
		le.PutUint32(buf[cellOff+0:], base+dataOff)
		le.PutUint32(buf[cellOff+4:], uint32(len(h.Name)))
		dataOff += uint32(copy(buf[dataOff:], h.Name))
		le.PutUint32(buf[cellOff+8:], base+dataOff)
		le.PutUint32(buf[cellOff+12:], uint32(len(h.Value)))
		dataOff += uint32(copy(buf[dataOff:], h.Value))
		cellOff += HeaderCellSize
	}
	return *prim.NewReadBufferFromBytes(buf)
}

// lowerResponse flattens rec into a single allocation laid out as
// [record][header cells][string bytes][body bytes], interior pointers
// referring into the same buffer.
func lowerResponse(rec ResponseRecord) []byte {
	size := RespRecordSize + len(rec.Headers)*HeaderCellSize
	for _, h := range rec.Headers {
		size += len(h.Name) + len(h.Value)
	}
	size += len(rec.Body)

	buf := make([]byte, size)
	base := uint32(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))

	le := binary.LittleEndian
	le.PutUint32(buf[RespStatusOff:], rec.Status)

	cellOff := uint32(RespRecordSize)
	dataOff := cellOff + uint32(len(rec.Headers)*HeaderCellSize)

	if rec.Headers != nil {
		le.PutUint32(buf[RespHdrTagOff:], 1)
		le.PutUint32(buf[RespHdrPtrOff:], base+cellOff)
		le.PutUint32(buf[RespHdrLenOff:], uint32(len(rec.Headers)))
		for _, h := range rec.Headers {
			le.PutUint32(buf[cellOff+0:], base+dataOff)
			le.PutUint32(buf[cellOff+4:], uint32(len(h.Name)))
			dataOff += uint32(copy(buf[dataOff:], h.Name))
			le.PutUint32(buf[cellOff+8:], base+dataOff)
			le.PutUint32(buf[cellOff+12:], uint32(len(h.Value)))
			dataOff += uint32(copy(buf[dataOff:], h.Value))
			cellOff += HeaderCellSize
		}
	}

	if rec.Body != nil {
		le.PutUint32(buf[RespBodyTagOff:], 1)
		le.PutUint32(buf[RespBodyPtrOff:], base+dataOff)
		le.PutUint32(buf[RespBodyLenOff:], uint32(len(rec.Body)))
		copy(buf[dataOff:], rec.Body)
	}

	return buf
}

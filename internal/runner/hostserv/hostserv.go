// Copyright 2024 G-Core Innovations SARL

// Package hostserv implements the host side of the guest boundary for the
// development runner: the env module of raw auxiliary hostcalls and the
// gcore:fastedge/http-client module, both answering against fixture data
// and operating on guest linear memory through the guest's exported
// allocator.
package hostserv

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/G-Core/FastEdge-sdk-go/fetest"
	"github.com/G-Core/FastEdge-sdk-go/internal/abi/fastedge"
)

// allocExport is the guest function host-written buffers come from. The
// guest adopts each allocation exactly once while lifting a result, so
// every string, cell array and byte list gets its own allocation.
const allocExport = "proxy_on_memory_allocate"

// Serv answers hostcalls against fixture data. One Serv may serve many
// guest instances; the fixture host carries its own locking.
type Serv struct {
	Host   *fetest.Host
	Logger *slog.Logger
}

// Instantiate registers the env and gcore:fastedge/http-client host modules
// on rt. It must run before any guest module is instantiated.
func (s *Serv) Instantiate(ctx context.Context, rt wazero.Runtime) error {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}

	_, err := rt.NewHostModuleBuilder("env").
		NewFunctionBuilder().WithFunc(s.dictionaryGet).Export("proxy_dictionary_get").
		NewFunctionBuilder().WithFunc(s.secretGet).Export("proxy_secret_get").
		NewFunctionBuilder().WithFunc(s.secretGetEffectiveAt).Export("proxy_secret_get_effective_at").
		NewFunctionBuilder().WithFunc(s.kvStoreOpen).Export("proxy_kv_store_open").
		NewFunctionBuilder().WithFunc(s.kvStoreGet).Export("proxy_kv_store_get").
		NewFunctionBuilder().WithFunc(s.kvStoreScan).Export("proxy_kv_store_scan").
		NewFunctionBuilder().WithFunc(s.kvStoreZRangeByScore).Export("proxy_kv_store_zrange_by_score").
		NewFunctionBuilder().WithFunc(s.kvStoreZScan).Export("proxy_kv_store_zscan").
		NewFunctionBuilder().WithFunc(s.kvStoreBFExists).Export("proxy_kv_store_bf_exists").
		NewFunctionBuilder().WithFunc(s.statsSetUserDiag).Export("stats_set_user_diag").
		Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("instantiate env module: %w", err)
	}

	_, err = rt.NewHostModuleBuilder("gcore:fastedge/http-client").
		NewFunctionBuilder().WithFunc(s.sendRequest).Export("send-request").
		Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("instantiate http-client module: %w", err)
	}
	return nil
}

// Raw auxiliary hostcalls. A bad pointer from the guest is a protocol
// violation; the panics below become traps on the guest call.

func (s *Serv) dictionaryGet(ctx context.Context, m api.Module, keyPtr, keyLen, outPtr, outLen uint32) uint32 {
	status, val := s.Host.DictionaryGet(readString(m, keyPtr, keyLen))
	s.writeResult(ctx, m, val, outPtr, outLen)
	return uint32(status)
}

func (s *Serv) secretGet(ctx context.Context, m api.Module, keyPtr, keyLen, outPtr, outLen uint32) uint32 {
	status, val := s.Host.SecretGet(readString(m, keyPtr, keyLen))
	s.writeResult(ctx, m, val, outPtr, outLen)
	return uint32(status)
}

func (s *Serv) secretGetEffectiveAt(ctx context.Context, m api.Module, keyPtr, keyLen, at, outPtr, outLen uint32) uint32 {
	status, val := s.Host.SecretGetEffectiveAt(readString(m, keyPtr, keyLen), at)
	s.writeResult(ctx, m, val, outPtr, outLen)
	return uint32(status)
}

func (s *Serv) kvStoreOpen(ctx context.Context, m api.Module, namePtr, nameLen, outHandle uint32) uint32 {
	status, handle := s.Host.KVStoreOpen(readString(m, namePtr, nameLen))
	writeU32(m, outHandle, uint32(handle))
	return uint32(status)
}

func (s *Serv) kvStoreGet(ctx context.Context, m api.Module, h, keyPtr, keyLen, outPtr, outLen uint32) uint32 {
	status, val := s.Host.KVStoreGet(fastedge.KVHandle(h), readString(m, keyPtr, keyLen))
	s.writeResult(ctx, m, val, outPtr, outLen)
	return uint32(status)
}

func (s *Serv) kvStoreScan(ctx context.Context, m api.Module, h, patPtr, patLen, outPtr, outLen uint32) uint32 {
	status, val := s.Host.KVStoreScan(fastedge.KVHandle(h), readString(m, patPtr, patLen))
	s.writeResult(ctx, m, val, outPtr, outLen)
	return uint32(status)
}

func (s *Serv) kvStoreZRangeByScore(ctx context.Context, m api.Module, h, keyPtr, keyLen uint32, min, max float64, outPtr, outLen uint32) uint32 {
	status, val := s.Host.KVStoreZRangeByScore(fastedge.KVHandle(h), readString(m, keyPtr, keyLen), min, max)
	s.writeResult(ctx, m, val, outPtr, outLen)
	return uint32(status)
}

func (s *Serv) kvStoreZScan(ctx context.Context, m api.Module, h, keyPtr, keyLen, patPtr, patLen, outPtr, outLen uint32) uint32 {
	status, val := s.Host.KVStoreZScan(fastedge.KVHandle(h), readString(m, keyPtr, keyLen), readString(m, patPtr, patLen))
	s.writeResult(ctx, m, val, outPtr, outLen)
	return uint32(status)
}

func (s *Serv) kvStoreBFExists(ctx context.Context, m api.Module, h, keyPtr, keyLen, itemPtr, itemLen, outExists uint32) uint32 {
	status, exists := s.Host.KVStoreBFExists(fastedge.KVHandle(h), readString(m, keyPtr, keyLen), readString(m, itemPtr, itemLen))
	writeU32(m, outExists, exists)
	return uint32(status)
}

func (s *Serv) statsSetUserDiag(ctx context.Context, m api.Module, msgPtr, msgLen uint32) uint32 {
	msg := readString(m, msgPtr, msgLen)
	s.Logger.Info("user diagnostic", "msg", msg)
	return uint32(s.Host.StatsSetUserDiag(msg))
}

// sendRequest implements the structured outbound call: lift the flattened
// request from guest memory, exchange it through the fixture host, write
// the tagged result into the guest's return area.
func (s *Serv) sendRequest(ctx context.Context, m api.Module, method, uriPtr, uriLen, headersPtr, headersLen, bodyPtr, bodyLen, returnArea uint32) {
	rec := fastedge.RequestRecord{
		Method:  fastedge.Method(method),
		URI:     readString(m, uriPtr, uriLen),
		Headers: readHeaderCells(m, headersPtr, headersLen),
		Body:    readBytes(m, bodyPtr, bodyLen),
	}

	resp, err := s.Host.SendRequest(rec)
	if err != nil {
		code := fastedge.HTTPErrorUnknown
		if c, ok := fastedge.IsHTTPError(err); ok {
			code = c
		}
		s.Logger.Warn("outbound request failed", "uri", rec.URI, "code", code.String())
		writeU32(m, returnArea+fastedge.SendResultTagOff, 1)
		writeU32(m, returnArea+fastedge.SendResultPayloadOff, uint32(code))
		return
	}

	s.mustLowerResponse(ctx, m, resp, returnArea+fastedge.SendResultPayloadOff)
	writeU32(m, returnArea+fastedge.SendResultTagOff, 0)
}

// writeResult places val in guest memory and stores its location in the two
// out-parameters. A nil val writes a null pointer, the "no value" shape; a
// present empty value gets a real zero-length allocation so the guest can
// adopt it.
func (s *Serv) writeResult(ctx context.Context, m api.Module, val []byte, outPtr, outLen uint32) {
	var ptr uint32
	if val != nil {
		p, err := writeAlloc(ctx, m, val)
		if err != nil {
			panic(fmt.Sprintf("hostserv: lower result: %v", err))
		}
		ptr = p
	}
	writeU32(m, outPtr, ptr)
	writeU32(m, outLen, uint32(len(val)))
}

// mustLowerResponse writes rec as a response record at recPtr, placing
// header cells, strings and body bytes in fresh guest allocations for the
// guest to adopt. The record bytes themselves land at recPtr, which the
// guest owns already.
func (s *Serv) mustLowerResponse(ctx context.Context, m api.Module, rec fastedge.ResponseRecord, recPtr uint32) {
	buf, err := lowerResponseRecord(ctx, m, rec)
	if err != nil {
		panic(fmt.Sprintf("hostserv: lower response: %v", err))
	}
	if !m.Memory().Write(recPtr, buf) {
		panic(fmt.Sprintf("hostserv: return area %#x outside guest memory", recPtr))
	}
}

func lowerResponseRecord(ctx context.Context, m api.Module, rec fastedge.ResponseRecord) ([]byte, error) {
	le := binary.LittleEndian
	buf := make([]byte, fastedge.RespRecordSize)
	le.PutUint32(buf[fastedge.RespStatusOff:], rec.Status)

	if rec.Headers != nil {
		ptr, count, err := lowerHeaderCells(ctx, m, rec.Headers)
		if err != nil {
			return nil, err
		}
		le.PutUint32(buf[fastedge.RespHdrTagOff:], 1)
		le.PutUint32(buf[fastedge.RespHdrPtrOff:], ptr)
		le.PutUint32(buf[fastedge.RespHdrLenOff:], count)
	}
	if rec.Body != nil {
		le.PutUint32(buf[fastedge.RespBodyTagOff:], 1)
		if len(rec.Body) > 0 {
			ptr, err := writeAlloc(ctx, m, rec.Body)
			if err != nil {
				return nil, err
			}
			le.PutUint32(buf[fastedge.RespBodyPtrOff:], ptr)
			le.PutUint32(buf[fastedge.RespBodyLenOff:], uint32(len(rec.Body)))
		}
	}
	return buf, nil
}

// LowerRequest places rec in guest memory and returns the eight flat
// arguments of the process export, in call order.
func LowerRequest(ctx context.Context, m api.Module, rec fastedge.RequestRecord) ([]uint64, error) {
	args := make([]uint64, 0, 8)
	args = append(args, uint64(rec.Method))

	var uriPtr uint32
	if len(rec.URI) > 0 {
		p, err := writeAlloc(ctx, m, []byte(rec.URI))
		if err != nil {
			return nil, err
		}
		uriPtr = p
	}
	args = append(args, uint64(uriPtr), uint64(len(rec.URI)))

	hdrPtr, hdrCount, err := lowerHeaderCells(ctx, m, rec.Headers)
	if err != nil {
		return nil, err
	}
	args = append(args, uint64(hdrPtr), uint64(hdrCount))

	if rec.Body == nil {
		args = append(args, 0, 0, 0)
		return args, nil
	}
	var bodyPtr uint32
	if len(rec.Body) > 0 {
		p, err := writeAlloc(ctx, m, rec.Body)
		if err != nil {
			return nil, err
		}
		bodyPtr = p
	}
	args = append(args, 1, uint64(bodyPtr), uint64(len(rec.Body)))
	return args, nil
}

// LiftResponse reads the response record the process export returned.
// Unlike the guest, the host only copies: the guest retains the buffer
// until its next invocation.
func LiftResponse(m api.Module, ptr uint32) (fastedge.ResponseRecord, error) {
	raw, ok := m.Memory().Read(ptr, fastedge.RespRecordSize)
	if !ok {
		return fastedge.ResponseRecord{}, fmt.Errorf("response record at %#x outside guest memory", ptr)
	}
	le := binary.LittleEndian

	rec := fastedge.ResponseRecord{Status: le.Uint32(raw[fastedge.RespStatusOff:])}
	if le.Uint32(raw[fastedge.RespHdrTagOff:]) != 0 {
		hdrPtr := le.Uint32(raw[fastedge.RespHdrPtrOff:])
		hdrCount := le.Uint32(raw[fastedge.RespHdrLenOff:])
		pairs, err := liftHeaderCells(m, hdrPtr, hdrCount)
		if err != nil {
			return fastedge.ResponseRecord{}, err
		}
		rec.Headers = pairs
		if rec.Headers == nil {
			rec.Headers = []fastedge.HeaderPair{}
		}
	}
	if le.Uint32(raw[fastedge.RespBodyTagOff:]) != 0 {
		bodyPtr := le.Uint32(raw[fastedge.RespBodyPtrOff:])
		bodyLen := le.Uint32(raw[fastedge.RespBodyLenOff:])
		rec.Body = []byte{}
		if bodyPtr != 0 && bodyLen > 0 {
			b, ok := m.Memory().Read(bodyPtr, bodyLen)
			if !ok {
				return fastedge.ResponseRecord{}, fmt.Errorf("response body at %#x outside guest memory", bodyPtr)
			}
			rec.Body = append([]byte{}, b...)
		}
	}
	return rec, nil
}

func liftHeaderCells(m api.Module, ptr, count uint32) ([]fastedge.HeaderPair, error) {
	if ptr == 0 || count == 0 {
		return nil, nil
	}
	cells, ok := m.Memory().Read(ptr, count*fastedge.HeaderCellSize)
	if !ok {
		return nil, fmt.Errorf("header cells at %#x outside guest memory", ptr)
	}
	le := binary.LittleEndian
	pairs := make([]fastedge.HeaderPair, 0, count)
	for off := uint32(0); off < count*fastedge.HeaderCellSize; off += fastedge.HeaderCellSize {
		var pair fastedge.HeaderPair
		if p := le.Uint32(cells[off:]); p != 0 {
			n := le.Uint32(cells[off+4:])
			b, ok := m.Memory().Read(p, n)
			if !ok {
				return nil, fmt.Errorf("header name at %#x outside guest memory", p)
			}
			pair.Name = string(b)
		}
		if p := le.Uint32(cells[off+8:]); p != 0 {
			n := le.Uint32(cells[off+12:])
			b, ok := m.Memory().Read(p, n)
			if !ok {
				return nil, fmt.Errorf("header value at %#x outside guest memory", p)
			}
			pair.Value = string(b)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// lowerHeaderCells lowers pairs into one cell-array allocation plus one
// allocation per non-empty string. Empty lists lower to a null pointer.
func lowerHeaderCells(ctx context.Context, m api.Module, pairs []fastedge.HeaderPair) (uint32, uint32, error) {
	if len(pairs) == 0 {
		return 0, 0, nil
	}
	le := binary.LittleEndian
	cells := make([]byte, len(pairs)*fastedge.HeaderCellSize)
	off := uint32(0)
	for _, h := range pairs {
		if len(h.Name) > 0 {
			p, err := writeAlloc(ctx, m, []byte(h.Name))
			if err != nil {
				return 0, 0, err
			}
			le.PutUint32(cells[off:], p)
			le.PutUint32(cells[off+4:], uint32(len(h.Name)))
		}
		if len(h.Value) > 0 {
			p, err := writeAlloc(ctx, m, []byte(h.Value))
			if err != nil {
				return 0, 0, err
			}
			le.PutUint32(cells[off+8:], p)
			le.PutUint32(cells[off+12:], uint32(len(h.Value)))
		}
		off += fastedge.HeaderCellSize
	}
	ptr, err := writeAlloc(ctx, m, cells)
	if err != nil {
		return 0, 0, err
	}
	return ptr, uint32(len(pairs)), nil
}

// writeAlloc obtains a guest allocation and copies data into it. Zero-length
// data still allocates, because a null pointer means "no value" on this
// boundary.
func writeAlloc(ctx context.Context, m api.Module, data []byte) (uint32, error) {
	alloc := m.ExportedFunction(allocExport)
	if alloc == nil {
		return 0, fmt.Errorf("guest does not export %s", allocExport)
	}
	res, err := alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%s(%d): %w", allocExport, len(data), err)
	}
	ptr := uint32(res[0])
	if ptr == 0 {
		return 0, fmt.Errorf("%s(%d) returned a null pointer", allocExport, len(data))
	}
	if !m.Memory().Write(ptr, data) {
		return 0, fmt.Errorf("allocation at %#x too small for %d bytes", ptr, len(data))
	}
	return ptr, nil
}

// readBytes copies size bytes out of guest memory. The copy matters: host
// memory views are invalidated when the guest grows its memory.
func readBytes(m api.Module, ptr, size uint32) []byte {
	buf, ok := m.Memory().Read(ptr, size)
	if !ok {
		panic(fmt.Sprintf("hostserv: read of %d bytes at %#x outside guest memory", size, ptr))
	}
	out := make([]byte, size)
	copy(out, buf)
	return out
}

func readString(m api.Module, ptr, size uint32) string {
	return string(readBytes(m, ptr, size))
}

// readHeaderCells reads a guest-lowered header list: count cells holding
// name and value pointers into guest memory.
func readHeaderCells(m api.Module, ptr, count uint32) []fastedge.HeaderPair {
	if ptr == 0 || count == 0 {
		return nil
	}
	le := binary.LittleEndian
	cells := readBytes(m, ptr, count*fastedge.HeaderCellSize)
	pairs := make([]fastedge.HeaderPair, 0, count)
	for off := uint32(0); off < count*fastedge.HeaderCellSize; off += fastedge.HeaderCellSize {
		var pair fastedge.HeaderPair
		if p := le.Uint32(cells[off:]); p != 0 {
			pair.Name = readString(m, p, le.Uint32(cells[off+4:]))
		}
		if p := le.Uint32(cells[off+8:]); p != 0 {
			pair.Value = readString(m, p, le.Uint32(cells[off+12:]))
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

func writeU32(m api.Module, ptr, v uint32) {
	if !m.Memory().WriteUint32Le(ptr, v) {
		panic(fmt.Sprintf("hostserv: u32 write at %#x outside guest memory", ptr))
	}
}

// Copyright 2024 G-Core Innovations SARL

package fastedge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Multi-value auxiliary results cross the boundary as a packed list of byte
// strings:
//
//	u32    item count
//	u32[n] item lengths
//	...    item payloads in order, one separator byte (0) after each
//
// All integers little-endian. Payloads are arbitrary binary; the separator
// is framing only and payload bytes may themselves be zero.

// ErrMalformedList reports a wire list whose declared lengths do not fit the
// buffer the host produced.
var ErrMalformedList = errors.New("malformed value list")

// DecodeList unpacks a wire list. A buffer too short to carry the count
// decodes to an empty list; a buffer whose contents contradict its own length
// fields is rejected rather than read out of bounds. The arithmetic is u64 so
// hostile length fields cannot wrap on 32-bit targets.
func DecodeList(b []byte) ([][]byte, error) {
	if len(b) < 4 {
		return nil, nil
	}
	count := binary.LittleEndian.Uint32(b)
	if uint64(count) > uint64(len(b)-4)/4 {
		return nil, fmt.Errorf("%w: %d items in %d bytes", ErrMalformedList, count, len(b))
	}

	items := make([][]byte, 0, count)
	p := 4 + uint64(count)*4
	for n := uint32(0); n < count; n++ {
		size := uint64(binary.LittleEndian.Uint32(b[4+n*4:]))
		// The payload and its separator byte must both fit.
		if p+size+1 > uint64(len(b)) {
			return nil, fmt.Errorf("%w: item %d of %d bytes exceeds buffer", ErrMalformedList, n, size)
		}
		items = append(items, b[p:p+size])
		p += size + 1
	}
	return items, nil
}

// AppendList appends the wire encoding of items to dst and returns the
// extended buffer. It is the exact inverse of DecodeList and exists for the
// host side of the boundary and for tests.
func AppendList(dst []byte, items [][]byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(items)))
	for _, item := range items {
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(item)))
	}
	for _, item := range items {
		dst = append(dst, item...)
		dst = append(dst, 0)
	}
	return dst
}

// SplitScore separates a sorted-set item into its value and its trailing
// little-endian float64 score. Items of eight bytes or fewer cannot carry
// both; they decode to an empty value with a zero score rather than a panic,
// although a conforming host never produces them.
func SplitScore(item []byte) ([]byte, float64) {
	if len(item) <= 8 {
		return nil, 0
	}
	cut := len(item) - 8
	score := math.Float64frombits(binary.LittleEndian.Uint64(item[cut:]))
	return item[:cut], score
}

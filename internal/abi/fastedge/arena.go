// Copyright 2024 G-Core Innovations SARL

package fastedge

import (
	"fmt"
	"sync"
	"unsafe"
)

// The arena tracks every allocation handed out through the guest's exported
// allocator. Buffers the host fills live here, keyed by address, until the
// receiving call site adopts them: ownership transfers exactly once, at the
// moment take removes the entry. Reading a pointer a second time has no
// defined meaning in this boundary, so take panics instead of guessing.
//
// Tracking the buffers also keeps them visible to the garbage collector
// between the allocation call and the adoption: without the map, nothing on
// the Go side would reference memory only the host knows about.
//
// Guest execution is single-invocation and single-threaded; the lock matters
// only for native test hosts driving the arena from regular goroutines.
var arena = struct {
	sync.Mutex
	live map[uintptr][]byte
}{
	live: map[uintptr][]byte{},
}

// arenaAlloc allocates size bytes for the host to fill and registers the
// allocation. The returned address stays valid and untouched by the GC until
// arenaTake adopts it.
func arenaAlloc(size uint32) uintptr {
	// Capacity is at least one byte so the allocation has a stable unique
	// address even for a zero-size request.
	buf := make([]byte, size, max(size, 1))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))

	arena.Lock()
	defer arena.Unlock()
	arena.live[ptr] = buf
	return ptr
}

// arenaRealloc grows or shrinks a previous allocation to newSize bytes,
// preserving the common prefix. A zero ptr is a plain allocation. The old
// entry is retired; only the returned address is valid afterwards.
func arenaRealloc(ptr uintptr, oldSize, newSize uint32) uintptr {
	newPtr := arenaAlloc(newSize)
	if ptr != 0 {
		old := arenaTake(ptr, oldSize)
		arena.Lock()
		copy(arena.live[newPtr], old)
		arena.Unlock()
	}
	return newPtr
}

// arenaTake adopts the allocation at ptr, truncated to n bytes, and removes
// it from the arena. It panics on a pointer the arena does not own or a
// length larger than the allocation: both are host protocol violations with
// no recovery policy other than halting the invocation.
func arenaTake(ptr uintptr, n uint32) []byte {
	arena.Lock()
	defer arena.Unlock()

	buf, ok := arena.live[ptr]
	if !ok {
		panic(fmt.Sprintf("taking ownership of untracked buffer %#x", ptr))
	}
	if uint64(n) > uint64(cap(buf)) {
		panic(fmt.Sprintf("buffer %#x is %d bytes, host claims %d", ptr, cap(buf), n))
	}
	delete(arena.live, ptr)
	return buf[:n:cap(buf)]
}

// arenaReset drops every live allocation. Used between native test
// invocations; a real guest instance is torn down whole instead.
func arenaReset() {
	arena.Lock()
	defer arena.Unlock()
	arena.live = map[uintptr][]byte{}
}

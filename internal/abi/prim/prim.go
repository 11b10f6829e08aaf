// Copyright 2024 G-Core Innovations SARL

package prim

import (
	"unsafe"
)

// Usize is an unsigned integer who's size is based on the system architecture.
type Usize uint32

// U8 is an unsigned 8 bit integer.
type U8 uint8

// U32 is an unsigned 32 bit integer.
type U32 uint32

// U64 is an unsigned 64 bit integer.
type U64 uint64

// F64 is a 64 bit IEEE-754 floating point number.
type F64 float64

// Pointer is a linear-memory address of a T.
type Pointer[T any] uint32

// ToPointer converts a Go pointer into a linear-memory Pointer suitable for
// passing across the ABI boundary.
func ToPointer[T any](ptr *T) Pointer[T] {
	return Pointer[T](uintptr(unsafe.Pointer(ptr)))
}

// NullPointer is the null address for a T.
func NullPointer[T any]() Pointer[T] { return 0 }

// Wstring is a header for a string.
type Wstring struct {
	Data uint32
	Len  uint32
}

// ReadBuffer wraps memory that hostcalls read from during a call.
//
// Technically, Go's GC is permitted to move memory around whenever it wants
// (with a few exceptions). This is normally safe, because it updates references
// to that memory at the same time. But the raw addresses handed to hostcalls
// aren't understood by the GC as references, which means that our usage here is
// technically unsafe: if the GC moved the buffer around during a hostcall, the
// hostcall would end up reading from an invalid location.
//
// This works fine, though, because hostcalls only happen under +build tinygo,
// and all of the GC implementations provided by TinyGo don't do any of that
// fancy stuff. But it's definitely a risk we need to be aware of when upgrading
// TinyGo in the future.
type ReadBuffer struct {
	buf []byte
}

// NewReadBufferFromString creates a ReadBuffer with its buffer based on the
// provided string.
func NewReadBufferFromString(s string) *ReadBuffer {
	return NewReadBufferFromBytes([]byte(s))
}

// NewReadBufferFromBytes creates a new ReadBuffer with the provided byte slice
// used as its buffer.
func NewReadBufferFromBytes(buf []byte) *ReadBuffer {
	return &ReadBuffer{buf: buf}
}

// U8Pointer returns a pointer to the buffer's data as a U8. An empty buffer
// yields the null pointer; callers always pass the length alongside.
func (b *ReadBuffer) U8Pointer() Pointer[U8] {
	if len(b.buf) == 0 {
		return 0
	}
	return ToPointer((*U8)(unsafe.Pointer(unsafe.SliceData(b.buf))))
}

// Wstring returns the buffer's data as a Wstring.
func (b *ReadBuffer) Wstring() Wstring {
	return Wstring{
		Data: uint32(b.U8Pointer()),
		Len:  uint32(len(b.buf)),
	}
}

// Len returns the length of data in the buffer as a Usize.
func (b *ReadBuffer) Len() Usize {
	return Usize(len(b.buf))
}

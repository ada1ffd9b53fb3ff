// Package inlinearray implements an immutable byte sequence that keeps
// short payloads inside the value and shares one heap block between
// copies of longer payloads.
//
// An Array is 32 bytes on 64-bit platforms. Copying it is the clone
// operation: inline bytes are copied with the value, heap bytes are
// shared. Heap blocks are never written after construction, so copies may
// be read from any number of goroutines without synchronisation.
package inlinearray

import (
	"strings"
	"unsafe"
)

// Cap is the largest payload stored inline.
const Cap = 15

// Array holds either up to Cap bytes inline or a reference to a shared
// heap block. Exactly one representation exists for a given payload:
// payloads of Cap bytes or less are always inline with the unused tail
// zeroed, longer ones always live in heap. That makes == on Array a
// content comparison and lets Array be used as a map key.
type Array struct {
	heap string
	n    uint8
	buf  [Cap]byte
}

// FromBytes copies b into a new Array.
func FromBytes(b []byte) Array {
	var a Array
	if len(b) <= Cap {
		a.n = uint8(copy(a.buf[:], b))
		return a
	}
	a.heap = string(b)
	return a
}

// FromString copies s into a new Array. A heap payload costs exactly one
// allocation and does not pin the memory backing s.
func FromString(s string) Array {
	var a Array
	if len(s) <= Cap {
		a.n = uint8(copy(a.buf[:], s))
		return a
	}
	a.heap = strings.Clone(s)
	return a
}

// Borrow is FromString without the heap copy: a heap-sized payload
// shares s. It suits short-lived lookup keys, where copying s would be
// wasted work.
func Borrow(s string) Array {
	if len(s) <= Cap {
		return FromString(s)
	}
	return Array{heap: s}
}

// Len returns the payload length in bytes.
func (a Array) Len() int {
	if a.heap != "" {
		return len(a.heap)
	}
	return int(a.n)
}

// IsInline reports whether the payload is stored inside the value.
func (a Array) IsInline() bool { return a.heap == "" }

// String returns the payload as a string. Heap payloads are returned
// without copying; inline payloads are copied so the result does not
// depend on a.
func (a Array) String() string {
	if a.heap != "" {
		return a.heap
	}
	return string(a.buf[:a.n])
}

// UnsafeString returns the payload as a string without copying. For an
// inline payload the string aliases *a: it is only valid until *a is
// overwritten.
func (a *Array) UnsafeString() string {
	if a.heap != "" {
		return a.heap
	}
	if a.n == 0 {
		return ""
	}
	return unsafe.String(&a.buf[0], int(a.n))
}

// Bytes returns the payload without copying. The slice must not be
// modified; for inline payloads it aliases *a.
func (a *Array) Bytes() []byte {
	if a.heap != "" {
		return unsafe.Slice(unsafe.StringData(a.heap), len(a.heap))
	}
	return a.buf[:a.n:a.n]
}

// SharesWith reports whether a and b are backed by the same heap block.
// Two inline arrays never share.
func (a *Array) SharesWith(b *Array) bool {
	if a.heap == "" || b.heap == "" || len(a.heap) != len(b.heap) {
		return false
	}
	return unsafe.StringData(a.heap) == unsafe.StringData(b.heap)
}

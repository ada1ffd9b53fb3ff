// Package inlinestr provides Str, an immutable UTF-8 string that stores
// short text inside the value and shares one heap block between copies
// of longer text.
//
// Str behaves like a Go string: == compares content, Compare orders
// bytes lexicographically, Hash agrees with maphash.String, and the
// serialized form of a Str is the serialized form of its text. Whether a
// value is stored inline or on the heap is never observable except
// through allocation counts.
package inlinestr

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/rawbytedev/inlinestr/internal/inlinearray"
)

// InlineCap is the longest text, in bytes, stored without a heap
// allocation.
const InlineCap = inlinearray.Cap

// ErrInvalidUTF8 is returned when input text is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Str is an immutable UTF-8 string. The zero value is the empty string.
// Assigning a Str copies it in constant time.
type Str struct {
	// inner always holds valid UTF-8; every constructor below checks
	// or otherwise guarantees it.
	inner inlinearray.Array
}

// fromValid wraps s, which the caller has already proven to be UTF-8.
func fromValid(s string) Str {
	return Str{inner: inlinearray.FromString(s)}
}

// From returns s as a Str, or an error wrapping ErrInvalidUTF8 if s is
// not valid UTF-8.
func From(s string) (Str, error) {
	if i := invalidAt(s); i >= 0 {
		return Str{}, fmt.Errorf("%w at byte %d", ErrInvalidUTF8, i)
	}
	return fromValid(s), nil
}

// New is like From but panics on invalid UTF-8. It is meant for
// literals and text already known to be valid.
func New(s string) Str {
	v, err := From(s)
	if err != nil {
		panic("inlinestr: " + err.Error())
	}
	return v
}

// FromBytes copies b into a new Str. Invalid UTF-8 is rejected with an
// error wrapping ErrInvalidUTF8; no partial value is produced.
func FromBytes(b []byte) (Str, error) {
	if !utf8.Valid(b) {
		return Str{}, fmt.Errorf("%w at byte %d", ErrInvalidUTF8, invalidBytesAt(b))
	}
	return Str{inner: inlinearray.FromBytes(b)}, nil
}

// FromRunes encodes runes as UTF-8. Like string(runes), invalid code
// points become utf8.RuneError.
func FromRunes(runes []rune) Str {
	return fromValid(string(runes))
}

// FromStringer converts the text of v.
func FromStringer(v fmt.Stringer) (Str, error) {
	return From(v.String())
}

// Borrow returns a Str equal to s that may share memory with s instead
// of copying it. It is intended for transient lookup keys. ok is false if
// s is not valid UTF-8, in which case s equals no Str.
func Borrow(s string) (v Str, ok bool) {
	if !utf8.ValidString(s) {
		return Str{}, false
	}
	return Str{inner: inlinearray.Borrow(s)}, true
}

func invalidAt(s string) int {
	if utf8.ValidString(s) {
		return -1
	}
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && n == 1 {
			return i
		}
		i += n
	}
	return -1
}

func invalidBytesAt(b []byte) int {
	for i := 0; i < len(b); {
		r, n := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && n == 1 {
			return i
		}
		i += n
	}
	return -1
}

// String returns the text. Text longer than InlineCap is returned without
// copying.
func (s Str) String() string { return s.inner.String() }

// View returns the text without copying. For text of InlineCap bytes or
// less the result aliases *s and is only valid until *s is reassigned;
// use String when the result must outlive the variable.
func (s *Str) View() string { return s.inner.UnsafeString() }

// Bytes returns the UTF-8 bytes without copying. The slice must not be
// modified and, like View, aliases *s for short text.
func (s *Str) Bytes() []byte { return s.inner.Bytes() }

// Path returns the text as a file system path.
func (s *Str) Path() string { return s.View() }

// OSString returns the text in the form the os package accepts for
// names, arguments and environment values.
func (s *Str) OSString() string { return s.View() }

// Len returns the length in bytes.
func (s Str) Len() int { return s.inner.Len() }

// IsEmpty reports whether s holds no text.
func (s Str) IsEmpty() bool { return s.inner.Len() == 0 }

// RuneCount returns the number of code points.
func (s Str) RuneCount() int { return utf8.RuneCountInString(s.View()) }

// GoString formats s as a quoted Go string literal, so %#v prints the
// same thing for a Str as for a string.
func (s Str) GoString() string { return strconv.Quote(s.View()) }

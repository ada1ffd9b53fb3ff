package inlinestr

import (
	"bytes"
	"strings"

	"github.com/rawbytedev/inlinestr/internal/common"
)

// Text is the set of representations Str compares against. []byte stands
// in for text held in a mutable buffer.
type Text interface {
	string | []byte | Str | *Str
}

// text normalises any Text to a string without copying heap payloads.
func text[T Text](v T) string {
	switch x := any(v).(type) {
	case string:
		return x
	case []byte:
		return common.UnsafeString(x)
	case Str:
		return x.String()
	case *Str:
		if x == nil {
			return ""
		}
		return x.View()
	}
	panic("unreachable")
}

// Equal reports whether a and b hold the same text. Equal(a, b) and
// Equal(b, a) always agree.
func Equal[A, B Text](a A, b B) bool {
	return text(a) == text(b)
}

// Compare orders a and b byte-lexicographically, returning -1, 0 or +1.
func Compare[A, B Text](a A, b B) int {
	return strings.Compare(text(a), text(b))
}

// Equal reports whether s and o hold the same text. It is equivalent to
// s == o.
func (s Str) Equal(o Str) bool { return s == o }

// EqualString reports whether s holds exactly the text o.
func (s Str) EqualString(o string) bool { return s.View() == o }

// EqualBytes reports whether s holds exactly the bytes of o.
func (s Str) EqualBytes(o []byte) bool { return bytes.Equal(s.Bytes(), o) }

// Compare returns -1, 0 or +1 as s sorts before, equal to or after o.
// It has the shape slices.SortFunc expects.
func (s Str) Compare(o Str) int { return strings.Compare(s.View(), o.View()) }

func (s Str) CompareString(o string) int { return strings.Compare(s.View(), o) }

// Less reports whether s sorts before o.
func (s Str) Less(o Str) bool { return s.View() < o.View() }

package inlinestr

import "hash/maphash"

// Hash returns the hash of the text under seed. It equals
// maphash.String(seed, s.String()), so a Str and the string it holds
// hash alike.
func (s Str) Hash(seed maphash.Seed) uint64 {
	return maphash.String(seed, s.View())
}

// WriteHash adds the text to h exactly as h.WriteString would.
func (s Str) WriteHash(h *maphash.Hash) {
	h.WriteString(s.View())
}

// HashOf hashes any Text under seed. Equal values hash identically
// regardless of representation.
func HashOf[T Text](seed maphash.Seed, v T) uint64 {
	return maphash.String(seed, text(v))
}

// Package strview provides a non-owning string view, the Go counterpart of
// original_source/util/StringView.h. A Go string is already an immutable,
// non-owning (pointer, length) pair, so View adds no memory semantics of its
// own — it exists only to carry the same substr/removePrefix/removeSuffix
// vocabulary as the original, for callers porting that call pattern.
package strview

// View wraps a string, exposing the slice-manipulation methods the original
// StringView offered instead of %-style substring expressions at call sites.
type View string

// Empty reports whether the view has zero length.
func (v View) Empty() bool {
	return len(v) == 0
}

// Size returns the byte length of the view.
func (v View) Size() int {
	return len(v)
}

// Front returns the first byte. Panics if the view is empty.
func (v View) Front() byte {
	return v[0]
}

// Back returns the last byte. Panics if the view is empty.
func (v View) Back() byte {
	return v[len(v)-1]
}

// RemovePrefix returns the view with the first n bytes dropped. Clamps n to
// Size() rather than panicking.
func (v View) RemovePrefix(n int) View {
	if n > len(v) {
		n = len(v)
	}
	return v[n:]
}

// RemoveSuffix returns the view with the last n bytes dropped. Clamps n to
// Size() rather than panicking.
func (v View) RemoveSuffix(n int) View {
	if n > len(v) {
		n = len(v)
	}
	return v[:len(v)-n]
}

// Substr returns the length-byte slice of v starting at pos. Clamps both
// bounds to v's range rather than panicking.
func (v View) Substr(pos, length int) View {
	if pos > len(v) {
		pos = len(v)
	}
	end := pos + length
	if end > len(v) {
		end = len(v)
	}
	return v[pos:end]
}

// String returns v as a plain string (a no-op conversion, since View's
// underlying representation already is one).
func (v View) String() string {
	return string(v)
}

package span

import (
	"fmt"
	"slices"
	"unicode/utf16"
)

// Buffer is mutable text addressed in UTF-16 code units.
type Buffer struct {
	units []uint16
}

// NewBuffer copies s into a new buffer.
func NewBuffer(s string) *Buffer {
	return &Buffer{units: encode(s)}
}

func encode(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// Len returns the buffer length in UTF-16 code units.
func (b *Buffer) Len() int { return len(b.units) }

// String decodes the buffer back to UTF-8.
func (b *Buffer) String() string { return string(utf16.Decode(b.units)) }

// Slice returns the text covered by s.
func (b *Buffer) Slice(s TextSpan) string {
	b.check(s)
	return string(utf16.Decode(b.units[s.Start:s.End()]))
}

// Replace substitutes text for the range s.
func (b *Buffer) Replace(s TextSpan, text string) {
	b.check(s)
	b.units = slices.Replace(b.units, s.Start, s.End(), encode(text)...)
}

// Insert places text before offset at.
func (b *Buffer) Insert(at int, text string) {
	b.Replace(TextSpan{Start: at}, text)
}

func (b *Buffer) check(s TextSpan) {
	if s.Start < 0 || s.Length < 0 || s.End() > len(b.units) {
		panic(fmt.Sprintf("span: %v outside buffer of length %d", s, len(b.units)))
	}
}

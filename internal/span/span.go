// Package span describes offset ranges over Swift source text and finds the
// comment and string-literal ranges the rewriter works with.
//
// All offsets are UTF-16 code units, the indexing unit of NSString, so spans
// agree with what Swift tooling reports for the same file.
package span

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern reports a pattern that does not compile. It is a
	// defect in the pattern table, never a problem with user input.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrLineOutOfRange reports a requested line with no text behind it.
	ErrLineOutOfRange = errors.New("line out of range")
	// ErrScan reports a failure while matching, such as a match timeout.
	ErrScan = errors.New("scan failed")
	// ErrInvalidUTF8 reports input that is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
)

// TextSpan is the half-open range [Start, Start+Length).
type TextSpan struct {
	Start  int
	Length int
}

// End returns the exclusive end offset.
func (s TextSpan) End() int { return s.Start + s.Length }

// Overlaps reports whether s and o share at least one offset.
func (s TextSpan) Overlaps(o TextSpan) bool {
	return max(s.Start, o.Start) < min(s.End(), o.End())
}

// Contains reports whether offset lies inside s.
func (s TextSpan) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End()
}

func (s TextSpan) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End())
}

// CommentKind tells block comments from line comments.
type CommentKind int

const (
	MultiLine CommentKind = iota
	SingleLine
)

func (k CommentKind) String() string {
	switch k {
	case MultiLine:
		return "multi-line"
	case SingleLine:
		return "single-line"
	}
	return fmt.Sprintf("CommentKind(%d)", int(k))
}

// CommentSpan is the range of one comment match.
type CommentSpan struct {
	TextSpan
	Kind CommentKind
}

// LiteralSpan is the range of one quoted literal, delimiters included.
type LiteralSpan struct {
	TextSpan
	// Text is the matched source text, quotes included.
	Text string
	// HasInterpolation is set when the literal contains an unescaped \( marker.
	HasInterpolation bool
}

// Interior returns Text without its delimiting quotes.
func (l LiteralSpan) Interior() string {
	if len(l.Text) < 2 {
		return ""
	}
	return l.Text[1 : len(l.Text)-1]
}

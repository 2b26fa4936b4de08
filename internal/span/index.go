package span

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Patterns used to scan Swift source. They rely on lookaround and
// backreferences, which is why they run on regexp2 rather than regexp.
const (
	// /* ... */ not preceded by a slash.
	blockCommentPattern = `(?<!/)/\*(?:(?!\*/)[\s\S])*\*/`
	// // to end of line, continued while the line ends in a backslash.
	lineCommentPattern = `//[^\r\n]*(?:(?<=\\)\r?\n[^\r\n]*)*`
	// '...' or "..." with backslash escapes, shortest match, single line.
	literalPattern = `(["'])(?:(?=(\\?))\2.)*?\1`
	// \( not preceded by a backslash.
	interpolationPattern = `[^\\]\\\((.*?)\)`
	// identifier followed by whitespace and '='.
	propertyPattern = `\b\w+\b\s=`
)

// DefaultMatchTimeout bounds every single regex match.
const DefaultMatchTimeout = 5 * time.Second

// Option configures an Index.
type Option func(*Index)

// WithMatchTimeout overrides DefaultMatchTimeout. Zero or negative values
// disable the timeout.
func WithMatchTimeout(d time.Duration) Option {
	return func(ix *Index) { ix.timeout = d }
}

// Index answers span queries over one immutable text.
type Index struct {
	text  string
	runes []rune
	// offs[i] is the UTF-16 offset of runes[i]; offs[len(runes)] is the total.
	offs  []int
	lines []TextSpan

	timeout time.Duration

	blockComment  *regexp2.Regexp
	lineComment   *regexp2.Regexp
	literal       *regexp2.Regexp
	interpolation *regexp2.Regexp
	property      *regexp2.Regexp
}

// NewIndex compiles the scanning patterns and prepares offset tables for text.
func NewIndex(text string, opts ...Option) (*Index, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidUTF8
	}
	ix := &Index{
		text:    text,
		runes:   []rune(text),
		timeout: DefaultMatchTimeout,
	}
	for _, opt := range opts {
		opt(ix)
	}

	for _, p := range []struct {
		dst     **regexp2.Regexp
		pattern string
	}{
		{&ix.blockComment, blockCommentPattern},
		{&ix.lineComment, lineCommentPattern},
		{&ix.literal, literalPattern},
		{&ix.interpolation, interpolationPattern},
		{&ix.property, propertyPattern},
	} {
		re, err := ix.compile(p.pattern)
		if err != nil {
			return nil, err
		}
		*p.dst = re
	}

	ix.offs = make([]int, len(ix.runes)+1)
	for i, r := range ix.runes {
		n := 1
		if r >= 0x10000 {
			n = 2
		}
		ix.offs[i+1] = ix.offs[i] + n
	}
	ix.lines = ix.splitLines()
	return ix, nil
}

func (ix *Index) compile(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	if ix.timeout > 0 {
		re.MatchTimeout = ix.timeout
	}
	return re, nil
}

// splitLines cuts the text at '\n'. A '\r' before the newline is not part of
// the line span.
func (ix *Index) splitLines() []TextSpan {
	var lines []TextSpan
	start := 0
	for i, r := range ix.runes {
		if r != '\n' {
			continue
		}
		end := i
		if end > start && ix.runes[end-1] == '\r' {
			end--
		}
		lines = append(lines, ix.runeSpan(start, end))
		start = i + 1
	}
	end := len(ix.runes)
	if end > start && ix.runes[end-1] == '\r' {
		end--
	}
	return append(lines, ix.runeSpan(start, end))
}

// runeSpan converts the rune range [from, to) to UTF-16 units.
func (ix *Index) runeSpan(from, to int) TextSpan {
	return TextSpan{Start: ix.offs[from], Length: ix.offs[to] - ix.offs[from]}
}

// runeIndex maps a UTF-16 offset to the index of the rune starting there.
func (ix *Index) runeIndex(offset int) int {
	return sort.SearchInts(ix.offs, offset)
}

// Len returns the text length in UTF-16 units.
func (ix *Index) Len() int { return ix.offs[len(ix.offs)-1] }

// Full returns the span of the whole text.
func (ix *Index) Full() TextSpan { return TextSpan{Length: ix.Len()} }

// Text returns the text covered by s.
func (ix *Index) Text(s TextSpan) string {
	return string(ix.runes[ix.runeIndex(s.Start):ix.runeIndex(s.End())])
}

// each runs re over runes and calls fn with every match, in order.
func (ix *Index) each(re *regexp2.Regexp, runes []rune, fn func(m *regexp2.Match) error) error {
	m, err := re.FindRunesMatch(runes)
	for ; err == nil && m != nil; m, err = re.FindNextMatch(m) {
		if err := fn(m); err != nil {
			return err
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScan, err)
	}
	return nil
}

// Comments returns block comment matches followed by line comment matches.
// Overlapping spans are kept as they are.
func (ix *Index) Comments() ([]CommentSpan, error) {
	var comments []CommentSpan
	for _, c := range []struct {
		re   *regexp2.Regexp
		kind CommentKind
	}{
		{ix.blockComment, MultiLine},
		{ix.lineComment, SingleLine},
	} {
		err := ix.each(c.re, ix.runes, func(m *regexp2.Match) error {
			comments = append(comments, CommentSpan{
				TextSpan: ix.runeSpan(m.Index, m.Index+m.Length),
				Kind:     c.kind,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return comments, nil
}

// Literals returns every quoted literal inside region. The region is matched
// on its own, so a literal cannot start before region or run past it.
func (ix *Index) Literals(region TextSpan) ([]LiteralSpan, error) {
	if region.Start < 0 || region.Length < 0 || region.End() > ix.Len() {
		return nil, fmt.Errorf("%w: region %v", ErrLineOutOfRange, region)
	}
	from, to := ix.runeIndex(region.Start), ix.runeIndex(region.End())

	var literals []LiteralSpan
	err := ix.each(ix.literal, ix.runes[from:to], func(m *regexp2.Match) error {
		text := m.String()
		interpolated, err := ix.interpolation.MatchString(text)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrScan, err)
		}
		literals = append(literals, LiteralSpan{
			TextSpan:         ix.runeSpan(from+m.Index, from+m.Index+m.Length),
			Text:             text,
			HasInterpolation: interpolated,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return literals, nil
}

// LineCount returns the number of lines; text ending in a newline has an
// empty last line.
func (ix *Index) LineCount() int { return len(ix.lines) }

// LineSpan returns the span of the 1-based line n, without its terminator.
func (ix *Index) LineSpan(n int) (TextSpan, error) {
	if n < 1 || n > len(ix.lines) {
		return TextSpan{}, fmt.Errorf("%w: line %d, file has %d lines", ErrLineOutOfRange, n, len(ix.lines))
	}
	return ix.lines[n-1], nil
}

// LineAt returns the line holding offset.
func (ix *Index) LineAt(offset int) TextSpan {
	i := sort.Search(len(ix.lines), func(i int) bool { return ix.lines[i].Start > offset })
	return ix.lines[max(i-1, 0)]
}

// PrecedingLine returns the line just above line.
func (ix *Index) PrecedingLine(line TextSpan) (TextSpan, bool) {
	i := sort.Search(len(ix.lines), func(i int) bool { return ix.lines[i].Start >= line.Start })
	if i == 0 || i == len(ix.lines) || ix.lines[i] != line {
		return TextSpan{}, false
	}
	return ix.lines[i-1], true
}

// LineContaining returns the first line whose text contains s.
func (ix *Index) LineContaining(s string) (TextSpan, bool) {
	for _, line := range ix.lines {
		if strings.Contains(ix.Text(line), s) {
			return line, true
		}
	}
	return TextSpan{}, false
}

// PropertyName returns the identifier assigned on line, if any. For
// "let apiKey = value" it returns "apiKey".
func (ix *Index) PropertyName(line TextSpan) (string, bool) {
	m, err := ix.property.FindStringMatch(ix.Text(line))
	if err != nil || m == nil {
		return "", false
	}
	name := strings.Trim(strings.Trim(m.String(), "="), " \t")
	return name, name != ""
}

// Indent returns the leading spaces and tabs of line.
func (ix *Index) Indent(line TextSpan) string {
	text := ix.Text(line)
	return text[:len(text)-len(strings.TrimLeft(text, " \t"))]
}

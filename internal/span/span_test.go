package span

import (
	"errors"
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"
)

func mustIndex(t *testing.T, text string) *Index {
	t.Helper()
	ix, err := NewIndex(text)
	qt.Assert(t, qt.IsNil(err))
	return ix
}

func TestTextSpanOverlaps(t *testing.T) {
	t.Parallel()

	a := TextSpan{Start: 0, Length: 5}
	qt.Assert(t, qt.IsTrue(a.Overlaps(TextSpan{Start: 4, Length: 3})))
	qt.Assert(t, qt.IsFalse(a.Overlaps(TextSpan{Start: 5, Length: 3})))
	qt.Assert(t, qt.IsFalse(a.Overlaps(TextSpan{Start: 2, Length: 0})))
	qt.Assert(t, qt.IsTrue(a.Contains(4)))
	qt.Assert(t, qt.IsFalse(a.Contains(5)))
	qt.Assert(t, qt.Equals(a.String(), "[0,5)"))
}

func TestBufferEdits(t *testing.T) {
	t.Parallel()

	buf := NewBuffer(`a "🙂" b`)
	qt.Assert(t, qt.Equals(buf.Len(), 8))
	qt.Assert(t, qt.Equals(buf.Slice(TextSpan{Start: 2, Length: 4}), `"🙂"`))

	buf.Replace(TextSpan{Start: 2, Length: 4}, "X")
	qt.Assert(t, qt.Equals(buf.String(), "a X b"))

	buf.Insert(0, "// c\n")
	qt.Assert(t, qt.Equals(buf.String(), "// c\na X b"))

	qt.Assert(t, qt.PanicMatches(func() {
		buf.Replace(TextSpan{Start: 3, Length: 100}, "")
	}, `span: .* outside buffer of length 10`))
}

func TestComments(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		text string
		want []CommentSpan
	}{
		{
			name: "block then line",
			text: "let a = 1 /* c */ // d\nx",
			want: []CommentSpan{
				{TextSpan{Start: 10, Length: 7}, MultiLine},
				{TextSpan{Start: 18, Length: 4}, SingleLine},
			},
		},
		{
			name: "line continuation",
			text: "// a\\\nb\nc",
			want: []CommentSpan{
				{TextSpan{Start: 0, Length: 7}, SingleLine},
			},
		},
		{
			name: "block after slash is not a block",
			text: "//* x */",
			want: []CommentSpan{
				{TextSpan{Start: 0, Length: 8}, SingleLine},
			},
		},
		{
			name: "multi line block",
			text: "/*\n * doc\n */\nlet x = 1",
			want: []CommentSpan{
				{TextSpan{Start: 0, Length: 13}, MultiLine},
			},
		},
		{
			name: "url inside literal",
			text: `let u = "https://example.com"`,
			want: []CommentSpan{
				{TextSpan{Start: 15, Length: 14}, SingleLine},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := mustIndex(t, tc.text).Comments()
			qt.Assert(t, qt.IsNil(err))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("comments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLiterals(t *testing.T) {
	t.Parallel()

	ix := mustIndex(t, `let s = "a\"b"; let c = 'x'; let e = ""`)
	got, err := ix.Literals(ix.Full())
	qt.Assert(t, qt.IsNil(err))

	want := []LiteralSpan{
		{TextSpan: TextSpan{Start: 8, Length: 6}, Text: `"a\"b"`},
		{TextSpan: TextSpan{Start: 24, Length: 3}, Text: `'x'`},
		{TextSpan: TextSpan{Start: 37, Length: 2}, Text: `""`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("literals mismatch (-want +got):\n%s", diff)
	}
	qt.Assert(t, qt.Equals(got[0].Interior(), `a\"b`))
	qt.Assert(t, qt.Equals(got[2].Interior(), ""))
}

func TestLiteralOffsetsAreUTF16(t *testing.T) {
	t.Parallel()

	ix := mustIndex(t, `let e = "🙂"; let f = "x"`)
	got, err := ix.Literals(ix.Full())
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(got, 2))
	qt.Assert(t, qt.Equals(got[0].TextSpan, TextSpan{Start: 8, Length: 4}))
	qt.Assert(t, qt.Equals(got[1].TextSpan, TextSpan{Start: 22, Length: 3}))
	qt.Assert(t, qt.Equals(ix.Len(), 25))
	qt.Assert(t, qt.Equals(ix.Text(got[0].TextSpan), `"🙂"`))
}

func TestLiteralsInterpolation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		text string
		want bool
	}{
		{`"value: \(x)"`, true},
		{`"\(x)"`, true},
		{`"plain"`, false},
		{`"escaped \\(x)"`, false},
	}
	for _, tc := range testCases {
		ix := mustIndex(t, tc.text)
		got, err := ix.Literals(ix.Full())
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.HasLen(got, 1), qt.Commentf("text %s", tc.text))
		qt.Assert(t, qt.Equals(got[0].HasInterpolation, tc.want), qt.Commentf("text %s", tc.text))
	}
}

func TestLiteralsRegion(t *testing.T) {
	t.Parallel()

	ix := mustIndex(t, "let a = \"1\"\nlet b = \"2\"")
	line, err := ix.LineSpan(2)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(line, TextSpan{Start: 12, Length: 11}))

	got, err := ix.Literals(line)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(got, 1))
	qt.Assert(t, qt.Equals(got[0].TextSpan, TextSpan{Start: 20, Length: 3}))
	qt.Assert(t, qt.Equals(got[0].Text, `"2"`))

	_, err = ix.Literals(TextSpan{Start: 20, Length: 100})
	qt.Assert(t, qt.ErrorIs(err, ErrLineOutOfRange))
}

func TestLines(t *testing.T) {
	t.Parallel()

	ix := mustIndex(t, "a\r\nbb\n")
	qt.Assert(t, qt.Equals(ix.LineCount(), 3))

	want := []TextSpan{{0, 1}, {3, 2}, {6, 0}}
	for i, w := range want {
		got, err := ix.LineSpan(i + 1)
		qt.Assert(t, qt.IsNil(err))
		qt.Assert(t, qt.Equals(got, w))
	}

	for _, n := range []int{0, -1, 4} {
		_, err := ix.LineSpan(n)
		qt.Assert(t, qt.IsTrue(errors.Is(err, ErrLineOutOfRange)), qt.Commentf("line %d", n))
	}

	qt.Assert(t, qt.Equals(ix.LineAt(0), TextSpan{0, 1}))
	qt.Assert(t, qt.Equals(ix.LineAt(2), TextSpan{0, 1}))
	qt.Assert(t, qt.Equals(ix.LineAt(4), TextSpan{3, 2}))
	qt.Assert(t, qt.Equals(ix.LineAt(6), TextSpan{6, 0}))

	above, ok := ix.PrecedingLine(TextSpan{3, 2})
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(above, TextSpan{0, 1}))
	_, ok = ix.PrecedingLine(TextSpan{0, 1})
	qt.Assert(t, qt.IsFalse(ok))

	line, ok := ix.LineContaining("b")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(line, TextSpan{Start: 3, Length: 2}))
	_, ok = ix.LineContaining("zz")
	qt.Assert(t, qt.IsFalse(ok))
}

func TestPropertyName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		line   string
		want   string
		wantOK bool
	}{
		{`    let apiKey = "secret123"`, "apiKey", true},
		{`var token="x"`, "", false},
		{`static let key: String = "x"`, "String", true},
		{`print("x")`, "", false},
	}
	for _, tc := range testCases {
		ix := mustIndex(t, tc.line)
		got, ok := ix.PropertyName(ix.Full())
		qt.Assert(t, qt.Equals(ok, tc.wantOK), qt.Commentf("line %q", tc.line))
		qt.Assert(t, qt.Equals(got, tc.want), qt.Commentf("line %q", tc.line))
	}
}

func TestIndent(t *testing.T) {
	t.Parallel()

	ix := mustIndex(t, "\t  let x = 1")
	qt.Assert(t, qt.Equals(ix.Indent(ix.Full()), "\t  "))
}

func TestInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := NewIndex("bad \xff byte")
	qt.Assert(t, qt.ErrorIs(err, ErrInvalidUTF8))

	ix := mustIndex(t, "")
	_, err = ix.compile(`(unclosed`)
	qt.Assert(t, qt.ErrorIs(err, ErrInvalidPattern))
}

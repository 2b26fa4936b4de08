// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

package cipher

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/go-quicktest/qt"
)

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		text string
		salt string
	}{
		{"single", "a", "k"},
		{"short key", "secret123", "k"},
		{"long key", "hi", "a much longer salt than the text"},
		{"unicode", "héllo wörld 🙂", "salt"},
		{"equal bytes", "kkkk", "k"},
		{"escapes", `line\nbreak \"quoted\"`, "xyz"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := Encode([]byte(tc.text), []byte(tc.salt))
			qt.Assert(t, qt.HasLen(encoded, len(tc.text)))

			decoded, ok := Decode(encoded, []byte(tc.salt))
			qt.Assert(t, qt.IsTrue(ok))
			qt.Assert(t, qt.Equals(decoded, tc.text))
		})
	}
}

func TestEncodeKnownVector(t *testing.T) {
	t.Parallel()

	// 's' ^ 'k' = 0x73 ^ 0x6b = 0x18, 'e' ^ 'k' = 0x65 ^ 0x6b = 0x0e
	got := Encode([]byte("se"), []byte("k"))
	qt.Assert(t, qt.DeepEquals(got, []byte{0x18, 0x0e}))
}

func TestEncodeEmptyKeyPanics(t *testing.T) {
	t.Parallel()

	qt.Assert(t, qt.PanicMatches(func() {
		Encode([]byte("x"), nil)
	}, "cipher: empty key"))
}

func TestDecodeInvalidUTF8(t *testing.T) {
	t.Parallel()

	// 0xff ^ 0x00 stays 0xff, which never starts a valid UTF-8 sequence.
	_, ok := Decode([]byte{0xff}, []byte{0x00})
	qt.Assert(t, qt.IsFalse(ok))
}

func TestNewSalt(t *testing.T) {
	t.Parallel()

	_, err := NewSalt("")
	qt.Assert(t, qt.IsTrue(errors.Is(err, ErrEmptySalt)))

	salt, err := NewSalt("k")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(salt.String(), "k"))
}

func TestFormatAndParseBytes(t *testing.T) {
	t.Parallel()

	qt.Assert(t, qt.Equals(FormatBytes(nil), "[]"))
	qt.Assert(t, qt.Equals(FormatBytes([]byte{1, 22, 255}), "[1, 22, 255]"))

	for _, in := range []string{"[1, 22, 255]", "1,22,255", " 1 22\t255 "} {
		got, err := ParseBytes(in)
		qt.Assert(t, qt.IsNil(err), qt.Commentf("input %q", in))
		qt.Assert(t, qt.DeepEquals(got, []byte{1, 22, 255}))
	}

	_, err := ParseBytes("[1, 256]")
	qt.Assert(t, qt.IsNotNil(err))
	_, err = ParseBytes("[1, x]")
	qt.Assert(t, qt.IsNotNil(err))
}

func TestRandomSalt(t *testing.T) {
	t.Parallel()

	a, err := RandomSalt(8)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(a, 16))

	b, err := RandomSalt(8)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Not(qt.Equals(a, b)))

	_, err = RandomSalt(0)
	qt.Assert(t, qt.ErrorIs(err, ErrEmptySalt))
}

func FuzzRoundTrip(f *testing.F) {
	f.Add("secret123", "k")
	f.Add("", "salt")
	f.Add("🙂 emoji", "\x00")
	f.Fuzz(func(t *testing.T, text, salt string) {
		if salt == "" || !utf8.ValidString(text) {
			t.Skip()
		}
		encoded := Encode([]byte(text), []byte(salt))
		if len(encoded) != len(text) {
			t.Fatalf("length changed: %d != %d", len(encoded), len(text))
		}
		decoded, ok := Decode(encoded, []byte(salt))
		if !ok || decoded != text {
			t.Fatalf("round trip failed: got %q, %v", decoded, ok)
		}
	})
}

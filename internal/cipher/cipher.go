// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

// Package cipher implements the repeating-key XOR transform shared by the
// rewriter and the generated Swift runtime.
package cipher

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrEmptySalt is returned when a salt with no bytes is supplied. XOR with an
// empty key is undefined, so this is a configuration error.
var ErrEmptySalt = errors.New("salt must not be empty")

// Salt is the UTF-8 encoding of the user supplied salt string.
type Salt []byte

// NewSalt validates s and returns its bytes.
func NewSalt(s string) (Salt, error) {
	if s == "" {
		return nil, ErrEmptySalt
	}
	return Salt(s), nil
}

// String returns the salt as the text it was built from.
func (s Salt) String() string { return string(s) }

// Encode XORs plaintext with key, repeating key as needed. The output always
// has the same length as the input.
func Encode(plaintext, key []byte) []byte {
	if len(key) == 0 {
		panic("cipher: empty key")
	}
	out := make([]byte, len(plaintext))
	for i, b := range plaintext {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// Decode reverses Encode. It reports false when the decoded bytes are not
// valid UTF-8, mirroring the nil result of the Swift runtime's reveal.
func Decode(data, key []byte) (string, bool) {
	plain := Encode(data, key)
	if !utf8.Valid(plain) {
		return "", false
	}
	return string(plain), true
}

// FormatBytes renders data as a Swift array literal, e.g. "[1, 2, 3]".
func FormatBytes(data []byte) string {
	var sb strings.Builder
	sb.Grow(2 + len(data)*5)
	sb.WriteByte('[')
	for i, b := range data {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(b)))
	}
	sb.WriteByte(']')
	return sb.String()
}

// ParseBytes accepts the output of FormatBytes as well as bare comma or
// whitespace separated decimal values.
func ParseBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte %q: %w", f, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// RandomSalt returns a hex encoded salt built from n random bytes.
func RandomSalt(n int) (string, error) {
	if n <= 0 {
		return "", ErrEmptySalt
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("salt generation failed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

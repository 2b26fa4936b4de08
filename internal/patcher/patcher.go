// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

// Package patcher makes a rewritten Swift file compile on its own: it adds the
// SwiftLint suppression header and the salt-bound Obfuscator accessor.
package patcher

import (
	"fmt"
	"strings"
)

const (
	// LintMarker disables the line length rule that long byte arrays break.
	LintMarker = "swiftlint:disable line_length"
	// AccessorMarker identifies the accessor line holding the salt.
	AccessorMarker = "return Obfuscator(withSalt:"
)

const accessorBlock = `

fileprivate extension Obfuscator {

    @inline(__always)
    static var ` + "`default`" + `: Obfuscator {
        %s
    }

}
`

// Patch applies EnsureLintHeader and EnsureAccessor.
func Patch(text, salt string) string {
	return EnsureAccessor(EnsureLintHeader(text), salt)
}

// EnsureLintHeader prepends a comment carrying LintMarker unless the marker
// already appears somewhere in text.
func EnsureLintHeader(text string) string {
	if strings.Contains(text, LintMarker) {
		return text
	}
	return "// " + LintMarker + "\n" + text
}

// EnsureAccessor binds the file's Obfuscator accessor to salt. An existing
// accessor line is rewritten in place, keeping its indentation; otherwise a
// new fileprivate extension is appended.
func EnsureAccessor(text, salt string) string {
	line := accessorLine(salt)
	lines := strings.SplitAfter(text, "\n")
	for i, l := range lines {
		if !strings.Contains(l, AccessorMarker) {
			continue
		}
		body := strings.TrimRight(l, "\r\n")
		indent := body[:len(body)-len(strings.TrimLeft(body, " \t"))]
		lines[i] = indent + line + l[len(body):]
		return strings.Join(lines, "")
	}
	return text + fmt.Sprintf(accessorBlock, line)
}

func accessorLine(salt string) string {
	return AccessorMarker + " " + Quote(salt) + ")"
}

// Quote renders s as a Swift string literal.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u{%x}`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

// Package patch turns a rewrite into a reviewable unified diff and applies
// such diffs back onto a source file.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/rogpeppe/go-internal/diff"
)

var (
	// ErrNoChanges is returned when a diff would be empty, or a patch holds
	// no text fragments.
	ErrNoChanges = errors.New("no changes")
	// ErrMismatch is returned when a patch does not fit the source it is
	// applied to.
	ErrMismatch = errors.New("patch does not apply")
)

// Diff returns the unified diff turning before into after. Both sides are
// labelled with name.
func Diff(name, before, after string) ([]byte, error) {
	d := diff.Diff(name, []byte(before), name, []byte(after))
	if len(d) == 0 {
		return nil, ErrNoChanges
	}
	return d, nil
}

// Apply parses patchData and applies its single file patch to source.
func Apply(source, patchData []byte) ([]byte, error) {
	files, _, err := gitdiff.Parse(bytes.NewReader(patchData))
	if err != nil {
		return nil, fmt.Errorf("parsing patch: %w", err)
	}
	switch len(files) {
	case 0:
		return nil, ErrNoChanges
	case 1:
	default:
		return nil, fmt.Errorf("patch touches %d files, want 1", len(files))
	}
	file := files[0]
	if file.IsBinary || file.IsDelete || file.IsRename {
		return nil, fmt.Errorf("%s: only text modifications are supported", file.NewName)
	}
	if len(file.TextFragments) == 0 {
		return nil, ErrNoChanges
	}
	return applyFile(source, file)
}

// splitLines cuts src after every newline. A final line without a newline
// is kept as is.
func splitLines(src []byte) []string {
	if len(src) == 0 {
		return nil
	}
	lines := strings.SplitAfter(string(src), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func applyFile(source []byte, file *gitdiff.File) ([]byte, error) {
	lines := splitLines(source)
	var out strings.Builder
	out.Grow(len(source))

	idx := 0
	for n, frag := range file.TextFragments {
		start := int(frag.OldPosition) - 1
		if frag.OldLines == 0 {
			// Pure insertions name the line after which they go.
			start++
		}
		if start < idx || start > len(lines) {
			return nil, fmt.Errorf("%w: fragment %d starts at line %d of %d", ErrMismatch, n+1, frag.OldPosition, len(lines))
		}
		for ; idx < start; idx++ {
			out.WriteString(lines[idx])
		}
		for _, line := range frag.Lines {
			switch line.Op {
			case gitdiff.OpContext, gitdiff.OpDelete:
				if idx >= len(lines) || lines[idx] != line.Line {
					return nil, fmt.Errorf("%w: fragment %d differs at line %d", ErrMismatch, n+1, idx+1)
				}
				if line.Op == gitdiff.OpContext {
					out.WriteString(lines[idx])
				}
				idx++
			case gitdiff.OpAdd:
				out.WriteString(line.Line)
			}
		}
	}
	for ; idx < len(lines); idx++ {
		out.WriteString(lines[idx])
	}
	return []byte(out.String()), nil
}

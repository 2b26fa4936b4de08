// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

// Package literals selects Swift string literals and rewrites them into
// calls to the salt-bound Obfuscator runtime.
package literals

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hashicorp/go-hclog"

	"github.com/AeonDave/strobf/internal/cipher"
	"github.com/AeonDave/strobf/internal/span"
)

// revealFormat is the Swift expression that replaces a literal. The "?? """
// fallback covers bytes that do not decode to UTF-8 at runtime.
const revealFormat = `Obfuscator.default.reveal(key: %s) ?? ""`

// Expression returns the Swift expression that evaluates to interior when
// revealed with salt.
func Expression(interior string, salt cipher.Salt) string {
	return fmt.Sprintf(revealFormat, cipher.FormatBytes(cipher.Encode([]byte(interior), salt)))
}

// ProvenanceComment is the line inserted above a rewritten assignment.
func ProvenanceComment(indent, name string) string {
	return indent + `// Obfuscated from "` + name + `"` + "\n"
}

// Edit is one literal and the text that replaces it.
type Edit struct {
	Literal     span.LiteralSpan
	Replacement string
}

// Stats summarizes a Rewrite call.
type Stats struct {
	Rewritten int
	Skipped   int
	Comments  int
}

// Rewriter turns selected literals into reveal expressions.
type Rewriter struct {
	Salt cipher.Salt
	// Index covers the text the literal spans were computed from.
	Index  *span.Index
	Logger hclog.Logger
}

func (r *Rewriter) logger() hclog.Logger {
	if r.Logger == nil {
		return hclog.NewNullLogger()
	}
	return r.Logger
}

// Plan orders selected by descending start offset and computes each
// replacement. Empty literals are left out.
func (r *Rewriter) Plan(selected []span.LiteralSpan) []Edit {
	sorted := slices.Clone(selected)
	slices.SortStableFunc(sorted, func(a, b span.LiteralSpan) int {
		return cmp.Compare(b.Start, a.Start)
	})

	edits := make([]Edit, 0, len(sorted))
	for _, lit := range sorted {
		interior := lit.Interior()
		if interior == "" {
			continue
		}
		edits = append(edits, Edit{Literal: lit, Replacement: Expression(interior, r.Salt)})
	}
	return edits
}

type insertion struct {
	at   int
	text string
}

// Rewrite applies the plan for selected to buf, which must still hold the
// text r.Index was built from.
//
// Edits run back to front so that unprocessed spans keep their offsets. A
// provenance comment goes in right after its literal is replaced, unless a
// literal that is still to be rewritten sits at or after the comment's line
// start; such a comment waits until the loop has moved above that line.
func (r *Rewriter) Rewrite(buf *span.Buffer, selected []span.LiteralSpan) Stats {
	if buf.Len() != r.Index.Len() {
		panic(fmt.Sprintf("literals: buffer length %d does not match index length %d", buf.Len(), r.Index.Len()))
	}
	log := r.logger()
	edits := r.Plan(selected)
	stats := Stats{Skipped: len(selected) - len(edits)}

	var pending []insertion
	commented := make(map[int]bool)
	// flush inserts every pending comment located after limit, bottom first.
	flush := func(limit int) {
		slices.SortFunc(pending, func(a, b insertion) int { return cmp.Compare(b.at, a.at) })
		kept := pending[:0]
		for _, ins := range pending {
			if ins.at > limit {
				buf.Insert(ins.at, ins.text)
				stats.Comments++
				continue
			}
			kept = append(kept, ins)
		}
		pending = kept
	}

	for i, e := range edits {
		flush(e.Literal.Start)
		buf.Replace(e.Literal.TextSpan, e.Replacement)
		stats.Rewritten++

		interior := e.Literal.Interior()
		line, ok := r.Index.LineContaining(interior)
		var name string
		if ok {
			name, ok = r.Index.PropertyName(line)
		}
		log.Debug("rewrote literal", "span", e.Literal.TextSpan.String(), "bytes", len(interior), "property", name)
		if !ok || commented[line.Start] {
			continue
		}
		commented[line.Start] = true

		comment := ProvenanceComment(r.Index.Indent(line), name)
		if above, ok := r.Index.PrecedingLine(line); ok && r.Index.Text(above)+"\n" == comment {
			continue
		}
		pending = append(pending, insertion{at: line.Start, text: comment})

		next := -1
		if i+1 < len(edits) {
			next = edits[i+1].Literal.Start
		}
		flush(next)
	}
	flush(-1)
	return stats
}

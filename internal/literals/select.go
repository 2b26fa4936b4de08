// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

package literals

import "github.com/AeonDave/strobf/internal/span"

// Select filters raw literal matches down to the ones worth rewriting.
//
// A literal is dropped when it is interpolated, or when a comment overlaps it
// and that comment starts before it. A comment that starts after the literal
// does not drop it, even when the two overlap: that is how a "//" inside a
// string such as "https://host" shows up.
func Select(raw []span.LiteralSpan, comments []span.CommentSpan) []span.LiteralSpan {
	var selected []span.LiteralSpan
	for _, lit := range raw {
		if lit.HasInterpolation || insideComment(lit, comments) {
			continue
		}
		selected = append(selected, lit)
	}
	return selected
}

func insideComment(lit span.LiteralSpan, comments []span.CommentSpan) bool {
	for _, c := range comments {
		if c.Overlaps(lit.TextSpan) && c.Start < lit.Start {
			return true
		}
	}
	return false
}

// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

// Package engine wires the scanning, selection, rewrite and patch stages into
// a single call over one in-memory Swift source file.
package engine

import (
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/AeonDave/strobf/internal/cipher"
	"github.com/AeonDave/strobf/internal/literals"
	"github.com/AeonDave/strobf/internal/patcher"
	"github.com/AeonDave/strobf/internal/pipeline"
	"github.com/AeonDave/strobf/internal/span"
)

var (
	ErrInvalidPattern = span.ErrInvalidPattern
	ErrLineOutOfRange = span.ErrLineOutOfRange
	ErrInvalidUTF8    = span.ErrInvalidUTF8
	ErrEmptySalt      = cipher.ErrEmptySalt
)

// Stage names, in execution order.
const (
	StageScanning  = "scanning"
	StageSelecting = "selecting"
	StageRewriting = "rewriting"
	StagePatching  = "patching"
)

// Options tunes a single Obfuscate call. The zero value rewrites the whole
// file with the default match timeout.
type Options struct {
	// Line restricts rewriting to one 1-based line. Zero means every line.
	Line int
	// MatchTimeout bounds each regex match. Zero selects
	// span.DefaultMatchTimeout; a negative value disables the bound.
	MatchTimeout time.Duration
	Logger       hclog.Logger
}

// Result is the outcome of Run.
type Result struct {
	Output string
	// CommentSpans, Literals and Selected count the scan and selection results.
	CommentSpans int
	Literals     int
	Selected     int
	literals.Stats
}

type state struct {
	contents string
	salt     cipher.Salt
	opts     Options
	log      hclog.Logger

	index    *span.Index
	region   span.TextSpan
	comments []span.CommentSpan
	raw      []span.LiteralSpan
	selected []span.LiteralSpan
	buf      *span.Buffer
	stats    literals.Stats
	output   string
}

// Obfuscate rewrites every eligible literal of contents, or of line
// opts.Line only, and returns the patched file text.
func Obfuscate(contents, salt string, opts Options) (string, error) {
	res, err := Run(contents, salt, opts)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// Run is Obfuscate with statistics. On error no output is produced.
func Run(contents, salt string, opts Options) (*Result, error) {
	key, err := cipher.NewSalt(salt)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	st := &state{contents: contents, salt: key, opts: opts, log: log}

	pipe := pipeline.New[*state](log)
	pipe.AddFunc(StageScanning, scan)
	pipe.AddFunc(StageSelecting, selectLiterals)
	pipe.AddFunc(StageRewriting, rewrite)
	pipe.AddFunc(StagePatching, patch)
	if err := pipe.Execute(st); err != nil {
		log.Debug("obfuscation stopped", "last_completed", pipe.Completed())
		return nil, err
	}

	log.Info("obfuscation finished",
		"literals", len(st.raw), "selected", len(st.selected),
		"rewritten", st.stats.Rewritten, "comments", st.stats.Comments)
	return &Result{
		Output:       st.output,
		CommentSpans: len(st.comments),
		Literals:     len(st.raw),
		Selected:     len(st.selected),
		Stats:        st.stats,
	}, nil
}

func scan(st *state) error {
	var opts []span.Option
	if st.opts.MatchTimeout != 0 {
		opts = append(opts, span.WithMatchTimeout(st.opts.MatchTimeout))
	}
	ix, err := span.NewIndex(st.contents, opts...)
	if err != nil {
		return err
	}
	st.index = ix

	st.region = ix.Full()
	if st.opts.Line != 0 {
		if st.region, err = ix.LineSpan(st.opts.Line); err != nil {
			return err
		}
	}
	if st.comments, err = ix.Comments(); err != nil {
		return err
	}
	if st.raw, err = ix.Literals(st.region); err != nil {
		return err
	}
	st.log.Debug("scanned", "region", st.region.String(), "comments", len(st.comments), "literals", len(st.raw))
	return nil
}

// selectLiterals applies literals.Select and leaves out the salt of an
// existing accessor line, which the patch stage replaces anyway.
func selectLiterals(st *state) error {
	for _, lit := range literals.Select(st.raw, st.comments) {
		if onAccessorLine(st.index, lit) {
			continue
		}
		st.selected = append(st.selected, lit)
	}
	return nil
}

func onAccessorLine(ix *span.Index, lit span.LiteralSpan) bool {
	return strings.Contains(ix.Text(ix.LineAt(lit.Start)), patcher.AccessorMarker)
}

func rewrite(st *state) error {
	st.buf = span.NewBuffer(st.contents)
	rw := &literals.Rewriter{Salt: st.salt, Index: st.index, Logger: st.log.Named("rewrite")}
	st.stats = rw.Rewrite(st.buf, st.selected)
	return nil
}

func patch(st *state) error {
	st.output = patcher.Patch(st.buf.String(), st.salt.String())
	return nil
}

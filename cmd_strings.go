// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AeonDave/strobf/internal/engine"
	"github.com/AeonDave/strobf/internal/patch"
	"github.com/AeonDave/strobf/internal/span"
)

func (a *app) stringsCmd() *cobra.Command {
	var (
		path   string
		line   int
		diff   bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "strings -f FILE -s SALT",
		Short: "Rewrite the string literals of a Swift file",
		Long: `strings encodes every literal of FILE with SALT and rewrites the file in
place. Literals inside comments, interpolated literals and empty literals
are left alone. A salt of "random" generates one and logs it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			salt, err := a.salt(true)
			if err != nil {
				return err
			}
			contents, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			res, err := engine.Run(string(contents), salt, engine.Options{
				Line:         line,
				MatchTimeout: a.cfg.MatchTimeout,
				Logger:       a.log.Named("engine"),
			})
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			a.log.Info("rewrote file", "file", path,
				"literals", res.Literals, "rewritten", res.Rewritten, "skipped", res.Skipped)

			if diff {
				d, err := patch.Diff(path, string(contents), res.Output)
				if errors.Is(err, patch.ErrNoChanges) {
					a.log.Info("nothing to change", "file", path)
					return nil
				}
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(d)
				return err
			}

			dst := path
			if output != "" {
				dst = output
			}
			return os.WriteFile(dst, []byte(res.Output), 0o644)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&path, "file-path", "f", "", "Swift file to obfuscate")
	f.StringP("salt", "s", "", `salt to encode with, or "random"`)
	f.IntVarP(&line, "line", "l", 0, "only rewrite this 1-based line")
	f.BoolVarP(&diff, "diff", "d", false, "print a unified diff instead of writing")
	f.StringVarP(&output, "output", "o", "", "write the result here instead of FILE")
	f.Duration("match-timeout", span.DefaultMatchTimeout, "time limit for a single pattern match")
	cmd.MarkFlagRequired("file-path")
	return cmd
}

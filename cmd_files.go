// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AeonDave/strobf/internal/patch"
	"github.com/AeonDave/strobf/internal/patcher"
)

func (a *app) runtimeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "runtime [-o PATH]",
		Short: "Emit the Swift Obfuscator class that decodes rewritten literals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				return patcher.Runtime(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := patcher.Runtime(f); err != nil {
				f.Close()
				return err
			}
			a.log.Info("wrote runtime", "file", output)
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to PATH instead of stdout")
	return cmd
}

func (a *app) applyCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "apply -f FILE PATCH",
		Short: "Apply a diff printed by strings -d to FILE",
		Long:  `apply reads PATCH, or standard input when PATCH is "-", and rewrites FILE.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				patchData []byte
				err       error
			)
			if args[0] == "-" {
				patchData, err = io.ReadAll(cmd.InOrStdin())
			} else {
				patchData, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			source, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			out, err := patch.Apply(source, patchData)
			if err != nil {
				return err
			}
			a.log.Info("applied patch", "file", path, "patch", args[0])
			return os.WriteFile(path, out, 0o644)
		},
	}
	cmd.Flags().StringVarP(&path, "file-path", "f", "", "file to patch")
	cmd.MarkFlagRequired("file-path")
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AeonDave/strobf/internal/cipher"
)

func (a *app) encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode -s SALT TEXT...",
		Short: "Print the byte array a text encodes to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			salt, err := a.salt(true)
			if err != nil {
				return err
			}
			for _, text := range args {
				fmt.Fprintln(cmd.OutOrStdout(), cipher.FormatBytes(cipher.Encode([]byte(text), []byte(salt))))
			}
			return nil
		},
	}
	cmd.Flags().StringP("salt", "s", "", `salt to encode with, or "random"`)
	return cmd
}

func (a *app) revealCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reveal -s SALT BYTES",
		Short: "Decode a byte array back to its text",
		Long: `reveal accepts the array the way strings and encode print it, such as
"[24, 14, 8]", or bare comma or space separated values.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			salt, err := a.salt(false)
			if err != nil {
				return err
			}
			data, err := cipher.ParseBytes(strings.Join(args, " "))
			if err != nil {
				return err
			}
			text, ok := cipher.Decode(data, []byte(salt))
			if !ok {
				return errNotText
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringP("salt", "s", "", "salt the bytes were encoded with")
	return cmd
}

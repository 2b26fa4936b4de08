// Copyright (c) 2025, The strobf Authors.
// See LICENSE for licensing information.

// Command strobf hides the string literals of Swift source files behind
// salted byte arrays that are decoded at runtime.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/AeonDave/strobf/internal/cipher"
	"github.com/AeonDave/strobf/internal/config"
	"github.com/AeonDave/strobf/internal/flagenv"
	"github.com/AeonDave/strobf/internal/logging"
)

// randomSalt as a salt value asks for a freshly generated one.
const randomSalt = "random"

// randomSaltBytes is the entropy behind a generated salt.
const randomSaltBytes = 16

// app carries what every subcommand needs once the root command has
// resolved the configuration.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	configPath string
	cfg        *config.Config
	log        hclog.Logger
}

func main() { os.Exit(main1()) }

func main1() int {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	args, err := flagenv.Args()
	if err != nil {
		fmt.Fprintf(a.stderr, "strobf: %v\n", err)
		return 1
	}
	root := a.rootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if a.log != nil {
			a.log.Error(err.Error())
		} else {
			fmt.Fprintf(a.stderr, "strobf: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "strobf",
		Short: "Obfuscate string literals in Swift source files",
		Long: `strobf replaces the string literals of a Swift file with byte arrays
XORed with a salt, plus the accessor that reveals them at runtime.

Settings come from flags, STROBF_* environment variables and an optional
` + config.FileName + ` file, in that order. STROBF_FLAGS may hold extra
arguments that are inserted after the subcommand name.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.New("strobf", cfg.LogLevel, cfg.LogJSON, a.stderr)
			if cfg.File != "" {
				a.log.Debug("loaded config", "file", cfg.File)
			}
			return nil
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./"+config.FileName+")")
	pf.String("log-level", logging.DefaultLevel, "log level: trace, debug, info, warn or error")
	pf.Bool("log-json", false, "write logs as JSON")

	root.AddCommand(
		a.stringsCmd(),
		a.encodeCmd(),
		a.revealCmd(),
		a.runtimeCmd(),
		a.applyCmd(),
		a.configCmd(),
	)
	return root
}

// salt returns the configured salt. With allowRandom, the value "random"
// is replaced by a generated salt which is reported at warn level, since
// the caller needs it to decode anything later.
func (a *app) salt(allowRandom bool) (string, error) {
	salt := a.cfg.Salt
	if salt == "" {
		return "", fmt.Errorf("%w: use --salt, STROBF_SALT or the salt key of %s", cipher.ErrEmptySalt, config.FileName)
	}
	if allowRandom && salt == randomSalt {
		generated, err := cipher.RandomSalt(randomSaltBytes)
		if err != nil {
			return "", err
		}
		a.log.Warn("generated random salt", "salt", generated)
		return generated, nil
	}
	return salt, nil
}

var errNotText = errors.New("decoded bytes are not valid UTF-8")

// Package logging builds the hclog loggers used across strobf.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

// DefaultLevel keeps normal runs quiet apart from warnings.
const DefaultLevel = "warn"

// New creates a logger writing to output, or stderr when output is nil.
// Unknown levels fall back to DefaultLevel.
func New(name, level string, jsonFormat bool, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.LevelFromString(DefaultLevel)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      lvl,
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// SPDX-License-Identifier: MIT

// Package logging builds the console loggers shared by the binaries.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Options configures New.
type Options struct {
	Debug  bool
	Prefix string
	// JSON switches to one JSON object per line.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New returns a timestamped console logger at info level, or debug level with Debug.
func New(o Options) *log.Logger {
	out := o.Output
	if out == nil {
		out = os.Stderr
	}
	level := log.InfoLevel
	if o.Debug {
		level = log.DebugLevel
	}
	formatter := log.TextFormatter
	if o.JSON {
		formatter = log.JSONFormatter
	}

	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          o.Prefix,
		Formatter:       formatter,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger { return log.New(io.Discard) }

// Package logging provides the shared logger used by all internal packages.
package logging

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// L is the process-wide logger. It defaults to a human readable console
// logger when attached to a terminal, and JSON otherwise.
var L = newLogger(defaultWriter())

type logger struct {
	zerolog.Logger
}

func newLogger(writer io.Writer) *logger {
	l := zerolog.New(writer).With().Timestamp().Logger()
	return &logger{Logger: l}
}

func defaultWriter() io.Writer {
	if isTerminal() {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stdout
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// SetServerLogger switches L to structured JSON output on stdout,
// appropriate for a long-running server process.
func SetServerLogger() {
	L = newLogger(os.Stdout)
}

// SetLevel sets the global log level. The level must be one of the names
// understood by zerolog (trace, debug, info, warn, error).
func SetLevel(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed)
	return nil
}

// PatchLogger sets L to write to writer for the duration of the test.
func PatchLogger(t *testing.T, writer io.Writer) {
	orig := L
	L = newLogger(writer)
	t.Cleanup(func() {
		L = orig
	})
}

func Debugf(format string, v ...interface{}) {
	L.Debug().CallerSkipFrame(1).Msgf(format, v...)
}

func Infof(format string, v ...interface{}) {
	L.Info().CallerSkipFrame(1).Msgf(format, v...)
}

func Warnf(format string, v ...interface{}) {
	L.Warn().CallerSkipFrame(1).Msgf(format, v...)
}

func Errorf(format string, v ...interface{}) {
	L.Error().CallerSkipFrame(1).Msgf(format, v...)
}

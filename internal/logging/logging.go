// Package logging builds the zap logger used by the command line tool.
//
// Console output is split: debug to warning entries go to stdout, errors and
// above to stderr. Colour is used only when the stream is a terminal. An
// optional log file always records everything at debug level.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// Name is the logger name shown in the log file.
const Name = "md2book"

// Verbosity selects what reaches the console.
type Verbosity int

const (
	// Normal shows progress (info) and above.
	Normal Verbosity = iota
	// Quiet shows errors only.
	Quiet
	// Verbose adds debug entries.
	Verbose
)

// Options configures New.
type Options struct {
	Verbosity Verbosity
	Stdout    io.Writer // defaults to os.Stdout
	Stderr    io.Writer // defaults to os.Stderr
	LogFile   string    // truncated and written at debug level when set
}

// EnableColorOutput reports whether w is a terminal.
func EnableColorOutput(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// New returns the logger and a function that flushes it and closes the
// log file.
func New(opts Options) (*zap.Logger, func() error, error) {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	minConsole := zapcore.InfoLevel
	switch opts.Verbosity {
	case Quiet:
		minConsole = zapcore.ErrorLevel
	case Verbose:
		minConsole = zapcore.DebugLevel
	}

	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return minConsole <= lvl && lvl < zapcore.ErrorLevel
	})
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig(stdout)), zapcore.AddSync(stdout), lowPriority),
		zapcore.NewCore(newEncoder(consoleEncoderConfig(stderr)), zapcore.AddSync(stderr), highPriority),
	}

	var file *os.File
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) // #nosec G304 -- user-provided log path
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open log file %s: %w", opts.LogFile, err)
		}
		file = f
		fileEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.Lock(f), zapcore.DebugLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...)).Named(Name)

	closer := func() error {
		err := ignoreSyncErrors(logger.Sync())
		if file != nil {
			err = multierr.Append(err, file.Close())
		}
		return err
	}
	return logger, closer, nil
}

func consoleEncoderConfig(w io.Writer) zapcore.EncoderConfig {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.NameKey = zapcore.OmitKey
	ec.TimeKey = zapcore.OmitKey
	if EnableColorOutput(w) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	return ec
}

// ignoreSyncErrors drops the errors terminals and pipes return from fsync.
func ignoreSyncErrors(err error) error {
	var kept error
	for _, e := range multierr.Errors(err) {
		var pathErr *os.PathError
		if errors.As(e, &pathErr) {
			continue
		}
		kept = multierr.Append(kept, e)
	}
	return kept
}

// consoleEnc prints errors on the console by message only; wrapped error
// chains with verbose formatting stay in the log file.
type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	newFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if e, ok := f.Interface.(error); ok {
				f.Interface = errors.New(e.Error())
			}
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}

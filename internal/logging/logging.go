// Package logging builds the console logger shared by the cfl command.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// New returns a console logger on stderr. Verbose lowers the level to debug.
// Levels are coloured only when stderr is a terminal.
func New(verbose bool) (*zap.Logger, error) {
	return newConfig(verbose, term.IsTerminal(int(os.Stderr.Fd()))).Build()
}

func newConfig(verbose, color bool) zap.Config {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		config.Level.SetLevel(zapcore.DebugLevel)
	}

	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.StacktraceKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return config
}

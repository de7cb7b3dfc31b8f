package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
// Verbose loggers emit debug entries such as skipped directories.
func NewApplicationLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.Sampling = nil
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if term.IsTerminal(int(os.Stderr.Fd())) {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// SyncLogger flushes logger when stderr is a terminal or a regular file.
// Syncing a pipe or /dev/null fails with EINVAL on some platforms.
func SyncLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		_ = logger.Sync()
	}
}

func isRegularFile(file *os.File) bool {
	fileInformation, statError := file.Stat()
	return statError == nil && fileInformation.Mode().IsRegular()
}

package output

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/promptify/internal/services/clipboard"
	"github.com/temirov/promptify/internal/types"
)

const (
	outputFilePermissions = 0o644

	// errorWriteOutputFormat reports an output file that could not be written.
	errorWriteOutputFormat = "writing output to %s: %w"
	// errorClipboardFormat wraps a clipboard failure.
	errorClipboardFormat = "%w: %v"
	// errorStdoutFormat reports a failed fallback write to standard output.
	errorStdoutFormat = "writing prompt to standard output: %w"
)

// Delivery records where the assembled text ended up.
type Delivery struct {
	WrittenPath     string
	Copied          bool
	ClipboardError  error
	PrintedToStdout bool
}

// Sink writes the assembled text to a file and hands it to the clipboard.
type Sink struct {
	// Copier is nil when the clipboard is disabled.
	Copier clipboard.Copier
	Logger *zap.Logger
	// Stdout receives the text when it reached neither a file nor the clipboard.
	Stdout io.Writer
}

// Deliver persists text to destination when one is given, overwriting any
// existing content, and copies text to the clipboard. Clipboard failures are
// logged and reported in the Delivery, never returned. When no destination was
// given and nothing was copied, the text is written to Stdout.
func (sink *Sink) Deliver(text string, destination string) (Delivery, error) {
	logger := sink.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var delivery Delivery

	if destination != "" {
		if writeError := os.WriteFile(destination, []byte(text), outputFilePermissions); writeError != nil {
			return delivery, fmt.Errorf(errorWriteOutputFormat, destination, writeError)
		}
		delivery.WrittenPath = destination
	}

	if sink.Copier != nil {
		if copyError := sink.Copier.Copy(text); copyError != nil {
			delivery.ClipboardError = fmt.Errorf(errorClipboardFormat, types.ErrClipboardUnavailable, copyError)
			logger.Warn("could not access the clipboard", zap.Error(copyError))
		} else {
			delivery.Copied = true
		}
	}

	if delivery.WrittenPath == "" && !delivery.Copied {
		stdout := sink.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if _, printError := io.WriteString(stdout, text); printError != nil {
			return delivery, fmt.Errorf(errorStdoutFormat, printError)
		}
		delivery.PrintedToStdout = true
	}

	return delivery, nil
}

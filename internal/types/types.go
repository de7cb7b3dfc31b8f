// Package types holds the sentinel errors and enumerations shared across promptify packages.
package types

import (
	"errors"
	"fmt"
)

// Clipboard backends selectable through configuration and flags.
const (
	ClipboardBackendLibrary = "library"
	ClipboardBackendNative  = "native"
	ClipboardBackendNone    = "none"
)

var (
	// ErrNotFound reports a source directory that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotDirectory reports a source path that exists but is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrDecode reports a collected file whose content is not valid text.
	ErrDecode = errors.New("content is not valid UTF-8 text")
	// ErrClipboardUnavailable reports a clipboard that could not be written.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// DecodeError names the file whose content could not be decoded as text.
type DecodeError struct {
	Path string
}

func (decodeError *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", decodeError.Path, ErrDecode)
}

// Is makes errors.Is(err, ErrDecode) succeed for any DecodeError.
func (decodeError *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// IsSupportedClipboardBackend reports whether backend names a known clipboard backend.
func IsSupportedClipboardBackend(backend string) bool {
	switch backend {
	case ClipboardBackendLibrary, ClipboardBackendNative, ClipboardBackendNone:
		return true
	default:
		return false
	}
}

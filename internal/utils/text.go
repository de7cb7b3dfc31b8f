package utils

import (
	"unicode/utf8"
)

// IsDecodableText reports whether data can be decoded as UTF-8 text.
// NUL bytes are valid UTF-8 and do not make content undecodable.
func IsDecodableText(data []byte) bool {
	return utf8.Valid(data)
}

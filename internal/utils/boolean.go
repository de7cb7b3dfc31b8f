package utils

import "strings"

// BooleanLiteralsListing names the accepted boolean spellings for messages.
const BooleanLiteralsListing = "true, false, yes, no, on, off, 1, 0"

var booleanLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// ParseBooleanLiteral interprets yes/no, on/off, true/false, t/f, y/n and 1/0
// in any case. The second result is false when input is none of them.
func ParseBooleanLiteral(input string) (bool, bool) {
	parsed, ok := booleanLiterals[strings.ToLower(strings.TrimSpace(input))]
	return parsed, ok
}

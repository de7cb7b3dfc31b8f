package utils

import (
	"path"
	"runtime"
	"strings"
)

const (
	hiddenNamePrefix   = "."
	internalNamePrefix = "__"
)

// PatternSet holds ordered inclusion patterns and an optional exclusion pattern.
// Patterns only ever see the final path component.
type PatternSet struct {
	Include []string
	Exclude string
}

// Includes reports whether name matches an inclusion pattern and not the exclusion pattern.
func (patternSet PatternSet) Includes(name string) bool {
	return MatchesAny(name, patternSet.Include) && !IsExcluded(name, patternSet.Exclude)
}

// MatchesAny reports whether name matches at least one of patterns.
func MatchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if MatchName(pattern, name) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether a non-empty exclusion pattern matches name.
func IsExcluded(name string, exclude string) bool {
	if exclude == "" {
		return false
	}
	return MatchName(exclude, name)
}

// IsHiddenOrInternal reports whether name starts with a dot or a double underscore.
func IsHiddenOrInternal(name string) bool {
	return strings.HasPrefix(name, hiddenNamePrefix) || strings.HasPrefix(name, internalNamePrefix)
}

// MatchName matches a single basename against a shell-style glob with
// fnmatch semantics: "[!...]" negates a class, "]" first in a class and "-"
// first or last in a class are members, backslash is an ordinary character,
// and an unclosed "[" is literal. Matching folds case on Windows.
func MatchName(pattern string, name string) bool {
	if runtime.GOOS == "windows" {
		pattern = strings.ToLower(pattern)
		name = strings.ToLower(name)
	}
	isMatched, matchError := path.Match(translateGlob(pattern), name)
	if matchError != nil {
		return pattern == name
	}
	return isMatched
}

// translateGlob rewrites an fnmatch pattern into the syntax path.Match
// accepts, escaping every character that fnmatch treats literally.
func translateGlob(pattern string) string {
	var builder strings.Builder
	builder.Grow(len(pattern) * 2)
	for index := 0; index < len(pattern); index++ {
		character := pattern[index]
		switch character {
		case '\\':
			builder.WriteString(`\\`)
		case '[':
			closing := findClassEnd(pattern, index)
			if closing < 0 {
				builder.WriteString(`\[`)
				continue
			}
			writeClass(&builder, pattern[index+1:closing])
			index = closing
		default:
			builder.WriteByte(character)
		}
	}
	return builder.String()
}

// findClassEnd returns the index of the "]" closing the class opened at
// opening, or -1 when the class is never closed.
func findClassEnd(pattern string, opening int) int {
	searchFrom := opening + 1
	if searchFrom < len(pattern) && pattern[searchFrom] == '!' {
		searchFrom++
	}
	if searchFrom < len(pattern) && pattern[searchFrom] == ']' {
		searchFrom++
	}
	offset := strings.IndexByte(pattern[min(searchFrom, len(pattern)):], ']')
	if offset < 0 {
		return -1
	}
	return searchFrom + offset
}

func writeClass(builder *strings.Builder, members string) {
	builder.WriteByte('[')
	if strings.HasPrefix(members, "!") {
		builder.WriteByte('^')
		members = members[1:]
	}
	memberRunes := []rune(members)
	for index := 0; index < len(memberRunes); index++ {
		if index+2 < len(memberRunes) && memberRunes[index+1] == '-' {
			writeClassMember(builder, memberRunes[index])
			builder.WriteByte('-')
			writeClassMember(builder, memberRunes[index+2])
			index += 2
			continue
		}
		writeClassMember(builder, memberRunes[index])
	}
	builder.WriteByte(']')
}

func writeClassMember(builder *strings.Builder, member rune) {
	switch member {
	case '\\', ']', '-', '^', '[':
		builder.WriteByte('\\')
	}
	builder.WriteRune(member)
}

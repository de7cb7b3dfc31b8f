// Package utils contains general helper functions used across promptify.
package utils

import (
	"path/filepath"
	"strings"
)

// Configuration and naming constants used across the project.
const (
	// LocalConfigFileName is the configuration file looked up in the working directory.
	LocalConfigFileName = ".promptify.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".promptify"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// EnvironmentFileName is the dotenv file loaded from the working directory.
	EnvironmentFileName = ".env"
	// EnvironmentPrefix prefixes environment variables that override configuration.
	EnvironmentPrefix = "PROMPTIFY"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// DeduplicatePatterns removes duplicate and blank patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// ParentDirectory returns the directory containing path. Relative paths are
// resolved against the working directory first so that "src" yields the
// working directory rather than ".".
func ParentDirectory(path string) string {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		return filepath.Dir(filepath.Clean(path))
	}
	return filepath.Dir(absolutePath)
}

package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/promptify/internal/types"
	"github.com/temirov/promptify/internal/utils"
)

const (
	// errorSourceMissingFormat reports a source directory that does not exist.
	errorSourceMissingFormat = "source directory '%s': %w"
	// errorSourceStatFormat reports failure to inspect the source directory.
	errorSourceStatFormat = "stat failed for '%s': %w"
	// errorWalkFormat reports a traversal that could not complete.
	errorWalkFormat = "walking %s: %w"
)

// Collect walks sourceDirectoryPath in pre-order and returns the files whose
// basenames match the inclusion patterns and not the exclusion pattern.
// Directories matching the exclusion pattern, and hidden or internal
// directories when configured, are pruned before descent. Paths keep the
// spelling of sourceDirectoryPath and are sorted ascending as strings.
func (fileCollector *FileCollector) Collect(sourceDirectoryPath string) ([]string, error) {
	logger := loggerOrNop(fileCollector.Logger)

	sourceInformation, statError := os.Stat(sourceDirectoryPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return nil, fmt.Errorf(errorSourceMissingFormat, sourceDirectoryPath, types.ErrNotFound)
		}
		return nil, fmt.Errorf(errorSourceStatFormat, sourceDirectoryPath, statError)
	}
	if !sourceInformation.IsDir() {
		return nil, fmt.Errorf(errorSourceMissingFormat, sourceDirectoryPath, types.ErrNotDirectory)
	}

	collectedFiles := []string{}
	if len(fileCollector.Patterns.Include) == 0 {
		return collectedFiles, nil
	}

	// A trailing separator makes WalkDir descend into a symlinked source directory.
	walkRoot := sourceDirectoryPath
	if linkInformation, lstatError := os.Lstat(sourceDirectoryPath); lstatError == nil && linkInformation.Mode()&fs.ModeSymlink != 0 {
		walkRoot = sourceDirectoryPath + string(os.PathSeparator)
	}

	walkFunction := func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			if walkedPath == walkRoot {
				return accessError
			}
			logger.Warn("skipping unreadable path", zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if walkedPath == walkRoot {
			return nil
		}

		entryName := directoryEntry.Name()
		if directoryEntry.IsDir() {
			if fileCollector.isPrunedDirectory(entryName) {
				logger.Debug("pruning directory", zap.String("directory", walkedPath))
				return filepath.SkipDir
			}
			return nil
		}

		if !isRegularFile(walkedPath, directoryEntry) {
			return nil
		}
		if fileCollector.Patterns.Includes(entryName) {
			collectedFiles = append(collectedFiles, walkedPath)
		}
		return nil
	}

	if walkError := filepath.WalkDir(walkRoot, walkFunction); walkError != nil {
		return nil, fmt.Errorf(errorWalkFormat, sourceDirectoryPath, walkError)
	}

	sort.Strings(collectedFiles)
	return collectedFiles, nil
}

func (fileCollector *FileCollector) isPrunedDirectory(name string) bool {
	if utils.IsExcluded(name, fileCollector.Patterns.Exclude) {
		return true
	}
	return fileCollector.SkipHiddenAndInternalDirs && utils.IsHiddenOrInternal(name)
}

// isRegularFile reports whether the entry is a regular file, following symlinks
// so that links to files are collected and links to directories are not.
func isRegularFile(walkedPath string, directoryEntry fs.DirEntry) bool {
	if directoryEntry.Type().IsRegular() {
		return true
	}
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInformation, statError := os.Stat(walkedPath)
	return statError == nil && targetInformation.Mode().IsRegular()
}

// Package commands contains the core logic for collecting files and rendering trees.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/promptify/internal/utils"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"
	// errorBuildTreeFormat is used when rendering the tree root fails.
	errorBuildTreeFormat = "building tree for %s: %w"
)

// RenderTreeLines returns the indentation-based rendering of rootDirectoryPath's
// subtree, one line per entry. The root itself is not listed. Siblings are
// ordered by name with directories and files interleaved.
func (treeBuilder *TreeBuilder) RenderTreeLines(rootDirectoryPath string) ([]string, error) {
	lines, renderError := treeBuilder.renderDirectory(rootDirectoryPath, "", nil)
	if renderError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, rootDirectoryPath, renderError)
	}
	return lines, nil
}

// renderDirectory appends the lines for currentDirectoryPath's children to lines.
// Unreadable subdirectories are logged and rendered without children.
func (treeBuilder *TreeBuilder) renderDirectory(currentDirectoryPath string, prefix string, lines []string) ([]string, error) {
	logger := loggerOrNop(treeBuilder.Logger)

	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return lines, fmt.Errorf(errorReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
	}

	visibleEntries := make([]os.DirEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() && treeBuilder.SkipHiddenAndInternalDirs && utils.IsHiddenOrInternal(directoryEntry.Name()) {
			logger.Debug("skipping hidden directory in tree", zap.String("directory", filepath.Join(currentDirectoryPath, directoryEntry.Name())))
			continue
		}
		visibleEntries = append(visibleEntries, directoryEntry)
	}
	sort.Slice(visibleEntries, func(left, right int) bool {
		return visibleEntries[left].Name() < visibleEntries[right].Name()
	})

	for entryIndex, directoryEntry := range visibleEntries {
		connector, padding := treeBranchConnector, treeBranchPadding
		if entryIndex == len(visibleEntries)-1 {
			connector, padding = treeLastConnector, treeLastPadding
		}
		lines = append(lines, prefix+connector+directoryEntry.Name())
		if !directoryEntry.IsDir() {
			continue
		}
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		childLines, childError := treeBuilder.renderDirectory(childPath, prefix+padding, lines)
		if childError != nil {
			logger.Warn("skipping unreadable directory in tree", zap.String("directory", childPath), zap.Error(childError))
			continue
		}
		lines = childLines
	}
	return lines, nil
}

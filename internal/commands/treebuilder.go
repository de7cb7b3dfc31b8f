package commands

import (
	"go.uber.org/zap"

	"github.com/temirov/promptify/internal/utils"
)

// TreeBuilder renders directory trees using configured options.
type TreeBuilder struct {
	// SkipHiddenAndInternalDirs drops directories named ".*" or "__*" together with their subtrees.
	SkipHiddenAndInternalDirs bool
	Logger                    *zap.Logger
}

// FileCollector gathers files whose basenames satisfy a pattern set.
type FileCollector struct {
	Patterns                  utils.PatternSet
	SkipHiddenAndInternalDirs bool
	Logger                    *zap.Logger
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

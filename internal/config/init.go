package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/promptify/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes .promptify.yaml into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `# promptify configuration
source: src
patterns:
  - "*.py"
exclude: ""
skip_hidden: true
clipboard_backend: library
tokens:
  enabled: false
  model: gpt-4o
markers:
  instruction_header: USER_REQUEST
  tree_begin: "# === BEGIN PROJECT TREE: "
  tree_end: "# === END PROJECT TREE"
  files_header: FILES
  file_begin: "# === BEGIN FILE: "
  file_end: "# === END FILE: "
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns its path. Existing files are only replaced with Force.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, resolveErr := resolveInitDestination(options)
	if resolveErr != nil {
		return "", resolveErr
	}

	_, statErr := os.Stat(destinationPath)
	switch {
	case statErr == nil && !options.Force:
		return "", fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", destinationPath)
	case statErr != nil && !os.IsNotExist(statErr):
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, statErr)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}
	return destinationPath, nil
}

func resolveInitDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		return filepath.Join(configurationDirectory, utils.GlobalConfigFileName), nil
	default:
		return "", fmt.Errorf("unsupported init target %q", options.Target)
	}
}

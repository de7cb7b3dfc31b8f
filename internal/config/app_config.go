// Package config loads promptify defaults from configuration files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/temirov/promptify/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// LookupEnvironment defaults to os.LookupEnv.
	LookupEnvironment func(key string) (string, bool)
}

// ApplicationConfiguration holds defaults for every promptify option.
type ApplicationConfiguration struct {
	Source           string              `mapstructure:"source"`
	Output           string              `mapstructure:"output"`
	Patterns         []string            `mapstructure:"patterns"`
	Exclude          string              `mapstructure:"exclude"`
	Tree             string              `mapstructure:"tree"`
	SkipHidden       *bool               `mapstructure:"skip_hidden"`
	ClipboardBackend string              `mapstructure:"clipboard_backend"`
	Tokens           TokenConfiguration  `mapstructure:"tokens"`
	Markers          MarkerConfiguration `mapstructure:"markers"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// MarkerConfiguration overrides the delimiter labels written into the prompt.
type MarkerConfiguration struct {
	InstructionHeader string `mapstructure:"instruction_header"`
	TreeBegin         string `mapstructure:"tree_begin"`
	TreeEnd           string `mapstructure:"tree_end"`
	FilesHeader       string `mapstructure:"files_header"`
	FileBegin         string `mapstructure:"file_begin"`
	FileEnd           string `mapstructure:"file_end"`
	Rule              string `mapstructure:"rule"`
}

// environmentKeys lists the configuration keys that PROMPTIFY_* variables may set.
var environmentKeys = []string{
	"source",
	"output",
	"patterns",
	"exclude",
	"tree",
	"skip_hidden",
	"clipboard_backend",
	"tokens.enabled",
	"tokens.model",
	"markers.instruction_header",
	"markers.tree_begin",
	"markers.tree_end",
	"markers.files_header",
	"markers.file_begin",
	"markers.file_end",
	"markers.rule",
}

// booleanEnvironmentKeys accept the same literals as boolean flags.
var booleanEnvironmentKeys = map[string]struct{}{
	"skip_hidden":    {},
	"tokens.enabled": {},
}

// LoadApplicationConfiguration loads configuration from the global file, the
// local (or explicit) file, and the environment, later sources overriding
// earlier ones field by field. Variables from a .env file in the working
// directory apply when the process environment does not set them.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	environmentConfig, environmentErr := loadConfigurationFromEnvironment(workingDirectory, options.LookupEnvironment)
	if environmentErr != nil {
		return ApplicationConfiguration{}, environmentErr
	}
	merged = merged.Merge(environmentConfig)

	merged.Patterns = utils.DeduplicatePatterns(merged.Patterns)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

// loadConfigurationFromPath reads one YAML file. A missing file yields an empty
// configuration unless required is set.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// loadConfigurationFromEnvironment decodes PROMPTIFY_* variables, for example
// PROMPTIFY_TOKENS_MODEL for tokens.model. List values are comma separated.
func loadConfigurationFromEnvironment(workingDirectory string, lookupEnvironment func(string) (string, bool)) (ApplicationConfiguration, error) {
	if lookupEnvironment == nil {
		lookupEnvironment = os.LookupEnv
	}

	dotenvValues := map[string]string{}
	dotenvPath := filepath.Join(workingDirectory, utils.EnvironmentFileName)
	if _, statErr := os.Stat(dotenvPath); statErr == nil {
		values, readErr := godotenv.Read(dotenvPath)
		if readErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("read environment file %s: %w", dotenvPath, readErr)
		}
		dotenvValues = values
	}

	reader := viper.New()
	for _, key := range environmentKeys {
		variableName := environmentVariableName(key)
		value, ok := lookupEnvironment(variableName)
		if !ok {
			value, ok = dotenvValues[variableName]
		}
		if !ok {
			continue
		}
		if _, isBooleanKey := booleanEnvironmentKeys[key]; isBooleanKey {
			parsed, isLiteral := utils.ParseBooleanLiteral(value)
			if !isLiteral {
				return ApplicationConfiguration{}, fmt.Errorf("%s: invalid boolean value %q; accepted values: %s", variableName, value, utils.BooleanLiteralsListing)
			}
			reader.Set(key, parsed)
			continue
		}
		reader.Set(key, value)
	}

	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode %s_* environment: %w", utils.EnvironmentPrefix, decodeErr)
	}
	return config, nil
}

func environmentVariableName(key string) string {
	return utils.EnvironmentPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	overrideString(&result.Source, override.Source)
	overrideString(&result.Output, override.Output)
	if len(override.Patterns) > 0 {
		result.Patterns = append([]string{}, override.Patterns...)
	}
	overrideString(&result.Exclude, override.Exclude)
	overrideString(&result.Tree, override.Tree)
	if override.SkipHidden != nil {
		result.SkipHidden = cloneBool(override.SkipHidden)
	}
	overrideString(&result.ClipboardBackend, override.ClipboardBackend)
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Markers = result.Markers.merge(override.Markers)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	overrideString(&result.Model, override.Model)
	return result
}

func (config MarkerConfiguration) merge(override MarkerConfiguration) MarkerConfiguration {
	result := config
	overrideString(&result.InstructionHeader, override.InstructionHeader)
	overrideString(&result.TreeBegin, override.TreeBegin)
	overrideString(&result.TreeEnd, override.TreeEnd)
	overrideString(&result.FilesHeader, override.FilesHeader)
	overrideString(&result.FileBegin, override.FileBegin)
	overrideString(&result.FileEnd, override.FileEnd)
	overrideString(&result.Rule, override.Rule)
	return result
}

func overrideString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/temirov/promptify/internal/utils"
)

type configTestCase struct {
	name             string
	globalContent    string
	localContent     string
	explicitPath     string
	explicitContent  string
	dotenvContent    string
	environment      map[string]string
	expectSource     string
	expectPatterns   []string
	expectExclude    string
	expectSkipHidden *bool
	expectBackend    string
	expectTokens     *bool
	expectModel      string
	expectFileBegin  string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func emptyEnvironment(string) (string, bool) {
	return "", false
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:             "local_overrides_global",
			globalContent:    "source: lib\npatterns: [\"*.go\"]\nskip_hidden: false\nclipboard_backend: native\n",
			localContent:     "patterns:\n  - \"*.py\"\n  - \"*.j2\"\nexclude: venv\ntokens:\n  enabled: true\n  model: gpt-4\n",
			expectSource:     "lib",
			expectPatterns:   []string{"*.py", "*.j2"},
			expectExclude:    "venv",
			expectSkipHidden: boolPointer(false),
			expectBackend:    "native",
			expectTokens:     boolPointer(true),
			expectModel:      "gpt-4",
		},
		{
			name:            "explicit_path_replaces_local",
			localContent:    "source: ignored\n",
			explicitPath:    "custom.yaml",
			explicitContent: "source: app\nmarkers:\n  file_begin: \"<<< \"\n",
			expectSource:    "app",
			expectPatterns:  []string{},
			expectFileBegin: "<<< ",
		},
		{
			name:             "environment_overrides_files",
			localContent:     "source: lib\npatterns: [\"*.go\"]\n",
			environment:      map[string]string{"PROMPTIFY_SOURCE": "pkg", "PROMPTIFY_PATTERNS": "*.rs,*.toml", "PROMPTIFY_SKIP_HIDDEN": "false"},
			expectSource:     "pkg",
			expectPatterns:   []string{"*.rs", "*.toml"},
			expectSkipHidden: boolPointer(false),
		},
		{
			name:             "environment_boolean_words",
			environment:      map[string]string{"PROMPTIFY_SKIP_HIDDEN": "no", "PROMPTIFY_TOKENS_ENABLED": "On"},
			expectPatterns:   []string{},
			expectSkipHidden: boolPointer(false),
			expectTokens:     boolPointer(true),
		},
		{
			name:             "dotenv_boolean_words",
			dotenvContent:    "PROMPTIFY_SKIP_HIDDEN=off\n",
			expectPatterns:   []string{},
			expectSkipHidden: boolPointer(false),
		},
		{
			name:           "dotenv_fills_unset_variables",
			dotenvContent:  "PROMPTIFY_SOURCE=fromdotenv\nPROMPTIFY_TOKENS_MODEL=gpt-4o-mini\n",
			environment:    map[string]string{"PROMPTIFY_SOURCE": "fromenv"},
			expectSource:   "fromenv",
			expectPatterns: []string{},
			expectModel:    "gpt-4o-mini",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			writeIfSet := func(path string, content string) {
				if content == "" {
					return
				}
				if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
					t.Fatalf("write %s: %v", path, err)
				}
			}
			writeIfSet(filepath.Join(configDir, utils.GlobalConfigFileName), testCase.globalContent)
			writeIfSet(filepath.Join(workingDir, utils.LocalConfigFileName), testCase.localContent)
			writeIfSet(filepath.Join(workingDir, utils.EnvironmentFileName), testCase.dotenvContent)
			if testCase.explicitPath != "" {
				writeIfSet(filepath.Join(workingDir, testCase.explicitPath), testCase.explicitContent)
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
				LookupEnvironment: func(key string) (string, bool) {
					value, ok := testCase.environment[key]
					return value, ok
				},
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Source != testCase.expectSource {
				t.Fatalf("expected source %q, got %q", testCase.expectSource, loadedConfig.Source)
			}
			if diff := cmp.Diff(testCase.expectPatterns, loadedConfig.Patterns); diff != "" {
				t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
			}
			if loadedConfig.Exclude != testCase.expectExclude {
				t.Fatalf("expected exclude %q, got %q", testCase.expectExclude, loadedConfig.Exclude)
			}
			if diff := cmp.Diff(testCase.expectSkipHidden, loadedConfig.SkipHidden); diff != "" {
				t.Fatalf("skip_hidden mismatch (-want +got):\n%s", diff)
			}
			if loadedConfig.ClipboardBackend != testCase.expectBackend {
				t.Fatalf("expected backend %q, got %q", testCase.expectBackend, loadedConfig.ClipboardBackend)
			}
			if diff := cmp.Diff(testCase.expectTokens, loadedConfig.Tokens.Enabled); diff != "" {
				t.Fatalf("tokens.enabled mismatch (-want +got):\n%s", diff)
			}
			if loadedConfig.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loadedConfig.Tokens.Model)
			}
			if loadedConfig.Markers.FileBegin != testCase.expectFileBegin {
				t.Fatalf("expected file_begin %q, got %q", testCase.expectFileBegin, loadedConfig.Markers.FileBegin)
			}
		})
	}
}

func TestLoadApplicationConfigurationMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))
	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory:  t.TempDir(),
		ExplicitFilePath:  "absent.yaml",
		LookupEnvironment: emptyEnvironment,
	})
	if err == nil {
		t.Fatalf("expected error for a missing explicit configuration file")
	}
}

func TestMergeKeepsUnsetFields(t *testing.T) {
	base := ApplicationConfiguration{Source: "src", Patterns: []string{"*.py"}, SkipHidden: boolPointer(true)}
	override := ApplicationConfiguration{Exclude: "venv", SkipHidden: boolPointer(false)}
	merged := base.Merge(override)
	if merged.Source != "src" || merged.Exclude != "venv" {
		t.Fatalf("unexpected merge result %+v", merged)
	}
	if diff := cmp.Diff([]string{"*.py"}, merged.Patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}
	if merged.SkipHidden == nil || *merged.SkipHidden {
		t.Fatalf("expected skip_hidden override to false")
	}
	*override.SkipHidden = true
	if *merged.SkipHidden {
		t.Fatalf("expected merged skip_hidden to be independent of the override")
	}
}

func TestLoadApplicationConfigurationRejectsInvalidBooleanEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))
	_, err := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: t.TempDir(),
		LookupEnvironment: func(key string) (string, bool) {
			if key == "PROMPTIFY_SKIP_HIDDEN" {
				return "maybe", true
			}
			return "", false
		},
	})
	if err == nil || !strings.Contains(err.Error(), "PROMPTIFY_SKIP_HIDDEN") {
		t.Fatalf("expected an error naming PROMPTIFY_SKIP_HIDDEN, got %v", err)
	}
}

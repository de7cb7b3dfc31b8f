package main_test

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// #nosec G204
func buildBinary(testSetup *testing.T) string {
	testSetup.Helper()
	binaryName := "promptify_integration_test_binary"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	binaryPath := filepath.Join(testSetup.TempDir(), binaryName)

	buildCommand := exec.Command("go", "build", "-o", binaryPath, ".")
	outputData, buildErr := buildCommand.CombinedOutput()
	if buildErr != nil {
		testSetup.Fatalf("Failed to build binary: %v\nBuild Output:\n%s", buildErr, string(outputData))
	}
	return binaryPath
}

type commandResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// #nosec G204
func runCommand(testSetup *testing.T, binaryPath string, arguments []string, workingDirectory string) commandResult {
	testSetup.Helper()
	command := exec.Command(binaryPath, arguments...)
	command.Dir = workingDirectory
	homeDirectory := testSetup.TempDir()
	command.Env = append(os.Environ(), "HOME="+homeDirectory, "USERPROFILE="+homeDirectory)

	var standardOutputBuffer, standardErrorBuffer bytes.Buffer
	command.Stdout = &standardOutputBuffer
	command.Stderr = &standardErrorBuffer

	runError := command.Run()
	result := commandResult{stdout: standardOutputBuffer.String(), stderr: standardErrorBuffer.String()}
	if runError != nil {
		exitError, isExitError := runError.(*exec.ExitError)
		if !isExitError {
			testSetup.Fatalf("Command %s %s did not run: %v", filepath.Base(binaryPath), strings.Join(arguments, " "), runError)
		}
		result.exitCode = exitError.ExitCode()
	}
	testSetup.Logf("--- Command ---\n%s %s\n--- Standard Output ---\n%s\n--- Standard Error ---\n%s",
		filepath.Base(binaryPath), strings.Join(arguments, " "), result.stdout, result.stderr)
	return result
}

func setupProject(testSetup *testing.T) string {
	testSetup.Helper()
	projectDirectory := testSetup.TempDir()
	files := map[string]string{
		filepath.Join("src", "main.py"):              "print('main')\n",
		filepath.Join("src", "templates", "page.j2"): "{{ title }}",
		filepath.Join("src", "ignore_me", "skip.py"): "skip\n",
		filepath.Join("src", ".cache", "hidden.py"):  "hidden\n",
		filepath.Join("src", "README.md"):            "readme\n",
	}
	for relativePath, content := range files {
		fullPath := filepath.Join(projectDirectory, relativePath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			testSetup.Fatalf("mkdir %s: %v", filepath.Dir(fullPath), err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o600); err != nil {
			testSetup.Fatalf("write %s: %v", fullPath, err)
		}
	}
	return projectDirectory
}

func TestPromptifyBinary(testSetup *testing.T) {
	if testing.Short() {
		testSetup.Skip("skipping binary integration test in short mode")
	}
	binaryPath := buildBinary(testSetup)

	testSetup.Run("writes_prompt_file", func(testSetup *testing.T) {
		projectDirectory := setupProject(testSetup)
		result := runCommand(testSetup, binaryPath, []string{
			"-p", "*.py", "*.j2",
			"-e", "ignore*",
			"-o", "prompt.txt",
			"--clipboard-backend", "none",
		}, projectDirectory)
		if result.exitCode != 0 {
			testSetup.Fatalf("expected success, got exit code %d", result.exitCode)
		}
		expectedMessage := fmt.Sprintf("Output written to '%s'.\n", "prompt.txt")
		if result.stdout != expectedMessage {
			testSetup.Fatalf("expected %q, got %q", expectedMessage, result.stdout)
		}
		written, readErr := os.ReadFile(filepath.Join(projectDirectory, "prompt.txt"))
		if readErr != nil {
			testSetup.Fatalf("read prompt: %v", readErr)
		}
		document := string(written)
		mainPath := filepath.Join("src", "main.py")
		pagePath := filepath.Join("src", "templates", "page.j2")
		expectedBlocks := []string{
			"# === BEGIN FILE: " + mainPath + "\nprint('main')\n# === END FILE: " + mainPath + "\n",
			"# === BEGIN FILE: " + pagePath + "\n{{ title }}\n# === END FILE: " + pagePath + "\n",
		}
		for _, block := range expectedBlocks {
			if !strings.Contains(document, block) {
				testSetup.Fatalf("missing block %q in:\n%s", block, document)
			}
		}
		unexpectedPaths := []string{
			filepath.Join("src", "ignore_me", "skip.py"),
			filepath.Join("src", ".cache", "hidden.py"),
			filepath.Join("src", "README.md"),
		}
		for _, unexpectedPath := range unexpectedPaths {
			if strings.Contains(document, "# === BEGIN FILE: "+unexpectedPath+"\n") {
				testSetup.Fatalf("unexpected file %s in:\n%s", unexpectedPath, document)
			}
		}
	})

	testSetup.Run("prints_without_output_or_clipboard", func(testSetup *testing.T) {
		projectDirectory := setupProject(testSetup)
		result := runCommand(testSetup, binaryPath, []string{"-i", "explain this", "--clipboard-backend=off"}, projectDirectory)
		if result.exitCode != 0 {
			testSetup.Fatalf("expected success, got exit code %d", result.exitCode)
		}
		if !strings.HasPrefix(result.stdout, "USER_REQUEST\nexplain this\n\n# === BEGIN PROJECT TREE: ") {
			testSetup.Fatalf("unexpected stdout:\n%s", result.stdout)
		}
	})

	testSetup.Run("missing_source_fails", func(testSetup *testing.T) {
		projectDirectory := testSetup.TempDir()
		result := runCommand(testSetup, binaryPath, []string{"-s", "absent", "-o", "prompt.txt", "--clipboard-backend", "none"}, projectDirectory)
		if result.exitCode == 0 {
			testSetup.Fatalf("expected failure for a missing source directory")
		}
		if !strings.Contains(result.stderr, "promptify failed") || !strings.Contains(result.stderr, "not found") {
			testSetup.Fatalf("unexpected stderr:\n%s", result.stderr)
		}
		if _, statErr := os.Stat(filepath.Join(projectDirectory, "prompt.txt")); !os.IsNotExist(statErr) {
			testSetup.Fatalf("expected no output file, stat returned %v", statErr)
		}
	})
}

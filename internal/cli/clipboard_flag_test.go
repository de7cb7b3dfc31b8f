package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/temirov/promptify/internal/types"
)

func TestClipboardBackendFlag(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		arguments   []string
		expected    string
		expectError bool
	}{
		{name: "default_library", arguments: []string{}, expected: types.ClipboardBackendLibrary},
		{name: "native_separate_value", arguments: []string{"--clipboard-backend", "native"}, expected: types.ClipboardBackendNative},
		{name: "none_with_equals", arguments: []string{"--clipboard-backend=none"}, expected: types.ClipboardBackendNone},
		{name: "mixed_case", arguments: []string{"--clipboard-backend=Native"}, expected: types.ClipboardBackendNative},
		{name: "off_disables", arguments: []string{"--clipboard-backend", "off"}, expected: types.ClipboardBackendNone},
		{name: "yes_selects_library", arguments: []string{"--clipboard-backend=yes"}, expected: types.ClipboardBackendLibrary},
		{name: "unknown_backend", arguments: []string{"--clipboard-backend", "xclip"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "clipboard-test"}
			var backend string
			registerClipboardBackendFlag(command.Flags(), &backend, types.ClipboardBackendLibrary)
			parseErr := command.ParseFlags(testCase.arguments)
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if backend != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, backend)
			}
		})
	}
}

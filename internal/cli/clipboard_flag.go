package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/temirov/promptify/internal/types"
	"github.com/temirov/promptify/internal/utils"
)

const (
	clipboardFlagTypeName            = "backend"
	invalidClipboardFlagValueMessage = "invalid clipboard backend '%s'; accepted values: library, native, none, or a boolean"
)

// interpretClipboardBackend maps a flag value to a backend name. Boolean
// literals select the library backend or disable the clipboard.
func interpretClipboardBackend(input string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if types.IsSupportedClipboardBackend(normalized) {
		return normalized, true
	}
	enabled, isBoolean := utils.ParseBooleanLiteral(normalized)
	if !isBoolean {
		return "", false
	}
	if enabled {
		return types.ClipboardBackendLibrary, true
	}
	return types.ClipboardBackendNone, true
}

type clipboardBackendValue struct {
	target *string
}

func (value *clipboardBackendValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf(invalidClipboardFlagValueMessage, input)
	}
	backend, ok := interpretClipboardBackend(input)
	if !ok {
		return fmt.Errorf(invalidClipboardFlagValueMessage, input)
	}
	*value.target = backend
	return nil
}

func (value *clipboardBackendValue) String() string {
	if value == nil || value.target == nil {
		return types.ClipboardBackendLibrary
	}
	return *value.target
}

func (value *clipboardBackendValue) Type() string {
	return clipboardFlagTypeName
}

func registerClipboardBackendFlag(flagSet *pflag.FlagSet, target *string, defaultBackend string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultBackend
	flagSet.Var(&clipboardBackendValue{target: target}, clipboardFlagName, clipboardFlagDescription)
	if lookup := flagSet.Lookup(clipboardFlagName); lookup != nil {
		lookup.DefValue = defaultBackend
	}
}

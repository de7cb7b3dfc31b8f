package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/temirov/promptify/internal/utils"
)

const (
	booleanFlagTypeName            = "bool"
	booleanFlagTrueLiteral         = "true"
	booleanFlagInvalidValueMessage = "invalid boolean value %q for --%s; accepted values: %s"
)

// booleanFlagValue is a bool flag that also accepts yes/no and on/off.
type booleanFlagValue struct {
	target  *bool
	flagKey string
}

func (value *booleanFlagValue) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		input = booleanFlagTrueLiteral
	}
	parsed, ok := utils.ParseBooleanLiteral(input)
	if !ok || value.target == nil {
		return fmt.Errorf(booleanFlagInvalidValueMessage, input, value.flagKey, utils.BooleanLiteralsListing)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&booleanFlagValue{target: target, flagKey: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// normalizeBooleanFlagArguments joins "--flag value" into "--flag=value" for
// boolean flags followed by a boolean literal, so "--skip-hidden no" is not
// read as a bare flag plus a positional pattern.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlags := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			return append(normalized, arguments[index:]...)
		}
		flagName, hasPrefix := strings.CutPrefix(currentArgument, "--")
		_, isBoolean := booleanFlags[flagName]
		if hasPrefix && isBoolean && index+1 < len(arguments) {
			if _, isLiteral := utils.ParseBooleanLiteral(arguments[index+1]); isLiteral {
				normalized = append(normalized, fmt.Sprintf("--%s=%s", flagName, arguments[index+1]))
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil {
		return
	}
	visit := func(flag *pflag.Flag) {
		if flag.Value != nil && flag.Value.Type() == booleanFlagTypeName {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}

// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/promptify/internal/commands"
	"github.com/temirov/promptify/internal/config"
	"github.com/temirov/promptify/internal/output"
	"github.com/temirov/promptify/internal/services/clipboard"
	"github.com/temirov/promptify/internal/tokenizer"
	"github.com/temirov/promptify/internal/types"
	"github.com/temirov/promptify/internal/utils"
)

const (
	sourceFlagName           = "source"
	sourceFlagShorthand      = "s"
	outputFlagName           = "output"
	outputFlagShorthand      = "o"
	patternFlagName          = "pattern"
	patternFlagShorthand     = "p"
	excludeFlagName          = "exclude"
	excludeFlagShorthand     = "e"
	treeFlagName             = "tree"
	treeFlagShorthand        = "t"
	instructionFlagName      = "instruction"
	instructionFlagShorthand = "i"
	skipHiddenFlagName       = "skip-hidden"
	clipboardFlagName        = "clipboard-backend"
	tokensFlagName           = "tokens"
	modelFlagName            = "model"
	configFlagName           = "config"
	verboseFlagName          = "verbose"
	versionFlagName          = "version"
	initGlobalFlagName       = "global"
	initForceFlagName        = "force"

	defaultSourceDirectory    = "src"
	defaultPattern            = "*.py"
	defaultTokenizerModelName = "gpt-4o"
	defaultSkipHidden         = true
	defaultClipboardBackend   = types.ClipboardBackendLibrary

	rootUse              = "promptify [flags] [patterns...]"
	rootShortDescription = "bundle source files into a single LLM prompt"
	rootLongDescription  = `promptify collects files whose names match the given glob patterns,
renders the surrounding directory tree, and assembles both into one prompt
with an optional instruction. The prompt is copied to the clipboard and,
with --output, written to a file. Without a file or clipboard it is printed.`
	rootUsageExample = `  # Bundle Python sources under src, skipping the venv directory
  promptify -s src -e venv

  # Several patterns with an instruction, saved to a file
  promptify -p "*.py" "*.j2" -i "add type hints" -o prompt.txt

  # Print instead of copying
  promptify --clipboard-backend none`
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write a default .promptify.yaml into the working directory,
or ~/.promptify/config.yaml with --global.`

	sourceFlagDescription      = "source directory to collect files from"
	outputFlagDescription      = "file to write the prompt to"
	patternFlagDescription     = "file name glob pattern (repeatable, default \"" + defaultPattern + "\")"
	excludeFlagDescription     = "exclude files and directories whose name matches this glob"
	treeFlagDescription        = "directory to render as the project tree (default: parent of the source directory)"
	instructionFlagDescription = "instruction placed before the tree and files"
	skipHiddenFlagDescription  = "skip directories whose name starts with '.' or '__'"
	clipboardFlagDescription   = "clipboard backend: library, native, or none"
	tokensFlagDescription      = "report the token count of the prompt"
	modelFlagDescription       = "tokenizer model to use for token counting"
	configFlagDescription      = "configuration file to use instead of ./" + utils.LocalConfigFileName
	verboseFlagDescription     = "enable debug logging"
	versionFlagDescription     = "display application version"
	initGlobalFlagDescription  = "write the global configuration file"
	initForceFlagDescription   = "overwrite an existing configuration file"

	versionTemplate               = "promptify version: %s\n"
	writtenAndCopiedMessageFormat = "Output written to '%s' and copied to clipboard.\n"
	writtenClipboardFailedFormat  = "Output written to '%s'. (could not access the clipboard)\n"
	writtenMessageFormat          = "Output written to '%s'.\n"
	copiedMessage                 = "Prompt copied to clipboard.\n"
	configurationWrittenFormat    = "Configuration written to %s\n"
	workingDirectoryErrorFormat   = "unable to determine working directory: %w"
	loadConfigurationErrorFormat  = "loading configuration: %w"
	clipboardBackendErrorFormat   = "clipboard backend: %w"
	collectFilesErrorFormat       = "collecting files: %w"
	assemblePromptErrorFormat     = "assembling prompt: %w"
	deliverPromptErrorFormat      = "delivering prompt: %w"
	tokenCounterErrorFormat       = "initializing tokenizer: %w"
	unsupportedBackendFormat      = "unsupported clipboard backend '%s'"
)

// dependencies are the process-level collaborators of a run.
type dependencies struct {
	stdout            io.Writer
	newLogger         func(verbose bool) (*zap.Logger, error)
	newCopier         func(backend string) (clipboard.Copier, error)
	lookupEnvironment func(key string) (string, bool)
	workingDirectory  func() (string, error)
}

func defaultDependencies() dependencies {
	return dependencies{
		stdout:            os.Stdout,
		newLogger:         utils.NewApplicationLogger,
		newCopier:         clipboard.NewCopier,
		lookupEnvironment: os.LookupEnv,
		workingDirectory:  os.Getwd,
	}
}

// rootFlags holds the raw command-line values before configuration is applied.
type rootFlags struct {
	source           string
	output           string
	patterns         []string
	exclude          string
	tree             string
	instruction      string
	skipHidden       bool
	clipboardBackend string
	tokensEnabled    bool
	model            string
	configPath       string
	verbose          bool
}

// promptOptions is the fully resolved configuration of one run.
type promptOptions struct {
	source           string
	output           string
	patterns         []string
	exclude          string
	tree             string
	instruction      string
	skipHidden       bool
	clipboardBackend string
	tokensEnabled    bool
	model            string
	markers          output.Markers
}

// Execute runs the promptify application.
func Execute() error {
	rootCommand := createRootCommand(defaultDependencies())
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	var showVersion bool
	var flags rootFlags

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runPrompt(command, deps, flags, arguments)
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.SetOut(deps.stdout)

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&flags.source, sourceFlagName, sourceFlagShorthand, defaultSourceDirectory, sourceFlagDescription)
	flagSet.StringVarP(&flags.output, outputFlagName, outputFlagShorthand, utils.EmptyString, outputFlagDescription)
	flagSet.StringArrayVarP(&flags.patterns, patternFlagName, patternFlagShorthand, nil, patternFlagDescription)
	flagSet.StringVarP(&flags.exclude, excludeFlagName, excludeFlagShorthand, utils.EmptyString, excludeFlagDescription)
	flagSet.StringVarP(&flags.tree, treeFlagName, treeFlagShorthand, utils.EmptyString, treeFlagDescription)
	flagSet.StringVarP(&flags.instruction, instructionFlagName, instructionFlagShorthand, utils.EmptyString, instructionFlagDescription)
	registerBooleanFlag(flagSet, &flags.skipHidden, skipHiddenFlagName, defaultSkipHidden, skipHiddenFlagDescription)
	registerClipboardBackendFlag(flagSet, &flags.clipboardBackend, defaultClipboardBackend)
	registerBooleanFlag(flagSet, &flags.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, utils.EmptyString, configFlagDescription)

	persistentFlags := rootCommand.PersistentFlags()
	registerBooleanFlag(persistentFlags, &flags.verbose, verboseFlagName, false, verboseFlagDescription)
	persistentFlags.BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(deps))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(deps dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := deps.workingDirectory()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, writtenPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, initGlobalFlagName, false, initGlobalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, initForceFlagName, false, initForceFlagDescription)
	return initCommand
}

// runPrompt collects, assembles, and delivers one prompt.
func runPrompt(command *cobra.Command, deps dependencies, flags rootFlags, arguments []string) error {
	logger, loggerError := deps.newLogger(flags.verbose)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer utils.SyncLogger(logger)

	workingDirectory, workingDirectoryError := deps.workingDirectory()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory:  workingDirectory,
		ExplicitFilePath:  flags.configPath,
		LookupEnvironment: deps.lookupEnvironment,
	})
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationErrorFormat, configurationError)
	}

	options := resolvePromptOptions(command, flags, arguments, applicationConfiguration)
	if !types.IsSupportedClipboardBackend(options.clipboardBackend) {
		return fmt.Errorf(unsupportedBackendFormat, options.clipboardBackend)
	}
	logger.Debug("resolved options",
		zap.String("source", options.source),
		zap.Strings("patterns", options.patterns),
		zap.String("exclude", options.exclude),
		zap.String("tree", options.tree),
		zap.Bool("skipHidden", options.skipHidden),
		zap.String("clipboardBackend", options.clipboardBackend),
	)

	collector := &commands.FileCollector{
		Patterns:                  utils.PatternSet{Include: options.patterns, Exclude: options.exclude},
		SkipHiddenAndInternalDirs: options.skipHidden,
		Logger:                    logger,
	}
	files, collectError := collector.Collect(options.source)
	if collectError != nil {
		return fmt.Errorf(collectFilesErrorFormat, collectError)
	}
	logger.Debug("collected files", zap.Int("count", len(files)))

	treeBuilder := &commands.TreeBuilder{SkipHiddenAndInternalDirs: options.skipHidden, Logger: logger}
	assembler := output.NewAssembler(options.markers, treeBuilder)
	prompt, assembleError := assembler.Assemble(files, options.tree, options.instruction)
	if assembleError != nil {
		return fmt.Errorf(assemblePromptErrorFormat, assembleError)
	}

	copier, copierError := deps.newCopier(options.clipboardBackend)
	if copierError != nil {
		return fmt.Errorf(clipboardBackendErrorFormat, copierError)
	}
	sink := &output.Sink{Copier: copier, Logger: logger, Stdout: command.OutOrStdout()}
	delivery, deliverError := sink.Deliver(prompt, options.output)
	if deliverError != nil {
		return fmt.Errorf(deliverPromptErrorFormat, deliverError)
	}
	reportDelivery(command.OutOrStdout(), delivery)

	if options.tokensEnabled {
		if reportError := reportPromptSize(logger, options.model, prompt); reportError != nil {
			return reportError
		}
	}
	return nil
}

// resolvePromptOptions applies explicitly set flags over configuration over defaults.
func resolvePromptOptions(command *cobra.Command, flags rootFlags, arguments []string, applicationConfiguration config.ApplicationConfiguration) promptOptions {
	flagSet := command.Flags()
	pick := func(flagName string, flagValue string, configuredValue string) string {
		if flagSet.Changed(flagName) || configuredValue == "" {
			return flagValue
		}
		return configuredValue
	}
	pickBool := func(flagName string, flagValue bool, configuredValue *bool) bool {
		if flagSet.Changed(flagName) || configuredValue == nil {
			return flagValue
		}
		return *configuredValue
	}

	options := promptOptions{
		source:           pick(sourceFlagName, flags.source, applicationConfiguration.Source),
		output:           pick(outputFlagName, flags.output, applicationConfiguration.Output),
		exclude:          pick(excludeFlagName, flags.exclude, applicationConfiguration.Exclude),
		tree:             pick(treeFlagName, flags.tree, applicationConfiguration.Tree),
		instruction:      flags.instruction,
		skipHidden:       pickBool(skipHiddenFlagName, flags.skipHidden, applicationConfiguration.SkipHidden),
		clipboardBackend: pick(clipboardFlagName, flags.clipboardBackend, applicationConfiguration.ClipboardBackend),
		tokensEnabled:    pickBool(tokensFlagName, flags.tokensEnabled, applicationConfiguration.Tokens.Enabled),
		model:            pick(modelFlagName, flags.model, applicationConfiguration.Tokens.Model),
	}

	options.patterns = utils.DeduplicatePatterns(append(append([]string{}, flags.patterns...), arguments...))
	if len(options.patterns) == 0 {
		options.patterns = applicationConfiguration.Patterns
	}
	if len(options.patterns) == 0 {
		options.patterns = []string{defaultPattern}
	}

	if strings.TrimSpace(options.tree) == "" {
		options.tree = utils.ParentDirectory(options.source)
	}

	markerConfiguration := applicationConfiguration.Markers
	options.markers = output.DefaultMarkers().WithOverrides(output.Markers{
		InstructionHeader: markerConfiguration.InstructionHeader,
		TreeBegin:         markerConfiguration.TreeBegin,
		TreeEnd:           markerConfiguration.TreeEnd,
		FilesHeader:       markerConfiguration.FilesHeader,
		FileBegin:         markerConfiguration.FileBegin,
		FileEnd:           markerConfiguration.FileEnd,
		Rule:              markerConfiguration.Rule,
	})
	return options
}

func reportDelivery(writer io.Writer, delivery output.Delivery) {
	switch {
	case delivery.WrittenPath != "" && delivery.Copied:
		fmt.Fprintf(writer, writtenAndCopiedMessageFormat, delivery.WrittenPath)
	case delivery.WrittenPath != "" && delivery.ClipboardError != nil:
		fmt.Fprintf(writer, writtenClipboardFailedFormat, delivery.WrittenPath)
	case delivery.WrittenPath != "":
		fmt.Fprintf(writer, writtenMessageFormat, delivery.WrittenPath)
	case delivery.Copied:
		fmt.Fprint(writer, copiedMessage)
	}
}

func reportPromptSize(logger *zap.Logger, model string, prompt string) error {
	counter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		return fmt.Errorf(tokenCounterErrorFormat, counterError)
	}
	result, countError := tokenizer.CountPrompt(counter, resolvedModel, prompt)
	if countError != nil {
		logger.Warn("failed to count tokens", zap.Error(countError))
		return nil
	}
	logger.Info("prompt size",
		zap.Int("tokens", result.Tokens),
		zap.String("model", result.Model),
		zap.String("size", utils.FormatFileSize(int64(len(prompt)))),
	)
	return nil
}

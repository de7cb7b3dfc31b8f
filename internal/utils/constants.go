package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal errors returned by the CLI.
const ApplicationExecutionFailedMessage = "promptify failed"

package main

import (
	"fmt"

	"github.com/temirov/promptify/internal/cli"
	"github.com/temirov/promptify/internal/utils"
)

// main is the entry point for the promptify command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(false)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer utils.SyncLogger(loggerInstance)
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}

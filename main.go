package main

import (
	"os"

	"github.com/bitrise-io/bitrise-plugins-code-assistant/cmd"
	"github.com/bitrise-io/bitrise-plugins-code-assistant/logger"
)

func main() {
	err := cmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

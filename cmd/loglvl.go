package cmd

import (
	"fmt"
	"os"
	"strings"

	"bjoernblessin.de/pathrouter/internal/logger"
)

// HandleLogLevel stores the requested level in this process's
// LOG_LEVEL environment variable. The logger reads that variable only
// once at startup, so the level of the running process does not
// change. Usage: loglvl [NONE|WARN|INFO|DEBUG]
func HandleLogLevel(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: loglvl [NONE|WARN|INFO|DEBUG]")
		return
	}

	level := strings.ToUpper(args[0])
	switch level {
	case "NONE", "WARN", "INFO", "DEBUG":
		os.Setenv(logger.LOG_LEVEL_ENV, level)
		fmt.Printf("%s set to %s (read only at startup; the current log level is unchanged)\n", logger.LOG_LEVEL_ENV, level)
	default:
		fmt.Printf("Invalid log level: %s\n", level)
	}
}

// HandleExit processes the "exit" command to terminate the CLI.
func HandleExit(args []string) {
	fmt.Println("Exiting.")
}

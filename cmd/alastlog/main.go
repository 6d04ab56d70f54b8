// Command alastlog prints a report of last login times from a lastlog file.
//
// Logging:
//   - Base logger is created here with output and level
//   - Logger is passed to the commands via dependency injection
//   - Diagnostics go to stderr; the report itself goes to stdout
package main

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "alastlog",
		Output: os.Stderr,
		Level:  hclog.Warn,
	})

	if err := newRootCmd(logger).Execute(); err != nil {
		os.Exit(1)
	}
}

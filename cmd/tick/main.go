// Package main implements the tick CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "tick",
	Short:         "tick - a personal task list",
	SilenceErrors: true,
	SilenceUsage:  true,
}

var (
	rootQuiet  bool
	rootConfig string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "Do not print notifications")
	rootCmd.PersistentFlags().StringVar(&rootConfig, "config", "", "Read configuration from this file only")
}

// exitError ends the process with a status code after the failure has
// already been reported.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func (e exitError) ExitCode() int {
	return e.code
}

// errOperationFailed is returned once an operation's error notification
// has been shown.
var errOperationFailed = exitError{code: 1}

// Package main provides the entry point for the syncer CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dev-users/syncer/internal/cli"
	"github.com/dev-users/syncer/internal/errors"
	"github.com/dev-users/syncer/internal/signal"
)

// Build information set via ldflags.
var (
	version = "dev"     //nolint:gochecknoglobals // Set at build time
	commit  = "none"    //nolint:gochecknoglobals // Set at build time
	date    = "unknown" //nolint:gochecknoglobals // Set at build time
)

func main() {
	handler := signal.NewHandler(context.Background())
	defer handler.Stop()

	err := cli.Execute(handler.Context(), cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	cli.CloseLogFile()

	if err != nil {
		printError(err)
		os.Exit(cli.ExitCodeForError(err))
	}
}

// printError writes a user-facing error with a suggested action when
// one is known.
func printError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", errors.UserMessage(err))
	if action := errors.Actionable(err); action != "" {
		fmt.Fprintln(os.Stderr, "Hint:", action)
	}
}

package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/JonMunkholm/sheetedit/internal/logging"
)

var logFile *os.File

// setupLogging routes logs away from the terminal, which belongs to the
// editor or to exported CSV on stdout.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var w io.Writer = io.Discard
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return ctx, cli.Exit("open log file: "+err.Error(), 1)
		}
		logFile = f
		w = f
	}
	logging.SetupWriter(w, cmd.String("log-level"), "text")
	return ctx, nil
}

func closeLog() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

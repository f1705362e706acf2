// Command sheet opens a CSV, JSON or YAML file in the terminal editor, or
// filters and sorts it into CSV without a UI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/JonMunkholm/sheetedit/internal/core"
	_ "github.com/JonMunkholm/sheetedit/internal/core/formats"
)

var version = "dev"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "sheet: %v\n", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "sheet",
		Usage:   "view and edit tabular files",
		Version: version,
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "max-size",
				Usage: "largest file accepted, in bytes",
				Value: core.DefaultMaxFileSize,
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "write logs to this file (discarded when empty)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "info",
			},
		},
		Before: setupLogging,
		After: func(ctx context.Context, cmd *cli.Command) error {
			closeLog()
			return nil
		},
		Commands: []*cli.Command{
			editCommand(),
			exportCommand(),
			inspectCommand(),
		},
	}
}

// fileArg returns the single FILE argument of a subcommand.
func fileArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", cli.Exit(fmt.Sprintf("%s: expected exactly one FILE argument", cmd.Name), 2)
	}
	return cmd.Args().First(), nil
}

// readSheet parses path into a loaded sheet.
func readSheet(path string, maxSize int64) (*core.Sheet, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	format, err := core.Detect(path, "")
	if err != nil {
		return nil, "", err
	}
	ds, err := core.ParseFile(path, "", f, maxSize)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	sheet := core.NewSheet()
	sheet.Load(ds)
	slog.Info("loaded file", "path", path, "format", format.Key, "rows", len(ds.Rows))
	return sheet, format.Label, nil
}

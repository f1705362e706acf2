package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/JonMunkholm/sheetedit/internal/core"
)

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "filter and sort a file and write it as CSV",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "keep rows with a cell containing this text"},
			&cli.StringFlag{Name: "sort", Usage: "column to sort by"},
			&cli.BoolFlag{Name: "desc", Usage: "sort descending"},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file, - for stdout",
				Value:   "-",
			},
		},
		Action: runExport,
	}
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	path, err := fileArg(cmd)
	if err != nil {
		return err
	}
	sheet, _, err := readSheet(path, cmd.Int64("max-size"))
	if err != nil {
		return err
	}

	if err := applyView(sheet, cmd.String("search"), cmd.String("sort"), cmd.Bool("desc")); err != nil {
		return cli.Exit(err.Error(), 2)
	}

	if err := writeExport(sheet, cmd.String("output"), cmd.Root().Writer); err != nil {
		return err
	}
	slog.Info("exported", "rows", len(sheet.Projection()), "output", cmd.String("output"))
	return nil
}

// createOutput opens the -o destination.
var createOutput = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// writeExport writes the projection to stdout when out is "-" and to the
// named file otherwise. A failed close of the file is reported as an error.
func writeExport(sheet *core.Sheet, out string, stdout io.Writer) (err error) {
	if out == "-" {
		if err := sheet.ExportCSV(stdout); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return nil
	}

	f, err := createOutput(out)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", out, cerr)
		}
	}()

	if err := sheet.ExportCSV(f); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// applyView sets the search and sort the way a user would from the table:
// one header click sorts ascending, a second flips to descending.
func applyView(sheet *core.Sheet, search, sortColumn string, desc bool) error {
	sheet.SetSearch(search)
	if sortColumn == "" {
		if desc {
			return fmt.Errorf("--desc needs --sort")
		}
		return nil
	}

	known := false
	for _, c := range sheet.Columns() {
		if c.Key == sortColumn {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown column %q", sortColumn)
	}

	sheet.ToggleSort(sortColumn)
	if desc {
		sheet.ToggleSort(sortColumn)
	}
	return nil
}

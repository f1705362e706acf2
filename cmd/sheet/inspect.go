package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

type inspectResult struct {
	File    string   `json:"file"`
	Format  string   `json:"format"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print the format, row count and columns of a file",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print as JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := fileArg(cmd)
			if err != nil {
				return err
			}
			sheet, format, err := readSheet(path, cmd.Int64("max-size"))
			if err != nil {
				return err
			}

			res := inspectResult{File: path, Format: format, Rows: len(sheet.Rows())}
			for _, c := range sheet.Columns() {
				res.Columns = append(res.Columns, c.Key)
			}

			out := cmd.Root().Writer
			if cmd.Bool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "file\t%s\n", res.File)
			fmt.Fprintf(tw, "format\t%s\n", res.Format)
			fmt.Fprintf(tw, "rows\t%d\n", res.Rows)
			fmt.Fprintf(tw, "columns\t%d\n", len(res.Columns))
			for i, c := range res.Columns {
				fmt.Fprintf(tw, "  %d\t%s\n", i+1, c)
			}
			return tw.Flush()
		},
	}
}

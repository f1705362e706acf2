package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/JonMunkholm/sheetedit/internal/core"
	"github.com/JonMunkholm/sheetedit/internal/tui"
)

func editCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "open a file in the terminal editor",
		ArgsUsage: "[FILE]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "export-dir",
				Usage: "directory that receives " + core.ExportFileName,
				Value: ".",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() > 1 {
				return cli.Exit("edit: expected at most one FILE argument", 2)
			}
			model := tui.New(core.NewSheet(), tui.Options{
				Path:        cmd.Args().First(),
				ExportDir:   cmd.String("export-dir"),
				MaxFileSize: cmd.Int64("max-size"),
			})
			_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
}

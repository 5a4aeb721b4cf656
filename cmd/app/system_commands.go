package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyhouse/cmd/app/commands"
	"github.com/allisson/keyhouse/internal/app"
	"github.com/allisson/keyhouse/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "list-audit-logs",
			Usage: "List recorded audit events",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "offset", Value: 0, Usage: "Offset into the result set"},
				&cli.IntFlag{Name: "limit", Value: 50, Usage: "Maximum events to return"},
				&cli.StringFlag{
					Name:  "from",
					Usage: "Only events at or after this time, YYYY-MM-DD[ HH:MM:SS]",
				},
				&cli.StringFlag{
					Name:  "to",
					Usage: "Only events at or before this time, YYYY-MM-DD[ HH:MM:SS]",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				eventUseCase, err := container.EventUseCase()
				if err != nil {
					return err
				}

				return commands.RunListAuditLogs(
					ctx,
					eventUseCase,
					container.Logger(),
					int(cmd.Int("offset")),
					int(cmd.Int("limit")),
					cmd.String("from"),
					cmd.String("to"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
	}
}

package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyhouse/cmd/app/commands"
	"github.com/allisson/keyhouse/internal/app"
	"github.com/allisson/keyhouse/internal/config"
)

func getClientCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-client",
			Usage: "Register a new automation client",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Client name; must match the Common Name on its TLS certificate",
				},
				&cli.BoolFlag{
					Name:    "automation-allowed",
					Aliases: []string{"a"},
					Value:   true,
					Usage:   "Whether the client may call the automation API",
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

				clientUsecase, err := container.ClientUsecase()
				if err != nil {
					return err
				}

				return commands.RunCreateClient(
					ctx,
					clientUsecase,
					container.Logger(),
					cmd.String("name"),
					cmd.Bool("automation-allowed"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "list-clients",
			Usage: "List registered automation clients",
			Flags: []cli.Flag{
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

				clientUsecase, err := container.ClientUsecase()
				if err != nil {
					return err
				}

				return commands.RunListClients(ctx, clientUsecase, container.Logger(), cmd.String("format"), commands.DefaultIO())
			},
		},
	}
}

package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyhouse/cmd/app/commands"
	"github.com/allisson/keyhouse/internal/app"
	"github.com/allisson/keyhouse/internal/config"
)

func getSecretCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "backfill-expiration",
			Usage: "Infer and persist an expiration date for a secret created before expiry tracking existed",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Secret name",
				},
				&cli.StringFlag{
					Name:    "passwords",
					Aliases: []string{"p"},
					Usage:   "Comma-separated password candidates to try while decoding the content",
				},
				&cli.StringFlag{Name: "actor", Value: "cli", Usage: "Actor name recorded in the audit trail"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				controller, err := container.SecretController()
				if err != nil {
					return err
				}

				return commands.RunBackfillExpiration(
					ctx,
					controller,
					container.Logger(),
					cmd.String("name"),
					cmd.String("passwords"),
					cmd.String("actor"),
					commands.DefaultIO(),
				)
			},
		},
	}
}

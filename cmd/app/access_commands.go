package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/keyhouse/cmd/app/commands"
	"github.com/allisson/keyhouse/internal/app"
	"github.com/allisson/keyhouse/internal/config"
)

func getAccessCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-group",
			Usage: "Create a new client group",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Group name",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "Group description",
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

				groupUsecase, err := container.GroupUsecase()
				if err != nil {
					return err
				}

				return commands.RunCreateGroup(
					ctx,
					groupUsecase,
					container.Logger(),
					cmd.String("name"),
					cmd.String("description"),
					cmd.String("format"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "grant-access",
			Usage: "Grant a group read access to a secret",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "secret", Aliases: []string{"s"}, Required: true, Usage: "Secret name"},
				&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Required: true, Usage: "Group name"},
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
				groupUsecase, err := container.GroupUsecase()
				if err != nil {
					return err
				}
				aclEngine, err := container.ACLEngine()
				if err != nil {
					return err
				}

				return commands.RunGrantAccess(
					ctx,
					controller,
					groupUsecase,
					aclEngine,
					container.Logger(),
					cmd.String("secret"),
					cmd.String("group"),
					cmd.String("actor"),
					commands.DefaultIO(),
				)
			},
		},
		{
			Name:  "revoke-access",
			Usage: "Revoke a group's read access to a secret",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "secret", Aliases: []string{"s"}, Required: true, Usage: "Secret name"},
				&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Required: true, Usage: "Group name"},
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
				groupUsecase, err := container.GroupUsecase()
				if err != nil {
					return err
				}
				aclEngine, err := container.ACLEngine()
				if err != nil {
					return err
				}

				return commands.RunRevokeAccess(
					ctx,
					controller,
					groupUsecase,
					aclEngine,
					container.Logger(),
					cmd.String("secret"),
					cmd.String("group"),
					cmd.String("actor"),
					commands.DefaultIO(),
				)
			},
		},
	}
}

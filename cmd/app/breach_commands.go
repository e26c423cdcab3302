package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/passbox/cmd/app/commands"
	"github.com/allisson/passbox/internal/app"
	"github.com/allisson/passbox/internal/client"
)

func getBreachCommands() *cli.Command {
	return &cli.Command{
		Name:  "breach",
		Usage: "Check passwords against known breaches",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Check a password typed at the prompt",
				Flags: []cli.Flag{formatFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(ctx, func(container *app.Container) error {
						return commands.RunCheckPassword(
							ctx,
							container.BreachChecker(),
							commands.DefaultIO(),
							cmd.String("format"),
						)
					})
				},
			},
			{
				Name:  "audit",
				Usage: "Check the password of every stored credential",
				Flags: []cli.Flag{formatFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withSession(ctx, func(container *app.Container, s *client.Session) error {
						return commands.RunAudit(
							ctx,
							s,
							container.BreachChecker(),
							commands.DefaultIO(),
							cmd.String("format"),
						)
					})
				},
			},
		},
	}
}

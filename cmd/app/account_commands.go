package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/passbox/cmd/app/commands"
	"github.com/allisson/passbox/internal/app"
	"github.com/allisson/passbox/internal/client"
)

func getAccountCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "signup",
			Usage:     "Create an account",
			ArgsUsage: "[username]",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, func(container *app.Container) error {
					c, err := container.Client()
					if err != nil {
						return err
					}
					return commands.RunSignup(ctx, c, commands.DefaultIO(), cmd.Args().First())
				})
			},
		},
		{
			Name:      "login",
			Usage:     "Log in and keep the session for later commands",
			ArgsUsage: "[username]",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, func(container *app.Container) error {
					c, err := container.Client()
					if err != nil {
						return err
					}
					return commands.RunLogin(ctx, c, container.SessionStore(), commands.DefaultIO(), cmd.Args().First())
				})
			},
		},
		{
			Name:  "logout",
			Usage: "Revoke the session token and forget the login",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, func(container *app.Container) error {
					c, err := container.Client()
					if err != nil {
						return err
					}
					return commands.RunLogout(ctx, c, container.SessionStore(), commands.DefaultIO())
				})
			},
		},
		{
			Name:  "whoami",
			Usage: "Show the stored login",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, func(container *app.Container) error {
					return commands.RunWhoami(ctx, container.SessionStore(), commands.DefaultIO())
				})
			},
		},
		{
			Name:  "change-password",
			Usage: "Re-wrap the master key under a new password",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSession(ctx, func(container *app.Container, s *client.Session) error {
					return commands.RunChangePassword(ctx, s, container.SessionStore(), commands.DefaultIO())
				})
			},
		},
	}
}

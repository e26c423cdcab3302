package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/passbox/cmd/app/commands"
	"github.com/allisson/passbox/internal/app"
	"github.com/allisson/passbox/internal/client"
	"github.com/allisson/passbox/internal/config"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getAccountCommands()...)
	cmds = append(cmds, getVaultCommands()...)
	cmds = append(cmds, getShareCommands())
	cmds = append(cmds, getBreachCommands())
	return cmds
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

func revealFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "reveal",
		Aliases: []string{"r"},
		Usage:   "Show passwords and MFA secrets",
	}
}

// withContainer runs fn with a CLI container built from the environment.
func withContainer(ctx context.Context, fn func(container *app.Container) error) error {
	container := app.NewCLIContainer(config.Load())
	defer func() { _ = container.Shutdown(ctx) }()
	return fn(container)
}

// withSession reopens the stored login and closes it once fn returns.
func withSession(
	ctx context.Context,
	fn func(container *app.Container, s *client.Session) error,
) error {
	return withContainer(ctx, func(container *app.Container) error {
		c, err := container.Client()
		if err != nil {
			return err
		}

		s, err := commands.OpenSession(ctx, c, container.SessionStore(), commands.DefaultIO())
		if err != nil {
			return err
		}
		defer s.Close()

		return fn(container, s)
	})
}

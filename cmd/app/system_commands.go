package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/passbox/cmd/app/commands"
	"github.com/allisson/passbox/internal/app"
	"github.com/allisson/passbox/internal/config"
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
				container := app.NewCLIContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
		{
			Name:  "clean-expired-tokens",
			Usage: "Delete expired and revoked bearer tokens",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, func(container *app.Container) error {
					tokenUseCase, err := container.TokenUseCase()
					if err != nil {
						return err
					}

					return commands.RunCleanExpiredTokens(
						ctx,
						tokenUseCase,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "clean-expired-shares",
			Usage: "Delete share offers that expired unanswered",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withContainer(ctx, func(container *app.Container) error {
					sharingUseCase, err := container.SharingUseCase()
					if err != nil {
						return err
					}

					return commands.RunCleanExpiredShares(
						ctx,
						sharingUseCase,
						container.Logger(),
						commands.DefaultIO().Writer,
						time.Now().UTC(),
						cmd.String("format"),
					)
				})
			},
		},
	}
}

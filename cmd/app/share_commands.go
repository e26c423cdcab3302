package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/passbox/cmd/app/commands"
	"github.com/allisson/passbox/internal/app"
	"github.com/allisson/passbox/internal/client"
)

func getShareCommands() *cli.Command {
	return &cli.Command{
		Name:  "share",
		Usage: "Share records with other users",
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Offer a record to another user and print the link to send",
				ArgsUsage: "<id> <username>",
				Flags:     []cli.Flag{formatFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 2); err != nil {
						return err
					}
					return withSession(ctx, func(_ *app.Container, s *client.Session) error {
						return commands.RunShare(
							ctx,
							s,
							commands.DefaultIO(),
							cmd.Args().Get(0),
							cmd.Args().Get(1),
							cmd.String("format"),
						)
					})
				},
			},
			{
				Name:      "show",
				Usage:     "Describe the record behind a share link",
				ArgsUsage: "<link>",
				Flags:     []cli.Flag{formatFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					return withSession(ctx, func(_ *app.Container, s *client.Session) error {
						return commands.RunShowShare(ctx, s, commands.DefaultIO(), cmd.Args().First(), cmd.String("format"))
					})
				},
			},
			{
				Name:      "accept",
				Usage:     "Add a shared record to your vault",
				ArgsUsage: "<link>",
				Flags:     []cli.Flag{formatFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					return withSession(ctx, func(_ *app.Container, s *client.Session) error {
						return commands.RunAcceptShare(ctx, s, commands.DefaultIO(), cmd.Args().First(), cmd.String("format"))
					})
				},
			},
			{
				Name:      "decline",
				Usage:     "Discard a share offered to you",
				ArgsUsage: "<link>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					return withSession(ctx, func(_ *app.Container, s *client.Session) error {
						return commands.RunDeclineShare(ctx, s, commands.DefaultIO(), cmd.Args().First())
					})
				},
			},
			{
				Name:      "revoke",
				Usage:     "Remove a user from the owners of a record",
				ArgsUsage: "<id> <username>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := requireArgs(cmd, 2); err != nil {
						return err
					}
					return withSession(ctx, func(_ *app.Container, s *client.Session) error {
						return commands.RunRevoke(ctx, s, commands.DefaultIO(), cmd.Args().Get(0), cmd.Args().Get(1))
					})
				},
			},
		},
	}
}

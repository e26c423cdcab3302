package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/passbox/cmd/app/commands"
	"github.com/allisson/passbox/internal/app"
	"github.com/allisson/passbox/internal/client"
)

// requireArgs fails unless cmd got at least n positional arguments.
func requireArgs(cmd *cli.Command, n int) error {
	if cmd.Args().Len() < n {
		return fmt.Errorf("usage: passbox %s %s", cmd.Name, cmd.ArgsUsage)
	}
	return nil
}

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "add",
			Usage:     "Store a credential, totp or note. Fields are asked for when omitted",
			ArgsUsage: "<kind> [fields...]",
			Flags:     []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if err := requireArgs(cmd, 1); err != nil {
					return err
				}
				return withSession(ctx, func(_ *app.Container, s *client.Session) error {
					return commands.RunAdd(
						ctx,
						s,
						commands.DefaultIO(),
						cmd.Args().First(),
						cmd.Args().Tail(),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:      "get",
			Usage:     "Show one record",
			ArgsUsage: "<id>",
			Flags:     []cli.Flag{revealFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if err := requireArgs(cmd, 1); err != nil {
					return err
				}
				return withSession(ctx, func(_ *app.Container, s *client.Session) error {
					return commands.RunGet(
						ctx,
						s,
						commands.DefaultIO(),
						cmd.Args().First(),
						cmd.Bool("reveal"),
						cmd.String("format"),
					)
				})
			},
		},
		{
			Name:  "list",
			Usage: "List every record",
			Flags: []cli.Flag{revealFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSession(ctx, func(_ *app.Container, s *client.Session) error {
					return commands.RunList(ctx, s, commands.DefaultIO(), cmd.Bool("reveal"), cmd.String("format"))
				})
			},
		},
		{
			Name:      "update",
			Usage:     "Replace the fields of a record for every owner",
			ArgsUsage: "<id> [fields...]",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if err := requireArgs(cmd, 1); err != nil {
					return err
				}
				return withSession(ctx, func(_ *app.Container, s *client.Session) error {
					return commands.RunUpdate(ctx, s, commands.DefaultIO(), cmd.Args().First(), cmd.Args().Tail())
				})
			},
		},
		{
			Name:      "delete",
			Usage:     "Remove a record from your vault",
			ArgsUsage: "<id>",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if err := requireArgs(cmd, 1); err != nil {
					return err
				}
				return withSession(ctx, func(_ *app.Container, s *client.Session) error {
					return commands.RunDelete(ctx, s, commands.DefaultIO(), cmd.Args().First())
				})
			},
		},
		{
			Name:      "find",
			Usage:     "Find the credential stored for a site and username",
			ArgsUsage: "<site> <username>",
			Flags:     []cli.Flag{revealFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if err := requireArgs(cmd, 2); err != nil {
					return err
				}
				return withSession(ctx, func(_ *app.Container, s *client.Session) error {
					return commands.RunFind(
						ctx,
						s,
						commands.DefaultIO(),
						cmd.Args().Get(0),
						cmd.Args().Get(1),
						cmd.Bool("reveal"),
						cmd.String("format"),
					)
				})
			},
		},
	}
}

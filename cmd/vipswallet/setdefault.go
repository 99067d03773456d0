package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var setdefault = cli.Command{
	Name:      "setdefault",
	Usage:     "select the account used when none is given",
	ArgsUsage: "<label>",
	Action:    setDefaultAction,
}

func setDefaultAction(ctx *cli.Context) error {
	label := ctx.Args().First()
	if len(label) <= 0 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.SetDefaultAccount(ctx.Context, label); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("Default account is %s\n", label)
	return nil
}

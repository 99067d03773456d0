package main

import (
	"github.com/urfave/cli/v2"
)

var balance = cli.Command{
	Name:   "balance",
	Usage:  "get the balance of an account",
	Flags:  []cli.Flag{accountFlag},
	Action: balanceAction,
}

func balanceAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := svc.GetBalance(ctx.Context, ctx.String("account"))
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

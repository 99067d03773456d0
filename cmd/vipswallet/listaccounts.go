package main

import (
	"github.com/urfave/cli/v2"
)

var listaccounts = cli.Command{
	Name:   "listaccounts",
	Usage:  "list the accounts of the wallet",
	Action: listAccountsAction,
}

func listAccountsAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	accounts, err := svc.ListAccounts(ctx.Context)
	if err != nil {
		return err
	}

	printRespJSON(accounts)
	return nil
}

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var syncwallet = cli.Command{
	Name:   "sync",
	Usage:  "rescan the address book of every account",
	Action: syncAction,
}

func syncAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.Sync(ctx.Context); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Wallet is synced")
	return nil
}

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var receive = cli.Command{
	Name:  "receive",
	Usage: "get an address to receive funds",
	Flags: []cli.Flag{
		accountFlag,
		&cli.BoolFlag{
			Name:  "new",
			Usage: "derive a new address instead of the first unused one",
		},
	},
	Action: receiveAction,
}

func receiveAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	addr, err := svc.GetReceiveAddress(
		ctx.Context, ctx.String("account"), ctx.Bool("new"),
	)
	if err != nil {
		return err
	}

	fmt.Println(addr)
	return nil
}

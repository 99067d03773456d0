package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var signmessage = cli.Command{
	Name:      "signmessage",
	Usage:     "sign a message with the key of an address of the wallet",
	ArgsUsage: "<message>",
	Flags: []cli.Flag{
		accountFlag,
		passwordFlag,
		&cli.StringFlag{
			Name:  "address",
			Usage: "the signing address, the default one of the account if empty",
		},
	},
	Action: signMessageAction,
}

func signMessageAction(ctx *cli.Context) error {
	message := ctx.Args().First()
	if len(message) <= 0 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	signature, err := svc.SignMessage(
		ctx.Context, ctx.String("account"), ctx.String("address"), message,
		ctx.String("password"),
	)
	if err != nil {
		return err
	}

	fmt.Println(signature)
	return nil
}

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var verifymessage = cli.Command{
	Name:      "verifymessage",
	Usage:     "verify the signature of a message",
	ArgsUsage: "<message>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "address",
			Usage: "the address of the signer",
		},
		&cli.StringFlag{
			Name:  "signature",
			Usage: "the signature in base64 format",
		},
	},
	Action: verifyMessageAction,
}

func verifyMessageAction(ctx *cli.Context) error {
	message := ctx.Args().First()
	if len(message) <= 0 || !ctx.IsSet("address") || !ctx.IsSet("signature") {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ok, err := svc.VerifyMessage(
		ctx.Context, ctx.String("address"), message, ctx.String("signature"),
	)
	if err != nil {
		return err
	}

	fmt.Println(ok)
	return nil
}

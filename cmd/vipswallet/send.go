package main

import (
	"github.com/urfave/cli/v2"
	"github.com/vipstarcoin/vipswallet/internal/core/application"
)

var send = cli.Command{
	Name:  "send",
	Usage: "send coins to an address",
	Flags: []cli.Flag{
		accountFlag,
		passwordFlag,
		&cli.StringFlag{
			Name:  "to",
			Usage: "the address of the receiver",
		},
		&cli.StringFlag{
			Name:  "amount",
			Usage: "the amount in coins",
		},
		&cli.StringFlag{
			Name:  "fee_rate",
			Usage: "the fee rate in coins per byte, estimated if not given",
		},
		&cli.StringFlag{
			Name:  "memo",
			Usage: "a message embedded in the transaction",
		},
	},
	Action: sendAction,
}

func sendAction(ctx *cli.Context) error {
	if !ctx.IsSet("to") || !ctx.IsSet("amount") {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := svc.Send(ctx.Context, application.SendRequest{
		Account:  ctx.String("account"),
		Password: ctx.String("password"),
		To:       ctx.String("to"),
		Amount:   ctx.String("amount"),
		FeeRate:  ctx.String("fee_rate"),
		Memo:     ctx.String("memo"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

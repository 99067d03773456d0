package main

import (
	"github.com/urfave/cli/v2"
	"github.com/vipstarcoin/vipswallet/internal/core/application"
)

var sendtoken = cli.Command{
	Name:  "sendtoken",
	Usage: "transfer ERC20 tokens from the default address of an account",
	Flags: []cli.Flag{
		accountFlag,
		passwordFlag,
		&cli.StringFlag{
			Name:  "contract",
			Usage: "the address of the token contract",
		},
		&cli.StringFlag{
			Name:  "to",
			Usage: "the address of the receiver",
		},
		&cli.StringFlag{
			Name:  "amount",
			Usage: "the amount in tokens",
		},
		&cli.Uint64Flag{
			Name:  "gas_limit",
			Usage: "the gas limit of the call",
		},
		&cli.Uint64Flag{
			Name:  "gas_price",
			Usage: "the gas price in satoshis",
		},
		&cli.StringFlag{
			Name:  "fee_rate",
			Usage: "the fee rate in coins per byte, estimated if not given",
		},
	},
	Action: sendTokenAction,
}

func sendTokenAction(ctx *cli.Context) error {
	if !ctx.IsSet("contract") || !ctx.IsSet("to") || !ctx.IsSet("amount") {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := svc.SendToken(ctx.Context, application.SendTokenRequest{
		Account:  ctx.String("account"),
		Password: ctx.String("password"),
		Contract: ctx.String("contract"),
		To:       ctx.String("to"),
		Amount:   ctx.String("amount"),
		GasLimit: ctx.Uint64("gas_limit"),
		GasPrice: ctx.Uint64("gas_price"),
		FeeRate:  ctx.String("fee_rate"),
	})
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

package main

import (
	"github.com/urfave/cli/v2"
	"github.com/vipstarcoin/vipswallet/internal/core/application"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

var createaccount = cli.Command{
	Name:  "createaccount",
	Usage: "derive a new account and discover its addresses",
	Flags: []cli.Flag{
		passwordFlag,
		&cli.StringFlag{
			Name:  "label",
			Usage: "the label of the account",
		},
		&cli.StringFlag{
			Name:  "type",
			Value: "44",
			Usage: "the type of the account: 44 (legacy) or 49 (wrapped segwit)",
		},
		&cli.UintFlag{
			Name:  "number",
			Usage: "the account number",
		},
	},
	Action: createAccountAction,
}

func createAccountAction(ctx *cli.Context) error {
	accountType, err := vault.ParseAccountType(ctx.String("type"))
	if err != nil {
		return err
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := svc.CreateAccount(ctx.Context, application.CreateAccountRequest{
		Label:         ctx.String("label"),
		Type:          accountType,
		AccountNumber: uint32(ctx.Uint("number")),
		Password:      ctx.String("password"),
	})
	if err != nil {
		return err
	}

	printRespJSON(info)
	return nil
}

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/vipstarcoin/vipswallet/internal/core/application"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

var initwallet = cli.Command{
	Name:  "init",
	Usage: "initialize the wallet from a mnemonic seed",
	Flags: []cli.Flag{
		passwordFlag,
		&cli.StringFlag{
			Name:  "seed",
			Usage: "the mnemonic seed of the wallet",
		},
		&cli.StringFlag{
			Name:  "label",
			Usage: "the label of the first account, none is created if empty",
		},
		&cli.StringFlag{
			Name:  "type",
			Value: "44",
			Usage: "the type of the first account: 44 (legacy) or 49 (wrapped segwit)",
		},
	},
	Action: initWalletAction,
}

func initWalletAction(ctx *cli.Context) error {
	password := ctx.String("password")
	seed := ctx.String("seed")
	if len(password) <= 0 || len(seed) <= 0 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	accountType, err := vault.ParseAccountType(ctx.String("type"))
	if err != nil {
		return err
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.InitWallet(ctx.Context, seed, password); err != nil {
		return err
	}

	if label := ctx.String("label"); len(label) > 0 {
		info, err := svc.CreateAccount(ctx.Context, application.CreateAccountRequest{
			Label:    label,
			Type:     accountType,
			Password: password,
		})
		if err != nil {
			return err
		}
		printRespJSON(info)
	}

	fmt.Println()
	fmt.Println("Wallet is initialized")
	return nil
}

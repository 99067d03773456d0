package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"github.com/vipstarcoin/vipswallet/internal/core/application"
	"github.com/vipstarcoin/vipswallet/internal/infrastructure/storage/db/inmemory"
	"github.com/vipstarcoin/vipswallet/pkg/vault"
)

var genseed = cli.Command{
	Name:   "genseed",
	Usage:  "generate a mnemonic seed",
	Action: genSeedAction,
}

func genSeedAction(ctx *cli.Context) error {
	// no wallet is needed to generate a seed
	svc := application.NewWalletService(inmemory.NewWalletRepository(), vault.Options{})

	mnemonic, err := svc.GenSeed(ctx.Context)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(mnemonic)

	return nil
}

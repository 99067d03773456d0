package main

import (
	"github.com/urfave/cli/v2"
)

var tokeninfo = cli.Command{
	Name:      "tokeninfo",
	Usage:     "get name, symbol, decimals and supply of an ERC20 token",
	ArgsUsage: "<contract>",
	Flags:     []cli.Flag{accountFlag},
	Action:    tokenInfoAction,
}

func tokenInfoAction(ctx *cli.Context) error {
	contract := ctx.Args().First()
	if len(contract) <= 0 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}

	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := svc.GetTokenInfo(ctx.Context, ctx.String("account"), contract)
	if err != nil {
		return err
	}

	printRespJSON(info)
	return nil
}

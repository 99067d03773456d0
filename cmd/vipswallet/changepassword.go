package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var changepassword = cli.Command{
	Name:  "changepassword",
	Usage: "change the password of the wallet",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "current_password",
			Usage: "the current password of the wallet",
		},
		&cli.StringFlag{
			Name:  "new_password",
			Usage: "the new password of the wallet",
		},
	},
	Action: changePasswordAction,
}

func changePasswordAction(ctx *cli.Context) error {
	svc, cleanup, err := getWalletService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.ChangePassword(
		ctx.Context, ctx.String("current_password"), ctx.String("new_password"),
	); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Password changed")
	return nil
}

package main

import (
	"fmt"

	"github.com/hivewallet/hive-core/internal/core/application"
	"github.com/urfave/cli/v2"
)

var (
	pinFlag = cli.StringFlag{
		Name:     "pin",
		Usage:    "the 4 digits pin of the wallet",
		Required: true,
	}
	mnemonicFlag = cli.StringFlag{
		Name:  "mnemonic",
		Usage: "the mnemonic of the wallet to restore",
	}
)

var create = cli.Command{
	Name:  "create",
	Usage: "create a new wallet, or restore it from its mnemonic, and set its pin",
	Flags: []cli.Flag{
		&pinFlag,
		&mnemonicFlag,
	},
	Action: createAction,
}

var open = cli.Command{
	Name:   "open",
	Usage:  "open the stored wallet and print its balance",
	Flags:  []cli.Flag{&pinFlag},
	Action: openAction,
}

var history = cli.Command{
	Name:   "history",
	Usage:  "open the stored wallet and print its transactions",
	Flags:  []cli.Flag{&pinFlag},
	Action: historyAction,
}

var validatesend = cli.Command{
	Name:  "validatesend",
	Usage: "check that an amount can be sent to an address",
	Flags: []cli.Flag{
		&pinFlag,
		&cli.StringFlag{
			Name:     "address",
			Usage:    "the address of the receiver",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount",
			Usage:    "the amount to send, in the default denomination",
			Required: true,
		},
	},
	Action: validateSendAction,
}

var resetpin = cli.Command{
	Name:   "resetpin",
	Usage:  "invalidate the pin and delete the stored wallet",
	Action: resetPinAction,
}

var disablepin = cli.Command{
	Name:   "disablepin",
	Usage:  "remove the pin protection of the stored wallet",
	Flags:  []cli.Flag{&pinFlag},
	Action: disablePinAction,
}

var exists = cli.Command{
	Name:   "exists",
	Usage:  "tell whether a wallet is stored locally",
	Action: existsAction,
}

var reset = cli.Command{
	Name:   "reset",
	Usage:  "delete the stored wallet",
	Action: resetAction,
}

func createAction(ctx *cli.Context) error {
	return withWalletService(ctx, func(svc *application.WalletService) error {
		reply, err := svc.CreateWallet(ctx.Context, ctx.String("mnemonic"))
		if err != nil {
			return err
		}
		if reply.UserExists {
			return fmt.Errorf(
				"wallet is already registered, use resetpin to set a new pin",
			)
		}

		_, _, balance, err := svc.SetPin(ctx.Context, ctx.String("pin")).
			Wait(ctx.Context)
		if err != nil {
			return err
		}

		w := svc.GetWallet()
		printJSON(map[string]interface{}{
			"mnemonic":  reply.Mnemonic,
			"wallet_id": svc.WalletID(),
			"balance":   w.Denomination().Format(balance.Balance),
			"address":   w.NextAddress(),
		})
		return nil
	})
}

func openAction(ctx *cli.Context) error {
	return withWalletService(ctx, func(svc *application.WalletService) error {
		_, unspents, balance, err := svc.OpenWalletWithPin(
			ctx.Context, ctx.String("pin"),
		).Wait(ctx.Context)
		if err != nil {
			return err
		}

		w := svc.GetWallet()
		printJSON(map[string]interface{}{
			"wallet_id":      svc.WalletID(),
			"balance":        w.Denomination().Format(balance.Balance),
			"denomination":   w.Denomination().Label,
			"unspents":       len(unspents.Unspents),
			"address":        w.NextAddress(),
			"change_address": w.NextChangeAddress(),
		})
		return nil
	})
}

func historyAction(ctx *cli.Context) error {
	return withWalletService(ctx, func(svc *application.WalletService) error {
		replies := svc.OpenWalletWithPin(ctx.Context, ctx.String("pin"))
		reply := <-replies.History
		if reply.Err != nil {
			return reply.Err
		}

		failures := make(map[string]string, len(reply.Failures))
		for txid, err := range reply.Failures {
			failures[txid] = err.Error()
		}
		printJSON(map[string]interface{}{
			"transactions": reply.Transactions,
			"failures":     failures,
		})
		return nil
	})
}

func validateSendAction(ctx *cli.Context) error {
	return withWalletService(ctx, func(svc *application.WalletService) error {
		_, _, _, err := svc.OpenWalletWithPin(
			ctx.Context, ctx.String("pin"),
		).Wait(ctx.Context)
		if err != nil {
			return err
		}

		amount, err := svc.GetWallet().Denomination().Parse(ctx.String("amount"))
		if err != nil {
			return err
		}
		if err := svc.ValidateSend(ctx.String("address"), amount); err != nil {
			return err
		}

		fmt.Println("ok")
		return nil
	})
}

func resetPinAction(ctx *cli.Context) error {
	return withWalletService(ctx, func(svc *application.WalletService) error {
		state, err := svc.ResetPin(ctx.Context)
		if err != nil {
			return err
		}

		fmt.Println("pin reset, wallet is", state)
		return nil
	})
}

func disablePinAction(ctx *cli.Context) error {
	return withWalletService(ctx, func(svc *application.WalletService) error {
		pin := ctx.String("pin")
		// A session with the auth service is needed.
		_, _, _, err := svc.OpenWalletWithPin(ctx.Context, pin).Wait(ctx.Context)
		if err != nil {
			return err
		}
		if err := svc.DisablePin(ctx.Context, pin); err != nil {
			return err
		}

		fmt.Println("pin disabled")
		return nil
	})
}

func existsAction(ctx *cli.Context) error {
	return withWalletService(ctx, func(svc *application.WalletService) error {
		ok, err := svc.WalletExists(ctx.Context)
		if err != nil {
			return err
		}

		fmt.Println(ok)
		return nil
	})
}

func resetAction(ctx *cli.Context) error {
	return withWalletService(ctx, func(svc *application.WalletService) error {
		if err := svc.Reset(ctx.Context); err != nil {
			return err
		}

		fmt.Println("wallet is", svc.Status())
		return nil
	})
}

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"wagerledger/config"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// RunWalletCommand handles "wallet credit|debit <discord_id> <amount>"
func RunWalletCommand(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: wagerledger wallet [credit|debit] <discord_id> <amount>")
	}

	userID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid discord id %q: %w", args[1], err)
	}
	amount, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[2], err)
	}

	cfg := config.Get()
	cfg.ConfigureLogging()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.db.Close()

	wallets := app.services.Wallet
	switch args[0] {
	case "credit":
		tx, err := wallets.Credit(ctx, userID, amount)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"userID":    userID,
			"amount":    tx.Amount.StringFixed(2),
			"balance":   tx.BalanceAfter.StringFixed(2),
			"reference": tx.Reference,
		}).Info("Wallet credited")
	case "debit":
		tx, err := wallets.Debit(ctx, userID, amount)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"userID":    userID,
			"amount":    tx.Amount.StringFixed(2),
			"balance":   tx.BalanceAfter.StringFixed(2),
			"reference": tx.Reference,
		}).Info("Wallet debited")
	default:
		return fmt.Errorf("unknown wallet command: %s", args[0])
	}
	return nil
}

package service

import (
	"context"
	"fmt"

	"wagerledger/events"
	"wagerledger/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// RecordLedgerEntry moves amount in or out of a wallet locked by the
// current unit of work, appends the matching ledger entry and queues a
// balance change event. This is the single entry point for all balance
// changes in the system. wallet.Balance is updated in place.
func RecordLedgerEntry(ctx context.Context, uow UnitOfWork, wallet *models.Wallet, txType models.TransactionType, amount decimal.Decimal, gameID *int64) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("ledger amount must be positive, got %s", amount.String())
	}

	before := wallet.Balance
	var after decimal.Decimal
	if txType.IsCredit() {
		after = before.Add(amount)
	} else {
		after = before.Sub(amount)
	}
	if after.IsNegative() {
		return nil, fmt.Errorf("wallet %d has %s, needs %s: %w",
			wallet.WalletID, before.StringFixed(2), amount.StringFixed(2), ErrInsufficientFunds)
	}

	if err := uow.WalletRepository().UpdateBalance(ctx, wallet.WalletID, after); err != nil {
		return nil, storeError("update wallet balance", err)
	}

	entry := &models.Transaction{
		WalletID:      wallet.WalletID,
		Amount:        amount,
		Type:          txType,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reference:     NewReference(),
		GameID:        gameID,
	}
	if err := uow.TransactionRepository().Create(ctx, entry); err != nil {
		return nil, storeError("record ledger entry", err)
	}

	wallet.Balance = after

	log.WithFields(log.Fields{
		"walletID":  wallet.WalletID,
		"txType":    txType,
		"amount":    amount.StringFixed(2),
		"before":    before.StringFixed(2),
		"after":     after.StringFixed(2),
		"reference": entry.Reference,
	}).Debug("Recorded ledger entry")

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          wallet.UserID,
		WalletID:        wallet.WalletID,
		OldBalance:      before,
		NewBalance:      after,
		Amount:          amount,
		TransactionType: txType,
		Reference:       entry.Reference,
		GameID:          gameID,
	})

	return entry, nil
}

// lockWallet row-locks the user's wallet for the rest of the unit of work
func lockWallet(ctx context.Context, uow UnitOfWork, userID int64) (*models.Wallet, error) {
	wallet, err := uow.WalletRepository().GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, storeError("lock wallet", err)
	}
	if wallet == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrWalletNotFound)
	}
	return wallet, nil
}

package service

import (
	"context"
	"fmt"

	"wagerledger/events"
	"wagerledger/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// WalletConfig holds wallet defaults
type WalletConfig struct {
	StartingBalance decimal.Decimal
	Currency        string
}

// walletService implements the WalletService interface
type walletService struct {
	uowFactory UnitOfWorkFactory
	config     WalletConfig
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory UnitOfWorkFactory, config WalletConfig) WalletService {
	return &walletService{
		uowFactory: uowFactory,
		config:     config,
	}
}

// EnsureWallet creates the user and a funded wallet on first use
func (s *walletService) EnsureWallet(ctx context.Context, userID int64, username string) (*models.Wallet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	if _, err := uow.UserRepository().Upsert(ctx, userID, username); err != nil {
		return nil, storeError("upsert user", err)
	}

	// Create locks the wallet row whether or not it inserted
	wallet, created, err := uow.WalletRepository().Create(ctx, userID, s.config.Currency)
	if err != nil {
		return nil, storeError("create wallet", err)
	}

	if created {
		if s.config.StartingBalance.IsPositive() {
			if _, err := RecordLedgerEntry(ctx, uow, wallet, models.TransactionTypeDeposit, s.config.StartingBalance, nil); err != nil {
				return nil, err
			}
		}

		uow.EventBus().Publish(events.WalletCreatedEvent{
			UserID:         userID,
			WalletID:       wallet.WalletID,
			Username:       username,
			InitialBalance: wallet.Balance,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	if created {
		log.WithFields(log.Fields{
			"userID":   userID,
			"walletID": wallet.WalletID,
			"balance":  wallet.Balance.StringFixed(2),
		}).Info("Created wallet")
	}

	return wallet, nil
}

// GetWallet returns the user's wallet
func (s *walletService) GetWallet(ctx context.Context, userID int64) (*models.Wallet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	wallet, err := uow.WalletRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("get wallet", err)
	}
	if wallet == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrWalletNotFound)
	}

	if err := uow.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	return wallet, nil
}

// Credit deposits amount into the wallet
func (s *walletService) Credit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.Transaction, error) {
	return s.move(ctx, userID, models.TransactionTypeDeposit, amount)
}

// Debit withdraws amount from the wallet
func (s *walletService) Debit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.Transaction, error) {
	return s.move(ctx, userID, models.TransactionTypeWithdraw, amount)
}

func (s *walletService) move(ctx context.Context, userID int64, txType models.TransactionType, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return nil, invalidBet("amount must be positive with at most 2 decimal places, got %s", amount.String())
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	wallet, err := lockWallet(ctx, uow, userID)
	if err != nil {
		return nil, err
	}

	entry, err := RecordLedgerEntry(ctx, uow, wallet, txType, amount, nil)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"txType":     txType,
		"amount":     amount.StringFixed(2),
		"newBalance": entry.BalanceAfter.StringFixed(2),
	}).Info("Wallet balance adjusted")

	return entry, nil
}

// ListTransactions returns the newest ledger entries of the user's wallet
func (s *walletService) ListTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	wallet, err := uow.WalletRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("get wallet", err)
	}
	if wallet == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrWalletNotFound)
	}

	entries, err := uow.TransactionRepository().GetByWallet(ctx, wallet.WalletID, limit)
	if err != nil {
		return nil, storeError("list transactions", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	return entries, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"wagerledger/database"
	"wagerledger/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository implements the WalletRepository interface
type WalletRepository struct {
	q queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) *WalletRepository {
	return &WalletRepository{q: db.Pool}
}

func newWalletRepositoryWithTx(tx queryable) *WalletRepository {
	return &WalletRepository{q: tx}
}

const walletColumns = `wallet_id, user_id, balance::text, currency, created_at, updated_at`

// GetByUserID returns the user's wallet without locking it, nil if none
func (r *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	return r.getOne(ctx, query, userID)
}

// GetByUserIDForUpdate returns the user's wallet and holds an exclusive row
// lock on it until the surrounding transaction ends. Nil if none.
func (r *WalletRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1 FOR UPDATE`
	return r.getOne(ctx, query, userID)
}

func (r *WalletRepository) getOne(ctx context.Context, query string, userID int64) (*models.Wallet, error) {
	wallet, err := scanWallet(r.q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}
	return wallet, nil
}

// Create opens an empty wallet for the user, or returns the existing one
func (r *WalletRepository) Create(ctx context.Context, userID int64, currency string) (*models.Wallet, bool, error) {
	query := `
		INSERT INTO wallets (user_id, balance, currency)
		VALUES ($1, 0, $2)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING ` + walletColumns

	wallet, err := scanWallet(r.q.QueryRow(ctx, query, userID, currency))
	if errors.Is(err, pgx.ErrNoRows) {
		existing, getErr := r.GetByUserIDForUpdate(ctx, userID)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create wallet for user %d: %w", userID, err)
	}

	return wallet, true, nil
}

// UpdateBalance sets the balance of a wallet locked by the caller
func (r *WalletRepository) UpdateBalance(ctx context.Context, walletID int64, newBalance decimal.Decimal) error {
	if newBalance.IsNegative() {
		return fmt.Errorf("refusing negative balance %s for wallet %d", money(newBalance), walletID)
	}

	query := `
		UPDATE wallets
		SET balance = $1, updated_at = NOW()
		WHERE wallet_id = $2
	`

	result, err := r.q.Exec(ctx, query, money(newBalance), walletID)
	if err != nil {
		return fmt.Errorf("failed to update balance for wallet %d: %w", walletID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("wallet %d not found", walletID)
	}

	return nil
}

func scanWallet(row pgx.Row) (*models.Wallet, error) {
	var wallet models.Wallet
	var balance string
	if err := row.Scan(
		&wallet.WalletID,
		&wallet.UserID,
		&balance,
		&wallet.Currency,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	); err != nil {
		return nil, err
	}

	amount, err := parseMoney("balance", balance)
	if err != nil {
		return nil, err
	}
	wallet.Balance = amount

	return &wallet, nil
}

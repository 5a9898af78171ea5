package repository

import (
	"context"
	"fmt"

	"wagerledger/database"
	"wagerledger/models"
)

// TransactionRepository implements the append-only ledger
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new ledger repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create appends a ledger entry. Entries are never updated or deleted.
func (r *TransactionRepository) Create(ctx context.Context, entry *models.Transaction) error {
	query := `
		INSERT INTO transactions
		(wallet_id, amount, tx_type, balance_before, balance_after, reference, game_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING transaction_id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.WalletID,
		money(entry.Amount),
		entry.Type,
		money(entry.BalanceBefore),
		money(entry.BalanceAfter),
		entry.Reference,
		entry.GameID,
	).Scan(&entry.TransactionID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s transaction for wallet %d: %w", entry.Type, entry.WalletID, err)
	}

	return nil
}

// GetByWallet returns the most recent ledger entries of a wallet
func (r *TransactionRepository) GetByWallet(ctx context.Context, walletID int64, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT transaction_id, wallet_id, amount::text, tx_type, balance_before::text,
		       balance_after::text, reference, game_id, created_at
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for wallet %d: %w", walletID, err)
	}
	defer rows.Close()

	var entries []*models.Transaction
	for rows.Next() {
		var entry models.Transaction
		var amount, before, after string
		if err := rows.Scan(
			&entry.TransactionID,
			&entry.WalletID,
			&amount,
			&entry.Type,
			&before,
			&after,
			&entry.Reference,
			&entry.GameID,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if entry.Amount, err = parseMoney("amount", amount); err != nil {
			return nil, err
		}
		if entry.BalanceBefore, err = parseMoney("balance_before", before); err != nil {
			return nil, err
		}
		if entry.BalanceAfter, err = parseMoney("balance_after", after); err != nil {
			return nil, err
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return entries, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"wagerledger/database"
	"wagerledger/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByDiscordID retrieves a user by their Discord ID, nil if none
func (r *UserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	query := `
		SELECT discord_id, username, created_at, updated_at
		FROM users
		WHERE discord_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&user.DiscordID,
		&user.Username,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by discord ID %d: %w", discordID, err)
	}

	return &user, nil
}

// Upsert creates the user or refreshes the stored username
func (r *UserRepository) Upsert(ctx context.Context, discordID int64, username string) (*models.User, error) {
	query := `
		INSERT INTO users (discord_id, username)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE
		SET username = EXCLUDED.username, updated_at = NOW()
		RETURNING discord_id, username, created_at, updated_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, discordID, username).Scan(
		&user.DiscordID,
		&user.Username,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user with discord ID %d: %w", discordID, err)
	}

	return &user, nil
}

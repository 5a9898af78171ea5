package service

import (
	"context"
	"time"

	"wagerledger/events"
	"wagerledger/models"

	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByDiscordID retrieves a user by their Discord ID, nil if missing
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// Upsert creates the user or refreshes their username
	Upsert(ctx context.Context, discordID int64, username string) (*models.User, error)
}

// WalletRepository defines the interface for wallet data access
type WalletRepository interface {
	// GetByUserID reads a wallet without locking it, nil if missing
	GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error)

	// GetByUserIDForUpdate reads and row-locks a wallet until the transaction ends, nil if missing
	GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.Wallet, error)

	// Create inserts an empty wallet; created is false when one already existed
	Create(ctx context.Context, userID int64, currency string) (wallet *models.Wallet, created bool, err error)

	// UpdateBalance sets the balance of a locked wallet
	UpdateBalance(ctx context.Context, walletID int64, newBalance decimal.Decimal) error
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Create appends a ledger entry
	Create(ctx context.Context, entry *models.Transaction) error

	// GetByWallet returns the newest entries of a wallet
	GetByWallet(ctx context.Context, walletID int64, limit int) ([]*models.Transaction, error)
}

// GameRepository defines the interface for game rounds
type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, gameID int64) (*models.Game, error)
	GetActiveByUser(ctx context.Context, userID int64, gameType models.GameType) (*models.Game, error)

	// UpdateState, Complete and Cancel only touch ACTIVE games and return
	// ErrNoActiveGame otherwise
	UpdateState(ctx context.Context, gameID int64, state []byte) error
	Complete(ctx context.Context, gameID int64, result []byte) error
	Cancel(ctx context.Context, gameID int64) error

	GetHistory(ctx context.Context, userID int64, gameType *models.GameType, limit, offset int) ([]*models.GameHistoryEntry, error)
	GetStats(ctx context.Context, userID int64, since time.Time) (*models.GameStats, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	Create(ctx context.Context, bet *models.Bet) error
	GetByGameID(ctx context.Context, gameID int64) (*models.Bet, error)
}

// PayoutRepository defines the interface for payout data access
type PayoutRepository interface {
	// Create fails if the bet already has a payout
	Create(ctx context.Context, payout *models.Payout) error
	GetByBetID(ctx context.Context, betID int64) (*models.Payout, error)
}

// RuleSnapshotRepository defines the interface for per-game rule snapshots
type RuleSnapshotRepository interface {
	// Create is write-once per (game, rule); inserted is false on repeats
	Create(ctx context.Context, snapshot *models.RuleSnapshot) (inserted bool, err error)
	GetByGame(ctx context.Context, gameID int64) ([]*models.RuleSnapshot, error)
}

// RuleReader reads configured rule sets outside any transaction
type RuleReader interface {
	GetActiveRuleSetID(ctx context.Context) (*int64, error)
	GetRuleParams(ctx context.Context, ruleSetID int64) (map[string]string, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	WalletRepository() WalletRepository
	TransactionRepository() TransactionRepository
	GameRepository() GameRepository
	BetRepository() BetRepository
	PayoutRepository() PayoutRepository
	RuleSnapshotRepository() RuleSnapshotRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// WalletService defines the interface for wallet operations
type WalletService interface {
	// EnsureWallet creates the user and a wallet funded with the starting balance on first use
	EnsureWallet(ctx context.Context, userID int64, username string) (*models.Wallet, error)

	// GetWallet returns the user's wallet or ErrWalletNotFound
	GetWallet(ctx context.Context, userID int64) (*models.Wallet, error)

	// Credit deposits amount into the wallet
	Credit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.Transaction, error)

	// Debit withdraws amount from the wallet, failing with ErrInsufficientFunds
	Debit(ctx context.Context, userID int64, amount decimal.Decimal) (*models.Transaction, error)

	// ListTransactions returns the newest ledger entries of the user's wallet
	ListTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)
}

// SettlementService defines the interface for single-shot wagers
type SettlementService interface {
	// SettleWager debits, resolves and pays a coinflip or roulette bet in one transaction
	SettleWager(ctx context.Context, req WagerRequest) (*models.SettlementResult, error)
}

// BlackjackService defines the interface for the blackjack state machine
type BlackjackService interface {
	Start(ctx context.Context, userID int64, stake decimal.Decimal) (*models.BlackjackView, error)
	Hit(ctx context.Context, userID int64) (*models.BlackjackView, error)
	Stand(ctx context.Context, userID int64) (*models.BlackjackView, error)

	// Resume returns the ACTIVE hand without mutating the ledger
	Resume(ctx context.Context, userID int64) (*models.BlackjackView, error)
}

// HistoryService defines the interface for read-side reporting
type HistoryService interface {
	GetUserGames(ctx context.Context, userID int64, gameType *models.GameType, limit, offset int) ([]*models.GameHistoryEntry, error)
	GetGameStats(ctx context.Context, userID int64, days int) (*models.GameStats, error)
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"wagerledger/database"
	"wagerledger/events"
	"wagerledger/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	userRepo         service.UserRepository
	walletRepo       service.WalletRepository
	transactionRepo  service.TransactionRepository
	gameRepo         service.GameRepository
	betRepo          service.BetRepository
	payoutRepo       service.PayoutRepository
	ruleSnapshotRepo service.RuleSnapshotRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = newUserRepositoryWithTx(tx)
	u.walletRepo = newWalletRepositoryWithTx(tx)
	u.transactionRepo = newTransactionRepositoryWithTx(tx)
	u.gameRepo = newGameRepositoryWithTx(tx)
	u.betRepo = newBetRepositoryWithTx(tx)
	u.payoutRepo = newPayoutRepositoryWithTx(tx)
	u.ruleSnapshotRepo = newRuleSnapshotRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and publishes the events it collected
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction. Safe to defer after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

func mustBegin[T any](repo T, started bool) T {
	if !started {
		panic("unit of work not started - call Begin() first")
	}
	return repo
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	return mustBegin(u.userRepo, u.userRepo != nil)
}

// WalletRepository returns the wallet repository for this unit of work
func (u *unitOfWork) WalletRepository() service.WalletRepository {
	return mustBegin(u.walletRepo, u.walletRepo != nil)
}

// TransactionRepository returns the ledger repository for this unit of work
func (u *unitOfWork) TransactionRepository() service.TransactionRepository {
	return mustBegin(u.transactionRepo, u.transactionRepo != nil)
}

// GameRepository returns the game repository for this unit of work
func (u *unitOfWork) GameRepository() service.GameRepository {
	return mustBegin(u.gameRepo, u.gameRepo != nil)
}

// BetRepository returns the bet repository for this unit of work
func (u *unitOfWork) BetRepository() service.BetRepository {
	return mustBegin(u.betRepo, u.betRepo != nil)
}

// PayoutRepository returns the payout repository for this unit of work
func (u *unitOfWork) PayoutRepository() service.PayoutRepository {
	return mustBegin(u.payoutRepo, u.payoutRepo != nil)
}

// RuleSnapshotRepository returns the rule snapshot repository for this unit of work
func (u *unitOfWork) RuleSnapshotRepository() service.RuleSnapshotRepository {
	return mustBegin(u.ruleSnapshotRepo, u.ruleSnapshotRepo != nil)
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}

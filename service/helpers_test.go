package service

import (
	"context"
	"testing"

	"wagerledger/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const (
	testUserID   int64 = 123456
	testWalletID int64 = 10
	testGameID   int64 = 7
	testBetID    int64 = 70
)

// testEnv wires a MockUnitOfWork with repository mocks and records every write
type testEnv struct {
	ctx     context.Context
	factory *MockUnitOfWorkFactory
	uow     *MockUnitOfWork
	repos   *MockRepositories
	rules   *MockRuleReader

	balances  []decimal.Decimal
	entries   []*models.Transaction
	games     []*models.Game
	payouts   []*models.Payout
	snapshots []*models.RuleSnapshot
	results   [][]byte
	states    [][]byte
}

func newTestEnv() *testEnv {
	env := &testEnv{
		ctx:     context.Background(),
		factory: new(MockUnitOfWorkFactory),
		uow:     new(MockUnitOfWork),
		repos:   NewMockRepositories(),
		rules:   new(MockRuleReader),
	}
	env.uow.SetRepositories(env.repos)

	env.factory.On("Create").Return(env.uow)
	env.uow.On("Begin", env.ctx).Return(nil)
	env.uow.On("Commit").Return(nil).Maybe()
	env.uow.On("Rollback").Return(nil)

	return env
}

func (e *testEnv) resolver() *RuleResolver {
	return NewRuleResolver(e.rules)
}

// withoutRuleSet makes every rule lookup fall back to defaults
func (e *testEnv) withoutRuleSet() {
	e.rules.On("GetActiveRuleSetID", e.ctx).Return(nil, nil)
}

func (e *testEnv) withWallet(balance string) *models.Wallet {
	wallet := &models.Wallet{
		WalletID: testWalletID,
		UserID:   testUserID,
		Balance:  decimal.RequireFromString(balance),
		Currency: "TRY",
	}
	e.repos.Wallet.On("GetByUserIDForUpdate", e.ctx, testUserID).Return(wallet, nil)
	return wallet
}

// allowWrites accepts every write a settlement performs and records it
func (e *testEnv) allowWrites() {
	e.repos.Wallet.On("UpdateBalance", e.ctx, testWalletID, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		e.balances = append(e.balances, args.Get(2).(decimal.Decimal))
	})
	e.repos.Transaction.On("Create", e.ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		e.entries = append(e.entries, args.Get(1).(*models.Transaction))
	})
	e.repos.Game.On("Create", e.ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		game := args.Get(1).(*models.Game)
		game.GameID = testGameID
		e.games = append(e.games, game)
	})
	e.repos.Bet.On("Create", e.ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Bet).BetID = testBetID
	})
	e.repos.Game.On("UpdateState", e.ctx, testGameID, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		e.states = append(e.states, args.Get(2).([]byte))
	})
	e.repos.Payout.On("Create", e.ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		e.payouts = append(e.payouts, args.Get(1).(*models.Payout))
	})
	e.repos.Game.On("Complete", e.ctx, testGameID, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		e.results = append(e.results, args.Get(2).([]byte))
	})
	e.repos.RuleSnapshot.On("Create", e.ctx, mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
		e.snapshots = append(e.snapshots, args.Get(1).(*models.RuleSnapshot))
	})
}

func (e *testEnv) assertNoWrites(t *testing.T) {
	t.Helper()
	e.repos.Wallet.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	e.repos.Transaction.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	e.repos.Payout.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	e.uow.AssertNotCalled(t, "Commit")
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

package repository_test

import (
	"context"
	"testing"
	"time"

	"wagerledger/events"
	"wagerledger/models"
	"wagerledger/repository"
	"wagerledger/repository/testutil"
	"wagerledger/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWallet(t *testing.T, testDB *testutil.TestDatabase, userID int64) *models.Wallet {
	t.Helper()
	ctx := context.Background()

	_, err := repository.NewUserRepository(testDB.DB).Upsert(ctx, userID, "player")
	require.NoError(t, err)

	wallet, created, err := repository.NewWalletRepository(testDB.DB).Create(ctx, userID, "TRY")
	require.NoError(t, err)
	require.True(t, created)
	return wallet
}

func TestWalletRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	wallets := repository.NewWalletRepository(testDB.DB)

	wallet := setupWallet(t, testDB, 1001)
	assert.True(t, wallet.Balance.IsZero())
	assert.Equal(t, "TRY", wallet.Currency)

	t.Run("create is idempotent", func(t *testing.T) {
		again, created, err := wallets.Create(ctx, 1001, "TRY")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, wallet.WalletID, again.WalletID)
	})

	t.Run("balance keeps two decimals", func(t *testing.T) {
		require.NoError(t, wallets.UpdateBalance(ctx, wallet.WalletID, decimal.RequireFromString("109.50")))

		reloaded, err := wallets.GetByUserID(ctx, 1001)
		require.NoError(t, err)
		assert.Equal(t, "109.50", reloaded.Balance.StringFixed(2))
	})

	t.Run("negative balance is refused", func(t *testing.T) {
		err := wallets.UpdateBalance(ctx, wallet.WalletID, decimal.RequireFromString("-0.01"))
		assert.Error(t, err)
	})

	t.Run("missing wallet is nil", func(t *testing.T) {
		missing, err := wallets.GetByUserID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestTransactionRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	wallet := setupWallet(t, testDB, 2002)
	ledger := repository.NewTransactionRepository(testDB.DB)

	entries := []*models.Transaction{
		{WalletID: wallet.WalletID, Amount: decimal.NewFromInt(100), Type: models.TransactionTypeDeposit, BalanceBefore: decimal.Zero, BalanceAfter: decimal.NewFromInt(100), Reference: service.NewReference()},
		{WalletID: wallet.WalletID, Amount: decimal.NewFromInt(10), Type: models.TransactionTypeBet, BalanceBefore: decimal.NewFromInt(100), BalanceAfter: decimal.NewFromInt(90), Reference: service.NewReference()},
	}
	for _, entry := range entries {
		require.NoError(t, ledger.Create(ctx, entry))
		assert.NotZero(t, entry.TransactionID)
	}

	got, err := ledger.GetByWallet(ctx, wallet.WalletID, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.TransactionTypeBet, got[0].Type, "newest first")
	assert.Equal(t, "90.00", got[0].BalanceAfter.StringFixed(2))

	t.Run("reference is unique", func(t *testing.T) {
		dup := *entries[0]
		dup.TransactionID = 0
		assert.Error(t, ledger.Create(ctx, &dup))
	})
}

func TestRuleRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	rules := repository.NewRuleRepository(testDB.DB)

	active, err := rules.GetActiveRuleSetID(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	first := testDB.SeedRuleSet(t, "launch", map[string]string{"coinflip_payout": "1.90"})
	second := testDB.SeedRuleSet(t, "promo", map[string]string{
		"coinflip_payout":        "2.00",
		"roulette_number_payout": "30",
	})

	active, err = rules.GetActiveRuleSetID(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second, *active)

	params, err := rules.GetRuleParams(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"coinflip_payout": "1.90"}, params)

	params, err = rules.GetRuleParams(ctx, second)
	require.NoError(t, err)
	assert.Len(t, params, 2)
	assert.Equal(t, "30", params["roulette_number_payout"])
}

func TestRuleSnapshotRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	setupWallet(t, testDB, 3003)

	game := &models.Game{UserID: 3003, GameType: models.GameTypeCoinflip}
	require.NoError(t, repository.NewGameRepository(testDB.DB).Create(ctx, game))

	snapshots := repository.NewRuleSnapshotRepository(testDB.DB)
	inserted, err := snapshots.Create(ctx, &models.RuleSnapshot{
		GameID:    game.GameID,
		RuleType:  "coinflip_payout",
		RuleValue: decimal.RequireFromString("1.95"),
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = snapshots.Create(ctx, &models.RuleSnapshot{
		GameID:    game.GameID,
		RuleType:  "coinflip_payout",
		RuleValue: decimal.RequireFromString("3.00"),
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := snapshots.GetByGame(ctx, game.GameID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1.9500", got[0].RuleValue.StringFixed(4))
	assert.Nil(t, got[0].RuleSetID)
}

func TestUnitOfWork_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	wallet := setupWallet(t, testDB, 4004)

	bus := events.NewBus()
	received := make(chan events.Event, 4)
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, e events.Event) {
		received <- e
	})
	factory := repository.NewUnitOfWorkFactory(testDB.DB, bus)

	t.Run("rollback discards writes and events", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))

		locked, err := uow.WalletRepository().GetByUserIDForUpdate(ctx, 4004)
		require.NoError(t, err)
		require.NoError(t, uow.WalletRepository().UpdateBalance(ctx, locked.WalletID, decimal.NewFromInt(50)))
		uow.EventBus().Publish(events.BalanceChangeEvent{UserID: 4004, WalletID: wallet.WalletID})

		require.NoError(t, uow.Rollback())

		reloaded, err := repository.NewWalletRepository(testDB.DB).GetByUserID(ctx, 4004)
		require.NoError(t, err)
		assert.True(t, reloaded.Balance.IsZero())

		select {
		case <-received:
			t.Fatal("event delivered after rollback")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("commit persists and flushes", func(t *testing.T) {
		uow := factory.Create()
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		require.NoError(t, uow.WalletRepository().UpdateBalance(ctx, wallet.WalletID, decimal.NewFromInt(75)))
		uow.EventBus().Publish(events.BalanceChangeEvent{UserID: 4004, WalletID: wallet.WalletID})
		require.NoError(t, uow.Commit())

		reloaded, err := repository.NewWalletRepository(testDB.DB).GetByUserID(ctx, 4004)
		require.NoError(t, err)
		assert.Equal(t, "75.00", reloaded.Balance.StringFixed(2))

		select {
		case e := <-received:
			assert.Equal(t, events.EventTypeBalanceChange, e.Type())
		case <-time.After(time.Second):
			t.Fatal("event not delivered after commit")
		}
	})

	t.Run("repositories require begin", func(t *testing.T) {
		uow := factory.Create()
		assert.Panics(t, func() { uow.WalletRepository() })
	})
}

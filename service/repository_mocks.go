package service

import (
	"context"
	"time"

	"wagerledger/events"
	"wagerledger/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, discordID int64, username string) (*models.User, error) {
	args := m.Called(ctx, discordID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Create(ctx context.Context, userID int64, currency string) (*models.Wallet, bool, error) {
	args := m.Called(ctx, userID, currency)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Wallet), args.Bool(1), args.Error(2)
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, walletID int64, newBalance decimal.Decimal) error {
	args := m.Called(ctx, walletID, newBalance)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, entry *models.Transaction) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByWallet(ctx context.Context, walletID int64, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, walletID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

// MockGameRepository is a mock implementation of GameRepository
type MockGameRepository struct {
	mock.Mock
}

func (m *MockGameRepository) Create(ctx context.Context, game *models.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockGameRepository) GetByID(ctx context.Context, gameID int64) (*models.Game, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) GetActiveByUser(ctx context.Context, userID int64, gameType models.GameType) (*models.Game, error) {
	args := m.Called(ctx, userID, gameType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *MockGameRepository) UpdateState(ctx context.Context, gameID int64, state []byte) error {
	args := m.Called(ctx, gameID, state)
	return args.Error(0)
}

func (m *MockGameRepository) Complete(ctx context.Context, gameID int64, result []byte) error {
	args := m.Called(ctx, gameID, result)
	return args.Error(0)
}

func (m *MockGameRepository) Cancel(ctx context.Context, gameID int64) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}

func (m *MockGameRepository) GetHistory(ctx context.Context, userID int64, gameType *models.GameType, limit, offset int) ([]*models.GameHistoryEntry, error) {
	args := m.Called(ctx, userID, gameType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameHistoryEntry), args.Error(1)
}

func (m *MockGameRepository) GetStats(ctx context.Context, userID int64, since time.Time) (*models.GameStats, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameStats), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByGameID(ctx context.Context, gameID int64) (*models.Bet, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

// MockPayoutRepository is a mock implementation of PayoutRepository
type MockPayoutRepository struct {
	mock.Mock
}

func (m *MockPayoutRepository) Create(ctx context.Context, payout *models.Payout) error {
	args := m.Called(ctx, payout)
	return args.Error(0)
}

func (m *MockPayoutRepository) GetByBetID(ctx context.Context, betID int64) (*models.Payout, error) {
	args := m.Called(ctx, betID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payout), args.Error(1)
}

// MockRuleSnapshotRepository is a mock implementation of RuleSnapshotRepository
type MockRuleSnapshotRepository struct {
	mock.Mock
}

func (m *MockRuleSnapshotRepository) Create(ctx context.Context, snapshot *models.RuleSnapshot) (bool, error) {
	args := m.Called(ctx, snapshot)
	return args.Bool(0), args.Error(1)
}

func (m *MockRuleSnapshotRepository) GetByGame(ctx context.Context, gameID int64) ([]*models.RuleSnapshot, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RuleSnapshot), args.Error(1)
}

// MockRuleReader is a mock implementation of RuleReader
type MockRuleReader struct {
	mock.Mock
}

func (m *MockRuleReader) GetActiveRuleSetID(ctx context.Context) (*int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockRuleReader) GetRuleParams(ctx context.Context, ruleSetID int64) (map[string]string, error) {
	args := m.Called(ctx, ruleSetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	Events []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Events = append(m.Events, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userRepo         UserRepository
	walletRepo       WalletRepository
	transactionRepo  TransactionRepository
	gameRepo         GameRepository
	betRepo          BetRepository
	payoutRepo       PayoutRepository
	ruleSnapshotRepo RuleSnapshotRepository
	eventBus         *MockEventPublisher
}

// MockRepositories groups the repositories a MockUnitOfWork hands out
type MockRepositories struct {
	User         *MockUserRepository
	Wallet       *MockWalletRepository
	Transaction  *MockTransactionRepository
	Game         *MockGameRepository
	Bet          *MockBetRepository
	Payout       *MockPayoutRepository
	RuleSnapshot *MockRuleSnapshotRepository
}

// NewMockRepositories creates a fresh set of repository mocks
func NewMockRepositories() *MockRepositories {
	return &MockRepositories{
		User:         new(MockUserRepository),
		Wallet:       new(MockWalletRepository),
		Transaction:  new(MockTransactionRepository),
		Game:         new(MockGameRepository),
		Bet:          new(MockBetRepository),
		Payout:       new(MockPayoutRepository),
		RuleSnapshot: new(MockRuleSnapshotRepository),
	}
}

// SetRepositories wires repository mocks into the unit of work
func (m *MockUnitOfWork) SetRepositories(repos *MockRepositories) {
	m.userRepo = repos.User
	m.walletRepo = repos.Wallet
	m.transactionRepo = repos.Transaction
	m.gameRepo = repos.Game
	m.betRepo = repos.Bet
	m.payoutRepo = repos.Payout
	m.ruleSnapshotRepo = repos.RuleSnapshot
}

// Published returns every event published through this unit of work
func (m *MockUnitOfWork) Published() []events.Event {
	if m.eventBus == nil {
		return nil
	}
	return m.eventBus.Events
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository                 { return m.userRepo }
func (m *MockUnitOfWork) WalletRepository() WalletRepository             { return m.walletRepo }
func (m *MockUnitOfWork) TransactionRepository() TransactionRepository   { return m.transactionRepo }
func (m *MockUnitOfWork) GameRepository() GameRepository                 { return m.gameRepo }
func (m *MockUnitOfWork) BetRepository() BetRepository                   { return m.betRepo }
func (m *MockUnitOfWork) PayoutRepository() PayoutRepository             { return m.payoutRepo }
func (m *MockUnitOfWork) RuleSnapshotRepository() RuleSnapshotRepository { return m.ruleSnapshotRepo }

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		m.eventBus = &MockEventPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

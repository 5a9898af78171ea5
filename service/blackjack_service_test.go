package service

import (
	"encoding/json"
	"testing"
	"time"

	"wagerledger/events"
	"wagerledger/games"
	"wagerledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func card(rank games.Rank, suit games.Suit) games.Card {
	return games.Card{Rank: rank, Suit: suit}
}

// stacked deals player, player, dealer, then the remaining draws in order
func stacked(draws ...games.Card) *games.StackedRandom {
	return &games.StackedRandom{Draws: draws}
}

func newBlackjackEnv(t *testing.T, balance string, random games.Random) (*testEnv, BlackjackService, *SessionCache) {
	t.Helper()
	env := newTestEnv()
	env.withoutRuleSet()
	env.withWallet(balance)
	env.allowWrites()
	env.repos.Bet.On("GetByGameID", env.ctx, testGameID).Return(&models.Bet{
		BetID:  testBetID,
		GameID: testGameID,
	}, nil)

	sessions := NewSessionCache(time.Hour)
	svc := NewBlackjackService(env.factory, env.resolver(), random, DefaultBetLimits, sessions)
	return env, svc, sessions
}

// noActiveGame answers the next active-game lookup with nothing
func (e *testEnv) noActiveGame() {
	e.repos.Game.On("GetActiveByUser", e.ctx, testUserID, models.GameTypeBlackjack).Return(nil, nil).Once()
}

// persistedGame answers the next lookups with the latest stored state. Hit
// and Stand look the hand up twice: once to prefetch rules, once under lock.
func (e *testEnv) persistedGame(t *testing.T, lookups int) {
	t.Helper()
	require.NotEmpty(t, e.games)
	state := e.games[0].GameState
	if len(e.states) > 0 {
		state = e.states[len(e.states)-1]
	}
	e.repos.Game.On("GetActiveByUser", e.ctx, testUserID, models.GameTypeBlackjack).Return(&models.Game{
		GameID:    testGameID,
		UserID:    testUserID,
		GameType:  models.GameTypeBlackjack,
		Status:    models.GameStatusActive,
		GameState: state,
	}, nil).Times(lookups)
}

func TestBlackjack_StandLosesSeventeenAgainstTwenty(t *testing.T) {
	random := stacked(
		card(games.Ten, games.Hearts), card(games.Seven, games.Spades),
		card(games.Ten, games.Diamonds),
		card(games.Queen, games.Clubs),
	)
	env, svc, _ := newBlackjackEnv(t, "50.00", random)
	env.noActiveGame()

	view, err := svc.Start(env.ctx, testUserID, money("50.00"))
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusActive, view.Status)
	assert.Equal(t, 17, view.PlayerValue)
	assert.Equal(t, 10, view.DealerValue)
	assert.True(t, view.DealerHidden)
	assert.Len(t, view.DealerHand, 1)

	env.persistedGame(t, 2)
	view, err = svc.Stand(env.ctx, testUserID)
	require.NoError(t, err)

	assert.Equal(t, models.GameStatusCompleted, view.Status)
	assert.False(t, view.DealerHidden)
	assert.Equal(t, 20, view.DealerValue)
	require.NotNil(t, view.Outcome)
	assert.Equal(t, games.BlackjackLose, *view.Outcome)
	assert.True(t, view.Payout.IsZero())
	assert.Equal(t, "0.00", view.NewBalance.StringFixed(2))

	require.Len(t, env.entries, 1)
	assert.Equal(t, models.TransactionTypeBet, env.entries[0].Type)
	require.Len(t, env.payouts, 1)
	assert.Equal(t, models.PayoutOutcomeLoss, env.payouts[0].Outcome)

	var result models.BlackjackResult
	require.NoError(t, json.Unmarshal(env.results[0], &result))
	assert.Equal(t, 17, result.PlayerValue)
	assert.Equal(t, 20, result.DealerValue)
	assert.Len(t, env.snapshots, 2)
}

func TestBlackjack_DealerSecondCardStaysInDeckUntilResolution(t *testing.T) {
	hole := card(games.Ace, games.Clubs)
	random := stacked(
		card(games.Five, games.Hearts), card(games.Six, games.Spades),
		card(games.Nine, games.Diamonds),
		card(games.Two, games.Hearts),
		hole,
	)
	env, svc, _ := newBlackjackEnv(t, "100.00", random)
	env.noActiveGame()

	view, err := svc.Start(env.ctx, testUserID, money("10.00"))
	require.NoError(t, err)
	assert.NotContains(t, view.DealerHand, hole)

	stored, err := models.DecodeBlackjackState(env.games[0].GameState)
	require.NoError(t, err)
	assert.Len(t, stored.DealerHand, 1)
	assert.Contains(t, stored.Deck, hole)

	env.persistedGame(t, 2)
	view, err = svc.Hit(env.ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, models.GameStatusActive, view.Status)
	assert.Equal(t, 13, view.PlayerValue)
	assert.Len(t, view.DealerHand, 1)

	require.Len(t, env.states, 1)
	stored, err = models.DecodeBlackjackState(env.states[0])
	require.NoError(t, err)
	assert.Len(t, stored.DealerHand, 1)
	assert.Contains(t, stored.Deck, hole)
	assert.Len(t, stored.PlayerHand, 3)

	env.repos.Payout.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBlackjack_NaturalPaysImmediately(t *testing.T) {
	random := stacked(
		card(games.Ace, games.Hearts), card(games.King, games.Spades),
		card(games.Nine, games.Diamonds),
		card(games.Eight, games.Clubs),
	)
	env, svc, sessions := newBlackjackEnv(t, "100.00", random)
	env.noActiveGame()

	view, err := svc.Start(env.ctx, testUserID, money("10.00"))
	require.NoError(t, err)

	assert.Equal(t, models.GameStatusCompleted, view.Status)
	require.NotNil(t, view.Outcome)
	assert.Equal(t, games.BlackjackNatural, *view.Outcome)
	assert.Equal(t, "25.00", view.Payout.StringFixed(2))
	assert.Equal(t, "115.00", view.NewBalance.StringFixed(2))
	assert.Equal(t, 17, view.DealerValue)

	require.Len(t, env.entries, 2)
	assert.Equal(t, models.TransactionTypePayout, env.entries[1].Type)
	assert.Equal(t, 0, sessions.Len())
}

func TestBlackjack_HitBustDrawsOnlyTheHoleCard(t *testing.T) {
	random := stacked(
		card(games.Ten, games.Hearts), card(games.Six, games.Spades),
		card(games.Nine, games.Diamonds),
		card(games.Ten, games.Clubs),
		card(games.Five, games.Diamonds),
		card(games.Four, games.Spades),
	)
	env, svc, sessions := newBlackjackEnv(t, "100.00", random)
	env.noActiveGame()

	_, err := svc.Start(env.ctx, testUserID, money("10.00"))
	require.NoError(t, err)
	assert.Equal(t, 1, sessions.Len())

	env.persistedGame(t, 2)
	view, err := svc.Hit(env.ctx, testUserID)
	require.NoError(t, err)

	assert.Equal(t, models.GameStatusCompleted, view.Status)
	require.NotNil(t, view.Outcome)
	assert.Equal(t, games.BlackjackBust, *view.Outcome)
	assert.Equal(t, 26, view.PlayerValue)
	require.Len(t, view.DealerHand, 2)
	assert.Equal(t, 14, view.DealerValue)
	assert.Equal(t, "90.00", view.NewBalance.StringFixed(2))

	require.Len(t, env.payouts, 1)
	assert.Equal(t, models.PayoutOutcomeLoss, env.payouts[0].Outcome)
	assert.Equal(t, 0, sessions.Len())
}

func TestBlackjack_StandTwiceDoesNotPayTwice(t *testing.T) {
	random := stacked(
		card(games.Ten, games.Hearts), card(games.Nine, games.Spades),
		card(games.Ten, games.Diamonds),
		card(games.Seven, games.Clubs),
	)
	env, svc, _ := newBlackjackEnv(t, "40.00", random)
	env.noActiveGame()

	_, err := svc.Start(env.ctx, testUserID, money("20.00"))
	require.NoError(t, err)

	env.persistedGame(t, 2)
	view, err := svc.Stand(env.ctx, testUserID)
	require.NoError(t, err)
	require.NotNil(t, view.Outcome)
	assert.Equal(t, games.BlackjackWin, *view.Outcome)
	assert.Equal(t, "40.00", view.Payout.StringFixed(2))
	assert.Equal(t, "60.00", view.NewBalance.StringFixed(2))

	env.noActiveGame()
	_, err = svc.Stand(env.ctx, testUserID)
	assert.ErrorIs(t, err, ErrNoActiveGame)

	assert.Len(t, env.payouts, 1)
	assert.Len(t, env.entries, 2)
	env.repos.Game.AssertNumberOfCalls(t, "Complete", 1)
}

func TestBlackjack_PushReturnsStake(t *testing.T) {
	random := stacked(
		card(games.Ten, games.Hearts), card(games.Eight, games.Spades),
		card(games.Ten, games.Diamonds),
		card(games.Eight, games.Clubs),
	)
	env, svc, _ := newBlackjackEnv(t, "30.00", random)
	env.noActiveGame()

	_, err := svc.Start(env.ctx, testUserID, money("30.00"))
	require.NoError(t, err)

	env.persistedGame(t, 2)
	view, err := svc.Stand(env.ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, games.BlackjackPush, *view.Outcome)
	assert.Equal(t, "30.00", view.NewBalance.StringFixed(2))
	require.Len(t, env.payouts, 1)
	assert.Equal(t, models.PayoutOutcomePush, env.payouts[0].Outcome)
}

func TestBlackjack_StartRejectsSecondActiveHand(t *testing.T) {
	random := stacked(
		card(games.Ten, games.Hearts), card(games.Two, games.Spades),
		card(games.Ten, games.Diamonds),
	)
	env, svc, _ := newBlackjackEnv(t, "100.00", random)
	env.noActiveGame()

	_, err := svc.Start(env.ctx, testUserID, money("10.00"))
	require.NoError(t, err)

	env.persistedGame(t, 1)
	_, err = svc.Start(env.ctx, testUserID, money("10.00"))
	assert.ErrorIs(t, err, ErrActiveGameExists)
	assert.Len(t, env.entries, 1)
}

func TestBlackjack_StartInsufficientFunds(t *testing.T) {
	env, svc, _ := newBlackjackEnv(t, "5.00", stacked())
	env.noActiveGame()

	_, err := svc.Start(env.ctx, testUserID, money("10.00"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Empty(t, env.entries)
	env.repos.Game.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBlackjack_CorruptStateIsCancelled(t *testing.T) {
	env, svc, sessions := newBlackjackEnv(t, "100.00", stacked())
	env.repos.Game.On("GetActiveByUser", env.ctx, testUserID, models.GameTypeBlackjack).Return(&models.Game{
		GameID:    testGameID,
		UserID:    testUserID,
		GameType:  models.GameTypeBlackjack,
		Status:    models.GameStatusActive,
		GameState: []byte(`{"deck":[],"player_hand":[{"rank":"Z","suit":"H"}]}`),
	}, nil).Twice()
	env.repos.Game.On("Cancel", env.ctx, testGameID).Return(nil)

	_, err := svc.Hit(env.ctx, testUserID)
	assert.ErrorIs(t, err, ErrNoActiveGame)

	env.repos.Game.AssertCalled(t, "Cancel", env.ctx, testGameID)
	env.uow.AssertCalled(t, "Commit")
	assert.Empty(t, env.entries)
	assert.Empty(t, env.payouts)
	assert.Equal(t, 0, sessions.Len())

	var cancelled int
	for _, event := range env.uow.Published() {
		if _, ok := event.(events.GameCancelledEvent); ok {
			cancelled++
		}
	}
	assert.Equal(t, 1, cancelled)
}

func TestBlackjack_StartReplacesCorruptHand(t *testing.T) {
	random := stacked(
		card(games.Ten, games.Hearts), card(games.Two, games.Spades),
		card(games.Ten, games.Diamonds),
	)
	env, svc, _ := newBlackjackEnv(t, "100.00", random)
	env.repos.Game.On("GetActiveByUser", env.ctx, testUserID, models.GameTypeBlackjack).Return(&models.Game{
		GameID:    99,
		UserID:    testUserID,
		GameType:  models.GameTypeBlackjack,
		Status:    models.GameStatusActive,
		GameState: []byte(`not json`),
	}, nil).Once()
	env.repos.Game.On("Cancel", env.ctx, int64(99)).Return(nil)

	view, err := svc.Start(env.ctx, testUserID, money("10.00"))
	require.NoError(t, err)
	assert.Equal(t, testGameID, view.GameID)
	env.repos.Game.AssertCalled(t, "Cancel", env.ctx, int64(99))
}

func TestBlackjack_ResumeReadsThroughCache(t *testing.T) {
	random := stacked(
		card(games.Ten, games.Hearts), card(games.Two, games.Spades),
		card(games.Ten, games.Diamonds),
	)
	env, svc, sessions := newBlackjackEnv(t, "100.00", random)
	env.noActiveGame()

	started, err := svc.Start(env.ctx, testUserID, money("10.00"))
	require.NoError(t, err)

	env.persistedGame(t, 1)
	resumed, err := svc.Resume(env.ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, started.GameID, resumed.GameID)
	assert.Equal(t, started.PlayerHand, resumed.PlayerHand)
	assert.True(t, resumed.DealerHidden)
	env.factory.AssertNumberOfCalls(t, "Create", 2)
	env.repos.Wallet.AssertNumberOfCalls(t, "GetByUserIDForUpdate", 1)

	sessions.Evict(testUserID)
	env.persistedGame(t, 1)
	resumed, err = svc.Resume(env.ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, 12, resumed.PlayerValue)
	assert.Len(t, resumed.DealerHand, 1)
	env.factory.AssertNumberOfCalls(t, "Create", 3)
	env.repos.Wallet.AssertNumberOfCalls(t, "GetByUserIDForUpdate", 2)
	assert.Equal(t, 1, sessions.Len())

	assert.Len(t, env.entries, 1)
}

func TestBlackjack_ResumeDropsCachedHandSettledElsewhere(t *testing.T) {
	random := stacked(
		card(games.Ten, games.Hearts), card(games.Two, games.Spades),
		card(games.Ten, games.Diamonds),
	)
	env, svc, sessions := newBlackjackEnv(t, "100.00", random)
	env.noActiveGame()

	_, err := svc.Start(env.ctx, testUserID, money("10.00"))
	require.NoError(t, err)
	require.Equal(t, 1, sessions.Len())

	// another process finished the hand; the store has nothing ACTIVE
	env.noActiveGame()
	env.noActiveGame()
	_, err = svc.Resume(env.ctx, testUserID)
	assert.ErrorIs(t, err, ErrNoActiveGame)
	assert.Equal(t, 0, sessions.Len())
	env.repos.Game.AssertNumberOfCalls(t, "GetActiveByUser", 3)
}

func TestBlackjack_ResumeWithoutGame(t *testing.T) {
	env, svc, _ := newBlackjackEnv(t, "100.00", stacked())
	env.noActiveGame()

	_, err := svc.Resume(env.ctx, testUserID)
	assert.ErrorIs(t, err, ErrNoActiveGame)
	assert.Empty(t, env.entries)
}

func TestBlackjackPayout(t *testing.T) {
	values := RuleValues{GameType: models.GameTypeBlackjack}

	tests := []struct {
		outcome games.BlackjackOutcome
		want    string
		result  models.PayoutOutcome
	}{
		{games.BlackjackNatural, "25.00", models.PayoutOutcomeWin},
		{games.BlackjackWin, "20.00", models.PayoutOutcomeWin},
		{games.BlackjackPush, "10.00", models.PayoutOutcomePush},
		{games.BlackjackLose, "0.00", models.PayoutOutcomeLoss},
		{games.BlackjackBust, "0.00", models.PayoutOutcomeLoss},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			amount, outcome := blackjackPayout(tt.outcome, money("10.00"), values)
			assert.Equal(t, tt.want, amount.StringFixed(2))
			assert.Equal(t, tt.result, outcome)
		})
	}
}

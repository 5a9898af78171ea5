package service

import (
	"context"
	"testing"
	"time"

	"wagerledger/games"
	"wagerledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testState() *models.BlackjackState {
	deck := games.NewDeck()
	state := &models.BlackjackState{Stake: money("5.00"), WalletID: testWalletID}
	for _, hand := range []*games.Hand{&state.PlayerHand, &state.PlayerHand, &state.DealerHand} {
		c, _ := deck.Draw()
		*hand = append(*hand, c)
	}
	state.Deck = deck
	return state
}

func TestSessionCache_PutGetEvict(t *testing.T) {
	cache := NewSessionCache(time.Hour)
	state := testState()

	cache.Put(testUserID, testGameID, state)

	session, ok := cache.Get(testUserID)
	require.True(t, ok)
	assert.Equal(t, testGameID, session.GameID)
	assert.Equal(t, state.PlayerHand, session.State.PlayerHand)

	// callers cannot mutate the cached copy
	session.State.PlayerHand[0] = games.Card{Rank: games.Ace, Suit: games.Spades}
	again, _ := cache.Get(testUserID)
	assert.Equal(t, state.PlayerHand[0], again.State.PlayerHand[0])

	cache.Evict(testUserID)
	_, ok = cache.Get(testUserID)
	assert.False(t, ok)
}

func TestSessionCache_Expiry(t *testing.T) {
	cache := NewSessionCache(10 * time.Millisecond)
	cache.Put(testUserID, testGameID, testState())

	time.Sleep(20 * time.Millisecond)
	_, ok := cache.Get(testUserID)
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())

	cache.Cleanup()
	assert.Equal(t, 0, cache.Len())
}

func TestSessionCache_StartCleanupStopsWithContext(t *testing.T) {
	cache := NewSessionCache(time.Millisecond)
	cache.Put(testUserID, testGameID, testState())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cache.StartCleanup(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return cache.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

func TestBetLimits(t *testing.T) {
	limits := BetLimits{Min: money("1.00"), Max: money("100.00")}

	assert.NoError(t, limits.Validate(money("1.00")))
	assert.NoError(t, limits.Validate(money("100")))
	assert.NoError(t, limits.Validate(money("12.5")))
	assert.ErrorIs(t, limits.Validate(money("0.99")), ErrInvalidBet)
	assert.ErrorIs(t, limits.Validate(money("100.01")), ErrInvalidBet)
	assert.ErrorIs(t, limits.Validate(money("2.345")), ErrInvalidBet)
}

func TestNewReferenceIsMonotonic(t *testing.T) {
	prev := NewReference()
	for i := 0; i < 100; i++ {
		next := NewReference()
		assert.Len(t, next, 26)
		assert.Greater(t, next, prev)
		prev = next
	}
}

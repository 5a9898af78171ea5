package service

import (
	"context"
	"sync"
	"time"

	"wagerledger/models"

	log "github.com/sirupsen/logrus"
)

// blackjackSession is the last known state of a user's ACTIVE hand
type blackjackSession struct {
	GameID    int64
	State     models.BlackjackState
	Timestamp time.Time
}

// SessionCache keeps recently seen blackjack hands in memory so Resume can
// skip the wallet lock. It is never the system of record: Resume confirms a
// hit with an unlocked read and every mutation reloads under the wallet lock.
type SessionCache struct {
	mu       sync.RWMutex
	sessions map[int64]*blackjackSession
	ttl      time.Duration
}

// NewSessionCache creates a cache whose entries expire after ttl
func NewSessionCache(ttl time.Duration) *SessionCache {
	return &SessionCache{
		sessions: make(map[int64]*blackjackSession),
		ttl:      ttl,
	}
}

// Get returns a copy of the user's cached hand if it has not expired
func (c *SessionCache) Get(userID int64) (*blackjackSession, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	session, ok := c.sessions[userID]
	if !ok || time.Since(session.Timestamp) > c.ttl {
		return nil, false
	}
	copied := *session
	copied.State = cloneState(session.State)
	return &copied, true
}

// Put stores or refreshes the user's hand
func (c *SessionCache) Put(userID, gameID int64, state *models.BlackjackState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions[userID] = &blackjackSession{
		GameID:    gameID,
		State:     cloneState(*state),
		Timestamp: time.Now(),
	}
}

// Evict drops the user's hand
func (c *SessionCache) Evict(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, userID)
}

// Len returns the number of cached hands, expired ones included
func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// Cleanup removes expired hands
func (c *SessionCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := time.Now()
	for userID, session := range c.sessions {
		if now.Sub(session.Timestamp) > c.ttl {
			delete(c.sessions, userID)
			removed++
		}
	}

	if removed > 0 {
		log.WithField("removed", removed).Debug("Cleaned up expired blackjack sessions")
	}
}

// StartCleanup runs Cleanup on every interval until ctx is done
func (c *SessionCache) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Cleanup()
		}
	}
}

func cloneState(state models.BlackjackState) models.BlackjackState {
	state.Deck = append(state.Deck[:0:0], state.Deck...)
	state.PlayerHand = append(state.PlayerHand[:0:0], state.PlayerHand...)
	state.DealerHand = append(state.DealerHand[:0:0], state.DealerHand...)
	return state
}

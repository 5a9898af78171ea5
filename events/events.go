package events

import (
	"context"
	"sync"

	"wagerledger/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange EventType = "balance_change"
	EventTypeWalletCreated EventType = "wallet_created"
	EventTypeGameSettled   EventType = "game_settled"
	EventTypeGameCancelled EventType = "game_cancelled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent is emitted for every committed ledger entry
type BalanceChangeEvent struct {
	UserID          int64
	WalletID        int64
	OldBalance      decimal.Decimal
	NewBalance      decimal.Decimal
	Amount          decimal.Decimal
	TransactionType models.TransactionType
	Reference       string
	GameID          *int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// WalletCreatedEvent is emitted the first time a user gets a wallet
type WalletCreatedEvent struct {
	UserID         int64
	WalletID       int64
	Username       string
	InitialBalance decimal.Decimal
}

func (e WalletCreatedEvent) Type() EventType {
	return EventTypeWalletCreated
}

// GameSettledEvent is emitted when a round is paid out
type GameSettledEvent struct {
	UserID    int64
	GameID    int64
	GameType  models.GameType
	Outcome   models.PayoutOutcome
	Stake     decimal.Decimal
	WinAmount decimal.Decimal
}

func (e GameSettledEvent) Type() EventType {
	return EventTypeGameSettled
}

// GameCancelledEvent is emitted when an unrecoverable round is abandoned
type GameCancelledEvent struct {
	UserID   int64
	GameID   int64
	GameType models.GameType
	Reason   string
}

func (e GameCancelledEvent) Type() EventType {
	return EventTypeGameCancelled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]Handler, 0)
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers on main event bus")

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			log.WithFields(log.Fields{
				"eventType":    event.Type(),
				"handlerIndex": handlerIndex,
			}).Debug("Calling event handler")
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// A transactional event bus for holding pending events coupled to the Unit of Work.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus to main event bus")

	// handlers run detached from the committed transaction's context
	eventCtx := context.Background()

	for _, ev := range b.pending {
		log.WithFields(log.Fields{
			"eventType": ev.Type(),
		}).Debug("Emitting event to main event bus")
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	log.Debug("All pending events flushed, transactional bus cleared")
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

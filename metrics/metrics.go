package metrics

import (
	"context"
	"time"

	"wagerledger/events"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const namespace = "wagerledger"

// Collector turns committed domain events into prometheus series
type Collector struct {
	gamesSettled  *prometheus.CounterVec
	gamesCanceled *prometheus.CounterVec
	staked        *prometheus.CounterVec
	paidOut       *prometheus.CounterVec
	ledgerEntries *prometheus.CounterVec
	walletsOpened prometheus.Counter
	stakeSize     *prometheus.HistogramVec
}

// NewCollector creates the collectors and registers them with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		gamesSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_settled_total",
			Help:      "Settled rounds by game type and outcome",
		}, []string{"game_type", "outcome"}),
		gamesCanceled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_cancelled_total",
			Help:      "Rounds abandoned because their state could not be resumed",
		}, []string{"game_type"}),
		staked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stake_total",
			Help:      "Sum of settled stakes by game type",
		}, []string{"game_type"}),
		paidOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payout_total",
			Help:      "Sum of payouts by game type",
		}, []string{"game_type"}),
		ledgerEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_entries_total",
			Help:      "Committed ledger entries by transaction type",
		}, []string{"tx_type"}),
		walletsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallets_created_total",
			Help:      "Wallets opened",
		}),
		stakeSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stake_amount",
			Help:      "Distribution of settled stakes",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"game_type"}),
	}

	reg.MustRegister(
		c.gamesSettled,
		c.gamesCanceled,
		c.staked,
		c.paidOut,
		c.ledgerEntries,
		c.walletsOpened,
		c.stakeSize,
	)
	return c
}

// Subscribe attaches the collector to the bus
func (c *Collector) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeGameSettled, c.handle)
	bus.Subscribe(events.EventTypeGameCancelled, c.handle)
	bus.Subscribe(events.EventTypeBalanceChange, c.handle)
	bus.Subscribe(events.EventTypeWalletCreated, c.handle)
}

func (c *Collector) handle(_ context.Context, event events.Event) {
	switch e := event.(type) {
	case events.GameSettledEvent:
		gameType := string(e.GameType)
		stake := e.Stake.InexactFloat64()
		c.gamesSettled.WithLabelValues(gameType, string(e.Outcome)).Inc()
		c.staked.WithLabelValues(gameType).Add(stake)
		c.paidOut.WithLabelValues(gameType).Add(e.WinAmount.InexactFloat64())
		c.stakeSize.WithLabelValues(gameType).Observe(stake)
	case events.GameCancelledEvent:
		c.gamesCanceled.WithLabelValues(string(e.GameType)).Inc()
	case events.BalanceChangeEvent:
		c.ledgerEntries.WithLabelValues(string(e.TransactionType)).Inc()
	case events.WalletCreatedEvent:
		c.walletsOpened.Inc()
	default:
		log.WithField("eventType", event.Type()).Debug("Metrics collector ignored event")
	}
}

// HealthFunc reports whether a dependency is usable
type HealthFunc func(ctx context.Context) error

const healthTimeout = 500 * time.Millisecond

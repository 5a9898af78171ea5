package service

import (
	"context"
	"fmt"
	"strings"

	"wagerledger/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// RuleKey names a configurable payout multiplier
type RuleKey string

const (
	RuleCoinflipPayout       RuleKey = "coinflip_payout"
	RuleRouletteNumberPayout RuleKey = "roulette_number_payout"
	RuleRouletteColorPayout  RuleKey = "roulette_color_payout"
	RuleRouletteParityPayout RuleKey = "roulette_parity_payout"
	RuleBlackjackPayout      RuleKey = "blackjack_payout"
	RuleBlackjackNormal      RuleKey = "blackjack_normal_payout"
)

var (
	defaultCoinflipPayout       = decimal.RequireFromString("1.95")
	defaultRouletteNumberPayout = decimal.NewFromInt(35)
	defaultRouletteColorPayout  = decimal.NewFromInt(1)
	defaultRouletteParityPayout = decimal.NewFromInt(1)
	defaultBlackjackPayout      = decimal.RequireFromString("2.5")
	defaultBlackjackNormal      = decimal.RequireFromString("2.0")

	// rule_snapshots.rule_value is NUMERIC(10, 4)
	maxRuleValue = decimal.New(1, 6)
)

const ruleValuePlaces = 4

// Default is the value used when the key is not configured
func (k RuleKey) Default() decimal.Decimal {
	switch k {
	case RuleCoinflipPayout:
		return defaultCoinflipPayout
	case RuleRouletteNumberPayout:
		return defaultRouletteNumberPayout
	case RuleRouletteColorPayout:
		return defaultRouletteColorPayout
	case RuleRouletteParityPayout:
		return defaultRouletteParityPayout
	case RuleBlackjackPayout:
		return defaultBlackjackPayout
	case RuleBlackjackNormal:
		return defaultBlackjackNormal
	default:
		panic(fmt.Sprintf("unknown rule key %q", string(k)))
	}
}

// RuleKeysFor lists every key a game type settles with
func RuleKeysFor(gameType models.GameType) []RuleKey {
	switch gameType {
	case models.GameTypeCoinflip:
		return []RuleKey{RuleCoinflipPayout}
	case models.GameTypeRoulette:
		return []RuleKey{RuleRouletteNumberPayout, RuleRouletteColorPayout, RuleRouletteParityPayout}
	case models.GameTypeBlackjack:
		return []RuleKey{RuleBlackjackPayout, RuleBlackjackNormal}
	default:
		return nil
	}
}

// RuleValues holds a value for every key of one game type
type RuleValues struct {
	RuleSetID *int64
	GameType  models.GameType
	values    map[RuleKey]decimal.Decimal
}

// Get returns the resolved value of key, or its default when the key does
// not belong to this game type
func (v RuleValues) Get(key RuleKey) decimal.Decimal {
	if value, ok := v.values[key]; ok {
		return value
	}
	return key.Default()
}

// RuleResolver turns configured rule sets into payout multipliers. Lookup
// failures degrade to defaults and are never returned to callers.
type RuleResolver struct {
	reader RuleReader
}

// NewRuleResolver creates a resolver over the given reader
func NewRuleResolver(reader RuleReader) *RuleResolver {
	return &RuleResolver{reader: reader}
}

// ActiveRuleSetID returns the active rule set, nil if none or unreadable
func (r *RuleResolver) ActiveRuleSetID(ctx context.Context) *int64 {
	id, err := r.reader.GetActiveRuleSetID(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read active rule set, using defaults")
		return nil
	}
	return id
}

// ActiveRuleValue returns key from the active rule set or def
func (r *RuleResolver) ActiveRuleValue(ctx context.Context, key RuleKey, def decimal.Decimal) decimal.Decimal {
	id := r.ActiveRuleSetID(ctx)
	if id == nil {
		return def
	}
	params := r.readParams(ctx, *id)
	return parseRuleParam(key, params[string(key)], *id, def)
}

// Resolve returns every value of gameType from the active rule set
func (r *RuleResolver) Resolve(ctx context.Context, gameType models.GameType) RuleValues {
	return r.ResolveForRuleSet(ctx, r.ActiveRuleSetID(ctx), gameType)
}

// ResolveForRuleSet returns every value of gameType from a specific rule
// set. A nil id resolves to defaults.
func (r *RuleResolver) ResolveForRuleSet(ctx context.Context, ruleSetID *int64, gameType models.GameType) RuleValues {
	values := RuleValues{
		RuleSetID: ruleSetID,
		GameType:  gameType,
		values:    make(map[RuleKey]decimal.Decimal),
	}

	var params map[string]string
	if ruleSetID != nil {
		params = r.readParams(ctx, *ruleSetID)
	}

	for _, key := range RuleKeysFor(gameType) {
		if ruleSetID == nil {
			values.values[key] = key.Default()
			continue
		}
		values.values[key] = parseRuleParam(key, params[string(key)], *ruleSetID, key.Default())
	}

	return values
}

// SnapshotRules freezes the values a game settled with. Repeated snapshots
// of the same game keep the first values.
func (r *RuleResolver) SnapshotRules(ctx context.Context, uow UnitOfWork, gameID int64, values RuleValues) error {
	for _, key := range RuleKeysFor(values.GameType) {
		inserted, err := uow.RuleSnapshotRepository().Create(ctx, &models.RuleSnapshot{
			GameID:    gameID,
			RuleSetID: values.RuleSetID,
			RuleType:  string(key),
			RuleValue: values.Get(key),
		})
		if err != nil {
			return storeError("snapshot rules", err)
		}
		if !inserted {
			log.WithFields(log.Fields{
				"gameID":   gameID,
				"ruleType": key,
			}).Debug("Rule snapshot already exists")
		}
	}
	return nil
}

func (r *RuleResolver) readParams(ctx context.Context, ruleSetID int64) map[string]string {
	params, err := r.reader.GetRuleParams(ctx, ruleSetID)
	if err != nil {
		log.WithFields(log.Fields{
			"ruleSetID": ruleSetID,
			"error":     err,
		}).Warn("Failed to read rules, using defaults")
		return nil
	}
	return params
}

func parseRuleParam(key RuleKey, raw string, ruleSetID int64, def decimal.Decimal) decimal.Decimal {
	if raw == "" {
		return def
	}
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	// Values the snapshot column cannot hold exactly fall back too.
	if err != nil || value.IsNegative() || value.GreaterThanOrEqual(maxRuleValue) ||
		!value.Equal(value.Round(ruleValuePlaces)) {
		log.WithFields(log.Fields{
			"ruleSetID": ruleSetID,
			"ruleType":  key,
			"param":     raw,
		}).Warn("Unusable rule param, using default")
		return def
	}
	return value
}

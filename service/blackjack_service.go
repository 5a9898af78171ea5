package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wagerledger/events"
	"wagerledger/games"
	"wagerledger/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	blackjackBetType  = "hand"
	blackjackBetValue = "standard"
)

type blackjackService struct {
	uowFactory UnitOfWorkFactory
	rules      *RuleResolver
	random     games.Random
	limits     BetLimits
	sessions   *SessionCache
}

// NewBlackjackService creates a new blackjack service
func NewBlackjackService(uowFactory UnitOfWorkFactory, rules *RuleResolver, random games.Random, limits BetLimits, sessions *SessionCache) BlackjackService {
	return &blackjackService{
		uowFactory: uowFactory,
		rules:      rules,
		random:     random,
		limits:     limits,
		sessions:   sessions,
	}
}

// activeHand is an ACTIVE blackjack game with its decoded state
type activeHand struct {
	game  *models.Game
	state *models.BlackjackState
}

func (s *blackjackService) Start(ctx context.Context, userID int64, stake decimal.Decimal) (*models.BlackjackView, error) {
	if err := s.limits.Validate(stake); err != nil {
		return nil, err
	}

	ruleSetID := s.rules.ActiveRuleSetID(ctx)
	values := s.rules.ResolveForRuleSet(ctx, ruleSetID, models.GameTypeBlackjack)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	wallet, err := lockWallet(ctx, uow, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.loadActive(ctx, uow, userID, wallet)
	switch {
	case err == nil:
		return nil, fmt.Errorf("game %d is still in progress: %w", existing.game.GameID, ErrActiveGameExists)
	case errors.Is(err, ErrNoActiveGame):
	default:
		return nil, err
	}

	if !wallet.CanCover(stake) {
		return nil, fmt.Errorf("balance %s cannot cover stake %s: %w",
			wallet.Balance.StringFixed(2), stake.StringFixed(2), ErrInsufficientFunds)
	}

	deck := games.NewShuffledDeck(s.random)
	state := &models.BlackjackState{
		Stake:    stake,
		WalletID: wallet.WalletID,
	}
	for _, hand := range []*games.Hand{&state.PlayerHand, &state.PlayerHand, &state.DealerHand} {
		card, err := deck.Draw()
		if err != nil {
			return nil, fmt.Errorf("failed to deal: %w", err)
		}
		*hand = append(*hand, card)
	}
	state.Deck = deck

	encoded, err := models.EncodeBlackjackState(state)
	if err != nil {
		return nil, err
	}

	game := &models.Game{
		UserID:    userID,
		RuleSetID: ruleSetID,
		GameType:  models.GameTypeBlackjack,
		GameState: encoded,
	}
	if err := uow.GameRepository().Create(ctx, game); err != nil {
		return nil, storeError("create blackjack game", err)
	}

	bet := &models.Bet{
		GameID:      game.GameID,
		BetType:     blackjackBetType,
		BetValue:    blackjackBetValue,
		StakeAmount: stake,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, storeError("create blackjack bet", err)
	}

	if _, err := RecordLedgerEntry(ctx, uow, wallet, models.TransactionTypeBet, stake, &game.GameID); err != nil {
		return nil, err
	}

	hand := &activeHand{game: game, state: state}

	var view *models.BlackjackView
	if state.PlayerHand.IsNatural() {
		view, err = s.finish(ctx, uow, wallet, hand, &values, true)
		if err != nil {
			return nil, err
		}
	} else {
		view = activeView(game.GameID, state)
	}

	if err := uow.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	s.remember(userID, view, state)

	log.WithFields(log.Fields{
		"userID":     userID,
		"gameID":     game.GameID,
		"stake":      stake.StringFixed(2),
		"natural":    state.PlayerHand.IsNatural(),
		"newBalance": wallet.Balance.StringFixed(2),
	}).Info("Blackjack hand started")

	return view, nil
}

func (s *blackjackService) Hit(ctx context.Context, userID int64) (*models.BlackjackView, error) {
	return s.step(ctx, userID, "hit", func(ctx context.Context, uow UnitOfWork, wallet *models.Wallet, hand *activeHand, values *RuleValues) (*models.BlackjackView, error) {
		card, err := hand.state.Deck.Draw()
		if err != nil {
			return nil, fmt.Errorf("failed to draw for player: %w", err)
		}
		hand.state.PlayerHand = append(hand.state.PlayerHand, card)

		if hand.state.PlayerHand.IsBust() {
			return s.finish(ctx, uow, wallet, hand, values, false)
		}

		encoded, err := models.EncodeBlackjackState(hand.state)
		if err != nil {
			return nil, err
		}
		if err := uow.GameRepository().UpdateState(ctx, hand.game.GameID, encoded); err != nil {
			return nil, storeError("save blackjack state", err)
		}
		return activeView(hand.game.GameID, hand.state), nil
	})
}

func (s *blackjackService) Stand(ctx context.Context, userID int64) (*models.BlackjackView, error) {
	return s.step(ctx, userID, "stand", func(ctx context.Context, uow UnitOfWork, wallet *models.Wallet, hand *activeHand, values *RuleValues) (*models.BlackjackView, error) {
		return s.finish(ctx, uow, wallet, hand, values, true)
	})
}

func (s *blackjackService) Resume(ctx context.Context, userID int64) (*models.BlackjackView, error) {
	if session, ok := s.sessions.Get(userID); ok {
		view, err := s.resumeCached(ctx, userID, session)
		if err != nil || view != nil {
			return view, err
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	wallet, err := lockWallet(ctx, uow, userID)
	if err != nil {
		return nil, err
	}

	hand, loadErr := s.loadActive(ctx, uow, userID, wallet)
	// commit even on ErrNoActiveGame so a lazy cancel sticks
	if err := uow.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}
	if loadErr != nil {
		return nil, loadErr
	}

	s.sessions.Put(userID, hand.game.GameID, hand.state)
	return activeView(hand.game.GameID, hand.state), nil
}

// resumeCached confirms a cached hand against an unlocked read. It returns a
// nil view when the locked path has to take over.
func (s *blackjackService) resumeCached(ctx context.Context, userID int64, session *blackjackSession) (*models.BlackjackView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetActiveByUser(ctx, userID, models.GameTypeBlackjack)
	if err != nil {
		return nil, storeError("load active blackjack game", err)
	}
	uow.Rollback()

	if game == nil || game.GameID != session.GameID {
		log.WithFields(log.Fields{
			"userID": userID,
			"gameID": session.GameID,
		}).Debug("Cached blackjack hand is no longer active")
		s.sessions.Evict(userID)
		return nil, nil
	}

	state, err := models.DecodeBlackjackState(game.GameState)
	if err != nil || state.WalletID != session.State.WalletID {
		s.sessions.Evict(userID)
		return nil, nil
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"gameID": game.GameID,
	}).Debug("Resumed blackjack hand from session cache")
	s.sessions.Put(userID, game.GameID, state)
	return activeView(game.GameID, state), nil
}

type stepFunc func(ctx context.Context, uow UnitOfWork, wallet *models.Wallet, hand *activeHand, values *RuleValues) (*models.BlackjackView, error)

// step runs one player action against the freshly loaded hand under the wallet lock
func (s *blackjackService) step(ctx context.Context, userID int64, action string, fn stepFunc) (*models.BlackjackView, error) {
	values, err := s.prefetchRules(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveGame) {
			s.sessions.Evict(userID)
		}
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	wallet, err := lockWallet(ctx, uow, userID)
	if err != nil {
		return nil, err
	}

	hand, err := s.loadActive(ctx, uow, userID, wallet)
	if err != nil {
		if errors.Is(err, ErrNoActiveGame) {
			if commitErr := uow.Commit(); commitErr != nil {
				return nil, storeError("commit transaction", commitErr)
			}
			s.sessions.Evict(userID)
		}
		return nil, err
	}

	view, err := fn(ctx, uow, wallet, hand, values)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	s.remember(userID, view, hand.state)

	log.WithFields(log.Fields{
		"userID":      userID,
		"gameID":      hand.game.GameID,
		"action":      action,
		"playerValue": view.PlayerValue,
		"status":      view.Status,
	}).Debug("Blackjack step applied")

	return view, nil
}

// prefetchRules resolves the rule set the user's hand started with before
// any lock is taken, so settling never waits on a second pool connection
// while holding the wallet row
func (s *blackjackService) prefetchRules(ctx context.Context, userID int64) (*RuleValues, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	game, err := uow.GameRepository().GetActiveByUser(ctx, userID, models.GameTypeBlackjack)
	if err != nil {
		return nil, storeError("load active blackjack game", err)
	}
	if game == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNoActiveGame)
	}
	uow.Rollback()

	values := s.rules.ResolveForRuleSet(ctx, game.RuleSetID, models.GameTypeBlackjack)
	return &values, nil
}

// loadActive returns the user's ACTIVE hand. A hand whose state cannot be
// used is cancelled in the current unit of work and reported as
// ErrNoActiveGame; the stake is not refunded.
func (s *blackjackService) loadActive(ctx context.Context, uow UnitOfWork, userID int64, wallet *models.Wallet) (*activeHand, error) {
	game, err := uow.GameRepository().GetActiveByUser(ctx, userID, models.GameTypeBlackjack)
	if err != nil {
		return nil, storeError("load active blackjack game", err)
	}
	if game == nil {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNoActiveGame)
	}

	state, decodeErr := models.DecodeBlackjackState(game.GameState)
	if decodeErr == nil && state.WalletID != wallet.WalletID {
		decodeErr = fmt.Errorf("%w: state belongs to wallet %d", models.ErrInvalidBlackjackState, state.WalletID)
	}
	if decodeErr != nil {
		if err := uow.GameRepository().Cancel(ctx, game.GameID); err != nil {
			return nil, storeError("cancel blackjack game", err)
		}

		log.WithFields(log.Fields{
			"userID": userID,
			"gameID": game.GameID,
			"error":  decodeErr,
		}).Warn("Cancelled blackjack game with unusable state")

		uow.EventBus().Publish(events.GameCancelledEvent{
			UserID:   userID,
			GameID:   game.GameID,
			GameType: models.GameTypeBlackjack,
			Reason:   decodeErr.Error(),
		})
		return nil, fmt.Errorf("game %d was cancelled: %w", game.GameID, ErrNoActiveGame)
	}

	return &activeHand{game: game, state: state}, nil
}

// finish draws the dealer's second card, optionally plays the dealer out,
// then pays and closes the hand with values from the hand's rule set
func (s *blackjackService) finish(ctx context.Context, uow UnitOfWork, wallet *models.Wallet, hand *activeHand, values *RuleValues, playDealer bool) (*models.BlackjackView, error) {
	state := hand.state
	game := hand.game

	bet, err := uow.BetRepository().GetByGameID(ctx, game.GameID)
	if err != nil {
		return nil, storeError("load blackjack bet", err)
	}
	if bet == nil {
		return nil, fmt.Errorf("game %d has no bet: %w", game.GameID, ErrStoreFailure)
	}

	hole, err := state.Deck.Draw()
	if err != nil {
		return nil, fmt.Errorf("failed to draw dealer card: %w", err)
	}
	state.DealerHand = append(state.DealerHand, hole)

	if playDealer {
		if state.DealerHand, err = games.PlayDealer(state.DealerHand, &state.Deck); err != nil {
			return nil, fmt.Errorf("failed to play dealer: %w", err)
		}
	}

	outcome := games.DetermineOutcome(state.PlayerHand, state.DealerHand)
	if values == nil || !sameRuleSet(values.RuleSetID, game.RuleSetID) {
		resolved := s.rules.ResolveForRuleSet(ctx, game.RuleSetID, models.GameTypeBlackjack)
		values = &resolved
	}
	payoutAmount, payoutOutcome := blackjackPayout(outcome, state.Stake, *values)

	if payoutAmount.IsPositive() {
		if _, err := RecordLedgerEntry(ctx, uow, wallet, models.TransactionTypePayout, payoutAmount, &game.GameID); err != nil {
			return nil, err
		}
	}

	if err := uow.PayoutRepository().Create(ctx, &models.Payout{
		BetID:     bet.BetID,
		WinAmount: payoutAmount,
		Outcome:   payoutOutcome,
	}); err != nil {
		return nil, storeError("record blackjack payout", err)
	}

	result, err := json.Marshal(models.BlackjackResult{
		PlayerHand:  state.PlayerHand,
		DealerHand:  state.DealerHand,
		PlayerValue: state.PlayerHand.Value(),
		DealerValue: state.DealerHand.Value(),
		Outcome:     outcome,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal blackjack result: %w", err)
	}
	if err := uow.GameRepository().Complete(ctx, game.GameID, result); err != nil {
		return nil, storeError("complete blackjack game", err)
	}

	if err := s.rules.SnapshotRules(ctx, uow, game.GameID, *values); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.GameSettledEvent{
		UserID:    game.UserID,
		GameID:    game.GameID,
		GameType:  models.GameTypeBlackjack,
		Outcome:   payoutOutcome,
		Stake:     state.Stake,
		WinAmount: payoutAmount,
	})

	log.WithFields(log.Fields{
		"gameID":      game.GameID,
		"outcome":     outcome,
		"playerValue": state.PlayerHand.Value(),
		"dealerValue": state.DealerHand.Value(),
		"payout":      payoutAmount.StringFixed(2),
	}).Info("Blackjack hand resolved")

	return &models.BlackjackView{
		GameID:      game.GameID,
		Status:      models.GameStatusCompleted,
		PlayerHand:  state.PlayerHand,
		DealerHand:  state.DealerHand,
		PlayerValue: state.PlayerHand.Value(),
		DealerValue: state.DealerHand.Value(),
		Stake:       state.Stake,
		Outcome:     &outcome,
		Payout:      payoutAmount,
		NewBalance:  wallet.Balance,
	}, nil
}

// remember keeps ACTIVE hands in the session cache and drops finished ones
func (s *blackjackService) remember(userID int64, view *models.BlackjackView, state *models.BlackjackState) {
	if view.CanAct() {
		s.sessions.Put(userID, view.GameID, state)
		return
	}
	s.sessions.Evict(userID)
}

// blackjackPayout returns the total paid back to the player, stake included
func blackjackPayout(outcome games.BlackjackOutcome, stake decimal.Decimal, values RuleValues) (decimal.Decimal, models.PayoutOutcome) {
	switch outcome {
	case games.BlackjackNatural:
		return stake.Mul(values.Get(RuleBlackjackPayout)).Round(2), models.PayoutOutcomeWin
	case games.BlackjackWin:
		return stake.Mul(values.Get(RuleBlackjackNormal)).Round(2), models.PayoutOutcomeWin
	case games.BlackjackPush:
		return stake, models.PayoutOutcomePush
	default:
		return decimal.Zero, models.PayoutOutcomeLoss
	}
}

func sameRuleSet(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// activeView projects an ACTIVE hand, hiding the deck and the dealer's hole card
func activeView(gameID int64, state *models.BlackjackState) *models.BlackjackView {
	player := append(games.Hand(nil), state.PlayerHand...)
	dealer := append(games.Hand(nil), state.DealerHand...)
	return &models.BlackjackView{
		GameID:       gameID,
		Status:       models.GameStatusActive,
		PlayerHand:   player,
		DealerHand:   dealer,
		PlayerValue:  player.Value(),
		DealerValue:  dealer.Value(),
		DealerHidden: true,
		Stake:        state.Stake,
	}
}

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"wagerledger/events"
	"wagerledger/games"
	"wagerledger/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const coinflipBetType = "choice"

// WagerRequest is a single-shot bet
type WagerRequest struct {
	UserID   int64
	GameType models.GameType
	Stake    decimal.Decimal
	BetType  string
	BetValue string
}

type settlementService struct {
	uowFactory UnitOfWorkFactory
	rules      *RuleResolver
	random     games.Random
	limits     BetLimits
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory, rules *RuleResolver, random games.Random, limits BetLimits) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
		rules:      rules,
		random:     random,
		limits:     limits,
	}
}

// resolvedRound is the outcome of drawing for a validated wager
type resolvedRound struct {
	won      bool
	payout   decimal.Decimal
	result   any
	coinflip *models.CoinflipResult
	roulette *models.RouletteResult
}

// selection is a validated bet with the values persisted on the bet row
type selection struct {
	betType  string
	betValue string
	coin     games.CoinSide
	roulette games.RouletteBet
}

func (s *settlementService) SettleWager(ctx context.Context, req WagerRequest) (*models.SettlementResult, error) {
	picked, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	values := s.rules.Resolve(ctx, req.GameType)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	wallet, err := lockWallet(ctx, uow, req.UserID)
	if err != nil {
		return nil, err
	}
	if !wallet.CanCover(req.Stake) {
		return nil, fmt.Errorf("balance %s cannot cover stake %s: %w",
			wallet.Balance.StringFixed(2), req.Stake.StringFixed(2), ErrInsufficientFunds)
	}

	game := &models.Game{
		UserID:    req.UserID,
		RuleSetID: values.RuleSetID,
		GameType:  req.GameType,
	}
	if err := uow.GameRepository().Create(ctx, game); err != nil {
		return nil, storeError("create game", err)
	}

	bet := &models.Bet{
		GameID:      game.GameID,
		BetType:     picked.betType,
		BetValue:    picked.betValue,
		StakeAmount: req.Stake,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, storeError("create bet", err)
	}

	if _, err := RecordLedgerEntry(ctx, uow, wallet, models.TransactionTypeBet, req.Stake, &game.GameID); err != nil {
		return nil, err
	}

	round := s.resolve(req, picked, values)

	outcome := models.PayoutOutcomeLoss
	if round.won {
		outcome = models.PayoutOutcomeWin
	}
	if round.payout.IsPositive() {
		if _, err := RecordLedgerEntry(ctx, uow, wallet, models.TransactionTypePayout, round.payout, &game.GameID); err != nil {
			return nil, err
		}
	}

	if err := uow.PayoutRepository().Create(ctx, &models.Payout{
		BetID:     bet.BetID,
		WinAmount: round.payout,
		Outcome:   outcome,
	}); err != nil {
		return nil, storeError("record payout", err)
	}

	result, err := json.Marshal(round.result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game result: %w", err)
	}
	if err := uow.GameRepository().Complete(ctx, game.GameID, result); err != nil {
		return nil, storeError("complete game", err)
	}

	if err := s.rules.SnapshotRules(ctx, uow, game.GameID, values); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.GameSettledEvent{
		UserID:    req.UserID,
		GameID:    game.GameID,
		GameType:  req.GameType,
		Outcome:   outcome,
		Stake:     req.Stake,
		WinAmount: round.payout,
	})

	if err := uow.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	log.WithFields(log.Fields{
		"userID":     req.UserID,
		"gameID":     game.GameID,
		"gameType":   req.GameType,
		"stake":      req.Stake.StringFixed(2),
		"outcome":    outcome,
		"payout":     round.payout.StringFixed(2),
		"newBalance": wallet.Balance.StringFixed(2),
	}).Info("Wager settled")

	return &models.SettlementResult{
		GameID:     game.GameID,
		GameType:   req.GameType,
		Outcome:    outcome,
		Stake:      req.Stake,
		Payout:     round.payout,
		NewBalance: wallet.Balance,
		Coinflip:   round.coinflip,
		Roulette:   round.roulette,
	}, nil
}

// validate checks the stake and the bet selection before any lock is taken
func (s *settlementService) validate(req WagerRequest) (selection, error) {
	if err := s.limits.Validate(req.Stake); err != nil {
		return selection{}, err
	}

	switch req.GameType {
	case models.GameTypeCoinflip:
		if req.BetType != "" && req.BetType != coinflipBetType {
			return selection{}, invalidBet("coinflip bet type must be %q, got %q", coinflipBetType, req.BetType)
		}
		side, err := games.ParseCoinSide(req.BetValue)
		if err != nil {
			return selection{}, invalidBet("%v", err)
		}
		return selection{betType: coinflipBetType, betValue: string(side), coin: side}, nil
	case models.GameTypeRoulette:
		bet, err := games.ParseRouletteBet(req.BetType, req.BetValue)
		if err != nil {
			return selection{}, invalidBet("%v", err)
		}
		return selection{betType: string(bet.Type), betValue: bet.Value, roulette: bet}, nil
	case models.GameTypeBlackjack:
		return selection{}, invalidBet("blackjack is played hand by hand")
	default:
		return selection{}, invalidBet("unknown game type %q", req.GameType)
	}
}

// resolve draws the round and prices the payout, stake included
func (s *settlementService) resolve(req WagerRequest, picked selection, values RuleValues) resolvedRound {
	switch req.GameType {
	case models.GameTypeCoinflip:
		landed := games.FlipCoin(s.random)
		result := &models.CoinflipResult{
			Choice: picked.coin,
			Result: landed,
			IsWin:  landed == picked.coin,
		}
		round := resolvedRound{won: result.IsWin, payout: decimal.Zero, result: result, coinflip: result}
		if round.won {
			round.payout = req.Stake.Mul(values.Get(RuleCoinflipPayout)).Round(2)
		}
		return round

	default:
		number := games.SpinRoulette(s.random)
		result := &models.RouletteResult{
			BetType:  picked.roulette.Type,
			BetValue: picked.roulette.Value,
			Number:   number,
			Color:    games.ColorOf(number),
			Parity:   games.ParityOf(number),
			IsWin:    picked.roulette.Wins(number),
		}
		round := resolvedRound{won: result.IsWin, payout: decimal.Zero, result: result, roulette: result}
		if round.won {
			multiplier := values.Get(rouletteRuleKey(picked.roulette.Type))
			round.payout = req.Stake.Mul(decimal.NewFromInt(1).Add(multiplier)).Round(2)
		}
		return round
	}
}

func rouletteRuleKey(betType games.RouletteBetType) RuleKey {
	switch betType {
	case games.RouletteNumber:
		return RuleRouletteNumberPayout
	case games.RouletteColor:
		return RuleRouletteColorPayout
	default:
		return RuleRouletteParityPayout
	}
}

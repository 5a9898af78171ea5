package service

import (
	"context"
	"time"

	"wagerledger/models"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
	defaultStatsDays    = 30
)

type historyService struct {
	uowFactory UnitOfWorkFactory
}

// NewHistoryService creates a new history service
func NewHistoryService(uowFactory UnitOfWorkFactory) HistoryService {
	return &historyService{uowFactory: uowFactory}
}

// GetUserGames returns the user's rounds newest first, optionally limited to one game type
func (s *historyService) GetUserGames(ctx context.Context, userID int64, gameType *models.GameType, limit, offset int) ([]*models.GameHistoryEntry, error) {
	if gameType != nil && !gameType.Valid() {
		return nil, invalidBet("unknown game type %q", *gameType)
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	entries, err := uow.GameRepository().GetHistory(ctx, userID, gameType, limit, offset)
	if err != nil {
		return nil, storeError("get game history", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	return entries, nil
}

// GetGameStats aggregates the user's rounds over the last days
func (s *historyService) GetGameStats(ctx context.Context, userID int64, days int) (*models.GameStats, error) {
	if days <= 0 {
		days = defaultStatsDays
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeError("begin transaction", err)
	}
	defer uow.Rollback()

	since := time.Now().AddDate(0, 0, -days)
	stats, err := uow.GameRepository().GetStats(ctx, userID, since)
	if err != nil {
		return nil, storeError("get game stats", err)
	}
	stats.Days = days

	if err := uow.Commit(); err != nil {
		return nil, storeError("commit transaction", err)
	}

	return stats, nil
}

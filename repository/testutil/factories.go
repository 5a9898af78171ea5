package testutil

import (
	"time"

	"wagerledger/models"

	"github.com/shopspring/decimal"
)

// CreateTestWallet creates an in-memory wallet with the given balance
func CreateTestWallet(walletID, userID int64, balance string) *models.Wallet {
	now := time.Now()
	return &models.Wallet{
		WalletID:  walletID,
		UserID:    userID,
		Balance:   decimal.RequireFromString(balance),
		Currency:  "TRY",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestUser creates an in-memory user
func CreateTestUser(discordID int64, username string) *models.User {
	now := time.Now()
	return &models.User{
		DiscordID: discordID,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestGame creates an ACTIVE game of the given type
func CreateTestGame(gameID, userID int64, gameType models.GameType) *models.Game {
	return &models.Game{
		GameID:    gameID,
		UserID:    userID,
		GameType:  gameType,
		Status:    models.GameStatusActive,
		StartedAt: time.Now(),
	}
}

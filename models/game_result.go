package models

import (
	"wagerledger/games"
)

// CoinflipResult is stored in game_result for coinflip rounds
type CoinflipResult struct {
	Choice games.CoinSide `json:"choice"`
	Result games.CoinSide `json:"result"`
	IsWin  bool           `json:"is_win"`
}

// RouletteResult is stored in game_result for roulette rounds
type RouletteResult struct {
	BetType  games.RouletteBetType `json:"bet_type"`
	BetValue string                `json:"bet_value"`
	Number   int                   `json:"number"`
	Color    games.Color           `json:"color"`
	Parity   games.Parity          `json:"parity"`
	IsWin    bool                  `json:"is_win"`
}

// BlackjackResult is stored in game_result for finished blackjack hands
type BlackjackResult struct {
	PlayerHand  games.Hand             `json:"player_hand"`
	DealerHand  games.Hand             `json:"dealer_hand"`
	PlayerValue int                    `json:"player_value"`
	DealerValue int                    `json:"dealer_value"`
	Outcome     games.BlackjackOutcome `json:"outcome"`
}

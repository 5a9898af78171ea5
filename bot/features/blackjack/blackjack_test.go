package blackjack

import (
	"testing"

	"wagerledger/games"
	"wagerledger/models"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomIDRoundTrip(t *testing.T) {
	action, owner, err := parseCustomID(customID(actionStand, 123456789012345678))
	require.NoError(t, err)
	assert.Equal(t, actionStand, action)
	assert.Equal(t, int64(123456789012345678), owner)

	_, _, err = parseCustomID("blackjack_hit")
	assert.Error(t, err)
	_, _, err = parseCustomID("blackjack_hit_abc")
	assert.Error(t, err)
}

func activeView() *models.BlackjackView {
	return &models.BlackjackView{
		GameID:       7,
		Status:       models.GameStatusActive,
		PlayerHand:   games.Hand{{Rank: games.Ten, Suit: games.Hearts}, {Rank: games.Seven, Suit: games.Clubs}},
		DealerHand:   games.Hand{{Rank: games.Nine, Suit: games.Spades}},
		PlayerValue:  17,
		DealerValue:  9,
		DealerHidden: true,
		Stake:        decimal.NewFromInt(50),
	}
}

func TestActiveHandShowsButtonsAndHidesHoleCard(t *testing.T) {
	view := activeView()

	embed := buildHandEmbed(view, "TRY")
	assert.Equal(t, "Dealer (?)", embed.Fields[1].Name)
	assert.Equal(t, "`9♠` `??`", embed.Fields[1].Value)
	assert.Len(t, embed.Fields, 3)

	buttons := buildActionButtons(view, 42)
	require.Len(t, buttons, 1)
	row := buttons[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 2)
	assert.Equal(t, "blackjack_hit_42", row.Components[0].(discordgo.Button).CustomID)
	assert.Equal(t, "blackjack_stand_42", row.Components[1].(discordgo.Button).CustomID)
}

func TestSettledHandShowsPayout(t *testing.T) {
	view := activeView()
	outcome := games.BlackjackLose
	view.Status = models.GameStatusCompleted
	view.DealerHidden = false
	view.DealerHand = append(view.DealerHand, games.Card{Rank: games.Ace, Suit: games.Diamonds})
	view.DealerValue = 20
	view.Outcome = &outcome
	view.Payout = decimal.Zero
	view.NewBalance = decimal.Zero

	embed := buildHandEmbed(view, "TRY")
	assert.Equal(t, "Dealer (20)", embed.Fields[1].Name)
	assert.Equal(t, colorLoss, embed.Color)
	assert.Equal(t, "0.00 TRY", embed.Fields[3].Value)
	assert.Empty(t, buildActionButtons(view, 42))
}

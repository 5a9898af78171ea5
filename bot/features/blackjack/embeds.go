package blackjack

import (
	"fmt"

	"wagerledger/bot/common"
	"wagerledger/models"

	"github.com/bwmarrin/discordgo"
)

const (
	colorActive = 0x3498DB
	colorWin    = 0x2ECC71
	colorPush   = 0x95A5A6
	colorLoss   = 0xE74C3C
)

func buildHandEmbed(view *models.BlackjackView, currency string) *discordgo.MessageEmbed {
	dealerValue := fmt.Sprint(view.DealerValue)
	if view.DealerHidden {
		dealerValue = "?"
	}

	embed := &discordgo.MessageEmbed{
		Title: "🃏 Blackjack",
		Color: colorActive,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  fmt.Sprintf("Your hand (%d)", view.PlayerValue),
				Value: common.FormatHand(view.PlayerHand, false),
			},
			{
				Name:  fmt.Sprintf("Dealer (%s)", dealerValue),
				Value: common.FormatHand(view.DealerHand, view.DealerHidden),
			},
			{Name: "Stake", Value: common.FormatMoney(view.Stake, currency), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Game #%d", view.GameID)},
	}

	if view.CanAct() {
		embed.Description = "Hit or stand?"
		return embed
	}

	if view.Outcome != nil {
		embed.Description = common.FormatBlackjackOutcome(*view.Outcome)
	}
	switch {
	case view.Payout.GreaterThan(view.Stake):
		embed.Color = colorWin
	case view.Payout.Equal(view.Stake):
		embed.Color = colorPush
	default:
		embed.Color = colorLoss
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Payout", Value: common.FormatMoney(view.Payout, currency), Inline: true},
		&discordgo.MessageEmbedField{Name: "Balance", Value: common.FormatMoney(view.NewBalance, currency), Inline: true},
	)
	return embed
}

// buildActionButtons returns Hit and Stand while the hand is live, nothing once settled
func buildActionButtons(view *models.BlackjackView, userID int64) []discordgo.MessageComponent {
	if !view.CanAct() {
		return nil
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Hit",
					Style:    discordgo.PrimaryButton,
					CustomID: customID(actionHit, userID),
				},
				discordgo.Button{
					Label:    "Stand",
					Style:    discordgo.SecondaryButton,
					CustomID: customID(actionStand, userID),
				},
			},
		},
	}
}

package coinflip

import (
	"context"
	"fmt"

	"wagerledger/bot/common"
	"wagerledger/games"
	"wagerledger/models"
	"wagerledger/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature handles /coinflip
type Feature struct {
	walletService     service.WalletService
	settlementService service.SettlementService
}

func New(walletService service.WalletService, settlementService service.SettlementService) *Feature {
	return &Feature{
		walletService:     walletService,
		settlementService: settlementService,
	}
}

// Command is the slash command definition
func Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "coinflip",
		Description: "Call heads or tails",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "choice",
				Description: "Your call",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Heads", Value: string(games.Heads)},
					{Name: "Tails", Value: string(games.Tails)},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "amount",
				Description: "Stake, e.g. 10 or 12.50",
				Required:    true,
			},
		},
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	userID, username, err := common.ParseUserID(i)
	if err != nil {
		common.RespondWithServiceError(s, i, "coinflip", err)
		return
	}

	choice, amountOpt := options["choice"], options["amount"]
	if choice == nil || amountOpt == nil {
		common.RespondWithError(s, i, "Please provide both a choice and an amount.")
		return
	}

	stake, err := common.ParseAmount(amountOpt.StringValue())
	if err != nil {
		common.RespondWithServiceError(s, i, "coinflip", err)
		return
	}

	wallet, err := f.walletService.EnsureWallet(ctx, userID, username)
	if err != nil {
		common.RespondWithServiceError(s, i, "coinflip", err)
		return
	}

	result, err := f.settlementService.SettleWager(ctx, service.WagerRequest{
		UserID:   userID,
		GameType: models.GameTypeCoinflip,
		Stake:    stake,
		BetValue: choice.StringValue(),
	})
	if err != nil {
		common.RespondWithServiceError(s, i, "coinflip", err)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildResultEmbed(result, wallet.Currency), nil, false); err != nil {
		log.Errorf("Error responding to coinflip command: %v", err)
	}
}

func buildResultEmbed(result *models.SettlementResult, currency string) *discordgo.MessageEmbed {
	color := 0xE74C3C
	if result.Outcome == models.PayoutOutcomeWin {
		color = 0x2ECC71
	}

	flip := result.Coinflip
	return &discordgo.MessageEmbed{
		Title:       "🪙 Coinflip",
		Description: fmt.Sprintf("You called **%s**, the coin landed on **%s**.\n%s", flip.Choice, flip.Result, common.FormatOutcome(result.Outcome)),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Stake", Value: common.FormatMoney(result.Stake, currency), Inline: true},
			{Name: "Payout", Value: common.FormatMoney(result.Payout, currency), Inline: true},
			{Name: "Balance", Value: common.FormatMoney(result.NewBalance, currency), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Game #%d", result.GameID)},
	}
}

package roulette

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

// Feature handles /roulette
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
		Name:        "roulette",
		Description: "Spin a single-zero wheel",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "bet_type",
				Description: "What you are betting on",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Number (0-36)", Value: string(games.RouletteNumber)},
					{Name: "Color (red/black)", Value: string(games.RouletteColor)},
					{Name: "Parity (odd/even)", Value: string(games.RouletteParity)},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "value",
				Description: "A number, red/black or odd/even",
				Required:    true,
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
		common.RespondWithServiceError(s, i, "roulette", err)
		return
	}

	betType, value, amountOpt := options["bet_type"], options["value"], options["amount"]
	if betType == nil || value == nil || amountOpt == nil {
		common.RespondWithError(s, i, "Please provide a bet type, a value and an amount.")
		return
	}

	stake, err := common.ParseAmount(amountOpt.StringValue())
	if err != nil {
		common.RespondWithServiceError(s, i, "roulette", err)
		return
	}

	wallet, err := f.walletService.EnsureWallet(ctx, userID, username)
	if err != nil {
		common.RespondWithServiceError(s, i, "roulette", err)
		return
	}

	result, err := f.settlementService.SettleWager(ctx, service.WagerRequest{
		UserID:   userID,
		GameType: models.GameTypeRoulette,
		Stake:    stake,
		BetType:  betType.StringValue(),
		BetValue: value.StringValue(),
	})
	if err != nil {
		common.RespondWithServiceError(s, i, "roulette", err)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildResultEmbed(result, wallet.Currency), nil, false); err != nil {
		log.Errorf("Error responding to roulette command: %v", err)
	}
}

var pocketEmoji = map[games.Color]string{
	games.Red:   "🔴",
	games.Black: "⚫",
	games.Green: "🟢",
}

func buildResultEmbed(result *models.SettlementResult, currency string) *discordgo.MessageEmbed {
	color := 0xE74C3C
	if result.Outcome == models.PayoutOutcomeWin {
		color = 0x2ECC71
	}

	spin := result.Roulette
	return &discordgo.MessageEmbed{
		Title: "🎡 Roulette",
		Description: fmt.Sprintf("The ball landed on %s **%d**. You bet **%s %s**.\n%s",
			pocketEmoji[spin.Color], spin.Number, spin.BetType, spin.BetValue, common.FormatOutcome(result.Outcome)),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Stake", Value: common.FormatMoney(result.Stake, currency), Inline: true},
			{Name: "Payout", Value: common.FormatMoney(result.Payout, currency), Inline: true},
			{Name: "Balance", Value: common.FormatMoney(result.NewBalance, currency), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Game #%d", result.GameID)},
	}
}

package stats

import (
	"context"
	"fmt"

	"wagerledger/bot/common"
	"wagerledger/models"
	"wagerledger/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature represents the stats feature
type Feature struct {
	historyService service.HistoryService
	currency       string
}

// New creates a new stats feature instance
func New(historyService service.HistoryService, currency string) *Feature {
	return &Feature{
		historyService: historyService,
		currency:       currency,
	}
}

// Command is the slash command definition
func Command() *discordgo.ApplicationCommand {
	minDays := 1.0
	return &discordgo.ApplicationCommand{
		Name:        "stats",
		Description: "View your win rate and profit",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "days",
				Description: "Look-back window in days (default 30)",
				MinValue:    &minDays,
				MaxValue:    365,
			},
		},
	}
}

// HandleCommand handles the /stats command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	userID, _, err := common.ParseUserID(i)
	if err != nil {
		common.RespondWithServiceError(s, i, "stats", err)
		return
	}

	days := 0
	if opt := options["days"]; opt != nil {
		days = int(opt.IntValue())
	}

	stats, err := f.historyService.GetGameStats(ctx, userID, days)
	if err != nil {
		common.RespondWithServiceError(s, i, "stats", err)
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, common.InteractionUser(i).ID)
	if err := common.RespondWithEmbed(s, i, buildStatsEmbed(displayName, stats, f.currency), nil, false); err != nil {
		log.Errorf("Error responding to stats command: %v", err)
	}
}

func buildStatsEmbed(displayName string, stats *models.GameStats, currency string) *discordgo.MessageEmbed {
	profit := stats.Profit()
	color := 0x2ECC71
	if profit.IsNegative() {
		color = 0xE74C3C
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 %s's last %d days", displayName, stats.Days),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rounds", Value: fmt.Sprintf("%d", stats.TotalGames), Inline: true},
			{Name: "Win rate", Value: fmt.Sprintf("%.1f%%", stats.WinRate()), Inline: true},
			{Name: "W / L / P", Value: fmt.Sprintf("%d / %d / %d", stats.Wins, stats.Losses, stats.Pushes), Inline: true},
			{Name: "Staked", Value: common.FormatMoney(stats.TotalStaked, currency), Inline: true},
			{Name: "Paid out", Value: common.FormatMoney(stats.TotalPaidOut, currency), Inline: true},
			{Name: "Profit", Value: common.FormatMoney(profit, currency), Inline: true},
		},
	}
}

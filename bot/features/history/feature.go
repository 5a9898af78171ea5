package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"wagerledger/bot/common"
	"wagerledger/models"
	"wagerledger/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const pageSize = 10

// Feature handles /history
type Feature struct {
	historyService service.HistoryService
}

func New(historyService service.HistoryService) *Feature {
	return &Feature{historyService: historyService}
}

// Command is the slash command definition
func Command() *discordgo.ApplicationCommand {
	gameChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.GameTypes))
	for _, gt := range models.GameTypes {
		gameChoices = append(gameChoices, &discordgo.ApplicationCommandOptionChoice{Name: string(gt), Value: string(gt)})
	}
	minPage := 1.0

	return &discordgo.ApplicationCommand{
		Name:        "history",
		Description: "Show your recent rounds",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "game",
				Description: "Only show one game",
				Choices:     gameChoices,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "page",
				Description: "Page number, starting at 1",
				MinValue:    &minPage,
			},
		},
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	options := common.OptionMap(i.ApplicationCommandData().Options)

	userID, _, err := common.ParseUserID(i)
	if err != nil {
		common.RespondWithServiceError(s, i, "history", err)
		return
	}

	var gameType *models.GameType
	if opt := options["game"]; opt != nil {
		gt := models.GameType(opt.StringValue())
		gameType = &gt
	}

	page := 1
	if opt := options["page"]; opt != nil && opt.IntValue() > 1 {
		page = int(opt.IntValue())
	}

	entries, err := f.historyService.GetUserGames(ctx, userID, gameType, pageSize, (page-1)*pageSize)
	if err != nil {
		common.RespondWithServiceError(s, i, "history", err)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildHistoryEmbed(entries, page), nil, true); err != nil {
		log.Errorf("Error responding to history command: %v", err)
	}
}

func buildHistoryEmbed(entries []*models.GameHistoryEntry, page int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  "📜 Game history",
		Color:  0x9B59B6,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d", page)},
	}

	if len(entries) == 0 {
		embed.Description = "No rounds found."
		return embed
	}

	var lines strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&lines, "**#%d** %s %s · stake %s · %s %s\n",
			entry.GameID,
			entry.GameType,
			describeBet(entry),
			common.FormatBalance(entry.Stake),
			describeResult(entry),
			common.FormatDiscordTimestamp(entry.StartedAt, "R"),
		)
	}
	embed.Description = lines.String()
	return embed
}

func describeBet(entry *models.GameHistoryEntry) string {
	if entry.GameType == models.GameTypeBlackjack {
		return ""
	}
	return fmt.Sprintf("`%s`", entry.BetValue)
}

func describeResult(entry *models.GameHistoryEntry) string {
	switch {
	case entry.Status == models.GameStatusActive:
		return "in progress"
	case entry.Outcome == nil:
		return strings.ToLower(string(entry.Status))
	}

	detail := ""
	if entry.GameType == models.GameTypeRoulette && len(entry.GameResult) > 0 {
		var spin models.RouletteResult
		if err := json.Unmarshal(entry.GameResult, &spin); err == nil {
			detail = fmt.Sprintf(" (%d %s)", spin.Number, spin.Color)
		}
	}

	win := "0.00"
	if entry.WinAmount != nil {
		win = common.FormatBalance(*entry.WinAmount)
	}
	return fmt.Sprintf("**%s** %s%s", *entry.Outcome, win, detail)
}

package balance

import (
	"context"
	"fmt"
	"strings"

	"wagerledger/bot/common"
	"wagerledger/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, username, err := common.ParseUserID(i)
	if err != nil {
		common.RespondWithServiceError(s, i, "balance", err)
		return
	}

	// Opens the wallet with the starting balance on first use
	wallet, err := f.walletService.EnsureWallet(ctx, userID, username)
	if err != nil {
		common.RespondWithServiceError(s, i, "balance", err)
		return
	}

	entries, err := f.walletService.ListTransactions(ctx, userID, recentEntries)
	if err != nil {
		log.WithError(err).WithField("userID", userID).Warn("Failed to load recent transactions")
		entries = nil
	}

	displayName := common.GetDisplayName(s, i.GuildID, common.InteractionUser(i).ID)
	if err := common.RespondWithEmbed(s, i, buildBalanceEmbed(displayName, wallet, entries), nil, false); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func buildBalanceEmbed(displayName string, wallet *models.Wallet, entries []*models.Transaction) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("💰 %s's wallet", displayName),
		Description: fmt.Sprintf("Balance: **%s**", common.FormatMoney(wallet.Balance, wallet.Currency)),
		Color:       0xF1C40F,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Wallet #%d", wallet.WalletID),
		},
	}

	if len(entries) > 0 {
		var lines strings.Builder
		for _, entry := range entries {
			sign := "-"
			if entry.Type.IsCredit() {
				sign = "+"
			}
			fmt.Fprintf(&lines, "`%s` %s%s → %s %s\n",
				entry.Type,
				sign,
				common.FormatBalance(entry.Amount),
				common.FormatBalance(entry.BalanceAfter),
				common.FormatDiscordTimestamp(entry.CreatedAt, "R"),
			)
		}
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Recent activity", Value: lines.String()},
		}
	}

	return embed
}

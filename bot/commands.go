package bot

import (
	"fmt"

	"wagerledger/bot/features/blackjack"
	"wagerledger/bot/features/coinflip"
	"wagerledger/bot/features/history"
	"wagerledger/bot/features/roulette"
	"wagerledger/bot/features/stats"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Commands lists every slash command the bot serves
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your wallet balance and recent activity",
		},
		coinflip.Command(),
		roulette.Command(),
		blackjack.Command(),
		history.Command(),
		stats.Command(),
	}
}

// registerCommands registers all slash commands with Discord. An empty
// guild ID registers them globally.
func (b *Bot) registerCommands() error {
	for _, cmd := range Commands() {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
		b.commands = append(b.commands, created)
	}

	return nil
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	log.WithFields(log.Fields{
		"command": name,
		"guildID": i.GuildID,
	}).Debug("Handling slash command")

	switch name {
	case "balance":
		b.balanceFeature.HandleCommand(s, i)
	case "coinflip":
		b.coinflipFeature.HandleCommand(s, i)
	case "roulette":
		b.rouletteFeature.HandleCommand(s, i)
	case "blackjack":
		b.blackjackFeature.HandleCommand(s, i)
	case "history":
		b.historyFeature.HandleCommand(s, i)
	case "stats":
		b.statsFeature.HandleCommand(s, i)
	}
}

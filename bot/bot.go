package bot

import (
	"fmt"

	"wagerledger/bot/features/balance"
	"wagerledger/bot/features/blackjack"
	"wagerledger/bot/features/coinflip"
	"wagerledger/bot/features/history"
	"wagerledger/bot/features/roulette"
	"wagerledger/bot/features/stats"
	"wagerledger/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token    string
	GuildID  string
	Currency string
}

// Services bundles what the slash commands call into
type Services struct {
	Wallet     service.WalletService
	Settlement service.SettlementService
	Blackjack  service.BlackjackService
	History    service.HistoryService
}

type Bot struct {
	config   Config
	session  *discordgo.Session
	commands []*discordgo.ApplicationCommand

	balanceFeature   *balance.Feature
	coinflipFeature  *coinflip.Feature
	rouletteFeature  *roulette.Feature
	blackjackFeature *blackjack.Feature
	historyFeature   *history.Feature
	statsFeature     *stats.Feature
}

func New(config Config, services Services) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	bot := &Bot{
		config:           config,
		session:          dg,
		balanceFeature:   balance.New(services.Wallet),
		coinflipFeature:  coinflip.New(services.Wallet, services.Settlement),
		rouletteFeature:  roulette.New(services.Wallet, services.Settlement),
		blackjackFeature: blackjack.New(services.Wallet, services.Blackjack, config.Currency),
		historyFeature:   history.New(services.History),
		statsFeature:     stats.New(services.History, config.Currency),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.blackjackFeature.HandleInteraction)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.WithFields(log.Fields{
		"guildID":  config.GuildID,
		"commands": len(bot.commands),
	}).Info("Discord bot connected")

	return bot, nil
}

// Close removes guild-scoped commands and closes the gateway connection
func (b *Bot) Close() error {
	if b.config.GuildID != "" {
		for _, cmd := range b.commands {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
				log.Warnf("Failed to delete command %s: %v", cmd.Name, err)
			}
		}
	}
	return b.session.Close()
}

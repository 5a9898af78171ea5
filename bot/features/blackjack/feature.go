package blackjack

import (
	"strings"

	"wagerledger/bot/common"
	"wagerledger/service"

	"github.com/bwmarrin/discordgo"
)

const (
	customIDPrefix = "blackjack_"
	actionHit      = "hit"
	actionStand    = "stand"
)

// Feature handles /blackjack and its Hit/Stand buttons
type Feature struct {
	walletService    service.WalletService
	blackjackService service.BlackjackService
	currency         string
}

func New(walletService service.WalletService, blackjackService service.BlackjackService, currency string) *Feature {
	return &Feature{
		walletService:    walletService,
		blackjackService: blackjackService,
		currency:         currency,
	}
}

// Command is the slash command definition
func Command() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "blackjack",
		Description: "Play a hand of blackjack against the dealer",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "start",
				Description: "Deal a new hand",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "amount",
						Description: "Stake, e.g. 10 or 12.50",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "resume",
				Description: "Show your hand in progress",
			},
		},
	}
}

// HandleCommand handles the /blackjack command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: start or resume")
		return
	}

	switch options[0].Name {
	case "start":
		f.handleStart(s, i, options[0].Options)
	case "resume":
		f.handleResume(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// HandleInteraction handles Hit and Stand button presses
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	if !strings.HasPrefix(customID, customIDPrefix) {
		return
	}
	f.handleAction(s, i, customID)
}

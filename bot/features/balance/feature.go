package balance

import (
	"wagerledger/service"

	"github.com/bwmarrin/discordgo"
)

const recentEntries = 5

type Feature struct {
	walletService service.WalletService
}

func New(walletService service.WalletService) *Feature {
	return &Feature{
		walletService: walletService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBalance(s, i)
}

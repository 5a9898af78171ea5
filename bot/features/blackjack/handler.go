package blackjack

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"wagerledger/bot/common"
	"wagerledger/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	userID, username, err := common.ParseUserID(i)
	if err != nil {
		common.RespondWithServiceError(s, i, "blackjack start", err)
		return
	}

	amountOpt := common.OptionMap(options)["amount"]
	if amountOpt == nil {
		common.RespondWithError(s, i, "Please provide an amount.")
		return
	}
	stake, err := common.ParseAmount(amountOpt.StringValue())
	if err != nil {
		common.RespondWithServiceError(s, i, "blackjack start", err)
		return
	}

	if _, err := f.walletService.EnsureWallet(ctx, userID, username); err != nil {
		common.RespondWithServiceError(s, i, "blackjack start", err)
		return
	}

	view, err := f.blackjackService.Start(ctx, userID, stake)
	if err != nil {
		common.RespondWithServiceError(s, i, "blackjack start", err)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildHandEmbed(view, f.currency), buildActionButtons(view, userID), false); err != nil {
		log.Errorf("Error responding to blackjack start: %v", err)
	}
}

func (f *Feature) handleResume(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, _, err := common.ParseUserID(i)
	if err != nil {
		common.RespondWithServiceError(s, i, "blackjack resume", err)
		return
	}

	view, err := f.blackjackService.Resume(ctx, userID)
	if err != nil {
		common.RespondWithServiceError(s, i, "blackjack resume", err)
		return
	}

	if err := common.RespondWithEmbed(s, i, buildHandEmbed(view, f.currency), buildActionButtons(view, userID), false); err != nil {
		log.Errorf("Error responding to blackjack resume: %v", err)
	}
}

func (f *Feature) handleAction(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	ctx := context.Background()

	action, ownerID, err := parseCustomID(customID)
	if err != nil {
		log.WithError(err).WithField("customID", customID).Warn("Malformed blackjack button")
		common.RespondWithError(s, i, "This button is no longer valid.")
		return
	}

	userID, _, err := common.ParseUserID(i)
	if err != nil {
		common.RespondWithServiceError(s, i, "blackjack "+action, err)
		return
	}
	if userID != ownerID {
		common.RespondWithError(s, i, "This isn't your hand.")
		return
	}

	var view *models.BlackjackView
	switch action {
	case actionHit:
		view, err = f.blackjackService.Hit(ctx, userID)
	case actionStand:
		view, err = f.blackjackService.Stand(ctx, userID)
	default:
		err = fmt.Errorf("unknown blackjack action %q", action)
	}
	if err != nil {
		common.RespondWithServiceError(s, i, "blackjack "+action, err)
		return
	}

	if err := common.UpdateWithEmbed(s, i, buildHandEmbed(view, f.currency), buildActionButtons(view, userID)); err != nil {
		log.Errorf("Error updating blackjack message: %v", err)
	}
}

func customID(action string, userID int64) string {
	return fmt.Sprintf("%s%s_%d", customIDPrefix, action, userID)
}

// parseCustomID splits "blackjack_<action>_<userID>"
func parseCustomID(id string) (string, int64, error) {
	rest := strings.TrimPrefix(id, customIDPrefix)
	action, rawUser, ok := strings.Cut(rest, "_")
	if !ok {
		return "", 0, fmt.Errorf("missing owner in %q", id)
	}
	owner, err := strconv.ParseInt(rawUser, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid owner in %q: %w", id, err)
	}
	return action, owner, nil
}

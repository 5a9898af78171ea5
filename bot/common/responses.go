package common

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// InteractionUser returns the invoking user for both guild and DM interactions
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// ParseUserID converts the invoking user's Discord snowflake to the wallet owner ID
func ParseUserID(i *discordgo.InteractionCreate) (int64, string, error) {
	user := InteractionUser(i)
	if user == nil {
		return 0, "", fmt.Errorf("interaction has no user")
	}
	id, err := strconv.ParseInt(user.ID, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid discord id %q: %w", user.ID, err)
	}
	return id, user.Username, nil
}

// GetDisplayName returns the guild nickname when set, falling back to the username
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	if guildID != "" {
		if member, err := s.State.Member(guildID, userID); err == nil && member.Nick != "" {
			return member.Nick
		}
		if member, err := s.GuildMember(guildID, userID); err == nil {
			if member.Nick != "" {
				return member.Nick
			}
			if member.User != nil {
				return member.User.Username
			}
		}
	}
	if user, err := s.User(userID); err == nil {
		return user.Username
	}
	return "Unknown"
}

// RespondWithError sends an ephemeral error message
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ " + message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// RespondWithServiceError logs err and shows the user-facing part of it
func RespondWithServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, action string, err error) {
	botErr := ClassifyError(err)
	entry := log.WithFields(log.Fields{
		"action":      action,
		"interaction": i.ID,
	}).WithError(err)
	if botErr.IsSystem() {
		entry.Error("Interaction failed")
	} else {
		entry.Debug("Interaction rejected")
	}
	RespondWithError(s, i, botErr.Message)
}

// RespondWithEmbed sends an embed as an interaction response
func RespondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}

	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	if len(components) > 0 {
		data.Components = components
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// UpdateWithEmbed replaces the message a component belongs to
func UpdateWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
}

// RespondWithMessage sends plain content
func RespondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, message string, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Content: message,
	}

	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// OptionMap indexes command options by name
func OptionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

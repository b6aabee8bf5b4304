package mod

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const defaultReason = "Aucune raison"

// Shared options
func userOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "membre",
		Description: description,
		Required:    true,
	}
}

func reasonOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "raison",
		Description: "Raison",
		Required:    required,
		MaxLength:   512,
	}
}

// reasonOrDefault trims reason, falling back to the default text
func reasonOrDefault(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return defaultReason
	}
	return reason
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

// guildName returns the cached guild name, or its ID
func guildName(ctx *discord.CommandContext) string {
	if g := ctx.Guild(); g != nil {
		return g.Name
	}
	return ctx.GuildID()
}

// sendDM sends embed to userID in a private channel
func sendDM(s *discordgo.Session, userID string, embed *discordgo.MessageEmbed) error {
	ch, err := s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	if _, err := s.ChannelMessageSendEmbed(ch.ID, embed); err != nil {
		return fmt.Errorf("send DM: %w", err)
	}
	return nil
}

// dmNotice is appended to the moderator reply when the member could not be notified
func dmNotice(user *discordgo.User, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("\nℹ️ Impossible d'envoyer un message privé à **%s**.", user.Username)
}

package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// sendCommand creates the /utils send subcommand
func (u *utilities) sendCommand() *discord.Command {
	return discord.NewCommand(
		"send",
		"Envoyer un message personnalisé via le bot",
		"utils",
		u.send,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "salon",
			Description:  "Salon cible",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "Message à envoyer",
			Required:    true,
			MaxLength:   2000,
		},
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

// send handles the /utils send command
func (u *utilities) send(ctx *discord.CommandContext) error {
	channel := ctx.GetChannelOption("salon")
	content := ctx.GetStringOption("message")
	if channel == nil || content == "" {
		return ctx.ReplyEphemeral("❌ Salon ou message manquant.")
	}

	if _, err := ctx.Session.ChannelMessageSend(channel.ID, content); err != nil {
		_ = ctx.ReplyEphemeral("❌ Le message n'a pas pu être envoyé.")
		return fmt.Errorf("send to %s: %w", channel.ID, err)
	}
	return ctx.ReplyEphemeral("✅ Message envoyé !")
}

package support

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunity/internal/tickets"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func (s *support) setupCommand() *discord.Command {
	return discord.NewCommand(
		"setup-ticket",
		"Publier le panneau d'ouverture des tickets",
		"support",
		s.setup,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "salon",
			Description:  "Salon où publier le panneau",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "message",
			Description: "Texte du panneau",
			Required:    true,
			MaxLength:   4000,
		},
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

// setup posts the ticket panel in the chosen channel
func (s *support) setup(ctx *discord.CommandContext) error {
	channel := ctx.GetChannelOption("salon")
	text := ctx.GetStringOption("message")
	if channel == nil || text == "" {
		return ctx.ReplyEphemeral("❌ Salon ou message manquant.")
	}

	if _, err := ctx.Session.ChannelMessageSendComplex(channel.ID, tickets.PanelMessage(text)); err != nil {
		_ = ctx.ReplyEphemeral(fmt.Sprintf("❌ Impossible de publier le panneau dans <#%s>.", channel.ID))
		return fmt.Errorf("post ticket panel: %w", err)
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Panneau des tickets publié dans <#%s>.", channel.ID))
}

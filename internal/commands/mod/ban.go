// Package mod - /mod ban command
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// banCommand creates the /mod ban subcommand
func (m *moderation) banCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Bannir un membre",
		"mod",
		m.ban,
	).WithOptions(
		userOption("Membre à bannir"),
		reasonOption(false),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "jours",
			Description: "Jours de messages à supprimer (0-7)",
			Required:    false,
			MinValue:    func() *float64 { v := 0.0; return &v }(),
			MaxValue:    7,
		},
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers)
}

// ban handles the /mod ban command
func (m *moderation) ban(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Vous devez indiquer un membre.")
	}
	reason := reasonOrDefault(ctx.GetStringOption("raison"))
	days := int(ctx.GetIntOption("jours"))

	if err := ctx.Session.GuildBanCreateWithReason(ctx.GuildID(), user.ID, reason, days); err != nil {
		_ = ctx.ReplyEphemeral(fmt.Sprintf("❌ Impossible de bannir **%s** : %v", user.Username, err))
		return fmt.Errorf("ban %s: %w", user.ID, err)
	}

	m.Audit.Send(ctx.GuildID(), auditlog.Entry{
		Title:       "🔨 Bannissement",
		Description: fmt.Sprintf("%s a **banni** %s\n**Raison :** %s", mention(ctx.User().ID), mention(user.ID), reason),
		Color:       auditlog.ColorDanger,
	})

	return ctx.ReplyEphemeral(fmt.Sprintf("%s a été banni !", mention(user.ID)))
}

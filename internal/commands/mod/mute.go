// Package mod - /mod mute command
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// maxTimeoutMinutes is the longest timeout Discord accepts (28 days)
const maxTimeoutMinutes = 40320

// muteCommand creates the /mod mute subcommand
func (m *moderation) muteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Rendre un membre muet temporairement",
		"mod",
		m.mute,
	).WithOptions(
		userOption("Membre à rendre muet"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "duree",
			Description: "Durée en minutes",
			Required:    true,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    maxTimeoutMinutes,
		},
		reasonOption(false),
	).WithUserPermissions(discordgo.PermissionModerateMembers).
		WithBotPermissions(discordgo.PermissionModerateMembers)
}

// mute handles the /mod mute command
func (m *moderation) mute(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Vous devez indiquer un membre.")
	}

	minutes := ctx.GetIntOption("duree")
	if minutes < 1 || minutes > maxTimeoutMinutes {
		return ctx.ReplyEphemeral("❌ La durée doit être comprise entre 1 minute et 28 jours.")
	}
	reason := reasonOrDefault(ctx.GetStringOption("raison"))

	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	if err := ctx.Session.GuildMemberTimeout(ctx.GuildID(), user.ID, &until, discordgo.WithAuditLogReason(reason)); err != nil {
		_ = ctx.ReplyEphemeral(fmt.Sprintf("❌ Impossible de rendre muet **%s** : %v", user.Username, err))
		return fmt.Errorf("timeout %s: %w", user.ID, err)
	}

	m.Audit.Send(ctx.GuildID(), auditlog.Entry{
		Title: "🔇 Mise en sourdine",
		Description: fmt.Sprintf("%s a rendu muet %s jusqu'à <t:%d:F>\n**Raison :** %s",
			mention(ctx.User().ID), mention(user.ID), until.Unix(), reason),
		Color: auditlog.ColorWarning,
	})

	return ctx.ReplyEphemeral(fmt.Sprintf("🔇 %s est muet pendant %d minutes.", mention(user.ID), minutes))
}

// Package mod - /mod kick command
package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// kickCommand creates the /mod kick subcommand
func (m *moderation) kickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulser un membre",
		"mod",
		m.kick,
	).WithOptions(
		userOption("Membre à expulser"),
		reasonOption(false),
	).WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers)
}

// kick handles the /mod kick command
func (m *moderation) kick(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Vous devez indiquer un membre.")
	}
	reason := reasonOrDefault(ctx.GetStringOption("raison"))

	if err := ctx.Session.GuildMemberDeleteWithReason(ctx.GuildID(), user.ID, reason); err != nil {
		_ = ctx.ReplyEphemeral(fmt.Sprintf("❌ Impossible d'expulser **%s** : %v", user.Username, err))
		return fmt.Errorf("kick %s: %w", user.ID, err)
	}

	m.Audit.Send(ctx.GuildID(), auditlog.Entry{
		Title:       "👢 Expulsion",
		Description: fmt.Sprintf("%s a **expulsé** %s\n**Raison :** %s", mention(ctx.User().ID), mention(user.ID), reason),
		Color:       auditlog.ColorEdit,
	})

	return ctx.ReplyEphemeral(fmt.Sprintf("%s a été expulsé !", mention(user.ID)))
}

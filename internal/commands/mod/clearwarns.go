package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// clearWarnsCommand creates the /mod clearwarns subcommand
func (m *moderation) clearWarnsCommand() *discord.Command {
	return discord.NewCommand(
		"clearwarns",
		"Retirer tous les avertissements d'un membre",
		"mod",
		m.clearWarns,
	).WithOptions(
		userOption("Membre concerné"),
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// clearWarns handles the /mod clearwarns command
func (m *moderation) clearWarns(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Vous devez indiquer un membre.")
	}

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	n, err := m.Warns.Clear(context.Background(), ctx.GuildID(), user.ID)
	if err != nil {
		_ = ctx.EditReply("❌ Les avertissements n'ont pas pu être retirés.")
		return fmt.Errorf("clear warns: %w", err)
	}
	if n == 0 {
		return ctx.EditReply(fmt.Sprintf("ℹ️ %s n'a aucun avertissement.", mention(user.ID)))
	}

	m.Audit.Send(ctx.GuildID(), auditlog.Entry{
		Title:       "🧹 Avertissements effacés",
		Description: fmt.Sprintf("%s a retiré les %d avertissements de %s", mention(ctx.User().ID), n, mention(user.ID)),
		Color:       auditlog.ColorInfo,
	})

	return ctx.EditReply(fmt.Sprintf("✅ %d avertissement(s) retiré(s) de %s.", n, mention(user.ID)))
}

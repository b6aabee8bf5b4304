// Package mod - /mod warn command
package mod

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/metrics"
	"github.com/PancyStudios/PancyCommunity/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// warnCommand creates the /mod warn subcommand
func (m *moderation) warnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Avertir un membre",
		"mod",
		m.warn,
	).WithOptions(
		userOption("Membre à avertir"),
		reasonOption(true),
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// warn handles the /mod warn command
func (m *moderation) warn(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Vous devez indiquer un membre.")
	}
	if user.Bot {
		return ctx.ReplyEphemeral("❌ Impossible d'avertir un bot.")
	}
	reason := reasonOrDefault(ctx.GetStringOption("raison"))
	moderator := ctx.User()

	// Saving may take a few round trips on the channel backend
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	w, err := m.Warns.Add(context.Background(), ctx.GuildID(), user.ID, reason, moderator.ID)
	if err != nil {
		_ = ctx.EditReply("❌ L'avertissement n'a pas pu être enregistré.")
		return fmt.Errorf("add warn: %w", err)
	}
	total := len(m.Warns.List(ctx.GuildID(), user.ID))

	metrics.WarnIssued()
	m.publish(mqtt.EventWarnAdded, map[string]interface{}{
		"guild_id":  ctx.GuildID(),
		"user_id":   user.ID,
		"warn_id":   w.ID,
		"moderator": moderator.ID,
		"reason":    reason,
		"total":     total,
	})
	m.Audit.Send(ctx.GuildID(), auditlog.Entry{
		Title: "⚠️ Avertissement",
		Description: fmt.Sprintf("%s a **averti** %s\n**Raison :** %s\n**ID :** `%s`\n**Total :** %d",
			mention(moderator.ID), mention(user.ID), reason, w.ID, total),
		Color: auditlog.ColorWarning,
	})

	dmErr := sendDM(ctx.Session, user.ID, &discordgo.MessageEmbed{
		Title: "⚠️ Vous avez reçu un avertissement",
		Description: fmt.Sprintf("**Serveur :** %s\n**Raison :** %s\n**Date :** <t:%d:F>",
			guildName(ctx), reason, w.Timestamp),
		Color: auditlog.ColorWarning,
	})

	return ctx.EditReply(fmt.Sprintf("⚠️ %s a été averti (%d au total).\n**Raison :** %s\n**ID :** `%s`%s",
		mention(user.ID), total, reason, w.ID, dmNotice(user, dmErr)))
}

package utils

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// clearCommand creates the /utils clear subcommand
func (u *utilities) clearCommand() *discord.Command {
	return discord.NewCommand(
		"clear",
		"Supprimer les derniers messages du salon",
		"utils",
		u.clear,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "nombre",
			Description: "Nombre de messages à supprimer (1-100)",
			Required:    true,
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    MaxPurge,
		},
	).WithUserPermissions(discordgo.PermissionManageMessages).
		WithBotPermissions(discordgo.PermissionManageMessages)
}

// clear handles the /utils clear command
func (u *utilities) clear(ctx *discord.CommandContext) error {
	n := int(ctx.GetIntOption("nombre"))

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	deleted, err := Purge(context.Background(), ctx.Session, ctx.ChannelID(), n, "")
	if err != nil {
		_ = ctx.EditReply("❌ Les messages n'ont pas pu être supprimés.")
		return fmt.Errorf("purge %s: %w", ctx.ChannelID(), err)
	}

	u.Audit.Send(ctx.GuildID(), ClearEntry(ctx.User().ID, ctx.ChannelID(), deleted))
	return ctx.EditReply(fmt.Sprintf("🧹 %d message(s) supprimé(s).", deleted))
}

// ClearEntry is the audit entry of a purge
func ClearEntry(userID, channelID string, deleted int) auditlog.Entry {
	return auditlog.Entry{
		Title:       "🧹 Messages supprimés",
		Description: fmt.Sprintf("<@%s> a supprimé %d message(s) dans <#%s>", userID, deleted, channelID),
		Color:       auditlog.ColorDanger,
	}
}

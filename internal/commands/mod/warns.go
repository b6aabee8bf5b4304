package mod

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// maxListedWarns keeps the embed under Discord's field limit
const maxListedWarns = 25

// warnsCommand creates the /mod warns subcommand
func (m *moderation) warnsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Liste des avertissements d'un membre",
		"mod",
		m.warnsList,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "membre",
			Description: "[STAFF] Membre à consulter (vous-même par défaut)",
			Required:    false,
		},
	)
}

// warnsList handles /mod warns. Members can read their own warns; reading
// someone else's requires the moderate members permission.
func (m *moderation) warnsList(ctx *discord.CommandContext) error {
	target := ctx.GetUserOption("membre")
	self := ctx.User()

	isModerator := false
	if member := ctx.Member(); member != nil {
		isModerator = discord.HasPermissions(member.Permissions, discordgo.PermissionModerateMembers)
	}

	if target == nil {
		target = self
	}
	if target.ID != self.ID && !isModerator {
		return ctx.ReplyEphemeral("❌ Vous n'avez pas la permission de consulter les avertissements d'un autre membre.")
	}

	list := m.Warns.List(ctx.GuildID(), target.ID)
	return ctx.ReplyEphemeralEmbed(warnsEmbed(target, list, isModerator, time.Now()))
}

// warnsEmbed renders the warns of user. Moderator IDs are hidden from non moderators.
func warnsEmbed(user *discordgo.User, list []models.Warn, showModerator bool, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🔖 Avertissements de %s", user.Username),
		Timestamp: now.Format(time.RFC3339),
	}

	if len(list) == 0 {
		embed.Color = auditlog.ColorSuccess
		embed.Description = "Aucun avertissement sur ce serveur."
		return embed
	}

	embed.Color = auditlog.ColorEdit
	shown := list
	if len(shown) > maxListedWarns {
		shown = shown[:maxListedWarns]
	}
	for i, w := range shown {
		moderator := "Masqué"
		if showModerator {
			moderator = mention(w.Moderator)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d · ID `%s`", i+1, w.ID),
			Value: fmt.Sprintf("**Raison :** %s\n**Modérateur :** %s\n**Date :** <t:%d:f>", w.Reason, moderator, w.Timestamp),
		})
	}

	var desc strings.Builder
	fmt.Fprintf(&desc, "**Total :** %d", len(list))
	if len(list) > maxListedWarns {
		fmt.Fprintf(&desc, " (les %d premiers sont affichés)", maxListedWarns)
	}
	embed.Description = desc.String()
	return embed
}

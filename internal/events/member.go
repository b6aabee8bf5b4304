package events

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) registerMember() {
	h.client.EventHandler.OnGuildMemberAdd(h.onGuildMemberAdd)
	h.client.EventHandler.OnGuildMemberRemove(h.onGuildMemberRemove)
}

// onGuildMemberAdd is called when a new member joins the server
func (h *handlers) onGuildMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User == nil {
		return
	}
	logger.Debug(fmt.Sprintf("👋 Nuevo miembro: %s en servidor %s", m.User.Username, m.GuildID), "Member")
	h.Audit.Send(m.GuildID, memberJoinEntry(m.Member))
}

// onGuildMemberRemove is called when a member leaves the server
func (h *handlers) onGuildMemberRemove(_ *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.User == nil {
		return
	}
	logger.Debug(fmt.Sprintf("👋 %s salió del servidor %s", m.User.Username, m.GuildID), "Member")
	h.Audit.Send(m.GuildID, memberLeaveEntry(m.User))
}

func memberJoinEntry(m *discordgo.Member) auditlog.Entry {
	return auditlog.Entry{
		Title:       "📥 Arrivée",
		Description: fmt.Sprintf("<@%s> a rejoint le serveur", m.User.ID),
		Color:       auditlog.ColorSuccess,
		Fields: []*discordgo.MessageEmbedField{
			auditlog.Field("Membre", m.User.Username, true),
			auditlog.Field("Compte créé", accountCreated(m.User.ID), true),
		},
	}
}

func memberLeaveEntry(u *discordgo.User) auditlog.Entry {
	return auditlog.Entry{
		Title:       "📤 Départ",
		Description: fmt.Sprintf("<@%s> a quitté le serveur", u.ID),
		Color:       auditlog.ColorDanger,
		Fields: []*discordgo.MessageEmbedField{
			auditlog.Field("Membre", u.Username, true),
		},
	}
}

// accountCreated formats the creation time encoded in a snowflake
func accountCreated(userID string) string {
	t, err := discordgo.SnowflakeTimestamp(userID)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

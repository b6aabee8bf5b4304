package events

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/internal/commands/utils"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// clearPrefix is the text command purging the channel
const clearPrefix = "+clear"

// noticeLifetime is how long the +clear confirmation stays in the channel
const noticeLifetime = 5 * time.Second

func (h *handlers) registerMessage() {
	h.client.EventHandler.OnMessageCreate(h.onMessageCreate)
	h.client.EventHandler.OnMessageUpdate(h.onMessageUpdate)
	h.client.EventHandler.OnMessageDelete(h.onMessageDelete)
}

// onMessageCreate handles the +clear text command
func (h *handlers) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	n, ok := parseClear(m.Content)
	if !ok {
		return
	}

	perms, err := s.State.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil || !discord.HasPermissions(perms, discordgo.PermissionManageMessages) {
		h.notice(s, m.ChannelID, "❌ Vous n'avez pas la permission de supprimer des messages.")
		return
	}
	if n < 1 || n > utils.MaxPurge {
		h.notice(s, m.ChannelID, fmt.Sprintf("❌ Usage : `%s <1-%d>`", clearPrefix, utils.MaxPurge))
		return
	}

	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo borrar el comando +clear: %v", err), "Message")
	}
	deleted, err := utils.Purge(context.Background(), s, m.ChannelID, n, m.ID)
	if err != nil {
		logger.Error(fmt.Sprintf("Error purgando %s: %v", m.ChannelID, err), "Message")
		h.notice(s, m.ChannelID, "❌ Les messages n'ont pas pu être supprimés.")
		return
	}

	h.Audit.Send(m.GuildID, utils.ClearEntry(m.Author.ID, m.ChannelID, deleted))
	h.notice(s, m.ChannelID, fmt.Sprintf("🧹 %d message(s) supprimé(s).", deleted))
}

// notice posts a short-lived message in channelID
func (h *handlers) notice(s *discordgo.Session, channelID, content string) {
	msg, err := s.ChannelMessageSend(channelID, content)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el aviso en %s: %v", channelID, err), "Message")
		return
	}
	time.AfterFunc(noticeLifetime, func() {
		_ = s.ChannelMessageDelete(channelID, msg.ID)
	})
}

// parseClear parses "+clear <n>". ok is false when content is not the
// command; n is 0 when the count is missing or invalid.
func parseClear(content string) (n int, ok bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 || !strings.EqualFold(fields[0], clearPrefix) {
		return 0, false
	}
	if len(fields) < 2 {
		return 0, true
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, true
	}
	return n, true
}

// onMessageUpdate logs edits of cached messages
func (h *handlers) onMessageUpdate(_ *discordgo.Session, m *discordgo.MessageUpdate) {
	entry, ok := editEntry(m.BeforeUpdate, m.Message)
	if !ok {
		return
	}
	h.Audit.Send(m.GuildID, entry)
}

// onMessageDelete logs deletions of cached messages
func (h *handlers) onMessageDelete(_ *discordgo.Session, m *discordgo.MessageDelete) {
	if m.BeforeDelete == nil {
		logger.Debug(fmt.Sprintf("🗑️ Mensaje fuera de caché eliminado: %s en %s", m.ID, m.ChannelID), "Message")
		return
	}
	entry, ok := deleteEntry(m.BeforeDelete)
	if !ok {
		return
	}
	h.Audit.Send(m.GuildID, entry)
}

// editEntry builds the audit entry of an edit. Bot messages, uncached
// messages and edits that keep the content (embeds, pins) are skipped.
func editEntry(before, after *discordgo.Message) (auditlog.Entry, bool) {
	if before == nil || after == nil || before.Author == nil || before.Author.Bot {
		return auditlog.Entry{}, false
	}
	if before.Content == after.Content {
		return auditlog.Entry{}, false
	}
	return auditlog.Entry{
		Title:       "✏️ Message édité",
		Description: fmt.Sprintf("**Auteur :** <@%s>\n**Salon :** <#%s>", before.Author.ID, before.ChannelID),
		Color:       auditlog.ColorEdit,
		Fields: []*discordgo.MessageEmbedField{
			auditlog.Field("Avant", before.Content, false),
			auditlog.Field("Après", after.Content, false),
		},
	}, true
}

// deleteEntry builds the audit entry of a deleted message
func deleteEntry(msg *discordgo.Message) (auditlog.Entry, bool) {
	if msg.Author == nil || msg.Author.Bot {
		return auditlog.Entry{}, false
	}
	return auditlog.Entry{
		Title:       "🗑️ Message supprimé",
		Description: fmt.Sprintf("**Auteur :** <@%s>\n**Salon :** <#%s>", msg.Author.ID, msg.ChannelID),
		Color:       auditlog.ColorDanger,
		Fields: []*discordgo.MessageEmbedField{
			auditlog.Field("Contenu", msg.Content, false),
		},
	}, true
}

// Package auditlog posts moderation and activity entries into each guild's
// configured logs channel.
package auditlog

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// Embed colors per entry family
const (
	ColorInfo    = 0x3498DB
	ColorSuccess = 0x2ECC71
	ColorWarning = 0xF1C40F
	ColorDanger  = 0xE74C3C
	ColorEdit    = 0xE67E22
)

// Sender is the subset of *discordgo.Session used to post entries
type Sender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChannelResolver returns the logs channel of a guild
type ChannelResolver interface {
	LogChannel(guildID string) (string, bool)
}

// Entry is one audit log line
type Entry struct {
	Title       string
	Description string
	Color       int
	Fields      []*discordgo.MessageEmbedField
}

// Logger sends entries to the logs channel. Guilds without one are skipped.
type Logger struct {
	sender   Sender
	resolver ChannelResolver
	now      func() time.Time
}

// New creates a Logger
func New(sender Sender, resolver ChannelResolver) *Logger {
	return &Logger{sender: sender, resolver: resolver, now: time.Now}
}

// Send posts e in the logs channel of guildID. It reports whether an entry was sent;
// failures are logged, never returned.
func (l *Logger) Send(guildID string, e Entry) bool {
	if l == nil || guildID == "" {
		return false
	}
	channelID, ok := l.resolver.LogChannel(guildID)
	if !ok {
		return false
	}

	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: truncate(e.Description, 4096),
		Color:       e.Color,
		Fields:      e.Fields,
		Timestamp:   l.now().Format(time.RFC3339),
	}

	if _, err := l.sender.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el log al canal %s del servidor %s: %v", channelID, guildID, err), "AuditLog")
		return false
	}
	return true
}

// Field builds an embed field, replacing empty values with a dash
func Field(name, value string, inline bool) *discordgo.MessageEmbedField {
	if value == "" {
		value = "-"
	}
	return &discordgo.MessageEmbedField{Name: name, Value: truncate(value, 1024), Inline: inline}
}

// truncate cuts s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) registerGuild() {
	h.client.EventHandler.OnGuildCreate(onGuildCreate)
	h.client.EventHandler.OnGuildDelete(onGuildDelete)
}

// onGuildCreate is called for every guild on startup and when the bot joins
// a server. Only fresh joins get the welcome message.
func onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if !justJoined(g.JoinedAt, time.Now()) {
		return
	}

	logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
	logger.Debug(fmt.Sprintf("   Miembros: %d | Canales: %d", g.MemberCount, len(g.Channels)), "Guild")

	if g.SystemChannelID == "" {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed()); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
	}
}

// justJoined reports whether joinedAt is recent enough to be a new join
// rather than a startup replay
func justJoined(joinedAt, now time.Time) bool {
	return !joinedAt.Before(now.Add(-10 * time.Second))
}

func welcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Merci de m'avoir ajouté ! 🎉",
		Description: "Je gère les tickets, la modération, les logs et les salons vocaux temporaires.",
		Color:       0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "⚙️ Configuration", Value: "`/config tickets`, `/config logs`, `/config vocaux`", Inline: false},
			{Name: "🎟️ Tickets", Value: "`/setup-ticket` publie le panneau", Inline: true},
			{Name: "❓ Aide", Value: "`/utils help`", Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// onGuildDelete is called when the bot is removed from a server
func onGuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		logger.Warn(fmt.Sprintf("Servidor %s no disponible", g.ID), "Guild")
		return
	}
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}

package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/config"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// statsCommand creates the /utils stats subcommand
func (u *utilities) statsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Afficher les statistiques du bot",
		"utils",
		u.stats,
	)
}

// stats handles the /utils stats command
func (u *utilities) stats(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		memberCount := 0
		if ctx.Session.State != nil {
			ctx.Session.State.RLock()
			for _, guild := range ctx.Session.State.Guilds {
				memberCount += guild.MemberCount
			}
			ctx.Session.State.RUnlock()
		}

		rooms := 0
		if u.ActiveRooms != nil {
			rooms = u.ActiveRooms()
		}

		embed := &discordgo.MessageEmbed{
			Title: "📊 Statistiques du bot",
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "🤖 Version", Value: config.Version, Inline: true},
				{Name: "🐹 Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
				{Name: "📚 DiscordGo", Value: discordgo.VERSION, Inline: true},
				{Name: "🖥 Mémoire", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
				{Name: "⚙️ Goroutines", Value: fmt.Sprintf("%d / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU()), Inline: true},
				{Name: "⏱ Uptime", Value: formatDuration(time.Since(ctx.Client.StartTime)), Inline: true},
				{Name: "🏠 Serveurs", Value: fmt.Sprintf("%d", ctx.Client.GuildCount()), Inline: true},
				{Name: "👥 Membres", Value: fmt.Sprintf("%d", memberCount), Inline: true},
				{Name: "🔊 Salons temporaires", Value: fmt.Sprintf("%d", rooms), Inline: true},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: "💫 - Developed by PancyStudios",
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if ctx.Session.State != nil && ctx.Session.State.User != nil {
			embed.Footer.IconURL = ctx.Session.State.User.AvatarURL("")
		}

		if err := ctx.ReplyEmbed(embed); err != nil {
			errors.Log(fmt.Errorf("stats reply: %w", err), "Utils")
		}
	}()
	return nil
}

// formatDuration formats a duration as "1 j, 2 h, 3 min, 4 s"
func formatDuration(dur time.Duration) string {
	days := int(dur.Hours() / 24)
	hours := int(dur.Hours()) % 24
	minutes := int(dur.Minutes()) % 60
	seconds := int(dur.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d j", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d h", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d min", minutes))
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%d s", seconds))
	}

	return strings.Join(parts, ", ")
}

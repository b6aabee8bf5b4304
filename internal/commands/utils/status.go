package utils

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/errors"
	"github.com/PancyStudios/PancyCommunity/pkg/mqtt"
)

// statusCommand creates the /utils status subcommand
func (u *utilities) statusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Afficher l'état du bot",
		"utils",
		u.status,
	)
}

// status handles the /utils status command
func (u *utilities) status(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()
		if err := ctx.ReplyEphemeral(u.statusText(ctx.Client.GuildCount(), mqtt.Get().IsConnected())); err != nil {
			errors.Log(fmt.Errorf("status reply: %w", err), "Utils")
		}
	}()
	return nil
}

func (u *utilities) statusText(guilds int, mqttConnected bool) string {
	var b strings.Builder
	b.WriteString("📊 **État du bot**\n")
	b.WriteString("• Bot : 🟢 En ligne\n")
	fmt.Fprintf(&b, "• Stockage : `%s`\n", u.StoreBackend)
	if u.Database != nil {
		status, online := u.Database()
		fmt.Fprintf(&b, "• Base de données : %s", status)
		if online && u.DatabasePing != nil {
			if d, err := u.DatabasePing(); err == nil {
				fmt.Fprintf(&b, " (%d ms)", d.Milliseconds())
			}
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "• MQTT : %s\n", onOff(mqttConnected))
	if u.ActiveRooms != nil {
		fmt.Fprintf(&b, "• Salons vocaux temporaires : %d\n", u.ActiveRooms())
	}
	fmt.Fprintf(&b, "• Serveurs : %d", guilds)
	return b.String()
}

func onOff(ok bool) string {
	if ok {
		return "🟢 Connecté"
	}
	return "🔴 Déconnecté"
}

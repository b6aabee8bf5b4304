package utils

import (
	"fmt"

	"github.com/PancyStudios/PancyCommunity/pkg/discord"
)

// pingCommand creates the /utils ping subcommand
func (u *utilities) pingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Vérifier la latence du bot",
		"utils",
		u.ping,
	)
}

func (u *utilities) ping(ctx *discord.CommandContext) error {
	latency := ctx.Client.Latency().Milliseconds()
	return ctx.ReplyEphemeral(fmt.Sprintf("🏓 Pong ! Latence : %dms", latency))
}

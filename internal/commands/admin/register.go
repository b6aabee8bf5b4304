// Package admin provides the /config command group
package admin

import (
	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/internal/settings"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
)

type admin struct {
	settings *settings.Manager
	audit    *auditlog.Logger
}

// RegisterAdminCommands registers /config and its subcommands. Every
// subcommand requires the administrator permission.
func RegisterAdminCommands(client *discord.ExtendedClient, s *settings.Manager, audit *auditlog.Logger) {
	a := &admin{settings: s, audit: audit}

	configGroup := client.CommandHandler.BuildCommandGroup(
		"config",
		"Configuration du bot sur ce serveur",
		a.ticketsCommand(),
		a.logsCommand(),
		a.voiceCommand(),
		a.showCommand(),
	)

	client.CommandHandler.AddGlobalCommand(configGroup)
}

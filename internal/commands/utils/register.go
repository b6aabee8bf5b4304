// Package utils provides the /utils command group
package utils

import (
	"time"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
)

// Deps are the services the utility commands report on
type Deps struct {
	// StoreBackend names the active store backend
	StoreBackend string
	// Database returns the MongoDB status line; nil when Mongo is not used
	Database func() (string, bool)
	// DatabasePing measures the MongoDB round trip
	DatabasePing func() (time.Duration, error)
	// ActiveRooms returns the number of live temporary voice rooms
	ActiveRooms func() int
	Audit       *auditlog.Logger
}

type utilities struct {
	Deps
}

// RegisterUtilsCommands registers all utility commands as /utils subcommands
func RegisterUtilsCommands(client *discord.ExtendedClient, deps Deps) {
	u := &utilities{Deps: deps}

	utilsGroup := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Commandes utilitaires",
		u.pingCommand(),
		u.statusCommand(),
		u.helpCommand(),
		u.statsCommand(),
		u.sendCommand(),
		u.clearCommand(),
	)

	client.CommandHandler.AddGlobalCommand(utilsGroup)
}

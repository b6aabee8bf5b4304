// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/internal/warns"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
)

// EventPublisher publishes bot events (the MQTT communicator)
type EventPublisher interface {
	PublishEvent(kind string, data interface{})
}

// Deps are the services the moderation commands use
type Deps struct {
	Warns  *warns.Service
	Audit  *auditlog.Logger
	Events EventPublisher
}

// moderation binds the handlers to their dependencies
type moderation struct {
	Deps
}

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, deps Deps) {
	m := &moderation{Deps: deps}

	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Commandes de modération",
		m.banCommand(),
		m.kickCommand(),
		m.muteCommand(),
		m.warnCommand(),
		m.warnsCommand(),
		m.removeWarnCommand(),
		m.clearWarnsCommand(),
	)

	client.CommandHandler.AddGlobalCommand(modGroup)
}

func (m *moderation) publish(kind string, data interface{}) {
	if m.Events != nil {
		m.Events.PublishEvent(kind, data)
	}
}

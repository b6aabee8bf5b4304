// Package events binds the gateway events the bot reacts to.
// Each category lives in its own file and is registered once into the
// client's dispatch table.
package events

import (
	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/internal/tempvoice"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
)

// Deps are the services the event handlers feed
type Deps struct {
	Audit *auditlog.Logger
	Voice *tempvoice.Manager
}

type handlers struct {
	Deps
	client *discord.ExtendedClient
}

// RegisterAll registers every event handler with the client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	h := &handlers{Deps: deps, client: client}

	// Ready event (bot startup)
	h.registerReady()

	// Gateway connection state
	h.registerShard()

	// Guild events (server join/leave)
	h.registerGuild()

	// Member events (join/leave audit)
	h.registerMember()

	// Message events (+clear, edit/delete audit)
	h.registerMessage()

	// Voice and channel events (temporary rooms)
	h.registerVoice()

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}

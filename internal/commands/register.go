// Package commands registers every slash command category of the bot.
// Each category lives in its own subpackage (admin, support, mod, utils, dev).
package commands

import (
	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/internal/commands/admin"
	"github.com/PancyStudios/PancyCommunity/internal/commands/dev"
	"github.com/PancyStudios/PancyCommunity/internal/commands/mod"
	"github.com/PancyStudios/PancyCommunity/internal/commands/support"
	"github.com/PancyStudios/PancyCommunity/internal/commands/utils"
	"github.com/PancyStudios/PancyCommunity/internal/settings"
	"github.com/PancyStudios/PancyCommunity/internal/tickets"
	"github.com/PancyStudios/PancyCommunity/internal/warns"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/store"
)

// Deps are the services shared by the command categories
type Deps struct {
	Settings *settings.Manager
	Warns    *warns.Service
	Tickets  *tickets.Service
	Audit    *auditlog.Logger
	Events   mod.EventPublisher
	Rooms    dev.Rooms
	// StoreCache is the store's read cache, nil for uncached backends
	StoreCache store.Cached
	Utils    utils.Deps
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	// /config tickets|logs|vocaux|show
	admin.RegisterAdminCommands(client, deps.Settings, deps.Audit)

	// /ticket, /setup-ticket and the ticket buttons
	support.RegisterSupportCommands(client, deps.Tickets)

	// /mod ban|kick|mute|warn|warns|removewarn|clearwarns
	mod.RegisterModCommands(client, mod.Deps{
		Warns:  deps.Warns,
		Audit:  deps.Audit,
		Events: deps.Events,
	})

	// /utils ping|status|help|stats|send|clear
	deps.Utils.Audit = deps.Audit
	utils.RegisterUtilsCommands(client, deps.Utils)

	// /dev reload|rooms|sweep, dev guild only
	devDeps := dev.Deps{Rooms: deps.Rooms, Cache: deps.StoreCache}
	if deps.Settings != nil {
		devDeps.Settings = deps.Settings
	}
	if deps.Warns != nil {
		devDeps.Warns = deps.Warns
	}
	dev.Register(client, devDeps)
}

// Package dev provides the /dev command group, published only in the dev guild
package dev

import (
	"context"

	"github.com/PancyStudios/PancyCommunity/internal/tempvoice"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/store"
)

// Loader reloads a service from the store
type Loader interface {
	Load(ctx context.Context) error
}

// Rooms exposes the temporary voice rooms to the dev commands
type Rooms interface {
	Rooms() []tempvoice.Room
	Sweep(ctx context.Context) int
}

// Deps are the services the dev commands act on
type Deps struct {
	Settings Loader
	Warns    Loader
	Rooms    Rooms
	// Cache is set when the store backend caches reads (mongo)
	Cache store.Cached
}

type dev struct {
	Deps
}

// Register registers /dev reload|rooms|sweep in the dev guild
func Register(client *discord.ExtendedClient, deps Deps) {
	d := &dev{Deps: deps}

	devGroup := client.CommandHandler.BuildCommandGroup(
		"dev",
		"Commandes de développement",
		d.reloadCommand(),
		d.roomsCommand(),
		d.sweepCommand(),
	)

	client.CommandHandler.AddDevCommand(devGroup)
}

// Package support provides the ticket commands and buttons
package support

import (
	"github.com/PancyStudios/PancyCommunity/internal/tickets"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
)

type support struct {
	tickets *tickets.Service
}

// RegisterSupportCommands registers /ticket, /setup-ticket and the ticket buttons
func RegisterSupportCommands(client *discord.ExtendedClient, svc *tickets.Service) {
	s := &support{tickets: svc}

	client.CommandHandler.RegisterCommand(s.ticketCommand())
	client.CommandHandler.RegisterCommand(s.setupCommand())

	client.Components.Handle(tickets.ButtonCreate, s.open)
	client.Components.Handle(tickets.ButtonClose, s.close)
}

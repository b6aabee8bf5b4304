package support

import (
	"context"
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyCommunity/internal/tickets"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

const (
	msgNotConfigured = "❌ Le système de tickets n'est pas encore configuré."
	msgNotTicket     = "❌ Ceci n'est pas un ticket."
)

func (s *support) ticketCommand() *discord.Command {
	return discord.NewCommand(
		"ticket",
		"Ouvrir un ticket de support",
		"support",
		s.open,
	)
}

// open creates a ticket for the invoker. Used by /ticket and the panel button.
func (s *support) open(ctx *discord.CommandContext) error {
	if ctx.GuildID() == "" {
		return ctx.ReplyEphemeral("❌ Les tickets ne sont disponibles que sur un serveur.")
	}

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	ch, err := s.tickets.Open(context.Background(), ctx.GuildID(), ctx.User())
	if errors.Is(err, tickets.ErrNotConfigured) {
		return ctx.EditReply(msgNotConfigured)
	}
	if err != nil {
		_ = ctx.EditReply("❌ Le ticket n'a pas pu être créé.")
		return err
	}
	return ctx.EditReply(fmt.Sprintf("✅ Ticket créé : <#%s>", ch.ID))
}

// close deletes the ticket the button was pressed in
func (s *support) close(ctx *discord.CommandContext) error {
	ch, err := interactionChannel(ctx)
	if err != nil {
		_ = ctx.ReplyEphemeral(msgNotTicket)
		return fmt.Errorf("resolve channel %s: %w", ctx.ChannelID(), err)
	}

	if !tickets.IsTicket(ch) {
		return ctx.ReplyEphemeral(msgNotTicket)
	}
	if err := ctx.ReplyEphemeral("🔒 Fermeture du ticket..."); err != nil {
		return err
	}

	// The channel and the reply are gone once this succeeds
	return s.tickets.Close(context.Background(), ctx.GuildID(), ch, ctx.User())
}

// interactionChannel returns the channel of the interaction from the state
// cache, fetching it when it is not cached
func interactionChannel(ctx *discord.CommandContext) (*discordgo.Channel, error) {
	if ch, err := ctx.Session.State.Channel(ctx.ChannelID()); err == nil {
		return ch, nil
	}
	return ctx.Session.Channel(ctx.ChannelID())
}

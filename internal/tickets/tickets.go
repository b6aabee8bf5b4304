// Package tickets opens and closes support tickets: private text channels shared
// by one member and the guild's support role.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// Component custom IDs
const (
	ButtonCreate = "ticket_create"
	ButtonClose  = "ticket_close"
)

// ChannelPrefix starts the name of every ticket channel
const ChannelPrefix = "ticket-"

var (
	// ErrNotConfigured is returned when the guild has no ticket category or support role
	ErrNotConfigured = errors.New("tickets not configured")
	// ErrNotTicket is returned when closing a channel that is not a ticket
	ErrNotTicket = errors.New("not a ticket channel")
)

const memberAccess = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionAttachFiles

// API is the subset of *discordgo.Session used by the service
type API interface {
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// SettingsResolver returns the ticket settings of a guild
type SettingsResolver interface {
	Tickets(guildID string) (models.TicketSettings, bool)
}

// Hooks are called after a ticket is opened or closed
type Hooks struct {
	Opened func(guildID string, ch *discordgo.Channel, owner *discordgo.User)
	Closed func(guildID string, ch *discordgo.Channel, closer *discordgo.User)
}

// Service opens and closes tickets
type Service struct {
	api      API
	settings SettingsResolver
	audit    *auditlog.Logger
	hooks    Hooks
}

// NewService creates a ticket service. audit may be nil.
func NewService(api API, settings SettingsResolver, audit *auditlog.Logger, hooks Hooks) *Service {
	return &Service{api: api, settings: settings, audit: audit, hooks: hooks}
}

// ChannelName returns the ticket channel name of username
func ChannelName(username string) string {
	name := strings.ToLower(strings.TrimSpace(username))
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		name = "membre"
	}
	return ChannelPrefix + name
}

// IsTicket reports whether ch is a ticket channel
func IsTicket(ch *discordgo.Channel) bool {
	return ch != nil && strings.HasPrefix(ch.Name, ChannelPrefix)
}

// Open creates the ticket channel of user under the configured category, visible
// only to the user and the support role, and posts the welcome message with a close button.
func (s *Service) Open(ctx context.Context, guildID string, user *discordgo.User) (*discordgo.Channel, error) {
	cfg, ok := s.settings.Tickets(guildID)
	if !ok {
		return nil, ErrNotConfigured
	}

	ch, err := s.api.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     ChannelName(user.Username),
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: cfg.CategoryID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			// @everyone shares the guild ID
			{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
			{ID: user.ID, Type: discordgo.PermissionOverwriteTypeMember, Allow: memberAccess},
			{ID: cfg.SupportRoleID, Type: discordgo.PermissionOverwriteTypeRole, Allow: memberAccess},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("create ticket channel: %w", err)
	}

	if _, err := s.api.ChannelMessageSendComplex(ch.ID, WelcomeMessage(user.ID), discordgo.WithContext(ctx)); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el mensaje de bienvenida en %s: %v", ch.ID, err), "Tickets")
	}

	s.audit.Send(guildID, auditlog.Entry{
		Title:       "🎛️ Création de ticket",
		Description: fmt.Sprintf("Ticket **%s** créé par <@%s>", ch.Name, user.ID),
		Color:       auditlog.ColorSuccess,
	})
	if s.hooks.Opened != nil {
		s.hooks.Opened(guildID, ch, user)
	}

	logger.Info(fmt.Sprintf("Ticket %s abierto en %s", ch.Name, guildID), "Tickets")
	return ch, nil
}

// Close deletes the ticket channel ch. The audit entry is sent first so it
// survives even when the delete fails.
func (s *Service) Close(ctx context.Context, guildID string, ch *discordgo.Channel, closer *discordgo.User) error {
	if !IsTicket(ch) {
		return ErrNotTicket
	}

	s.audit.Send(guildID, auditlog.Entry{
		Title:       "🎟️ Fermeture de ticket",
		Description: fmt.Sprintf("Ticket **%s** fermé par <@%s>", ch.Name, closer.ID),
		Color:       auditlog.ColorDanger,
	})

	if _, err := s.api.ChannelDelete(ch.ID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("delete ticket channel: %w", err)
	}
	if s.hooks.Closed != nil {
		s.hooks.Closed(guildID, ch, closer)
	}

	logger.Info(fmt.Sprintf("Ticket %s cerrado en %s", ch.Name, guildID), "Tickets")
	return nil
}

// WelcomeMessage is posted in a new ticket, with the close button
func WelcomeMessage(userID string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title: "🎛️ Ticket de Support",
			Description: fmt.Sprintf("Bonjour <@%s>, un membre de notre équipe va bientôt vous aider.\n\n"+
				"Utilisez le bouton ci-dessous pour **fermer** votre ticket lorsque votre problème est résolu.", userID),
			Color:  0x5865F2,
			Footer: &discordgo.MessageEmbedFooter{Text: "Système de tickets"},
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Fermer le ticket", Style: discordgo.DangerButton, CustomID: ButtonClose},
			}},
		},
	}
}

// PanelMessage is the public panel with the create button, posted by /setup-ticket
func PanelMessage(text string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "🎟️ Support Tickets",
			Description: text,
			Color:       0x2ECC71,
			Footer:      &discordgo.MessageEmbedFooter{Text: "Cliquez sur le bouton pour ouvrir un ticket."},
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Créer un Ticket 🎟️", Style: discordgo.PrimaryButton, CustomID: ButtonCreate},
			}},
		},
	}
}

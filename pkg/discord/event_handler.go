// Package discord provides the event handler for managing Discord events.
package discord

import (
	"fmt"
	"sort"
	"sync"

	"github.com/PancyStudios/PancyCommunity/pkg/errors"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// EventKind names a gateway event in the dispatch table
type EventKind string

const (
	EventReady             EventKind = "READY"
	EventResumed           EventKind = "RESUMED"
	EventDisconnect        EventKind = "DISCONNECT"
	EventGuildCreate       EventKind = "GUILD_CREATE"
	EventGuildDelete       EventKind = "GUILD_DELETE"
	EventChannelDelete     EventKind = "CHANNEL_DELETE"
	EventMessageCreate     EventKind = "MESSAGE_CREATE"
	EventMessageUpdate     EventKind = "MESSAGE_UPDATE"
	EventMessageDelete     EventKind = "MESSAGE_DELETE"
	EventGuildMemberAdd    EventKind = "GUILD_MEMBER_ADD"
	EventGuildMemberRemove EventKind = "GUILD_MEMBER_REMOVE"
	EventVoiceStateUpdate  EventKind = "VOICE_STATE_UPDATE"
	EventInteractionCreate EventKind = "INTERACTION_CREATE"
)

// eventFunc is a type-erased handler stored in the table
type eventFunc func(s *discordgo.Session, e interface{})

// EventHandler is the dispatch table mapping event kinds to handlers.
// Handlers are collected first, then LoadEvents binds one discordgo handler per kind.
type EventHandler struct {
	client *ExtendedClient
	table  map[EventKind][]eventFunc
	bound  map[EventKind]bool
	loaded bool
	mu     sync.RWMutex
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{
		client: client,
		table:  make(map[EventKind][]eventFunc),
		bound:  make(map[EventKind]bool),
	}
}

func (eh *EventHandler) add(kind EventKind, fn eventFunc) {
	eh.mu.Lock()
	eh.table[kind] = append(eh.table[kind], fn)
	bound := eh.bound[kind]
	eh.mu.Unlock()

	if !bound && eh.isLoaded() {
		eh.bind(kind)
	}
	logger.Debug(fmt.Sprintf("Evento '%s' registrado", kind), "EventHandler")
}

func (eh *EventHandler) isLoaded() bool {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	return eh.loaded
}

// Kinds returns the kinds with at least one handler, sorted
func (eh *EventHandler) Kinds() []EventKind {
	eh.mu.RLock()
	defer eh.mu.RUnlock()

	kinds := make([]EventKind, 0, len(eh.table))
	for k := range eh.table {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Dispatch runs every handler of kind in registration order. A panicking handler
// is recovered without stopping the others.
func (eh *EventHandler) Dispatch(s *discordgo.Session, kind EventKind, e interface{}) {
	eh.mu.RLock()
	handlers := append([]eventFunc(nil), eh.table[kind]...)
	eh.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer errors.RecoverMiddleware()()
			h(s, e)
		}()
	}
}

// LoadEvents binds the table to the session, one discordgo handler per kind
func (eh *EventHandler) LoadEvents() error {
	logger.System("Iniciando carga de eventos...", "EventHandler")

	eh.mu.Lock()
	eh.loaded = true
	eh.mu.Unlock()

	kinds := eh.Kinds()
	for _, kind := range kinds {
		eh.bind(kind)
	}

	logger.System(fmt.Sprintf("Carga finalizada. %d tipos de evento enlazados.", len(kinds)), "EventHandler")
	return nil
}

func (eh *EventHandler) bind(kind EventKind) {
	eh.mu.Lock()
	if eh.bound[kind] {
		eh.mu.Unlock()
		return
	}
	eh.bound[kind] = true
	eh.mu.Unlock()

	var h interface{}
	switch kind {
	case EventReady:
		h = func(s *discordgo.Session, e *discordgo.Ready) { eh.Dispatch(s, kind, e) }
	case EventResumed:
		h = func(s *discordgo.Session, e *discordgo.Resumed) { eh.Dispatch(s, kind, e) }
	case EventDisconnect:
		h = func(s *discordgo.Session, e *discordgo.Disconnect) { eh.Dispatch(s, kind, e) }
	case EventGuildCreate:
		h = func(s *discordgo.Session, e *discordgo.GuildCreate) { eh.Dispatch(s, kind, e) }
	case EventGuildDelete:
		h = func(s *discordgo.Session, e *discordgo.GuildDelete) { eh.Dispatch(s, kind, e) }
	case EventChannelDelete:
		h = func(s *discordgo.Session, e *discordgo.ChannelDelete) { eh.Dispatch(s, kind, e) }
	case EventMessageCreate:
		h = func(s *discordgo.Session, e *discordgo.MessageCreate) { eh.Dispatch(s, kind, e) }
	case EventMessageUpdate:
		h = func(s *discordgo.Session, e *discordgo.MessageUpdate) { eh.Dispatch(s, kind, e) }
	case EventMessageDelete:
		h = func(s *discordgo.Session, e *discordgo.MessageDelete) { eh.Dispatch(s, kind, e) }
	case EventGuildMemberAdd:
		h = func(s *discordgo.Session, e *discordgo.GuildMemberAdd) { eh.Dispatch(s, kind, e) }
	case EventGuildMemberRemove:
		h = func(s *discordgo.Session, e *discordgo.GuildMemberRemove) { eh.Dispatch(s, kind, e) }
	case EventVoiceStateUpdate:
		h = func(s *discordgo.Session, e *discordgo.VoiceStateUpdate) { eh.Dispatch(s, kind, e) }
	case EventInteractionCreate:
		h = func(s *discordgo.Session, e *discordgo.InteractionCreate) { eh.Dispatch(s, kind, e) }
	default:
		logger.Warn(fmt.Sprintf("Tipo de evento desconocido: %s", kind), "EventHandler")
		return
	}

	if eh.client != nil && eh.client.Session != nil {
		eh.client.Session.AddHandler(h)
	}
}

// Event handler types for common Discord events

// ReadyHandler is called when the bot is ready
type ReadyHandler func(s *discordgo.Session, r *discordgo.Ready)

// ResumedHandler is called when the gateway session resumes
type ResumedHandler func(s *discordgo.Session, r *discordgo.Resumed)

// DisconnectHandler is called when the gateway connection drops
type DisconnectHandler func(s *discordgo.Session, d *discordgo.Disconnect)

// GuildCreateHandler is called when the bot joins a guild
type GuildCreateHandler func(s *discordgo.Session, g *discordgo.GuildCreate)

// GuildDeleteHandler is called when the bot leaves a guild
type GuildDeleteHandler func(s *discordgo.Session, g *discordgo.GuildDelete)

// ChannelDeleteHandler is called when a channel is deleted
type ChannelDeleteHandler func(s *discordgo.Session, c *discordgo.ChannelDelete)

// MessageCreateHandler is called when a message is created
type MessageCreateHandler func(s *discordgo.Session, m *discordgo.MessageCreate)

// MessageUpdateHandler is called when a message is updated
type MessageUpdateHandler func(s *discordgo.Session, m *discordgo.MessageUpdate)

// MessageDeleteHandler is called when a message is deleted
type MessageDeleteHandler func(s *discordgo.Session, m *discordgo.MessageDelete)

// GuildMemberAddHandler is called when a member joins a guild
type GuildMemberAddHandler func(s *discordgo.Session, m *discordgo.GuildMemberAdd)

// GuildMemberRemoveHandler is called when a member leaves a guild
type GuildMemberRemoveHandler func(s *discordgo.Session, m *discordgo.GuildMemberRemove)

// VoiceStateUpdateHandler is called when a voice state is updated
type VoiceStateUpdateHandler func(s *discordgo.Session, v *discordgo.VoiceStateUpdate)

// InteractionCreateHandler is called when an interaction is created
type InteractionCreateHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

// OnReady registers a ready event handler
func (eh *EventHandler) OnReady(handler ReadyHandler) {
	eh.add(EventReady, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.Ready)) })
}

// OnResumed registers a resumed event handler
func (eh *EventHandler) OnResumed(handler ResumedHandler) {
	eh.add(EventResumed, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.Resumed)) })
}

// OnDisconnect registers a disconnect event handler
func (eh *EventHandler) OnDisconnect(handler DisconnectHandler) {
	eh.add(EventDisconnect, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.Disconnect)) })
}

// OnGuildCreate registers a guild create event handler
func (eh *EventHandler) OnGuildCreate(handler GuildCreateHandler) {
	eh.add(EventGuildCreate, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.GuildCreate)) })
}

// OnGuildDelete registers a guild delete event handler
func (eh *EventHandler) OnGuildDelete(handler GuildDeleteHandler) {
	eh.add(EventGuildDelete, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.GuildDelete)) })
}

// OnChannelDelete registers a channel delete event handler
func (eh *EventHandler) OnChannelDelete(handler ChannelDeleteHandler) {
	eh.add(EventChannelDelete, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.ChannelDelete)) })
}

// OnMessageCreate registers a message create event handler
func (eh *EventHandler) OnMessageCreate(handler MessageCreateHandler) {
	eh.add(EventMessageCreate, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.MessageCreate)) })
}

// OnMessageUpdate registers a message update event handler
func (eh *EventHandler) OnMessageUpdate(handler MessageUpdateHandler) {
	eh.add(EventMessageUpdate, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.MessageUpdate)) })
}

// OnMessageDelete registers a message delete event handler
func (eh *EventHandler) OnMessageDelete(handler MessageDeleteHandler) {
	eh.add(EventMessageDelete, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.MessageDelete)) })
}

// OnGuildMemberAdd registers a guild member add event handler
func (eh *EventHandler) OnGuildMemberAdd(handler GuildMemberAddHandler) {
	eh.add(EventGuildMemberAdd, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.GuildMemberAdd)) })
}

// OnGuildMemberRemove registers a guild member remove event handler
func (eh *EventHandler) OnGuildMemberRemove(handler GuildMemberRemoveHandler) {
	eh.add(EventGuildMemberRemove, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.GuildMemberRemove)) })
}

// OnVoiceStateUpdate registers a voice state update event handler
func (eh *EventHandler) OnVoiceStateUpdate(handler VoiceStateUpdateHandler) {
	eh.add(EventVoiceStateUpdate, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.VoiceStateUpdate)) })
}

// OnInteractionCreate registers an interaction create event handler
func (eh *EventHandler) OnInteractionCreate(handler InteractionCreateHandler) {
	eh.add(EventInteractionCreate, func(s *discordgo.Session, e interface{}) { handler(s, e.(*discordgo.InteractionCreate)) })
}

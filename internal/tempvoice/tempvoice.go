// Package tempvoice manages temporary voice rooms. Joining a guild's hub channel
// creates a room named after the member and moves them into it; the room is
// deleted once it is empty.
//
// A room goes Active on creation and PendingDelete when its deletion starts.
// Deletion is triggered by the last member leaving, by the watchdog timer finding
// the room empty, or by the periodic sweep.
package tempvoice

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
)

// State of a room
type State int

const (
	Idle State = iota
	Active
	PendingDelete
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case PendingDelete:
		return "pending_delete"
	default:
		return "unknown"
	}
}

// Deletion reasons
const (
	ReasonEmpty     = "empty"
	ReasonTimeout   = "timeout"
	ReasonSweep     = "sweep"
	ReasonAbandoned = "abandoned"
	ReasonExternal  = "external"
)

const deleteTimeout = 10 * time.Second

// API is the subset of *discordgo.Session used by the manager
type API interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMemberMove(guildID string, userID string, channelID *string, options ...discordgo.RequestOption) error
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// HubResolver returns the hub channel of a guild
type HubResolver interface {
	HubChannel(guildID string) (string, bool)
}

// Occupancy returns how many members are connected to a channel.
// known is false when the guild is not cached; such rooms are never deleted.
type Occupancy func(guildID, channelID string) (count int, known bool)

// VoiceEvent is a member's voice channel change. Empty IDs mean disconnected.
type VoiceEvent struct {
	GuildID         string
	UserID          string
	DisplayName     string
	BeforeChannelID string
	AfterChannelID  string
}

// Room is a temporary voice channel
type Room struct {
	GuildID   string    `json:"guild_id"`
	OwnerID   string    `json:"owner_id"`
	HubID     string    `json:"hub_id"`
	ChannelID string    `json:"channel_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	State     State     `json:"-"`
}

// Hooks observe the room lifecycle
type Hooks struct {
	Created func(r Room)
	Deleted func(r Room, reason string)
}

// Options configure the manager
type Options struct {
	// NameFormat receives the member display name, "Salon de %s" when empty
	NameFormat string
	// UserLimit of each room, 0 means unlimited
	UserLimit int
	// Timeout re-checks a room this long after its last voice activity
	Timeout time.Duration
	// SweepGrace is the minimum age of a room deleted by Sweep
	SweepGrace time.Duration
}

type stopper interface {
	Stop() bool
}

type room struct {
	Room
	timer stopper
	gen   uint64
}

// Manager owns the room table
type Manager struct {
	api       API
	hubs      HubResolver
	occupancy Occupancy
	opts      Options
	hooks     Hooks

	rooms    map[string]*room
	creating map[string]bool
	closed   bool
	mu       sync.Mutex

	cron *cron.Cron

	afterFunc func(d time.Duration, f func()) stopper
	now       func() time.Time
}

// NewManager creates a manager
func NewManager(api API, hubs HubResolver, occupancy Occupancy, opts Options, hooks Hooks) *Manager {
	if opts.NameFormat == "" {
		opts.NameFormat = "Salon de %s"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 300 * time.Second
	}
	if opts.SweepGrace <= 0 {
		opts.SweepGrace = time.Minute
	}
	return &Manager{
		api:       api,
		hubs:      hubs,
		occupancy: occupancy,
		opts:      opts,
		hooks:     hooks,
		rooms:     make(map[string]*room),
		creating:  make(map[string]bool),
		afterFunc: func(d time.Duration, f func()) stopper { return time.AfterFunc(d, f) },
		now:       time.Now,
	}
}

// HandleVoiceStateUpdate applies one voice change: the room left is evaluated,
// the room joined has its watchdog re-armed, and joining the hub creates a room.
func (m *Manager) HandleVoiceStateUpdate(ctx context.Context, ev VoiceEvent) error {
	if ev.BeforeChannelID == ev.AfterChannelID {
		return nil
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	_, leftRoom := m.rooms[ev.BeforeChannelID]
	joined, joinedRoom := m.rooms[ev.AfterChannelID]
	if joinedRoom {
		m.armLocked(joined)
	}
	m.mu.Unlock()

	if leftRoom {
		m.evaluate(ctx, ev.BeforeChannelID, ReasonEmpty)
	}

	if ev.AfterChannelID == "" {
		return nil
	}
	hub, ok := m.hubs.HubChannel(ev.GuildID)
	if !ok || ev.AfterChannelID != hub {
		return nil
	}
	return m.create(ctx, ev, hub)
}

// evaluate deletes the room when it is empty, otherwise re-arms its watchdog
func (m *Manager) evaluate(ctx context.Context, channelID, reason string) {
	m.mu.Lock()
	r, ok := m.rooms[channelID]
	if !ok || r.State != Active {
		m.mu.Unlock()
		return
	}
	guildID := r.GuildID
	m.mu.Unlock()

	count, known := m.occupancy(guildID, channelID)
	if known && count == 0 {
		m.delete(ctx, channelID, reason)
		return
	}

	m.mu.Lock()
	if r, ok := m.rooms[channelID]; ok && r.State == Active {
		m.armLocked(r)
	}
	m.mu.Unlock()
}

// armLocked replaces the watchdog of r. Called with mu held.
func (m *Manager) armLocked(r *room) {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.gen++
	gen, channelID := r.gen, r.ChannelID
	r.timer = m.afterFunc(m.opts.Timeout, func() { m.watchdog(channelID, gen) })
}

// watchdog runs when a room saw no activity for Timeout
func (m *Manager) watchdog(channelID string, gen uint64) {
	m.mu.Lock()
	r, ok := m.rooms[channelID]
	stale := !ok || r.gen != gen || m.closed
	m.mu.Unlock()
	if stale {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()
	m.evaluate(ctx, channelID, ReasonTimeout)
}

// create provisions a room for the member who joined hub and moves them into it.
// A member who already owns a room is moved back into it instead.
func (m *Manager) create(ctx context.Context, ev VoiceEvent, hub string) error {
	key := ev.GuildID + ":" + ev.UserID

	m.mu.Lock()
	if m.creating[key] {
		m.mu.Unlock()
		return nil
	}
	if existing := m.ownedLocked(ev.GuildID, ev.UserID); existing != "" {
		m.mu.Unlock()
		if err := m.api.GuildMemberMove(ev.GuildID, ev.UserID, &existing, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("move member to existing room: %w", err)
		}
		return nil
	}
	m.creating[key] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.creating, key)
		m.mu.Unlock()
	}()

	var parentID string
	if hubChannel, err := m.api.Channel(hub, discordgo.WithContext(ctx)); err == nil {
		parentID = hubChannel.ParentID
	} else {
		logger.Warn(fmt.Sprintf("No se pudo leer el canal hub %s: %v", hub, err), "TempVoice")
	}

	name := roomName(m.opts.NameFormat, ev.DisplayName)
	ch, err := m.api.GuildChannelCreateComplex(ev.GuildID, discordgo.GuildChannelCreateData{
		Name:      name,
		Type:      discordgo.ChannelTypeGuildVoice,
		ParentID:  parentID,
		UserLimit: m.opts.UserLimit,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("create room: %w", err)
	}

	r := &room{Room: Room{
		GuildID:   ev.GuildID,
		OwnerID:   ev.UserID,
		HubID:     hub,
		ChannelID: ch.ID,
		Name:      ch.Name,
		CreatedAt: m.now(),
		State:     Active,
	}}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		if _, err := m.api.ChannelDelete(ch.ID, discordgo.WithContext(ctx)); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo eliminar la sala %s creada durante el cierre: %v", ch.ID, err), "TempVoice")
		}
		return nil
	}
	m.rooms[ch.ID] = r
	m.armLocked(r)
	snapshot := r.Room
	m.mu.Unlock()

	logger.Info(fmt.Sprintf("Sala temporal %s creada para %s", ch.Name, ev.UserID), "TempVoice")
	if m.hooks.Created != nil {
		m.hooks.Created(snapshot)
	}

	if err := m.api.GuildMemberMove(ev.GuildID, ev.UserID, &ch.ID, discordgo.WithContext(ctx)); err != nil {
		m.delete(ctx, ch.ID, ReasonAbandoned)
		return fmt.Errorf("move member into room: %w", err)
	}
	return nil
}

func (m *Manager) ownedLocked(guildID, userID string) string {
	for id, r := range m.rooms {
		if r.GuildID == guildID && r.OwnerID == userID && r.State == Active {
			return id
		}
	}
	return ""
}

// roomName formats the room name, within the 100 characters Discord accepts
func roomName(format, displayName string) string {
	name := []rune(fmt.Sprintf(format, displayName))
	if len(name) > 100 {
		name = name[:100]
	}
	return string(name)
}

// delete moves the room to PendingDelete, forgets it and deletes its channel.
// Only the first caller for a room performs the deletion.
func (m *Manager) delete(ctx context.Context, channelID, reason string) {
	m.mu.Lock()
	r, ok := m.rooms[channelID]
	if !ok || r.State != Active {
		m.mu.Unlock()
		return
	}
	r.State = PendingDelete
	if r.timer != nil {
		r.timer.Stop()
	}
	delete(m.rooms, channelID)
	snapshot := r.Room
	m.mu.Unlock()

	m.deleteChannel(ctx, snapshot, reason)
}

func (m *Manager) deleteChannel(ctx context.Context, r Room, reason string) {
	if _, err := m.api.ChannelDelete(r.ChannelID, discordgo.WithContext(ctx)); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo eliminar la sala %s (%s): %v", r.ChannelID, reason, err), "TempVoice")
	} else {
		logger.Info(fmt.Sprintf("Sala temporal %s eliminada (%s)", r.Name, reason), "TempVoice")
	}
	if m.hooks.Deleted != nil {
		m.hooks.Deleted(r, reason)
	}
}

// HandleChannelDelete forgets a room whose channel was deleted by someone else
func (m *Manager) HandleChannelDelete(channelID string) {
	m.mu.Lock()
	r, ok := m.rooms[channelID]
	if !ok || r.State != Active {
		m.mu.Unlock()
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	delete(m.rooms, channelID)
	snapshot := r.Room
	m.mu.Unlock()

	logger.Debug(fmt.Sprintf("Sala temporal %s eliminada externamente", snapshot.Name), "TempVoice")
	if m.hooks.Deleted != nil {
		m.hooks.Deleted(snapshot, ReasonExternal)
	}
}

// Sweep deletes empty rooms older than SweepGrace and returns how many it deleted.
// It catches rooms whose leave event was missed.
func (m *Manager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.opts.SweepGrace)

	m.mu.Lock()
	var candidates []Room
	for _, r := range m.rooms {
		if r.State == Active && !r.CreatedAt.After(cutoff) {
			candidates = append(candidates, r.Room)
		}
	}
	m.mu.Unlock()

	deleted := 0
	for _, r := range candidates {
		if count, known := m.occupancy(r.GuildID, r.ChannelID); known && count == 0 {
			m.delete(ctx, r.ChannelID, ReasonSweep)
			deleted++
		}
	}
	if deleted > 0 {
		logger.Info(fmt.Sprintf("Barrido: %d salas vacías eliminadas", deleted), "TempVoice")
	}
	return deleted
}

// StartSweeper runs Sweep on the cron spec (e.g. "@every 1m")
func (m *Manager) StartSweeper(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		m.Sweep(ctx)
	}); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	m.mu.Lock()
	if m.cron != nil {
		m.cron.Stop()
	}
	m.cron = c
	m.mu.Unlock()

	c.Start()
	logger.System("Barrido de salas temporales programado: "+spec, "TempVoice")
	return nil
}

// Rooms returns the active rooms, oldest first
func (m *Manager) Rooms() []Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		out = append(out, r.Room)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ChannelID < out[j].ChannelID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Lookup returns the room of channelID
func (m *Manager) Lookup(channelID string) (Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[channelID]
	if !ok {
		return Room{}, false
	}
	return r.Room, true
}

// Close stops the sweeper and every watchdog. Rooms are left in place.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.cron != nil {
		m.cron.Stop()
		m.cron = nil
	}
	for _, r := range m.rooms {
		if r.timer != nil {
			r.timer.Stop()
		}
	}
}

// StateOccupancy counts members from the session state cache
func StateOccupancy(state *discordgo.State) Occupancy {
	return func(guildID, channelID string) (int, bool) {
		g, err := state.Guild(guildID)
		if err != nil {
			return 0, false
		}

		state.RLock()
		defer state.RUnlock()
		n := 0
		for _, vs := range g.VoiceStates {
			if vs.ChannelID == channelID {
				n++
			}
		}
		return n, true
	}
}

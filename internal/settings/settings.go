// Package settings holds the per-guild configuration (tickets, audit logs, voice hub)
// and persists it through a store.Store under the "tickets", "logs" and "vocaux" names.
package settings

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/PancyStudios/PancyCommunity/pkg/store"
)

// Manager is the in-memory view of every guild's settings.
// Reads never touch the store; each setter persists the whole map it changed.
type Manager struct {
	store      store.Store
	defaultHub string

	tickets map[string]models.TicketSettings
	logs    map[string]models.LogSettings
	voice   map[string]models.VoiceSettings
	mu      sync.RWMutex

	// saveMu serializes persistence so an older snapshot never overwrites a newer one
	saveMu sync.Mutex
}

// NewManager creates an empty manager. defaultHub is used for guilds without a
// configured voice hub; empty disables the fallback.
func NewManager(s store.Store, defaultHub string) *Manager {
	return &Manager{
		store:      s,
		defaultHub: defaultHub,
		tickets:    make(map[string]models.TicketSettings),
		logs:       make(map[string]models.LogSettings),
		voice:      make(map[string]models.VoiceSettings),
	}
}

// Load reads the three settings maps from the store
func (m *Manager) Load(ctx context.Context) error {
	tickets := make(map[string]models.TicketSettings)
	logs := make(map[string]models.LogSettings)
	voice := make(map[string]models.VoiceSettings)

	if err := m.store.Load(ctx, store.NameTickets, &tickets); err != nil {
		return fmt.Errorf("load tickets settings: %w", err)
	}
	if err := m.store.Load(ctx, store.NameLogs, &logs); err != nil {
		return fmt.Errorf("load logs settings: %w", err)
	}
	if err := m.store.Load(ctx, store.NameVoice, &voice); err != nil {
		return fmt.Errorf("load voice settings: %w", err)
	}

	// a stored null decodes to a nil map
	if tickets == nil {
		tickets = make(map[string]models.TicketSettings)
	}
	if logs == nil {
		logs = make(map[string]models.LogSettings)
	}
	if voice == nil {
		voice = make(map[string]models.VoiceSettings)
	}

	m.mu.Lock()
	m.tickets, m.logs, m.voice = tickets, logs, voice
	m.mu.Unlock()

	logger.Info(fmt.Sprintf("Configuración cargada: %d tickets, %d logs, %d vocaux", len(tickets), len(logs), len(voice)), "Settings")
	return nil
}

// Tickets returns the ticket settings of guildID
func (m *Manager) Tickets(guildID string) (models.TicketSettings, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tickets[guildID]
	return t, ok && t.CategoryID != "" && t.SupportRoleID != ""
}

// SetTickets stores the ticket category and support role of guildID
func (m *Manager) SetTickets(ctx context.Context, guildID string, t models.TicketSettings) error {
	return m.update(ctx, store.NameTickets, func() any {
		m.tickets[guildID] = t
		return copyMap(m.tickets)
	})
}

// LogChannel returns the audit log channel of guildID
func (m *Manager) LogChannel(guildID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.logs[guildID]
	return l.LogsChannelID, ok && l.LogsChannelID != ""
}

// SetLogChannel stores the audit log channel of guildID
func (m *Manager) SetLogChannel(ctx context.Context, guildID, channelID string) error {
	return m.update(ctx, store.NameLogs, func() any {
		m.logs[guildID] = models.LogSettings{LogsChannelID: channelID}
		return copyMap(m.logs)
	})
}

// HubChannel returns the voice hub of guildID, falling back to the default hub
func (m *Manager) HubChannel(guildID string) (string, bool) {
	m.mu.RLock()
	v, ok := m.voice[guildID]
	m.mu.RUnlock()
	if ok && v.HubChannelID != "" {
		return v.HubChannelID, true
	}
	return m.defaultHub, m.defaultHub != ""
}

// SetHubChannel stores the voice hub of guildID
func (m *Manager) SetHubChannel(ctx context.Context, guildID, channelID string) error {
	return m.update(ctx, store.NameVoice, func() any {
		m.voice[guildID] = models.VoiceSettings{HubChannelID: channelID}
		return copyMap(m.voice)
	})
}

// update applies mutate under the write lock and saves the snapshot it returns.
// The in-memory change is kept even when the save fails.
func (m *Manager) update(ctx context.Context, name string, mutate func() any) error {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.Lock()
	snapshot := mutate()
	m.mu.Unlock()

	if err := m.store.Save(ctx, name, snapshot); err != nil {
		return fmt.Errorf("save %s settings: %w", name, err)
	}
	return nil
}

// Guild returns every setting of guildID, false when nothing is configured
func (m *Manager) Guild(guildID string) (models.GuildSettings, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.guildLocked(guildID)
}

func (m *Manager) guildLocked(guildID string) (models.GuildSettings, bool) {
	gs := models.GuildSettings{GuildID: guildID}
	if t, ok := m.tickets[guildID]; ok {
		gs.Tickets = &t
	}
	if l, ok := m.logs[guildID]; ok {
		gs.Logs = &l
	}
	if v, ok := m.voice[guildID]; ok {
		gs.Voice = &v
	}
	return gs, gs.Tickets != nil || gs.Logs != nil || gs.Voice != nil
}

// Snapshot returns the settings of every configured guild, sorted by guild ID
func (m *Manager) Snapshot() []models.GuildSettings {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make(map[string]struct{})
	for id := range m.tickets {
		ids[id] = struct{}{}
	}
	for id := range m.logs {
		ids[id] = struct{}{}
	}
	for id := range m.voice {
		ids[id] = struct{}{}
	}

	out := make([]models.GuildSettings, 0, len(ids))
	for id := range ids {
		gs, _ := m.guildLocked(id)
		out = append(out, gs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

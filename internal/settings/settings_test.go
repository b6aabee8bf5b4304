package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/PancyStudios/PancyCommunity/pkg/store"
	"github.com/google/go-cmp/cmp"
)

func newFileManager(t *testing.T, dir string) *Manager {
	t.Helper()
	fs, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return NewManager(fs, "")
}

func TestSettingsPersistAcrossManagers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	m := newFileManager(t, dir)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := m.SetTickets(ctx, "g1", models.TicketSettings{CategoryID: "cat", SupportRoleID: "role"}); err != nil {
		t.Fatalf("SetTickets() error = %v", err)
	}
	if err := m.SetLogChannel(ctx, "g1", "logs"); err != nil {
		t.Fatalf("SetLogChannel() error = %v", err)
	}
	if err := m.SetHubChannel(ctx, "g2", "hub"); err != nil {
		t.Fatalf("SetHubChannel() error = %v", err)
	}

	reloaded := newFileManager(t, dir)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got, ok := reloaded.Tickets("g1"); !ok || got.CategoryID != "cat" || got.SupportRoleID != "role" {
		t.Errorf("Tickets(g1) = %+v, %v", got, ok)
	}
	if got, ok := reloaded.LogChannel("g1"); !ok || got != "logs" {
		t.Errorf("LogChannel(g1) = %q, %v, want logs, true", got, ok)
	}
	if got, ok := reloaded.HubChannel("g2"); !ok || got != "hub" {
		t.Errorf("HubChannel(g2) = %q, %v, want hub, true", got, ok)
	}

	want := []models.GuildSettings{
		{
			GuildID: "g1",
			Tickets: &models.TicketSettings{CategoryID: "cat", SupportRoleID: "role"},
			Logs:    &models.LogSettings{LogsChannelID: "logs"},
		},
		{GuildID: "g2", Voice: &models.VoiceSettings{HubChannelID: "hub"}},
	}
	if diff := cmp.Diff(want, reloaded.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnconfiguredGuild(t *testing.T) {
	m := NewManager(&memStore{}, "")

	if _, ok := m.Tickets("g"); ok {
		t.Error("Tickets() ok for an unconfigured guild")
	}
	if _, ok := m.LogChannel("g"); ok {
		t.Error("LogChannel() ok for an unconfigured guild")
	}
	if _, ok := m.HubChannel("g"); ok {
		t.Error("HubChannel() ok without a default hub")
	}
	if _, ok := m.Guild("g"); ok {
		t.Error("Guild() ok for an unconfigured guild")
	}
}

func TestHubChannelFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&memStore{}, "default-hub")

	if got, ok := m.HubChannel("g"); !ok || got != "default-hub" {
		t.Errorf("HubChannel() = %q, %v, want default-hub, true", got, ok)
	}
	if err := m.SetHubChannel(ctx, "g", "own-hub"); err != nil {
		t.Fatalf("SetHubChannel() error = %v", err)
	}
	if got, _ := m.HubChannel("g"); got != "own-hub" {
		t.Errorf("HubChannel() = %q, want own-hub", got)
	}
}

func TestPartialTicketSettingsAreNotConfigured(t *testing.T) {
	m := NewManager(&memStore{}, "")
	if err := m.SetTickets(context.Background(), "g", models.TicketSettings{CategoryID: "cat"}); err != nil {
		t.Fatalf("SetTickets() error = %v", err)
	}
	if _, ok := m.Tickets("g"); ok {
		t.Error("Tickets() ok without a support role")
	}
}

func TestSaveErrorKeepsMemory(t *testing.T) {
	failure := errors.New("disk full")
	m := NewManager(&memStore{saveErr: failure}, "")

	err := m.SetLogChannel(context.Background(), "g", "c")
	if !errors.Is(err, failure) {
		t.Fatalf("SetLogChannel() error = %v, want %v", err, failure)
	}
	if got := err.Error(); got != "save logs settings: disk full" {
		t.Errorf("SetLogChannel() error = %q, want %q", got, "save logs settings: disk full")
	}
	if got, ok := m.LogChannel("g"); !ok || got != "c" {
		t.Errorf("LogChannel() = %q, %v, want c, true", got, ok)
	}
}

// memStore keeps the last saved value per name, without encoding
type memStore struct {
	saved   map[string]any
	saveErr error
}

func (s *memStore) Load(ctx context.Context, name string, v any) error { return nil }

func (s *memStore) Save(ctx context.Context, name string, v any) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.saved == nil {
		s.saved = make(map[string]any)
	}
	s.saved[name] = v
	return nil
}

func TestLoadNull(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{store.NameTickets, store.NameLogs, store.NameVoice} {
		if err := os.WriteFile(filepath.Join(dir, store.FileName(name)), []byte("null"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m := newFileManager(t, dir)
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := m.SetTickets(ctx, "g", models.TicketSettings{CategoryID: "cat", SupportRoleID: "role"}); err != nil {
		t.Fatalf("SetTickets() error = %v", err)
	}
	if err := m.SetLogChannel(ctx, "g", "logs"); err != nil {
		t.Fatalf("SetLogChannel() error = %v", err)
	}
	if err := m.SetHubChannel(ctx, "g", "hub"); err != nil {
		t.Fatalf("SetHubChannel() error = %v", err)
	}
	if got, ok := m.HubChannel("g"); !ok || got != "hub" {
		t.Errorf("HubChannel() = %q, %v, want hub, true", got, ok)
	}
}

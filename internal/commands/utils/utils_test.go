package utils

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
)

type fakeMessages struct {
	msgs       []*discordgo.Message
	limit      int
	beforeID   string
	bulk       []string
	single     string
	fetchErr   error
	deleteErr  error
	bulkCalled bool
}

func (f *fakeMessages) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.limit = limit
	f.beforeID = beforeID
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if limit < len(f.msgs) {
		return f.msgs[:limit], nil
	}
	return f.msgs, nil
}

func (f *fakeMessages) ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error {
	f.bulkCalled = true
	f.bulk = messages
	return f.deleteErr
}

func (f *fakeMessages) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	f.single = messageID
	return f.deleteErr
}

func msg(id string, age time.Duration) *discordgo.Message {
	return &discordgo.Message{ID: id, Timestamp: time.Now().Add(-age)}
}

func TestPurgeSkipsOldMessages(t *testing.T) {
	api := &fakeMessages{msgs: []*discordgo.Message{
		msg("1", time.Minute),
		msg("2", time.Hour),
		msg("3", 15*24*time.Hour),
	}}

	n, err := Purge(context.Background(), api, "c", 10, "cmd")
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Purge() = %d, want 2", n)
	}
	if diff := cmp.Diff([]string{"1", "2"}, api.bulk); diff != "" {
		t.Errorf("bulk delete mismatch (-want +got):\n%s", diff)
	}
	if api.beforeID != "cmd" {
		t.Errorf("beforeID = %q, want cmd", api.beforeID)
	}
}

func TestPurgeSingleMessage(t *testing.T) {
	api := &fakeMessages{msgs: []*discordgo.Message{msg("1", time.Minute)}}

	n, err := Purge(context.Background(), api, "c", 1, "")
	if err != nil || n != 1 {
		t.Fatalf("Purge() = %d, %v, want 1, nil", n, err)
	}
	if api.bulkCalled {
		t.Error("a single message should not use bulk delete")
	}
	if api.single != "1" {
		t.Errorf("deleted = %q, want 1", api.single)
	}
}

func TestPurgeLimits(t *testing.T) {
	api := &fakeMessages{}
	if n, _ := Purge(context.Background(), api, "c", 0, ""); n != 0 {
		t.Errorf("Purge(0) = %d, want 0", n)
	}
	if api.limit != 0 {
		t.Error("Purge(0) should not fetch messages")
	}

	if _, err := Purge(context.Background(), api, "c", 500, ""); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if api.limit != MaxPurge {
		t.Errorf("limit = %d, want %d", api.limit, MaxPurge)
	}
}

func TestPurgeErrors(t *testing.T) {
	boom := errors.New("boom")

	api := &fakeMessages{fetchErr: boom}
	if _, err := Purge(context.Background(), api, "c", 5, ""); !errors.Is(err, boom) {
		t.Errorf("fetch error = %v, want boom", err)
	}

	api = &fakeMessages{msgs: []*discordgo.Message{msg("1", 0), msg("2", 0)}, deleteErr: boom}
	n, err := Purge(context.Background(), api, "c", 5, "")
	if !errors.Is(err, boom) || n != 0 {
		t.Errorf("Purge() = %d, %v, want 0, boom", n, err)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 s"},
		{42 * time.Second, "42 s"},
		{time.Hour + 5*time.Second, "1 h, 5 s"},
		{26*time.Hour + 3*time.Minute, "1 j, 2 h, 3 min"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusText(t *testing.T) {
	u := &utilities{Deps: Deps{
		StoreBackend: "channel",
		ActiveRooms:  func() int { return 3 },
	}}
	got := u.statusText(7, false)
	for _, want := range []string{"`channel`", "Salons vocaux temporaires : 3", "Serveurs : 7", "🔴"} {
		if !strings.Contains(got, want) {
			t.Errorf("statusText() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Base de données") {
		t.Error("statusText() should omit the database line without Mongo")
	}

	u.Database = func() (string, bool) { return "🟢 Conectado", true }
	if got := u.statusText(0, true); !strings.Contains(got, "Conectado") || !strings.Contains(got, "🟢 Connecté") {
		t.Errorf("statusText() = %q, want database and MQTT lines", got)
	}

	u.DatabasePing = func() (time.Duration, error) { return 42 * time.Millisecond, nil }
	if got := u.statusText(0, true); !strings.Contains(got, "Conectado (42 ms)") {
		t.Errorf("statusText() = %q, want the database latency", got)
	}

	u.DatabasePing = func() (time.Duration, error) { return 0, errors.New("timeout") }
	if got := u.statusText(0, true); strings.Contains(got, " ms)") {
		t.Errorf("statusText() = %q, want no latency after a failed ping", got)
	}

	u.Database = func() (string, bool) { return "🔴 | Desconectado", false }
	u.DatabasePing = func() (time.Duration, error) {
		t.Error("DatabasePing called while the database is offline")
		return 0, nil
	}
	u.statusText(0, true)
}

func TestClearEntry(t *testing.T) {
	e := ClearEntry("u", "c", 4)
	if !strings.Contains(e.Description, "<@u>") || !strings.Contains(e.Description, "<#c>") || !strings.Contains(e.Description, "4") {
		t.Errorf("Description = %q", e.Description)
	}
}

func TestUtilsPermissions(t *testing.T) {
	u := &utilities{}
	if u.sendCommand().UserPermissions != discordgo.PermissionAdministrator {
		t.Error("send should require administrator")
	}
	if u.clearCommand().UserPermissions != discordgo.PermissionManageMessages {
		t.Error("clear should require manage messages")
	}
	if u.pingCommand().UserPermissions != 0 {
		t.Error("ping should be open to everyone")
	}
}

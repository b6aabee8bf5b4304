package dev

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/PancyCommunity/internal/tempvoice"
	"github.com/bwmarrin/discordgo"
)

type fakeLoader struct {
	calls int
	err   error
}

func (f *fakeLoader) Load(ctx context.Context) error {
	f.calls++
	return f.err
}

func TestReloadAll(t *testing.T) {
	a, b := &fakeLoader{}, &fakeLoader{}
	if err := reloadAll(context.Background(), a, nil, b); err != nil {
		t.Fatalf("reloadAll() error = %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d, %d, want 1, 1", a.calls, b.calls)
	}

	boom := errors.New("boom")
	failing, after := &fakeLoader{err: boom}, &fakeLoader{}
	err := reloadAll(context.Background(), failing, after)
	if !errors.Is(err, boom) {
		t.Errorf("reloadAll() error = %v, want %v", err, boom)
	}
	if after.calls != 0 {
		t.Error("loaders after a failure should not run")
	}
}

type fakeCache struct {
	cleared int
}

func (f *fakeCache) ClearCache() { f.cleared++ }

func TestReloadFromStoreClearsCache(t *testing.T) {
	cache, settings := &fakeCache{}, &fakeLoader{}
	d := &dev{Deps: Deps{Settings: settings, Cache: cache}}
	if err := d.reloadFromStore(context.Background()); err != nil {
		t.Fatalf("reloadFromStore() error = %v", err)
	}
	if cache.cleared != 1 || settings.calls != 1 {
		t.Errorf("cleared = %d, loads = %d, want 1, 1", cache.cleared, settings.calls)
	}

	// file and channel backends have no cache
	d = &dev{Deps: Deps{Settings: settings}}
	if err := d.reloadFromStore(context.Background()); err != nil {
		t.Errorf("reloadFromStore() without cache error = %v", err)
	}
}

func TestRoomsText(t *testing.T) {
	now := time.Unix(1700000000, 0)

	if got := roomsText(nil, now); !strings.Contains(got, "Aucun") {
		t.Errorf("roomsText(nil) = %q", got)
	}

	rooms := []tempvoice.Room{{GuildID: "g", OwnerID: "u", ChannelID: "c", CreatedAt: now.Add(-90 * time.Second)}}
	got := roomsText(rooms, now)
	for _, want := range []string{"<#c>", "<@u>", "1m30s"} {
		if !strings.Contains(got, want) {
			t.Errorf("roomsText() = %q, want it to contain %q", got, want)
		}
	}

	many := make([]tempvoice.Room, maxListedRooms+5)
	if got := roomsText(many, now); !strings.Contains(got, "et 5 autre(s)") {
		t.Errorf("roomsText(many) = %q, want the overflow count", got)
	}
}

func TestDevCommandsRequireAdministrator(t *testing.T) {
	d := &dev{}
	for _, cmd := range []interface {
		ToApplicationCommand() *discordgo.ApplicationCommand
	}{d.reloadCommand(), d.roomsCommand(), d.sweepCommand()} {
		app := cmd.ToApplicationCommand()
		if app.DefaultMemberPermissions == nil || *app.DefaultMemberPermissions != discordgo.PermissionAdministrator {
			t.Errorf("%s should require administrator", app.Name)
		}
	}
}

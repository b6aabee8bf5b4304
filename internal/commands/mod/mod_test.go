package mod

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/PancyCommunity/internal/warns"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/PancyStudios/PancyCommunity/pkg/store"
	"github.com/bwmarrin/discordgo"
)

func TestReasonOrDefault(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", defaultReason},
		{"   ", defaultReason},
		{" spam ", "spam"},
		{"insultes", "insultes"},
	}
	for _, tt := range tests {
		if got := reasonOrDefault(tt.in); got != tt.want {
			t.Errorf("reasonOrDefault(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDMNotice(t *testing.T) {
	user := &discordgo.User{Username: "alice"}
	if got := dmNotice(user, nil); got != "" {
		t.Errorf("dmNotice(nil) = %q, want empty", got)
	}
	if got := dmNotice(user, errors.New("closed DMs")); !strings.Contains(got, "alice") {
		t.Errorf("dmNotice(err) = %q, want it to name the user", got)
	}
}

func TestModCommandPermissions(t *testing.T) {
	m := &moderation{}
	tests := []struct {
		cmd  *discord.Command
		want int64
	}{
		{m.banCommand(), discordgo.PermissionBanMembers},
		{m.kickCommand(), discordgo.PermissionKickMembers},
		{m.muteCommand(), discordgo.PermissionModerateMembers},
		{m.warnCommand(), discordgo.PermissionModerateMembers},
		{m.removeWarnCommand(), discordgo.PermissionModerateMembers},
		{m.clearWarnsCommand(), discordgo.PermissionModerateMembers},
		{m.warnsCommand(), 0},
	}
	for _, tt := range tests {
		if tt.cmd.UserPermissions != tt.want {
			t.Errorf("%s UserPermissions = %d, want %d", tt.cmd.Name, tt.cmd.UserPermissions, tt.want)
		}
		if tt.cmd.Category != "mod" {
			t.Errorf("%s Category = %q, want mod", tt.cmd.Name, tt.cmd.Category)
		}
	}

	if m.removeWarnCommand().AutoComplete == nil {
		t.Error("removewarn should provide autocomplete")
	}
}

func TestWarnsEmbed(t *testing.T) {
	user := &discordgo.User{ID: "u", Username: "alice"}
	now := time.Unix(1700000000, 0)

	empty := warnsEmbed(user, nil, true, now)
	if len(empty.Fields) != 0 || empty.Description == "" {
		t.Errorf("empty embed = %+v, want a description and no fields", empty)
	}

	list := make([]models.Warn, 30)
	for i := range list {
		list[i] = models.Warn{ID: "id", Reason: "spam", Moderator: "mod"}
	}
	full := warnsEmbed(user, list, false, now)
	if len(full.Fields) != maxListedWarns {
		t.Errorf("fields = %d, want %d", len(full.Fields), maxListedWarns)
	}
	if strings.Contains(full.Fields[0].Value, "<@mod>") {
		t.Error("moderator should be hidden from non moderators")
	}
	if !strings.Contains(full.Description, "30") {
		t.Errorf("Description = %q, want the total", full.Description)
	}

	shown := warnsEmbed(user, list[:1], true, now)
	if !strings.Contains(shown.Fields[0].Value, "<@mod>") {
		t.Error("moderator should be shown to moderators")
	}
}

func TestWarnChoices(t *testing.T) {
	list := []models.Warn{
		{ID: "a1", Reason: strings.Repeat("x", 200)},
		{ID: "b2", Reason: "spam"},
	}
	got := warnChoices(list)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if n := len([]rune(got[0].Name)); n != 98 {
		t.Errorf("truncated name has %d runes, want 98", n)
	}
	if got[1].Value != "b2" {
		t.Errorf("Value = %v, want b2", got[1].Value)
	}
}

func TestRemoveByRef(t *testing.T) {
	ctx := context.Background()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	s := warns.NewService(fs)

	first, _ := s.Add(ctx, "g", "u", "spam", "mod")
	_, _ = s.Add(ctx, "g", "u", "flood", "mod")
	third, _ := s.Add(ctx, "g", "u", "insultes", "mod")

	got, err := removeByRef(ctx, s, "g", "u", first.ID)
	if err != nil || got.ID != first.ID {
		t.Fatalf("removeByRef(id) = %+v, %v, want %s", got, err, first.ID)
	}

	// "2" matches no ID so it is read as a position
	got, err = removeByRef(ctx, s, "g", "u", "2")
	if err != nil || got.ID != third.ID {
		t.Fatalf("removeByRef(2) = %+v, %v, want %s", got, err, third.ID)
	}

	if _, err := removeByRef(ctx, s, "g", "u", "nope"); !errors.Is(err, warns.ErrNotFound) {
		t.Errorf("removeByRef(nope) error = %v, want ErrNotFound", err)
	}
	if _, err := removeByRef(ctx, s, "g", "u", "9"); !errors.Is(err, warns.ErrNotFound) {
		t.Errorf("removeByRef(9) error = %v, want ErrNotFound", err)
	}
}

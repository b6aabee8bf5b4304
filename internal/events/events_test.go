package events

import (
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/PancyCommunity/internal/tempvoice"
	"github.com/bwmarrin/discordgo"
	"github.com/google/go-cmp/cmp"
)

func TestParseClear(t *testing.T) {
	tests := []struct {
		content string
		wantN   int
		wantOK  bool
	}{
		{"+clear 10", 10, true},
		{"+CLEAR 3", 3, true},
		{"  +clear   7 extra", 7, true},
		{"+clear", 0, true},
		{"+clear abc", 0, true},
		{"+clearall 5", 0, false},
		{"hello +clear 5", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		n, ok := parseClear(tt.content)
		if n != tt.wantN || ok != tt.wantOK {
			t.Errorf("parseClear(%q) = %d, %v, want %d, %v", tt.content, n, ok, tt.wantN, tt.wantOK)
		}
	}
}

func TestEditEntry(t *testing.T) {
	author := &discordgo.User{ID: "u"}
	before := &discordgo.Message{ChannelID: "c", Author: author, Content: "salut"}
	after := &discordgo.Message{ChannelID: "c", Content: "salut tout le monde"}

	entry, ok := editEntry(before, after)
	if !ok {
		t.Fatal("editEntry() skipped a content change")
	}
	if entry.Fields[0].Value != "salut" || entry.Fields[1].Value != "salut tout le monde" {
		t.Errorf("fields = %q / %q", entry.Fields[0].Value, entry.Fields[1].Value)
	}
	if !strings.Contains(entry.Description, "<@u>") || !strings.Contains(entry.Description, "<#c>") {
		t.Errorf("Description = %q", entry.Description)
	}

	tests := []struct {
		name   string
		before *discordgo.Message
		after  *discordgo.Message
	}{
		{"uncached", nil, after},
		{"same content", before, &discordgo.Message{Content: "salut"}},
		{"bot", &discordgo.Message{Author: &discordgo.User{Bot: true}, Content: "a"}, &discordgo.Message{Content: "b"}},
	}
	for _, tt := range tests {
		if _, ok := editEntry(tt.before, tt.after); ok {
			t.Errorf("%s: editEntry() ok = true, want false", tt.name)
		}
	}
}

func TestDeleteEntry(t *testing.T) {
	msg := &discordgo.Message{ChannelID: "c", Author: &discordgo.User{ID: "u"}, Content: "bonjour"}
	entry, ok := deleteEntry(msg)
	if !ok || entry.Fields[0].Value != "bonjour" {
		t.Errorf("deleteEntry() = %+v, %v", entry, ok)
	}

	// empty content shows as a dash
	msg.Content = ""
	if entry, _ := deleteEntry(msg); entry.Fields[0].Value != "-" {
		t.Errorf("empty content = %q, want -", entry.Fields[0].Value)
	}

	if _, ok := deleteEntry(&discordgo.Message{Author: &discordgo.User{Bot: true}}); ok {
		t.Error("bot messages should be skipped")
	}
}

func TestVoiceEvent(t *testing.T) {
	state := discordgo.NewState()
	if err := state.GuildAdd(&discordgo.Guild{ID: "g"}); err != nil {
		t.Fatalf("GuildAdd() error = %v", err)
	}
	if err := state.MemberAdd(&discordgo.Member{GuildID: "g", Nick: "Ali", User: &discordgo.User{ID: "u", Username: "alice"}}); err != nil {
		t.Fatalf("MemberAdd() error = %v", err)
	}

	v := &discordgo.VoiceStateUpdate{
		VoiceState:   &discordgo.VoiceState{GuildID: "g", UserID: "u", ChannelID: "hub"},
		BeforeUpdate: &discordgo.VoiceState{ChannelID: "old"},
	}
	want := tempvoice.VoiceEvent{GuildID: "g", UserID: "u", DisplayName: "Ali", BeforeChannelID: "old", AfterChannelID: "hub"}
	if diff := cmp.Diff(want, voiceEvent(state, v)); diff != "" {
		t.Errorf("voiceEvent() mismatch (-want +got):\n%s", diff)
	}

	// The event's member wins over the cache
	v.Member = &discordgo.Member{User: &discordgo.User{ID: "u", Username: "alice", GlobalName: "Alice"}}
	v.BeforeUpdate = nil
	got := voiceEvent(state, v)
	if got.DisplayName != "Alice" || got.BeforeChannelID != "" {
		t.Errorf("voiceEvent() = %+v, want Alice with no previous channel", got)
	}

	// Unknown member falls back to the user ID
	v = &discordgo.VoiceStateUpdate{VoiceState: &discordgo.VoiceState{GuildID: "g", UserID: "x"}}
	if got := voiceEvent(state, v); got.DisplayName != "x" {
		t.Errorf("DisplayName = %q, want x", got.DisplayName)
	}
}

func TestJustJoined(t *testing.T) {
	now := time.Now()
	if !justJoined(now.Add(-2*time.Second), now) {
		t.Error("a join 2s ago should count as new")
	}
	if justJoined(now.Add(-time.Hour), now) {
		t.Error("a join an hour ago is a startup replay")
	}
}

func TestMemberEntries(t *testing.T) {
	u := &discordgo.User{ID: "175928847299117063", Username: "alice"}

	join := memberJoinEntry(&discordgo.Member{User: u})
	if !strings.Contains(join.Description, "<@175928847299117063>") {
		t.Errorf("join Description = %q", join.Description)
	}
	if !strings.HasPrefix(join.Fields[1].Value, "<t:") {
		t.Errorf("account created = %q, want a timestamp", join.Fields[1].Value)
	}

	leave := memberLeaveEntry(u)
	if leave.Fields[0].Value != "alice" {
		t.Errorf("leave member = %q, want alice", leave.Fields[0].Value)
	}
}

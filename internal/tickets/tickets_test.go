package tickets

import (
	"context"
	"errors"
	"testing"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/bwmarrin/discordgo"
)

type fakeAPI struct {
	created   []discordgo.GuildChannelCreateData
	messages  map[string][]*discordgo.MessageSend
	deleted   []string
	createErr error
	deleteErr error
}

func (f *fakeAPI) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, data)
	return &discordgo.Channel{ID: "chan-1", GuildID: guildID, Name: data.Name, ParentID: data.ParentID}, nil
}

func (f *fakeAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.messages == nil {
		f.messages = make(map[string][]*discordgo.MessageSend)
	}
	f.messages[channelID] = append(f.messages[channelID], data)
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *fakeAPI) ChannelDelete(channelID string, _ ...discordgo.RequestOption) (*discordgo.Channel, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, channelID)
	return &discordgo.Channel{ID: channelID}, nil
}

type fakeSettings map[string]models.TicketSettings

func (s fakeSettings) Tickets(guildID string) (models.TicketSettings, bool) {
	t, ok := s[guildID]
	return t, ok
}

type fakeSender struct{ titles []string }

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.titles = append(f.titles, embed.Title)
	return &discordgo.Message{}, nil
}

type logsChannel string

func (l logsChannel) LogChannel(string) (string, bool) { return string(l), true }

func newTestService(api *fakeAPI, hooks Hooks) (*Service, *fakeSender) {
	sender := &fakeSender{}
	settings := fakeSettings{"g": {CategoryID: "cat", SupportRoleID: "support"}}
	return NewService(api, settings, auditlog.New(sender, logsChannel("logs")), hooks), sender
}

func TestOpen(t *testing.T) {
	api := &fakeAPI{}
	opened := 0
	s, sender := newTestService(api, Hooks{Opened: func(string, *discordgo.Channel, *discordgo.User) { opened++ }})

	ch, err := s.Open(context.Background(), "g", &discordgo.User{ID: "u1", Username: "Alice"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if ch.Name != "ticket-alice" {
		t.Errorf("Name = %v, want ticket-alice", ch.Name)
	}

	if len(api.created) != 1 {
		t.Fatalf("created %d channels, want 1", len(api.created))
	}
	data := api.created[0]
	if data.ParentID != "cat" || data.Type != discordgo.ChannelTypeGuildText {
		t.Errorf("create data = %+v", data)
	}

	overwrites := make(map[string]*discordgo.PermissionOverwrite)
	for _, o := range data.PermissionOverwrites {
		overwrites[o.ID] = o
	}
	if o := overwrites["g"]; o == nil || o.Deny&discordgo.PermissionViewChannel == 0 {
		t.Error("@everyone can view the ticket")
	}
	for _, id := range []string{"u1", "support"} {
		if o := overwrites[id]; o == nil || o.Allow&discordgo.PermissionViewChannel == 0 {
			t.Errorf("%s cannot view the ticket", id)
		}
	}

	msgs := api.messages["chan-1"]
	if len(msgs) != 1 || msgs[0].Components == nil {
		t.Errorf("welcome messages = %v, want one with a close button", msgs)
	}
	if len(sender.titles) != 1 || opened != 1 {
		t.Errorf("audit entries = %v, opened hooks = %d", sender.titles, opened)
	}
}

func TestOpenNotConfigured(t *testing.T) {
	api := &fakeAPI{}
	s, sender := newTestService(api, Hooks{})

	_, err := s.Open(context.Background(), "other", &discordgo.User{ID: "u1", Username: "Alice"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Open() error = %v, want ErrNotConfigured", err)
	}
	if len(api.created) != 0 || len(sender.titles) != 0 {
		t.Error("unconfigured guild should not create a channel nor log")
	}
}

func TestOpenPlatformError(t *testing.T) {
	failure := errors.New("missing permissions")
	s, _ := newTestService(&fakeAPI{createErr: failure}, Hooks{})

	if _, err := s.Open(context.Background(), "g", &discordgo.User{ID: "u1", Username: "a"}); !errors.Is(err, failure) {
		t.Errorf("Open() error = %v, want %v", err, failure)
	}
}

func TestClose(t *testing.T) {
	api := &fakeAPI{}
	closed := 0
	s, sender := newTestService(api, Hooks{Closed: func(string, *discordgo.Channel, *discordgo.User) { closed++ }})
	closer := &discordgo.User{ID: "staff"}

	err := s.Close(context.Background(), "g", &discordgo.Channel{ID: "c1", Name: "général"}, closer)
	if !errors.Is(err, ErrNotTicket) {
		t.Errorf("Close(non ticket) error = %v, want ErrNotTicket", err)
	}

	if err := s.Close(context.Background(), "g", &discordgo.Channel{ID: "c2", Name: "ticket-alice"}, closer); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "c2" {
		t.Errorf("deleted = %v, want [c2]", api.deleted)
	}
	if len(sender.titles) != 1 || closed != 1 {
		t.Errorf("audit entries = %v, closed hooks = %d", sender.titles, closed)
	}
}

func TestChannelName(t *testing.T) {
	tests := map[string]string{
		"Alice":       "ticket-alice",
		"  Bob Smith": "ticket-bob-smith",
		"":            "ticket-membre",
	}
	for in, want := range tests {
		if got := ChannelName(in); got != want {
			t.Errorf("ChannelName(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPanelMessage(t *testing.T) {
	msg := PanelMessage("Besoin d'aide ?")
	if msg.Embeds[0].Description != "Besoin d'aide ?" {
		t.Errorf("Description = %v", msg.Embeds[0].Description)
	}
	row := msg.Components[0].(discordgo.ActionsRow)
	if btn := row.Components[0].(discordgo.Button); btn.CustomID != ButtonCreate {
		t.Errorf("CustomID = %v, want %v", btn.CustomID, ButtonCreate)
	}
}

package admin

import (
	"context"
	"strings"
	"testing"

	"github.com/PancyStudios/PancyCommunity/internal/settings"
	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/PancyStudios/PancyCommunity/pkg/store"
	"github.com/bwmarrin/discordgo"
)

func newAdmin(t *testing.T) *admin {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	return &admin{settings: settings.NewManager(fs, "")}
}

func TestSettingsEmbedUnconfigured(t *testing.T) {
	a := newAdmin(t)

	embed := a.settingsEmbed("g")
	if len(embed.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(embed.Fields))
	}
	for _, f := range embed.Fields {
		if f.Value != "Non configuré" {
			t.Errorf("%s = %q, want Non configuré", f.Name, f.Value)
		}
	}
}

func TestSettingsEmbedConfigured(t *testing.T) {
	ctx := context.Background()
	a := newAdmin(t)
	_ = a.settings.SetTickets(ctx, "g", models.TicketSettings{CategoryID: "cat", SupportRoleID: "role"})
	_ = a.settings.SetLogChannel(ctx, "g", "logs")
	_ = a.settings.SetHubChannel(ctx, "g", "hub")

	embed := a.settingsEmbed("g")
	want := []string{"<#cat>", "<#logs>", "<#hub>"}
	for i, f := range embed.Fields {
		if !strings.Contains(f.Value, want[i]) {
			t.Errorf("%s = %q, want it to contain %s", f.Name, f.Value, want[i])
		}
	}
	if !strings.Contains(embed.Fields[0].Value, "<@&role>") {
		t.Errorf("tickets = %q, want the support role", embed.Fields[0].Value)
	}
}

func TestConfigCommandsRequireAdministrator(t *testing.T) {
	a := &admin{}
	for _, cmd := range []interface {
		ToApplicationCommand() *discordgo.ApplicationCommand
	}{a.ticketsCommand(), a.logsCommand(), a.voiceCommand(), a.showCommand()} {
		app := cmd.ToApplicationCommand()
		if app.DefaultMemberPermissions == nil || *app.DefaultMemberPermissions != discordgo.PermissionAdministrator {
			t.Errorf("%s DefaultMemberPermissions = %v, want administrator", app.Name, app.DefaultMemberPermissions)
		}
	}
}

func TestVoiceCommandAcceptsVoiceChannels(t *testing.T) {
	opts := (&admin{}).voiceCommand().Options
	if len(opts) != 1 || len(opts[0].ChannelTypes) != 1 || opts[0].ChannelTypes[0] != discordgo.ChannelTypeGuildVoice {
		t.Errorf("vocaux options = %+v, want a single voice channel option", opts)
	}
}

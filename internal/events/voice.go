package events

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyCommunity/internal/tempvoice"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

func (h *handlers) registerVoice() {
	h.client.EventHandler.OnVoiceStateUpdate(h.onVoiceStateUpdate)
	h.client.EventHandler.OnChannelDelete(h.onChannelDelete)
}

// onVoiceStateUpdate hands joins, leaves and moves to the temporary room manager
func (h *handlers) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if h.Voice == nil || v.VoiceState == nil {
		return
	}
	ev := voiceEvent(s.State, v)
	if ev.BeforeChannelID == ev.AfterChannelID {
		// mute, deafen or stream toggles
		return
	}
	if err := h.Voice.HandleVoiceStateUpdate(context.Background(), ev); err != nil {
		errors.Log(fmt.Errorf("voice state %s/%s: %w", ev.GuildID, ev.UserID, err), "Voice")
	}
}

// onChannelDelete forgets temporary rooms deleted by someone else
func (h *handlers) onChannelDelete(_ *discordgo.Session, c *discordgo.ChannelDelete) {
	if h.Voice == nil || c.Channel == nil {
		return
	}
	h.Voice.HandleChannelDelete(c.ID)
}

// voiceEvent converts a gateway update. The display name comes from the
// event's member, or the state cache when the event carries none.
func voiceEvent(state *discordgo.State, v *discordgo.VoiceStateUpdate) tempvoice.VoiceEvent {
	ev := tempvoice.VoiceEvent{
		GuildID:        v.GuildID,
		UserID:         v.UserID,
		AfterChannelID: v.ChannelID,
	}
	if v.BeforeUpdate != nil {
		ev.BeforeChannelID = v.BeforeUpdate.ChannelID
	}

	member := v.Member
	if member == nil && state != nil {
		member, _ = state.Member(v.GuildID, v.UserID)
	}
	ev.DisplayName = discord.DisplayName(member, nil)
	if ev.DisplayName == "" {
		ev.DisplayName = v.UserID
	}
	return ev
}

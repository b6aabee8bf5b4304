package utils

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
)

// MaxPurge is the largest batch Discord deletes at once
const MaxPurge = 100

// bulkDeleteMaxAge is the age past which Discord refuses bulk deletion
const bulkDeleteMaxAge = 14 * 24 * time.Hour

// MessagesAPI is the part of the discordgo session Purge uses
type MessagesAPI interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
}

// Purge deletes up to n of the latest messages of channelID posted before
// beforeID (the latest overall when empty). Messages older than two weeks are
// skipped. It returns how many messages were deleted.
func Purge(ctx context.Context, api MessagesAPI, channelID string, n int, beforeID string) (int, error) {
	if n < 1 {
		return 0, nil
	}
	if n > MaxPurge {
		n = MaxPurge
	}

	msgs, err := api.ChannelMessages(channelID, n, beforeID, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-bulkDeleteMaxAge)
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Timestamp.After(cutoff) {
			ids = append(ids, m.ID)
		}
	}

	switch len(ids) {
	case 0:
		return 0, nil
	case 1:
		// bulk delete needs at least two messages
		err = api.ChannelMessageDelete(channelID, ids[0], discordgo.WithContext(ctx))
	default:
		err = api.ChannelMessagesBulkDelete(channelID, ids, discordgo.WithContext(ctx))
	}
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

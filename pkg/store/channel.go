package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/PancyStudios/PancyCommunity/pkg/metrics"
	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// ChannelAPI is the subset of *discordgo.Session used by ChannelStore
type ChannelAPI interface {
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
	GuildChannelCreate(guildID, name string, ctype discordgo.ChannelType, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEdit(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChannelStore keeps each value as the content of the latest message of a text
// channel in a dedicated "database" guild.
type ChannelStore struct {
	api     ChannelAPI
	guildID string
	botID   func() string

	channels map[string]string // store name -> channel ID
	chMu     sync.Mutex
	group    singleflight.Group
	saveMu   sync.Mutex
}

// NewChannelStore creates a store over guildID. botID reports the bot's own user ID,
// used to decide whether the latest message can be edited in place.
func NewChannelStore(api ChannelAPI, guildID string, botID func() string) *ChannelStore {
	return &ChannelStore{
		api:      api,
		guildID:  guildID,
		botID:    botID,
		channels: make(map[string]string),
	}
}

// Load implements Store
func (s *ChannelStore) Load(ctx context.Context, name string, v any) error {
	start := time.Now()
	defer metrics.ObserveStore(BackendChannel, "load", start)

	_, msg, err := s.latest(ctx, name)
	if err != nil {
		s.swallow("load", name, err)
		return nil
	}
	if msg == nil || msg.Content == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(msg.Content), v); err != nil {
		logger.Warn(fmt.Sprintf("Contenido inválido en #%s, se usará el valor por defecto: %v", ChannelName(name), err), "Store")
		return nil
	}
	return nil
}

// Save implements Store
func (s *ChannelStore) Save(ctx context.Context, name string, v any) error {
	start := time.Now()
	defer metrics.ObserveStore(BackendChannel, "save", start)

	data, err := encode(name, v)
	if err != nil {
		return err
	}
	if n := utf8.RuneCount(data); n > MaxValueSize {
		return fmt.Errorf("%d chars: %w", n, ErrTooLarge)
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	channelID, msg, err := s.latest(ctx, name)
	if err != nil {
		s.swallow("save", name, err)
		return nil
	}

	if msg != nil && msg.Author != nil && msg.Author.ID == s.botID() {
		_, err = s.api.ChannelMessageEdit(channelID, msg.ID, string(data), discordgo.WithContext(ctx))
	} else {
		_, err = s.api.ChannelMessageSend(channelID, string(data), discordgo.WithContext(ctx))
	}
	if err != nil {
		s.forget(name)
		s.swallow("save", name, err)
	}
	return nil
}

// latest returns the newest message of name's channel, nil when there is none
func (s *ChannelStore) latest(ctx context.Context, name string) (string, *discordgo.Message, error) {
	channelID, err := s.channel(ctx, name)
	if err != nil {
		return "", nil, err
	}

	msgs, err := s.api.ChannelMessages(channelID, 1, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		s.forget(name)
		return "", nil, err
	}
	if len(msgs) == 0 {
		return channelID, nil, nil
	}
	return channelID, msgs[0], nil
}

func (s *ChannelStore) cachedChannel(name string) (string, bool) {
	s.chMu.Lock()
	defer s.chMu.Unlock()
	id, ok := s.channels[name]
	return id, ok
}

func (s *ChannelStore) forget(name string) {
	s.chMu.Lock()
	delete(s.channels, name)
	s.chMu.Unlock()
}

// channel resolves (or creates) the channel for name. Concurrent callers share one lookup.
func (s *ChannelStore) channel(ctx context.Context, name string) (string, error) {
	if id, ok := s.cachedChannel(name); ok {
		return id, nil
	}

	id, err, _ := s.group.Do(name, func() (interface{}, error) {
		if id, ok := s.cachedChannel(name); ok {
			return id, nil
		}

		channelName := ChannelName(name)
		channels, err := s.api.GuildChannels(s.guildID, discordgo.WithContext(ctx))
		if err != nil {
			return "", fmt.Errorf("list channels of %s: %w", s.guildID, err)
		}

		var id string
		for _, ch := range channels {
			if ch.Type == discordgo.ChannelTypeGuildText && strings.EqualFold(ch.Name, channelName) {
				id = ch.ID
				break
			}
		}

		if id == "" {
			ch, err := s.api.GuildChannelCreate(s.guildID, channelName, discordgo.ChannelTypeGuildText, discordgo.WithContext(ctx))
			if err != nil {
				return "", fmt.Errorf("create #%s: %w", channelName, err)
			}
			logger.Info(fmt.Sprintf("Canal de datos #%s creado", channelName), "Store")
			id = ch.ID
		}

		s.chMu.Lock()
		s.channels[name] = id
		s.chMu.Unlock()
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return id.(string), nil
}

func (s *ChannelStore) swallow(op, name string, err error) {
	logger.Warn(fmt.Sprintf("Store %s '%s' falló, se ignora: %v", op, name, err), "Store")
	metrics.StoreFailure(BackendChannel, op)
}

package main

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/internal/settings"
	"github.com/PancyStudios/PancyCommunity/internal/tempvoice"
	"github.com/PancyStudios/PancyCommunity/internal/tickets"
	"github.com/PancyStudios/PancyCommunity/pkg/config"
	"github.com/PancyStudios/PancyCommunity/pkg/database"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/PancyStudios/PancyCommunity/pkg/metrics"
	"github.com/PancyStudios/PancyCommunity/pkg/mqtt"
	"github.com/PancyStudios/PancyCommunity/pkg/store"
	"github.com/PancyStudios/PancyCommunity/pkg/web"
	"github.com/bwmarrin/discordgo"
)

// storeCache returns the backend's read cache, nil when it has none
func storeCache(st store.Store) store.Cached {
	if c, ok := st.(store.Cached); ok {
		return c
	}
	return nil
}

// openStore opens the configured backend. The returned func releases it.
func openStore(cfg *config.Config, client *discord.ExtendedClient) (store.Store, func(), error) {
	noop := func() {}
	backend := cfg.Backend()
	logger.System("Almacenamiento: "+backend, "Main")

	switch backend {
	case config.BackendChannel:
		return store.NewChannelStore(client.Session, cfg.DBGuildID, client.BotID), noop, nil

	case config.BackendMongo:
		db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
		if err != nil {
			// The database reconnects on its own and queues writes meanwhile
			logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		}
		return store.NewMongoStore(db), func() {
			if err := db.Disconnect(); err != nil {
				logger.Warn(fmt.Sprintf("Error desconectando la base de datos: %v", err), "Main")
			}
		}, nil

	case config.BackendRedis:
		rc, err := store.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return store.NewRedisStore(rc, "pancycommunity:"), func() { _ = rc.Close() }, nil

	default:
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return fs, noop, nil
	}
}

// roomHooks records metrics, publishes MQTT events and audits the room lifecycle
func roomHooks(audit *auditlog.Logger, events *mqtt.MqttCommunicator) tempvoice.Hooks {
	return tempvoice.Hooks{
		Created: func(r tempvoice.Room) {
			metrics.RoomCreated()
			events.PublishEvent(mqtt.EventRoomCreated, r)
			audit.Send(r.GuildID, auditlog.Entry{
				Title:       "🔊 Salon temporaire créé",
				Description: fmt.Sprintf("**%s** (<#%s>) créé pour <@%s>", r.Name, r.ChannelID, r.OwnerID),
				Color:       auditlog.ColorSuccess,
			})
		},
		Deleted: func(r tempvoice.Room, reason string) {
			metrics.RoomDeleted(reason)
			events.PublishEvent(mqtt.EventRoomDeleted, map[string]interface{}{
				"room":   r,
				"reason": reason,
			})
			audit.Send(r.GuildID, auditlog.Entry{
				Title:       "🔇 Salon temporaire supprimé",
				Description: fmt.Sprintf("**%s** de <@%s> supprimé (%s)", r.Name, r.OwnerID, reason),
				Color:       auditlog.ColorDanger,
			})
		},
	}
}

// ticketHooks records metrics and publishes MQTT events for tickets
func ticketHooks(events *mqtt.MqttCommunicator) tickets.Hooks {
	return tickets.Hooks{
		Opened: func(guildID string, ch *discordgo.Channel, owner *discordgo.User) {
			metrics.TicketOpened()
			events.PublishEvent(mqtt.EventTicketOpened, map[string]interface{}{
				"guild_id":   guildID,
				"channel_id": ch.ID,
				"user_id":    owner.ID,
			})
		},
		Closed: func(guildID string, ch *discordgo.Channel, closer *discordgo.User) {
			metrics.TicketClosed()
			events.PublishEvent(mqtt.EventTicketClosed, map[string]interface{}{
				"guild_id":   guildID,
				"channel_id": ch.ID,
				"closed_by":  closer.ID,
			})
		},
	}
}

// webDeps exposes read-only views of the bot to the HTTP API
func webDeps(cfg *config.Config, client *discord.ExtendedClient, voice *tempvoice.Manager, s *settings.Manager, events *mqtt.MqttCommunicator) web.Deps {
	return web.Deps{
		Bot: func() (web.BotInfo, bool) {
			if !client.IsReady() || client.Session.State.User == nil {
				return web.BotInfo{}, false
			}
			u := client.Session.State.User
			return web.BotInfo{
				ID:       u.ID,
				Username: u.Username,
				Avatar:   u.AvatarURL(""),
				Guilds:   client.GuildCount(),
				Latency:  client.Latency(),
				Uptime:   time.Since(client.StartTime),
			}, true
		},
		Database: databaseStatus(cfg),
		MQTT:     events.IsConnected,
		Rooms: func() interface{} {
			return voice.Rooms()
		},
		Settings: func(guildID string) (interface{}, bool) {
			g, ok := s.Guild(guildID)
			return g, ok
		},
	}
}

// Package web provides API routes for the web server.
package web

import (
	"net/http"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BotInfo describes the connected bot user
type BotInfo struct {
	ID       string
	Username string
	Avatar   string
	Guilds   int
	Latency  time.Duration
	Uptime   time.Duration
}

// Deps are the read-only views the routes expose. Nil funcs are reported as unavailable.
type Deps struct {
	// Bot returns the bot user, false while the gateway is not ready
	Bot func() (BotInfo, bool)
	// Database returns the Mongo status label and whether it is online
	Database func() (string, bool)
	// MQTT reports whether the broker connection is enabled
	MQTT func() bool
	// Rooms returns the active temporary voice rooms
	Rooms func() interface{}
	// Settings returns the configuration of one guild, false when it has none
	Settings func(guildID string) (interface{}, bool)
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, deps Deps) {
	api := s.Group("/api")
	{
		api.GET("/health", healthHandler)
		api.GET("/status", statusHandler(deps))
		api.GET("/bot", botInfoHandler(deps))
		api.GET("/rooms", roomsHandler(deps))
		api.GET("/guilds/:id/settings", settingsHandler(deps))
	}
	s.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyCommunity is running",
	})
}

// statusHandler returns the bot, database and broker status
func statusHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus, dbOnline := "disabled", false
		if deps.Database != nil {
			dbStatus, dbOnline = deps.Database()
		}

		botOnline := false
		if deps.Bot != nil {
			_, botOnline = deps.Bot()
		}

		mqttOnline := deps.MQTT != nil && deps.MQTT()

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": config.Version,
			"store":   config.Get().Backend(),
			"database": gin.H{
				"status":   dbStatus,
				"isOnline": dbOnline,
			},
			"bot": gin.H{
				"isOnline": botOnline,
			},
			"mqtt": gin.H{
				"isOnline": mqttOnline,
			},
		})
	}
}

// botInfoHandler returns information about the bot
func botInfoHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			info  BotInfo
			ready bool
		)
		if deps.Bot != nil {
			info, ready = deps.Bot()
		}
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Bot Offline",
				"message": "El bot no está disponible en este momento.",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":         info.ID,
			"username":   info.Username,
			"avatar":     info.Avatar,
			"guilds":     info.Guilds,
			"latency_ms": info.Latency.Milliseconds(),
			"uptime_s":   int64(info.Uptime.Seconds()),
			"isReady":    true,
		})
	}
}

// roomsHandler lists the active temporary voice rooms
func roomsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Rooms == nil {
			c.JSON(http.StatusOK, gin.H{"rooms": []interface{}{}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"rooms": deps.Rooms()})
	}
}

// settingsHandler returns the stored configuration of one guild
func settingsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		guildID := c.Param("id")
		if deps.Settings == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found", "message": "Sin configuración."})
			return
		}
		settings, ok := deps.Settings(guildID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "El servidor " + guildID + " no tiene configuración.",
			})
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

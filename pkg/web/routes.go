package web

import (
	"net/http"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/scheduler"
	"github.com/gin-gonic/gin"
)

// BotStatus is the part of the Discord client the API reports on
type BotStatus interface {
	IsReady() bool
	GuildCount() int
	Uptime() time.Duration
}

// Connection is anything that can report whether it is connected
type Connection interface {
	IsConnected() bool
}

// Sources holds what the API reads. Nil fields are reported as unavailable.
type Sources struct {
	Bot       BotStatus
	Store     *database.WarningStore
	Scheduler *scheduler.Scheduler
	Events    Connection
	Database  *database.Database
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, src Sources) {
	api := s.Group("/api")
	{
		api.GET("/health", healthHandler)
		api.GET("/status", statusHandler(src))

		// warning records name users and moderators, so they need a token
		if s.apiToken != "" {
			warnings := api.Group("/warnings", s.requireToken())
			warnings.GET("", warningUsersHandler(src))
			warnings.GET("/:userId", warningsHandler(src))
		}
	}
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyMod Go is running",
		"version": config.Version,
	})
}

// statusHandler reports the bot, store, scheduler, event feed and database
func statusHandler(src Sources) gin.HandlerFunc {
	return func(c *gin.Context) {
		bot := gin.H{"isOnline": false}
		if src.Bot != nil {
			bot = gin.H{
				"isOnline": src.Bot.IsReady(),
				"guilds":   src.Bot.GuildCount(),
				"uptime":   src.Bot.Uptime().Round(time.Second).String(),
			}
		}

		store := gin.H{"available": src.Store != nil}
		if src.Store != nil {
			store["users"] = src.Store.Len()
		}

		pending := 0
		if src.Scheduler != nil {
			pending = src.Scheduler.Len()
		}

		events := false
		if src.Events != nil {
			events = src.Events.IsConnected()
		}

		db := gin.H{"status": "🔴 | Desconectado", "isOnline": false}
		if src.Database != nil {
			status, online := src.Database.GetStatus()
			db = gin.H{"status": status, "isOnline": online}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":           "ok",
			"bot":              bot,
			"warnings":         store,
			"pendingDeletions": pending,
			"events":           gin.H{"isConnected": events},
			"database":         db,
		})
	}
}

// warningUsersHandler lists the users that have a warning record
func warningUsersHandler(src Sources) gin.HandlerFunc {
	return func(c *gin.Context) {
		if src.Store == nil {
			storeUnavailable(c)
			return
		}
		ids := src.Store.UserIDs()
		c.JSON(http.StatusOK, gin.H{"users": ids, "total": len(ids)})
	}
}

// warningsHandler returns one user's warning record
func warningsHandler(src Sources) gin.HandlerFunc {
	return func(c *gin.Context) {
		if src.Store == nil {
			storeUnavailable(c)
			return
		}
		rec, ok := src.Store.Get(c.Param("userId"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "El usuario no tiene advertencias.",
				"status":  404,
			})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

func storeUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":   "Service Unavailable",
		"message": "El almacén de advertencias no está disponible.",
		"status":  503,
	})
}

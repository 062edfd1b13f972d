// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with command registration and dispatching for both
// slash and prefixed text commands.
package discord

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// discordgo.Logger is a function, not an interface
func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	Dispatcher     *Dispatcher
	StartTime      time.Time
	mu             sync.RWMutex
	isReady        bool
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token, prefix string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token, prefix)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token, prefix string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	// Prefixed commands need message content, join events need guild members
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	session.SyncEvents = false
	session.StateEnabled = true
	session.LogLevel = discordgo.LogWarning

	c := &ExtendedClient{
		Session:  session,
		Commands: NewCommandCollection(),
		isReady:  false,
	}

	c.Dispatcher = NewDispatcher(c.Commands, session, prefix)
	c.Dispatcher.Client = c
	c.Dispatcher.MessagePermissions = func(m *discordgo.Message) int64 {
		if m.GuildID == "" {
			return 0
		}
		perms, err := session.UserChannelPermissions(m.Author.ID, m.ChannelID)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudieron obtener los permisos de %s: %v", m.Author.ID, err), "Client")
			return 0
		}
		return perms
	}

	c.CommandHandler = NewCommandHandler(c.Commands, session)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

// Start opens the gateway connection. Commands and events must be
// registered before calling it.
func (c *ExtendedClient) Start() error {
	logger.System(fmt.Sprintf("%d comandos cargados", c.Commands.Size()), "Client")

	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Bot conectado como: "+r.User.Username, "Client")

		appID := config.Get().ClientID
		if appID == "" {
			appID = r.User.ID
		}
		if err := c.CommandHandler.RegisterCommands(appID, config.Get().DevGuildID); err != nil {
			logger.Error("Error registrando comandos: "+err.Error(), "Client")
		}
	})

	c.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		c.Dispatcher.DispatchMessage(m.Message)
	})

	c.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		c.Dispatcher.DispatchInteraction(i.Interaction)
	})

	c.StartTime = time.Now()

	return c.Session.Open()
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// Latency returns the last heartbeat round trip
func (c *ExtendedClient) Latency() time.Duration {
	if c.Session == nil {
		return 0
	}
	return c.Session.HeartbeatLatency()
}

// Uptime returns how long the client has been running
func (c *ExtendedClient) Uptime() time.Duration {
	if c.StartTime.IsZero() {
		return 0
	}
	return time.Since(c.StartTime)
}

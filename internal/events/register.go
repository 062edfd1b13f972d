// Package events provides the gateway event handlers that are not commands.
// Events are organized by category (ready, guild, member, message, shard).
package events

import (
	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

// Deps holds what the event handlers read
type Deps struct {
	Prefix string
	// Store is used to flag members with warnings when they join. May be nil.
	Store *database.WarningStore
}

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	RegisterReadyEvent(client, deps)
	RegisterGuildEvents(client, deps)
	RegisterMemberEvents(client, deps)
	RegisterMessageEvents(client, deps)
	RegisterShardEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}

package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterShardEvents logs gateway disconnects and resumes
func RegisterShardEvents(client *discord.ExtendedClient) {
	client.EventHandler.RegisterEvent(func(s *discordgo.Session, _ *discordgo.Disconnect) {
		logger.Warn(fmt.Sprintf("🔌 Conexión con el gateway perdida (shard %d)", s.ShardID), "Shard")
	})
	client.EventHandler.RegisterEvent(func(s *discordgo.Session, _ *discordgo.Resumed) {
		logger.Success(fmt.Sprintf("✅ Conexión reanudada (shard %d)", s.ShardID), "Shard")
	})
}

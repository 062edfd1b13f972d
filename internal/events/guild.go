package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterGuildEvents registers the guild join and leave handlers
func RegisterGuildEvents(client *discord.ExtendedClient, deps Deps) {
	client.EventHandler.OnGuildCreate(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		// GuildCreate also fires for every guild on connect
		if g.JoinedAt.Before(time.Now().Add(-10 * time.Second)) {
			return
		}

		logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")

		if g.SystemChannelID == "" {
			return
		}
		if _, err := s.ChannelMessageSendEmbed(g.SystemChannelID, welcomeEmbed(deps.Prefix)); err != nil {
			logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
		}
	})

	client.EventHandler.OnGuildDelete(func(s *discordgo.Session, g *discordgo.GuildDelete) {
		logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
	})
}

func welcomeEmbed(prefix string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "초대해 주셔서 감사합니다! 🎉",
		Description: fmt.Sprintf("`/help` 또는 `%shelp` 로 명령어 목록을 확인하세요.", prefix),
		Color:       0x00ff00,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🛡️ 관리", Value: "`warn`, `timeout`, `isolate`, `ban`", Inline: true},
			{Name: "🔍 파일 검사", Value: "`filescan`", Inline: true},
			{Name: "❓ 도움말", Value: "`help`", Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

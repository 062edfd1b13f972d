package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMessageEvents answers bare mentions of the bot with a usage hint
func RegisterMessageEvents(client *discord.ExtendedClient, deps Deps) {
	client.EventHandler.RegisterEvent(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot || s.State.User == nil {
			return
		}
		if !isBareMention(m.Content, s.State.User.ID) {
			return
		}
		if _, err := s.ChannelMessageSendEmbed(m.ChannelID, mentionEmbed(deps.Prefix)); err != nil {
			logger.Error(fmt.Sprintf("Error enviando respuesta: %v", err), "Message")
		}
	})
}

// isBareMention reports whether content is only a mention of botID
func isBareMention(content, botID string) bool {
	return content == "<@"+botID+">" || content == "<@!"+botID+">"
}

func mentionEmbed(prefix string) *discordgo.MessageEmbed {
	desc := "슬래시 명령어 **(/)** 로 사용할 수 있습니다.\n`/help` 로 전체 명령어를 확인하세요."
	if prefix != "" {
		desc = fmt.Sprintf("슬래시 명령어 **(/)** 또는 접두사 `%s` 로 사용할 수 있습니다.\n`/help` 또는 `%shelp` 로 전체 명령어를 확인하세요.", prefix, prefix)
	}
	return &discordgo.MessageEmbed{
		Title:       "👋 안녕하세요!",
		Description: desc,
		Color:       0x3498db,
	}
}

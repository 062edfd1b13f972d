package events

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMemberEvents logs joining members that already have warnings
func RegisterMemberEvents(client *discord.ExtendedClient, deps Deps) {
	if deps.Store == nil {
		return
	}
	client.EventHandler.RegisterEvent(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		if notice := warnedMemberNotice(deps.Store, m.Member); notice != "" {
			logger.Warn(notice, "Member")
		}
	})
}

// warnedMemberNotice returns a log line for members with warnings, or ""
func warnedMemberNotice(store *database.WarningStore, m *discordgo.Member) string {
	if m == nil || m.User == nil {
		return ""
	}
	count := store.Count(m.User.ID)
	if count == 0 {
		return ""
	}
	return fmt.Sprintf("👤 %s (%s) se unió a %s con %d advertencias", m.User.Username, m.User.ID, m.GuildID, count)
}

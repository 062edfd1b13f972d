package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createStatsCommand creates the stats command
func createStatsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"봇 통계를 보여줍니다.",
		"utils",
		statsHandler,
	).AllowInDM()
}

// statsHandler replies with runtime and connection statistics
func statsHandler(ctx *discord.CommandContext) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	guildCount := 0
	var uptime time.Duration
	if ctx.Client != nil {
		guildCount = ctx.Client.GuildCount()
		uptime = ctx.Client.Uptime()
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 봇 통계",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🤖 버전", Value: config.Version, Inline: true},
			{Name: "🐹 Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
			{Name: "📚 DiscordGo", Value: discordgo.VERSION, Inline: true},
			{Name: "🖥 메모리", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
			{Name: "🧵 고루틴", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "🌐 서버", Value: fmt.Sprintf("%d", guildCount), Inline: true},
			{Name: "⏱ 가동 시간", Value: formatUptime(uptime), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "빌드: " + config.BuildTime,
		},
	}
	return ctx.ReplyEmbed(embed)
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d일 %d시간 %d분 %d초", days, hours, minutes, seconds)
}

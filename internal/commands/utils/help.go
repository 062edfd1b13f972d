package utils

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

var categoryNames = map[string]string{
	"utils": "🔧 유틸리티",
	"scan":  "🔍 검사",
	"mod":   "🛡️ 관리",
}

// createHelpCommand creates the help command
func createHelpCommand(deps Deps) *discord.Command {
	return discord.NewCommand(
		"help",
		"사용 가능한 명령어 목록을 보여줍니다.",
		"utils",
		func(ctx *discord.CommandContext) error {
			return helpHandler(ctx, deps)
		},
	).AllowInDM()
}

// helpHandler lists every registered command grouped by category
func helpHandler(ctx *discord.CommandContext, deps Deps) error {
	embed := &discordgo.MessageEmbed{
		Title:       "📖 도움말",
		Description: fmt.Sprintf("슬래시(`/`) 명령어 또는 `%s` 접두사로 사용할 수 있습니다.", deps.Prefix),
		Color:       0x5865F2,
	}

	var (
		current string
		lines   []string
	)
	flush := func() {
		if current == "" || len(lines) == 0 {
			return
		}
		name := categoryNames[current]
		if name == "" {
			name = current
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  name,
			Value: strings.Join(lines, "\n"),
		})
	}

	for _, cmd := range deps.Commands.Sorted() {
		if cmd.Category != current {
			flush()
			current = cmd.Category
			lines = nil
		}
		lines = append(lines, fmt.Sprintf("`%s` - %s", cmd.Usage(deps.Prefix), cmd.Description))
	}
	flush()

	return ctx.ReplyEmbed(embed)
}

package mod

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// historyLimit caps the entries shown in one reply
const historyLimit = 10

func (m *moderation) createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warnings",
		"경고 기록을 확인합니다.",
		"mod",
		m.warningsHandler,
	).WithOptions(
		userOption("유저", "[관리자] 확인할 유저 (없으면 본인)", false),
	)
}

// warningsHandler lists the warning history of the caller, or of another
// user when the caller is a moderator
func (m *moderation) warningsHandler(ctx *discord.CommandContext) error {
	target := ctx.User()
	if ctx.HasOption("유저") {
		other := ctx.GetUserOption("유저")
		if other == nil {
			return errors.InvalidInput("❌ 유저를 찾을 수 없습니다.")
		}
		if other.ID != target.ID && !ctx.HasPermission(discordgo.PermissionModerateMembers) {
			return errors.PermissionDenied("❌ 다른 유저의 경고 기록은 관리자만 확인할 수 있습니다.")
		}
		target = other
	}

	rec, _ := m.Store.Get(target.ID)

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🔖 %s님의 경고 기록", target.Username),
		Color:     0xF1C40F,
		Timestamp: m.Now().UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("누적 경고: %d회 / 자동 차단: %d회", rec.Count, BanThreshold)},
	}

	if len(rec.History) == 0 {
		embed.Description = "경고 기록이 없습니다."
		return ctx.ReplyEmbed(embed)
	}

	start := 0
	if len(rec.History) > historyLimit {
		start = len(rec.History) - historyLimit
	}

	var lines []string
	for i := len(rec.History) - 1; i >= start; i-- {
		e := rec.History[i]
		when := e.Timestamp
		if t, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
			when = fmt.Sprintf("<t:%d:R>", t.Unix())
		}
		lines = append(lines, fmt.Sprintf("**#%d** +%d회 | %s | <@%s> | %s", i+1, e.Count, e.Reason, e.WarnedBy, when))
	}
	if start > 0 {
		lines = append(lines, fmt.Sprintf("… 이전 기록 %d건", start))
	}
	embed.Description = strings.Join(lines, "\n")

	return ctx.ReplyEmbed(embed)
}

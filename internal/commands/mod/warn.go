package mod

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

const (
	// BanThreshold is the accumulated count that triggers an automatic ban
	BanThreshold = 5
	// MaxWarnCount bounds the count of a single warning
	MaxWarnCount = 5
)

func (m *moderation) createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"유저에게 경고를 부여하거나 현재 경고 횟수를 확인합니다.",
		"mod",
		m.warnHandler,
	).WithOptions(
		userOption("유저", "경고할 유저", true),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "횟수",
			Description: "부여할 경고 횟수 (1-5, 기본 1)",
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    MaxWarnCount,
		},
		reasonOption("경고 사유 (없으면 현재 경고 횟수만 확인합니다)"),
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// warnHandler adds a warning when a reason is given and bans the target once
// the accumulated count reaches BanThreshold. Without a reason it only
// reports the current count.
func (m *moderation) warnHandler(ctx *discord.CommandContext) error {
	target, err := requireTarget(ctx, discordgo.PermissionModerateMembers)
	if err != nil {
		return err
	}

	count := 1
	if ctx.HasOption("횟수") {
		n := ctx.GetIntOption("횟수")
		if n < 1 || n > MaxWarnCount {
			return errors.InvalidInput(fmt.Sprintf("❌ 경고 횟수는 1에서 %d 사이여야 합니다.", MaxWarnCount))
		}
		count = int(n)
	}

	reason := ctx.GetStringOption("사유")
	if reason == "" {
		return ctx.Reply(fmt.Sprintf("📋 <@%s>님의 현재 경고 횟수: **%d회**", target.ID, m.Store.Count(target.ID)))
	}

	entry := models.WarningEntry{
		ID:        uuid.New().String(),
		Count:     count,
		Reason:    reason,
		WarnedBy:  moderatorID(ctx),
		Timestamp: m.Now().UTC().Format(time.RFC3339),
	}
	before, rec, err := m.Store.AddWarning(context.Background(), target.ID, entry)
	if err != nil {
		return errors.CollaboratorFailure(err, "❌ 경고를 저장하지 못했습니다.")
	}

	logger.Info(fmt.Sprintf("Advertencia a %s por %s: +%d (total %d) - %s", target.ID, entry.WarnedBy, count, rec.Count, reason), "Warn")

	reply := fmt.Sprintf("⚠️ <@%s>님에게 경고 %d회를 부여했습니다. (누적 **%d회**)\n사유: %s", target.ID, count, rec.Count, reason)

	banned := false
	if before < BanThreshold && rec.Count >= BanThreshold {
		banReason := fmt.Sprintf("경고 %d회 누적: %s", rec.Count, reason)
		if err := ctx.Platform.GuildBanCreateWithReason(ctx.GuildID(), target.ID, banReason, 0); err != nil {
			banErr := errors.Wrap(errors.KindNotificationFailure, err, "⚠️ 자동 차단에 실패했습니다.")
			logger.Error(fmt.Sprintf("Error en el baneo automático de %s: %v", target.ID, banErr), "Warn")
			reply += "\n" + errors.UserMessage(banErr)
		} else {
			banned = true
			reply += fmt.Sprintf("\n🔨 누적 경고가 %d회 이상이 되어 서버에서 차단되었습니다.", BanThreshold)
		}
	}

	if err := ctx.Reply(reply); err != nil {
		return err
	}

	dm := fmt.Sprintf("⚠️ 서버에서 경고 %d회를 받았습니다. (누적 %d회)\n사유: %s", count, rec.Count, reason)
	if g := ctx.Guild(); g != nil {
		dm = fmt.Sprintf("⚠️ **%s** 서버에서 경고 %d회를 받았습니다. (누적 %d회)\n사유: %s", g.Name, count, rec.Count, reason)
	}
	if banned {
		dm += "\n🔨 누적 경고로 인해 서버에서 차단되었습니다."
	}
	// Discord usually refuses DMs once the user shares no guild with the bot,
	// so after a ban this notice is often lost and only logged.
	if err := ctx.SendDM(target.ID, dm); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el DM de advertencia a %s: %v", target.ID, err), "Warn")
	}

	m.publish(models.ModerationEvent{
		Type:        models.EventWarn,
		GuildID:     ctx.GuildID(),
		TargetID:    target.ID,
		ModeratorID: entry.WarnedBy,
		Reason:      reason,
		Count:       rec.Count,
	})
	if banned {
		m.publish(models.ModerationEvent{
			Type:        models.EventBan,
			GuildID:     ctx.GuildID(),
			TargetID:    target.ID,
			ModeratorID: entry.WarnedBy,
			Reason:      reason,
			Count:       rec.Count,
			Detail:      "auto",
		})
	}
	return nil
}

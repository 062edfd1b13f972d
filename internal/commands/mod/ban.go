package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func (m *moderation) createBanCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"유저를 서버에서 차단합니다.",
		"mod",
		m.banHandler,
	).WithOptions(
		userOption("유저", "차단할 유저", true),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "일수",
			Description: "삭제할 메시지 기간 (0-7일)",
			MinValue:    func() *float64 { v := 0.0; return &v }(),
			MaxValue:    7,
		},
		reasonOption("차단 사유"),
	).WithUserPermissions(discordgo.PermissionBanMembers)
}

// banHandler bans the target
func (m *moderation) banHandler(ctx *discord.CommandContext) error {
	target, err := requireTarget(ctx, discordgo.PermissionBanMembers)
	if err != nil {
		return err
	}

	days := ctx.GetIntOption("일수")
	if days < 0 || days > 7 {
		return errors.InvalidInput("❌ 메시지 삭제 기간은 0에서 7일 사이여야 합니다.")
	}

	reason := reasonOrDefault(ctx)
	if err := ctx.Platform.GuildBanCreateWithReason(ctx.GuildID(), target.ID, reason, int(days)); err != nil {
		return errors.CollaboratorFailure(err, "❌ 차단에 실패했습니다.")
	}

	logger.Info(fmt.Sprintf("Baneo de %s por %s: %s", target.ID, moderatorID(ctx), reason), "Ban")

	m.publish(models.ModerationEvent{
		Type:        models.EventBan,
		GuildID:     ctx.GuildID(),
		TargetID:    target.ID,
		ModeratorID: moderatorID(ctx),
		Reason:      reason,
	})

	return ctx.Reply(fmt.Sprintf("🔨 <@%s>님을 차단했습니다.\n사유: %s", target.ID, reason))
}

package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func (m *moderation) createTimeoutCommand() *discord.Command {
	return discord.NewCommand(
		"timeout",
		"유저를 일정 시간 동안 타임아웃합니다.",
		"mod",
		m.timeoutHandler,
	).WithOptions(
		userOption("유저", "타임아웃할 유저", true),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "기간",
			Description: "기간 (예: 30초, 10분, 1시간, 1일, 1주)",
			Required:    true,
		},
		reasonOption("타임아웃 사유"),
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// timeoutHandler applies a timeout. Only the invoker is told about the result.
func (m *moderation) timeoutHandler(ctx *discord.CommandContext) error {
	target, err := requireTarget(ctx, discordgo.PermissionModerateMembers)
	if err != nil {
		return err
	}

	raw := ctx.GetStringOption("기간")
	d, err := ParseDuration(raw)
	if err != nil {
		return errors.InvalidInput("❌ 기간 형식이 올바르지 않습니다. 예: 30초, 10분, 1시간, 1일, 1주, 1년")
	}

	reason := reasonOrDefault(ctx)
	until := m.Now().Add(d)
	audit := fmt.Sprintf("%s (by %s)", reason, ctx.User().Username)

	if err := ctx.Platform.GuildMemberTimeout(ctx.GuildID(), target.ID, &until, discordgo.WithAuditLogReason(audit)); err != nil {
		return errors.CollaboratorFailure(err, "❌ 타임아웃을 적용하지 못했습니다.")
	}

	logger.Info(fmt.Sprintf("Timeout a %s por %s durante %s", target.ID, moderatorID(ctx), FormatDuration(d)), "Timeout")

	m.publish(models.ModerationEvent{
		Type:        models.EventTimeout,
		GuildID:     ctx.GuildID(),
		TargetID:    target.ID,
		ModeratorID: moderatorID(ctx),
		Reason:      reason,
		Detail:      FormatDuration(d),
	})

	return ctx.Reply(fmt.Sprintf("⏱️ <@%s>님을 %s 동안 타임아웃했습니다.\n사유: %s", target.ID, FormatDuration(d), reason))
}

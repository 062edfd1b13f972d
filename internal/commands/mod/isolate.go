package mod

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func (m *moderation) createIsolateCommand() *discord.Command {
	return discord.NewCommand(
		"isolate",
		"유저에게 격리 역할을 부여합니다.",
		"mod",
		m.isolateHandler,
	).WithOptions(
		userOption("유저", "격리할 유저", true),
		reasonOption("격리 사유"),
	).WithUserPermissions(discordgo.PermissionModerateMembers)
}

// isolateHandler adds the isolation role to the target
func (m *moderation) isolateHandler(ctx *discord.CommandContext) error {
	target, err := requireTarget(ctx, discordgo.PermissionModerateMembers)
	if err != nil {
		return err
	}

	roleID, err := m.isolationRole(ctx)
	if err != nil {
		return err
	}

	reason := reasonOrDefault(ctx)
	if err := ctx.Platform.GuildMemberRoleAdd(ctx.GuildID(), target.ID, roleID, discordgo.WithAuditLogReason(reason)); err != nil {
		return errors.CollaboratorFailure(err, "❌ 격리 역할을 부여하지 못했습니다.")
	}

	logger.Info(fmt.Sprintf("Aislamiento de %s por %s: %s", target.ID, moderatorID(ctx), reason), "Isolate")

	m.publish(models.ModerationEvent{
		Type:        models.EventIsolate,
		GuildID:     ctx.GuildID(),
		TargetID:    target.ID,
		ModeratorID: moderatorID(ctx),
		Reason:      reason,
		Detail:      roleID,
	})

	return ctx.Reply(fmt.Sprintf("🔒 <@%s>님을 격리했습니다.\n사유: %s", target.ID, reason))
}

// isolationRole returns the configured role id, or looks the role up by name
func (m *moderation) isolationRole(ctx *discord.CommandContext) (string, error) {
	if m.IsolationRoleID != "" {
		return m.IsolationRoleID, nil
	}

	roles, err := ctx.Platform.GuildRoles(ctx.GuildID())
	if err != nil {
		return "", errors.CollaboratorFailure(err, "❌ 역할 목록을 불러오지 못했습니다.")
	}
	for _, r := range roles {
		if r.Name == m.IsolationRoleName {
			return r.ID, nil
		}
	}
	return "", errors.InvalidInput(fmt.Sprintf("❌ '%s' 역할을 찾을 수 없습니다.", m.IsolationRoleName))
}

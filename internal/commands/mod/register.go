// Package mod provides the moderation commands: warn, warnings, timeout,
// ban and isolate. Each command is in its own file.
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

// DefaultIsolationRoleName is looked up when no isolation role id is configured
const DefaultIsolationRoleName = "격리"

// Deps holds the collaborators of the moderation commands
type Deps struct {
	Store *database.WarningStore
	// Events receives a moderation event after every action. May be nil.
	Events mqtt.Publisher

	IsolationRoleID   string
	IsolationRoleName string

	Now func() time.Time
}

type moderation struct {
	Deps
}

func newModeration(deps Deps) *moderation {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.IsolationRoleName == "" {
		deps.IsolationRoleName = DefaultIsolationRoleName
	}
	return &moderation{Deps: deps}
}

// Commands returns the moderation commands
func Commands(deps Deps) []*discord.Command {
	m := newModeration(deps)
	return []*discord.Command{
		m.createWarnCommand(),
		m.createWarningsCommand(),
		m.createTimeoutCommand(),
		m.createBanCommand(),
		m.createIsolateCommand(),
	}
}

// RegisterModCommands registers the moderation commands
func RegisterModCommands(handler *discord.CommandHandler, deps Deps) {
	for _, cmd := range Commands(deps) {
		handler.RegisterCommand(cmd)
	}
}

func userOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func reasonOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "사유",
		Description: description,
	}
}

// requireTarget checks the caller's permission and resolves the target user
func requireTarget(ctx *discord.CommandContext, perm int64) (*discordgo.User, error) {
	if !ctx.HasPermission(perm) {
		return nil, errors.PermissionDenied("")
	}
	target := ctx.GetUserOption("유저")
	if target == nil {
		return nil, errors.InvalidInput("❌ 대상 유저를 지정해주세요.")
	}
	return target, nil
}

func reasonOrDefault(ctx *discord.CommandContext) string {
	if reason := ctx.GetStringOption("사유"); reason != "" {
		return reason
	}
	return "사유 없음"
}

// publish sends ev to the event feed. Failures are only logged.
func (m *moderation) publish(ev models.ModerationEvent) {
	if m.Events == nil {
		return
	}
	ev.Timestamp = m.Now().UTC()
	if err := m.Events.PublishEvent(ev); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar el evento %s: %v", ev.Type, err), "Mod")
	}
}

func moderatorID(ctx *discord.CommandContext) string {
	if u := ctx.User(); u != nil {
		return u.ID
	}
	return ""
}

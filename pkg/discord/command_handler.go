package discord

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler registers commands locally and publishes their slash
// definitions to Discord
type CommandHandler struct {
	commands *CommandCollection
	platform Platform
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(commands *CommandCollection, platform Platform) *CommandHandler {
	return &CommandHandler{
		commands: commands,
		platform: platform,
	}
}

// RegisterCommand adds a command to the collection. A command with the
// same name is replaced.
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	if _, exists := ch.commands.Get(cmd.Name); exists {
		logger.Warn("Comando duplicado, se reemplaza: "+cmd.Name, "CommandHandler")
	}
	ch.commands.Set(cmd.Name, cmd)
	logger.Debug("Comando registrado: "+cmd.Name, "CommandHandler")
}

// RegisterCommands overwrites the global slash definitions of appID with the
// registered commands. When devGuildID is set the same definitions are also
// written to that guild, where they show up immediately.
func (ch *CommandHandler) RegisterCommands(appID, devGuildID string) error {
	defs := ch.commands.ApplicationCommands()

	logger.Info("🔄 Registrando comandos globales...", "CommandHandler")
	created, err := ch.platform.ApplicationCommandBulkOverwrite(appID, "", defs)
	if err != nil {
		return fmt.Errorf("bulk overwrite global commands: %w", err)
	}
	logger.Success(fmt.Sprintf("✅ %d comandos globales registrados.", len(created)), "CommandHandler")

	if devGuildID == "" {
		return nil
	}

	logger.Info("🔄 Registrando comandos en el servidor de desarrollo "+devGuildID+"...", "CommandHandler")
	created, err = ch.platform.ApplicationCommandBulkOverwrite(appID, devGuildID, defs)
	if err != nil {
		return fmt.Errorf("bulk overwrite dev guild commands: %w", err)
	}
	logger.Success(fmt.Sprintf("✅ %d comandos de desarrollo registrados.", len(created)), "CommandHandler")
	return nil
}

// UnregisterCommands removes every slash definition of appID in guildID
// (global when empty)
func (ch *CommandHandler) UnregisterCommands(appID, guildID string) error {
	_, err := ch.platform.ApplicationCommandBulkOverwrite(appID, guildID, []*discordgo.ApplicationCommand{})
	if err != nil {
		return err
	}
	logger.Success("Comandos eliminados.", "CommandHandler")
	return nil
}

// RemoteCommands lists the slash definitions Discord currently holds
func (ch *CommandHandler) RemoteCommands(appID, guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.platform.ApplicationCommands(appID, guildID)
}

// Package utils provides the general purpose commands (ping, help, stats)
package utils

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
)

// Deps holds what the utility commands read
type Deps struct {
	Commands *discord.CommandCollection
	Prefix   string
}

// Commands returns the utility commands
func Commands(deps Deps) []*discord.Command {
	return []*discord.Command{
		createPingCommand(),
		createHelpCommand(deps),
		createStatsCommand(),
	}
}

// RegisterUtilsCommands registers the utility commands
func RegisterUtilsCommands(handler *discord.CommandHandler, deps Deps) {
	for _, cmd := range Commands(deps) {
		handler.RegisterCommand(cmd)
	}
}

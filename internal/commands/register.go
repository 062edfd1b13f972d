// Package commands wires every command category into the client.
// Commands are organized in subdirectories by category (utils, scan, mod).
package commands

import (
	"github.com/PancyStudios/PancyModGo/internal/commands/mod"
	"github.com/PancyStudios/PancyModGo/internal/commands/scan"
	"github.com/PancyStudios/PancyModGo/internal/commands/utils"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

// Deps groups the collaborators of every command category
type Deps struct {
	Scan scan.Deps
	Mod  mod.Deps
}

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, deps Deps) {
	utils.RegisterUtilsCommands(client.CommandHandler, utils.Deps{
		Commands: client.Commands,
		Prefix:   client.Dispatcher.Prefix,
	})
	scan.RegisterScanCommands(client.CommandHandler, deps.Scan)
	mod.RegisterModCommands(client.CommandHandler, deps.Mod)

	logger.Success("✅ Comandos registrados", "Commands")
}

// Definitions returns every command without a client, for tooling that only
// needs the slash definitions
func Definitions(deps Deps) *discord.CommandCollection {
	collection := discord.NewCommandCollection()
	all := append(utils.Commands(utils.Deps{Commands: collection}), scan.Commands(deps.Scan)...)
	all = append(all, mod.Commands(deps.Mod)...)
	for _, cmd := range all {
		collection.Set(cmd.Name, cmd)
	}
	return collection
}

// Package main provides a utility to sync Discord slash commands.
// It replaces the slash definitions Discord holds with the ones this build defines.
//
// Usage:
//
//	go run ./cmd/sync-commands [options]
//
// Options:
//
//	-list           List the registered commands
//	-clean          Remove all commands without registering new ones
//	-guild <id>     Target a specific guild instead of global commands
//	-sync           Overwrite the registered commands with the current ones (default)
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PancyStudios/PancyModGo/internal/commands"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
)

func main() {
	listCmd := flag.Bool("list", false, "List all registered commands")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	guildID := flag.String("guild", "", "Target a specific guild (leave empty for global)")
	syncCmd := flag.Bool("sync", false, "Overwrite the registered commands with the current ones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando utilidad de sincronización de comandos...", "SyncCommands")

	client, err := discord.NewClient(cfg.BotToken, cfg.Prefix)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "SyncCommands")
		os.Exit(1)
	}

	appID := cfg.ClientID
	if appID == "" {
		me, err := client.Session.User("@me")
		if err != nil {
			logger.Critical(fmt.Sprintf("CLIENT_ID no configurado y no se pudo obtener el usuario del bot: %v", err), "SyncCommands")
			os.Exit(1)
		}
		appID = me.ID
	}

	// Only the definitions are needed, so the handlers get no collaborators
	for _, cmd := range commands.Definitions(commands.Deps{}).Sorted() {
		client.CommandHandler.RegisterCommand(cmd)
	}

	switch {
	case *listCmd:
		err = listCommands(client, appID, *guildID)
	case *cleanCmd:
		err = client.CommandHandler.UnregisterCommands(appID, *guildID)
	case *syncCmd:
		err = syncCommands(client, appID, *guildID)
	default:
		err = syncCommands(client, appID, *guildID)
	}
	if err != nil {
		logger.Error(fmt.Sprintf("Error: %v", err), "SyncCommands")
		os.Exit(1)
	}

	logger.Success("Operación completada exitosamente", "SyncCommands")
}

// listCommands lists the commands registered with Discord
func listCommands(client *discord.ExtendedClient, appID, guildID string) error {
	scope := "globales"
	if guildID != "" {
		scope = "del servidor " + guildID
	}
	logger.Info(fmt.Sprintf("📋 Listando comandos %s...", scope), "SyncCommands")

	cmds, err := client.CommandHandler.RemoteCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("obteniendo comandos: %w", err)
	}
	if len(cmds) == 0 {
		logger.Info("No hay comandos registrados", "SyncCommands")
		return nil
	}

	logger.Info(fmt.Sprintf("Comandos encontrados: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "SyncCommands")
	}
	return nil
}

// syncCommands overwrites the global commands, or only the guild's when guildID is set
func syncCommands(client *discord.ExtendedClient, appID, guildID string) error {
	logger.Info("🔄 Sincronizando comandos...", "SyncCommands")

	if guildID == "" {
		return client.CommandHandler.RegisterCommands(appID, "")
	}

	defs := client.Commands.ApplicationCommands()
	created, err := client.Session.ApplicationCommandBulkOverwrite(appID, guildID, defs)
	if err != nil {
		return fmt.Errorf("sincronizando comandos del servidor %s: %w", guildID, err)
	}
	logger.Success(fmt.Sprintf("✅ %d comandos sincronizados en %s", len(created), guildID), "SyncCommands")
	return nil
}

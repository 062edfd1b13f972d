// Package main is the entry point for the PancyMod Go application.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/PancyModGo/internal/commands"
	"github.com/PancyStudios/PancyModGo/internal/commands/mod"
	"github.com/PancyStudios/PancyModGo/internal/commands/scan"
	"github.com/PancyStudios/PancyModGo/internal/events"
	"github.com/PancyStudios/PancyModGo/internal/remote"
	"github.com/PancyStudios/PancyModGo/pkg/config"
	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/mqtt"
	"github.com/PancyStudios/PancyModGo/pkg/scheduler"
	"github.com/PancyStudios/PancyModGo/pkg/uploads"
	"github.com/PancyStudios/PancyModGo/pkg/virustotal"
	"github.com/PancyStudios/PancyModGo/pkg/web"
)

const warningsCollection = "warnings"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System(fmt.Sprintf("Iniciando PancyMod Go %s (%s)...", config.Version, config.BuildTime), "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	if cfg.BotToken == "" {
		logger.Critical("TOKEN no está configurado", "Main")
		os.Exit(1)
	}

	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})

	// Warning store
	var db *database.Database
	var backend database.Backend = database.NewFileBackend(cfg.WarningsFile)
	if cfg.UsesMongo() {
		db = database.NewDatabase()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := db.Connect(ctx, cfg.MongoDBURL, cfg.DBName)
		cancel()
		if err != nil {
			logger.Critical(fmt.Sprintf("Error conectando a la base de datos: %v", err), "Main")
			os.Exit(1)
		}
		defer func() { _ = db.Disconnect() }()
		backend = database.NewMongoBackend(db, warningsCollection)
	}

	store, err := database.OpenWarningStore(context.Background(), backend)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error abriendo el almacén de advertencias: %v", err), "Main")
		os.Exit(1)
	}

	// Uploads and deferred deletion
	uploadStore, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error preparando el directorio de archivos: %v", err), "Main")
		os.Exit(1)
	}
	if removed, err := uploadStore.Sweep(scan.DefaultRetention); err != nil {
		logger.Warn(fmt.Sprintf("Error limpiando archivos antiguos: %v", err), "Main")
	} else if removed > 0 {
		logger.Info(fmt.Sprintf("🧹 %d archivos antiguos eliminados", removed), "Main")
	}

	sched := scheduler.New()
	defer sched.Stop()

	if cfg.VirusTotalAPIKey == "" {
		logger.Warn("VIRUSTOTAL_API_KEY no está configurado, filescan fallará", "Main")
	}
	vt := virustotal.NewClient(cfg.VirusTotalAPIKey)

	// MQTT event feed
	var eventFeed mqtt.Publisher
	var mqttClient *mqtt.MqttCommunicator
	if cfg.MQTTEnabled() {
		clientID := "pancymod"
		if !cfg.IsProd() {
			clientID = "pancymod_canary"
		}
		mqttClient = mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, clientID)
		defer mqttClient.Destroy()
		eventFeed = mqttClient

		if err := remote.Register(mqttClient, store); err != nil {
			logger.Warn(fmt.Sprintf("Error registrando las solicitudes MQTT: %v", err), "Main")
		}
	}

	// Discord client
	discordClient, err = discord.Init(cfg.BotToken, cfg.Prefix)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	commands.RegisterAll(discordClient, commands.Deps{
		Scan: scan.Deps{
			Scanner:   vt,
			Uploads:   uploadStore,
			Scheduler: sched,
			Events:    eventFeed,
			Retention: scan.DefaultRetention,
		},
		Mod: mod.Deps{
			Store:             store,
			Events:            eventFeed,
			IsolationRoleID:   cfg.IsolationRoleID,
			IsolationRoleName: cfg.IsolationRoleName,
		},
	})

	events.RegisterAll(discordClient, events.Deps{
		Prefix: cfg.Prefix,
		Store:  store,
	})

	// Web server
	webServer, err := web.Init(web.Options{
		WebhookURL:   cfg.LogsWebServerHook,
		AllowedHosts: cfg.AllowedHosts,
		APIToken:     cfg.APIToken,
	})
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el servidor web: %v", err), "Main")
		os.Exit(1)
	}
	sources := web.Sources{
		Bot:       discordClient,
		Store:     store,
		Scheduler: sched,
		Database:  db,
	}
	if mqttClient != nil {
		sources.Events = mqttClient
	}
	web.SetupAPIRoutes(webServer, sources)
	webServer.StartAsync(cfg.Port)
	defer func() { _ = webServer.Shutdown(5 * time.Second) }()

	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() { _ = discordClient.Stop() }()

	logger.Success("PancyMod Go iniciado correctamente!", "Main")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando PancyMod Go...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}

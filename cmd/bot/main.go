// Package main is the entry point for the PancyCommunity bot.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/internal/commands"
	"github.com/PancyStudios/PancyCommunity/internal/commands/utils"
	"github.com/PancyStudios/PancyCommunity/internal/events"
	"github.com/PancyStudios/PancyCommunity/internal/settings"
	"github.com/PancyStudios/PancyCommunity/internal/tempvoice"
	"github.com/PancyStudios/PancyCommunity/internal/tickets"
	"github.com/PancyStudios/PancyCommunity/internal/warns"
	"github.com/PancyStudios/PancyCommunity/pkg/config"
	"github.com/PancyStudios/PancyCommunity/pkg/database"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/errors"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/PancyStudios/PancyCommunity/pkg/metrics"
	"github.com/PancyStudios/PancyCommunity/pkg/mqtt"
	"github.com/PancyStudios/PancyCommunity/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(logger.Options{
		Dir:          cfg.LogDir,
		ErrorWebhook: cfg.ErrorWebhook,
		LogsWebhook:  cfg.LogsWebhook,
		MinLevel:     logger.ParseLevel(cfg.LogLevel),
	})
	defer log.Close()

	logger.System("Iniciando PancyCommunity "+config.Version+"...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	var voice *tempvoice.Manager
	errors.Init(cfg.ErrorWebhook, func() {
		if voice != nil {
			voice.Close()
		}
		if discordClient != nil {
			if err := discordClient.Stop(); err != nil {
				logger.Error(fmt.Sprintf("Error cerrando el cliente: %v", err), "Main")
			}
		}
	})

	metrics.Init()

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Initialize persistence
	st, closeStore, err := openStore(cfg, discordClient)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error abriendo el almacenamiento: %v", err), "Main")
		os.Exit(1)
	}
	defer closeStore()

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	settingsManager := settings.NewManager(st, cfg.HubChannelID)
	if err := settingsManager.Load(loadCtx); err != nil {
		logger.Error(fmt.Sprintf("Error cargando la configuración de servidores: %v", err), "Main")
	}
	warnService := warns.NewService(st)
	if err := warnService.Load(loadCtx); err != nil {
		logger.Error(fmt.Sprintf("Error cargando las advertencias: %v", err), "Main")
	}
	cancelLoad()

	// Initialize MQTT
	mqttClientID := "pancycommunity"
	if !cfg.IsProd() {
		mqttClientID = "pancycommunity_canary"
	}
	mqttClient := mqtt.Init(mqtt.Options{
		Host:     cfg.MQTTHost,
		Port:     cfg.MQTTPort,
		Username: cfg.MQTTUser,
		Password: cfg.MQTTPassword,
		ClientID: mqttClientID,
		Prefix:   cfg.MQTTPrefix,
	})
	defer mqttClient.Destroy()

	// Domain services
	audit := auditlog.New(discordClient.Session, settingsManager)

	voice = tempvoice.NewManager(
		discordClient.Session,
		settingsManager,
		tempvoice.StateOccupancy(discordClient.Session.State),
		tempvoice.Options{
			NameFormat: cfg.TempVoiceName,
			UserLimit:  cfg.TempVoiceUserLimit,
			Timeout:    cfg.TempVoiceTimeout,
			SweepGrace: cfg.TempVoiceGrace,
		},
		roomHooks(audit, mqttClient),
	)
	defer voice.Close()

	ticketService := tickets.NewService(discordClient.Session, settingsManager, audit, ticketHooks(mqttClient))

	mqttClient.On("rooms", func(map[string]interface{}) (interface{}, error) {
		return voice.Rooms(), nil
	})

	// Initialize web server
	webServer := web.NewServer(web.Options{
		WebhookURL:   cfg.LogsWebServerHook,
		AllowedHosts: cfg.AllowedHosts,
	})
	web.SetupAPIRoutes(webServer, webDeps(cfg, discordClient, voice, settingsManager, mqttClient))
	webServer.StartAsync(cfg.Port)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := webServer.Shutdown(ctx); err != nil {
			logger.Warn(fmt.Sprintf("Error cerrando el servidor web: %v", err), "Main")
		}
	}()

	// Register commands using the commands package
	commands.RegisterAll(discordClient, commands.Deps{
		Settings:   settingsManager,
		Warns:      warnService,
		Tickets:    ticketService,
		Audit:      audit,
		Events:     mqttClient,
		Rooms:      voice,
		StoreCache: storeCache(st),
		Utils: utils.Deps{
			StoreBackend: cfg.Backend(),
			Database:     databaseStatus(cfg),
			DatabasePing: databasePing(cfg),
			ActiveRooms:  func() int { return len(voice.Rooms()) },
		},
	})

	// Register events using the events package
	events.RegisterAll(discordClient, events.Deps{
		Audit: audit,
		Voice: voice,
	})

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func() {
		if err := discordClient.Stop(); err != nil {
			logger.Error(fmt.Sprintf("Error cerrando el cliente: %v", err), "Main")
		}
	}()

	if err := voice.StartSweeper(cfg.TempVoiceSweep); err != nil {
		logger.Error(err.Error(), "Main")
	}

	logger.Success("PancyCommunity iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando PancyCommunity...", "Main")
}

// databaseStatus reports the Mongo status, nil when Mongo is not the backend
func databaseStatus(cfg *config.Config) func() (string, bool) {
	if cfg.Backend() != config.BackendMongo {
		return nil
	}
	return func() (string, bool) {
		return database.Get().GetStatus()
	}
}

// databasePing measures the Mongo round trip, nil when Mongo is not the backend
func databasePing(cfg *config.Config) func() (time.Duration, error) {
	if cfg.Backend() != config.BackendMongo {
		return nil
	}
	return func() (time.Duration, error) {
		db := database.Get()
		if db == nil {
			return 0, fmt.Errorf("database not initialized")
		}
		return db.Ping()
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}

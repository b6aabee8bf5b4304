// Package main provides a utility to sync Discord slash commands.
// Bulk overwrite removes stale commands from Discord and publishes the
// currently defined ones.
//
// Usage:
//
//	sync-commands [--guild <id>] list|clean|sync
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/PancyStudios/PancyCommunity/internal/commands"
	"github.com/PancyStudios/PancyCommunity/pkg/config"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/urfave/cli/v3"
)

var flagGuild = cli.StringFlag{
	Name:  "guild",
	Usage: "Target a specific guild instead of the global commands",
}

var app = cli.Command{
	Name:  "sync-commands",
	Usage: "Manage the slash commands published on Discord",

	Flags: []cli.Flag{
		&flagGuild,
	},
	Commands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List the published commands",
			Action: withClient(listCommands),
		},
		{
			Name:   "clean",
			Usage:  "Remove every published command",
			Action: withClient(cleanCommands),
		},
		{
			Name:   "sync",
			Usage:  "Replace the published commands with the current ones",
			Action: withClient(syncCommands),
		},
	},
	Action: withClient(syncCommands),
}

func main() {
	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type clientAction func(client *discord.ExtendedClient, guildID string) error

// withClient connects to Discord, registers the command definitions and runs fn
func withClient(fn clientAction) func(context.Context, *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		log := logger.Init(logger.Options{
			Dir:      cfg.LogDir,
			MinLevel: logger.ParseLevel(cfg.LogLevel),
		})
		defer log.Close()

		logger.System("Iniciando utilidad de sincronización de comandos...", "SyncCommands")

		client, err := discord.NewClient(cfg.BotToken)
		if err != nil {
			return fmt.Errorf("create Discord client: %w", err)
		}

		// The application ID comes from the ready payload
		if err := client.Session.Open(); err != nil {
			return fmt.Errorf("connect to Discord: %w", err)
		}
		defer client.Session.Close()

		logger.Success("Conectado a Discord", "SyncCommands")

		// Only the definitions are needed, handlers never run here
		commands.RegisterAll(client, commands.Deps{})

		if err := fn(client, cmd.String(flagGuild.Name)); err != nil {
			return err
		}
		logger.Success("Operación completada exitosamente", "SyncCommands")
		return nil
	}
}

// listCommands lists all commands registered with Discord
func listCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("📋 Listando comandos registrados...", "SyncCommands")

	var cmds []*discordgo.ApplicationCommand
	var err error
	if guildID != "" {
		logger.Info(fmt.Sprintf("Obteniendo comandos del servidor: %s", guildID), "SyncCommands")
		cmds, err = client.CommandHandler.ListGuildCommands(guildID)
	} else {
		logger.Info("Obteniendo comandos globales", "SyncCommands")
		cmds, err = client.CommandHandler.ListGlobalCommands()
	}
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
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

// cleanCommands removes all commands from Discord
func cleanCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🧹 Eliminando todos los comandos...", "SyncCommands")

	if err := client.CommandHandler.UnregisterGuildCommands(guildID); err != nil {
		return fmt.Errorf("remove commands: %w", err)
	}

	logger.Success("✅ Todos los comandos han sido eliminados", "SyncCommands")
	return nil
}

// syncCommands replaces the published commands with the registered ones
func syncCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🔄 Sincronizando comandos...", "SyncCommands")

	if err := client.CommandHandler.SyncCommands(guildID); err != nil {
		return fmt.Errorf("sync commands: %w", err)
	}

	logger.Success("✅ Comandos sincronizados correctamente", "SyncCommands")
	return nil
}

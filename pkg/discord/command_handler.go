// Package discord provides the command handler for loading and registering commands.
package discord

import (
	"fmt"
	"sort"

	"github.com/PancyStudios/PancyCommunity/pkg/config"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// ApplicationCommandsAPI is the subset of *discordgo.Session used to publish commands
type ApplicationCommandsAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client           *ExtendedClient
	api              ApplicationCommandsAPI
	appID            func() string
	slashCommands    []*discordgo.ApplicationCommand
	slashCommandsDev []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	ch := &CommandHandler{
		client:           client,
		appID:            client.BotID,
		slashCommands:    make([]*discordgo.ApplicationCommand, 0),
		slashCommandsDev: make([]*discordgo.ApplicationCommand, 0),
	}
	if client.Session != nil {
		ch.api = client.Session
	}
	return ch
}

// LoadCommands logs what has been registered so far.
// Commands are registered programmatically through RegisterCommand and AddGlobalCommand.
func (ch *CommandHandler) LoadCommands() error {
	logger.System(fmt.Sprintf("Carga finalizada. %d comandos globales, %d de desarrollo, %d handlers.",
		len(ch.slashCommands), len(ch.slashCommandsDev), ch.client.Commands.Size()), "CommandHandler")
	return nil
}

// RegisterCommand adds a command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)

	ch.slashCommands = append(ch.slashCommands, cmd.ToApplicationCommand())

	logger.Debug("Comando registrado: "+cmd.Name, "CommandHandler")
}

// BuildCommandGroup creates a command group with subcommands.
// The group itself is not published; pass the result to AddGlobalCommand or AddDevCommand.
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))

	for _, cmd := range subcommands {
		fullName := name + "." + cmd.Name
		ch.client.Commands.Set(fullName, cmd)

		opt := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		}
		options = append(options, opt)
	}

	return &discordgo.ApplicationCommand{
		Name:                     name,
		Description:              description,
		Options:                  options,
		DefaultMemberPermissions: groupPermissions(subcommands),
	}
}

// groupPermissions returns the permissions shared by every subcommand, nil when
// any subcommand is open to everyone. Each subcommand is still checked by the
// permission middleware.
func groupPermissions(subcommands []*Command) *int64 {
	if len(subcommands) == 0 {
		return nil
	}
	perms := int64(-1)
	for _, cmd := range subcommands {
		if cmd.UserPermissions == 0 {
			return nil
		}
		perms &= cmd.UserPermissions
	}
	if perms == 0 {
		return nil
	}
	return &perms
}

// AddGlobalCommand adds a command to the global command list
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommands = append(ch.slashCommands, cmd)
}

// AddDevCommand adds a command to the dev command list
func (ch *CommandHandler) AddDevCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommandsDev = append(ch.slashCommandsDev, cmd)
}

// GlobalCommands returns the application commands published globally
func (ch *CommandHandler) GlobalCommands() []*discordgo.ApplicationCommand {
	return ch.slashCommands
}

// RegisterCommands publishes every command. Bulk overwrite replaces the whole set,
// so commands removed from the code disappear from Discord too.
func (ch *CommandHandler) RegisterCommands() {
	cfg := config.Get()

	logger.Info("🔄 Registrando comandos globales...", "CommandHandler")
	if err := ch.SyncCommands(""); err != nil {
		logger.Error("Error registrando comandos globales: "+err.Error(), "CommandHandler")
	} else {
		logger.Success("✅ Comandos globales registrados.", "CommandHandler")
	}

	if cfg.DevGuildID != "" && len(ch.slashCommandsDev) > 0 {
		logger.Info("🔄 Registrando comandos de desarrollo en el servidor "+cfg.DevGuildID+"...", "CommandHandler")
		if err := ch.SyncCommands(cfg.DevGuildID); err != nil {
			logger.Error("Error registrando comandos de desarrollo: "+err.Error(), "CommandHandler")
		} else {
			logger.Success("✅ Comandos de desarrollo registrados.", "CommandHandler")
		}
	}
}

// commandsFor returns the commands published in guildID ("" for global).
// The dev guild gets the dev commands; any other guild gets a copy of the
// global set, which Discord applies instantly.
func (ch *CommandHandler) commandsFor(guildID string) []*discordgo.ApplicationCommand {
	if guildID == "" {
		return ch.slashCommands
	}
	if guildID == config.Get().DevGuildID {
		return ch.slashCommandsDev
	}
	return ch.slashCommands
}

// SyncCommands replaces the commands of guildID ("" for global) with the registered ones
func (ch *CommandHandler) SyncCommands(guildID string) error {
	if ch.api == nil {
		return fmt.Errorf("no session")
	}
	commands := ch.commandsFor(guildID)
	if commands == nil {
		commands = []*discordgo.ApplicationCommand{}
	}
	_, err := ch.api.ApplicationCommandBulkOverwrite(ch.appID(), guildID, commands)
	return err
}

// ListGlobalCommands returns the global commands currently published, sorted by name
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.ListGuildCommands("")
}

// ListGuildCommands returns the commands currently published in guildID, sorted by name
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	if ch.api == nil {
		return nil, fmt.Errorf("no session")
	}
	cmds, err := ch.api.ApplicationCommands(ch.appID(), guildID)
	if err != nil {
		return nil, err
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds, nil
}

// UnregisterGuildCommands removes every command of guildID ("" for global)
func (ch *CommandHandler) UnregisterGuildCommands(guildID string) error {
	if ch.api == nil {
		return fmt.Errorf("no session")
	}
	_, err := ch.api.ApplicationCommandBulkOverwrite(ch.appID(), guildID, []*discordgo.ApplicationCommand{})
	if err != nil {
		return err
	}
	logger.Success("Comandos eliminados.", "CommandHandler")
	return nil
}

// UnregisterCommands removes all global commands from Discord
func (ch *CommandHandler) UnregisterCommands() error {
	return ch.UnregisterGuildCommands("")
}

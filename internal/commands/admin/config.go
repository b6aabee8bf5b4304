package admin

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/bwmarrin/discordgo"
)

func (a *admin) ticketsCommand() *discord.Command {
	return discord.NewCommand(
		"tickets",
		"Configurer la catégorie et le rôle support des tickets",
		"config",
		a.setTickets,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "categorie",
			Description:  "Catégorie où créer les tickets",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildCategory},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: "Rôle du support",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

func (a *admin) logsCommand() *discord.Command {
	return discord.NewCommand(
		"logs",
		"Configurer le salon des logs",
		"config",
		a.setLogs,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "salon",
			Description:  "Salon des logs",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
		},
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

func (a *admin) voiceCommand() *discord.Command {
	return discord.NewCommand(
		"vocaux",
		"Configurer le salon vocal hub des salons temporaires",
		"config",
		a.setVoice,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionChannel,
			Name:         "salon",
			Description:  "Salon vocal à rejoindre pour créer un salon",
			Required:     true,
			ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildVoice},
		},
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

func (a *admin) showCommand() *discord.Command {
	return discord.NewCommand(
		"show",
		"Afficher la configuration actuelle",
		"config",
		a.show,
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

func (a *admin) setTickets(ctx *discord.CommandContext) error {
	category := ctx.GetChannelOption("categorie")
	role := ctx.GetRoleOption("role")
	if category == nil || role == nil {
		return ctx.ReplyEphemeral("❌ Catégorie ou rôle manquant.")
	}

	cfg := models.TicketSettings{CategoryID: category.ID, SupportRoleID: role.ID}
	if err := a.settings.SetTickets(context.Background(), ctx.GuildID(), cfg); err != nil {
		return a.saveFailed(ctx, err)
	}

	a.audit.Send(ctx.GuildID(), auditlog.Entry{
		Title: "⚙️ Configuration des tickets",
		Description: fmt.Sprintf("<@%s> a configuré les tickets\n**Catégorie :** <#%s>\n**Rôle support :** <@&%s>",
			ctx.User().ID, category.ID, role.ID),
		Color: auditlog.ColorInfo,
	})
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Tickets configurés : catégorie <#%s>, rôle <@&%s>.", category.ID, role.ID))
}

func (a *admin) setLogs(ctx *discord.CommandContext) error {
	channel := ctx.GetChannelOption("salon")
	if channel == nil {
		return ctx.ReplyEphemeral("❌ Salon manquant.")
	}

	if err := a.settings.SetLogChannel(context.Background(), ctx.GuildID(), channel.ID); err != nil {
		return a.saveFailed(ctx, err)
	}

	// Sent to the new channel, which doubles as a check that the bot can write there
	if !a.audit.Send(ctx.GuildID(), auditlog.Entry{
		Title:       "⚙️ Salon des logs",
		Description: fmt.Sprintf("<@%s> a défini ce salon comme salon des logs.", ctx.User().ID),
		Color:       auditlog.ColorInfo,
	}) {
		return ctx.ReplyEphemeral(fmt.Sprintf("⚠️ Salon des logs défini sur <#%s>, mais le bot ne peut pas y écrire.", channel.ID))
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Salon des logs défini sur <#%s>.", channel.ID))
}

func (a *admin) setVoice(ctx *discord.CommandContext) error {
	channel := ctx.GetChannelOption("salon")
	if channel == nil {
		return ctx.ReplyEphemeral("❌ Salon manquant.")
	}

	if err := a.settings.SetHubChannel(context.Background(), ctx.GuildID(), channel.ID); err != nil {
		return a.saveFailed(ctx, err)
	}

	a.audit.Send(ctx.GuildID(), auditlog.Entry{
		Title:       "⚙️ Salons vocaux temporaires",
		Description: fmt.Sprintf("<@%s> a défini <#%s> comme salon hub.", ctx.User().ID, channel.ID),
		Color:       auditlog.ColorInfo,
	})
	return ctx.ReplyEphemeral(fmt.Sprintf("✅ Salon hub défini sur <#%s>. Rejoignez-le pour créer un salon temporaire.", channel.ID))
}

func (a *admin) show(ctx *discord.CommandContext) error {
	return ctx.ReplyEphemeralEmbed(a.settingsEmbed(ctx.GuildID()))
}

// settingsEmbed renders the configuration of guildID, "Non configuré" for unset entries
func (a *admin) settingsEmbed(guildID string) *discordgo.MessageEmbed {
	const unset = "Non configuré"

	tickets := unset
	if t, ok := a.settings.Tickets(guildID); ok {
		tickets = fmt.Sprintf("Catégorie <#%s>\nRôle <@&%s>", t.CategoryID, t.SupportRoleID)
	}
	logs := unset
	if c, ok := a.settings.LogChannel(guildID); ok {
		logs = fmt.Sprintf("<#%s>", c)
	}
	hub := unset
	if c, ok := a.settings.HubChannel(guildID); ok {
		hub = fmt.Sprintf("<#%s>", c)
	}

	return &discordgo.MessageEmbed{
		Title: "⚙️ Configuration du serveur",
		Color: auditlog.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			auditlog.Field("🎟️ Tickets", tickets, false),
			auditlog.Field("📝 Logs", logs, true),
			auditlog.Field("🔊 Hub vocal", hub, true),
		},
	}
}

// saveFailed reports a failed save. The in-memory value is already updated, so
// the setting applies until restart.
func (a *admin) saveFailed(ctx *discord.CommandContext, err error) error {
	_ = ctx.ReplyEphemeral("⚠️ Configuration appliquée, mais elle n'a pas pu être sauvegardée. Elle sera perdue au redémarrage.")
	return err
}

package utils

import (
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
)

const helpText = "📖 **Aide de PancyCommunity**\n\n" +
	"**Tickets**\n" +
	"• `/ticket` - Ouvrir un ticket\n" +
	"• `/setup-ticket <salon> <message>` - Publier le panneau des tickets\n\n" +
	"**Configuration**\n" +
	"• `/config tickets <catégorie> <rôle>` - Catégorie et rôle support\n" +
	"• `/config logs <salon>` - Salon des logs\n" +
	"• `/config vocaux <salon>` - Salon vocal hub\n" +
	"• `/config show` - Configuration actuelle\n\n" +
	"**Modération**\n" +
	"• `/mod ban <membre> [raison]` - Bannir un membre\n" +
	"• `/mod kick <membre> [raison]` - Expulser un membre\n" +
	"• `/mod mute <membre> <durée> [raison]` - Rendre muet\n" +
	"• `/mod warn <membre> <raison>` - Avertir un membre\n" +
	"• `/mod warns [membre]` - Liste des avertissements\n" +
	"• `/mod removewarn <membre> <id>` - Retirer un avertissement\n" +
	"• `/mod clearwarns <membre>` - Retirer tous les avertissements\n\n" +
	"**Utilitaires**\n" +
	"• `/utils ping` - Latence\n" +
	"• `/utils status` - État du bot\n" +
	"• `/utils stats` - Statistiques\n" +
	"• `/utils send <salon> <message>` - Envoyer un message\n" +
	"• `/utils clear <nombre>` ou `+clear <nombre>` - Supprimer des messages"

// helpCommand creates the /utils help subcommand
func (u *utilities) helpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Afficher l'aide",
		"utils",
		func(ctx *discord.CommandContext) error {
			return ctx.ReplyEphemeral(helpText)
		},
	)
}

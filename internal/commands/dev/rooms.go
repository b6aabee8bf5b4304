package dev

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyCommunity/internal/tempvoice"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// maxListedRooms keeps the reply under the message length limit
const maxListedRooms = 20

func (d *dev) roomsCommand() *discord.Command {
	return discord.NewCommand(
		"rooms",
		"Lister les salons vocaux temporaires",
		"dev",
		d.rooms,
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

func (d *dev) rooms(ctx *discord.CommandContext) error {
	return ctx.ReplyEphemeral(roomsText(d.Rooms.Rooms(), time.Now()))
}

func roomsText(rooms []tempvoice.Room, now time.Time) string {
	if len(rooms) == 0 {
		return "ℹ️ Aucun salon temporaire actif."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔊 **%d salon(s) temporaire(s)**\n", len(rooms))
	for i, r := range rooms {
		if i == maxListedRooms {
			fmt.Fprintf(&b, "… et %d autre(s)", len(rooms)-maxListedRooms)
			break
		}
		fmt.Fprintf(&b, "• <#%s> de <@%s> (serveur `%s`, %s)\n",
			r.ChannelID, r.OwnerID, r.GuildID, now.Sub(r.CreatedAt).Truncate(time.Second))
	}
	return b.String()
}

func (d *dev) sweepCommand() *discord.Command {
	return discord.NewCommand(
		"sweep",
		"Supprimer maintenant les salons temporaires vides",
		"dev",
		d.sweep,
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

func (d *dev) sweep(ctx *discord.CommandContext) error {
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	c, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n := d.Rooms.Sweep(c)
	return ctx.EditReply(fmt.Sprintf("🧹 %d salon(s) vide(s) supprimé(s).", n))
}

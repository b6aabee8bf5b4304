package dev

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const reloadTimeout = 30 * time.Second

func (d *dev) reloadCommand() *discord.Command {
	return discord.NewCommand(
		"reload",
		"Recharger la configuration et les avertissements depuis le stockage",
		"dev",
		d.reload,
	).WithUserPermissions(discordgo.PermissionAdministrator)
}

func (d *dev) reload(ctx *discord.CommandContext) error {
	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	c, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	if err := d.reloadFromStore(c); err != nil {
		_ = ctx.EditReply("❌ Rechargement échoué : " + err.Error())
		return err
	}

	logger.Info("Datos recargados desde el almacenamiento por "+ctx.User().ID, "Dev")
	return ctx.EditReply("✅ Configuration et avertissements rechargés.")
}

// reloadFromStore drops the store's read cache first so the loaders see what is stored
func (d *dev) reloadFromStore(ctx context.Context) error {
	if d.Cache != nil {
		d.Cache.ClearCache()
	}
	return reloadAll(ctx, d.Settings, d.Warns)
}

// reloadAll stops at the first failing loader, the others keep their data
func reloadAll(ctx context.Context, loaders ...Loader) error {
	for _, l := range loaders {
		if l == nil {
			continue
		}
		if err := l.Load(ctx); err != nil {
			return fmt.Errorf("reload: %w", err)
		}
	}
	return nil
}

package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

// ErrBlocked stops the middleware chain after the middleware already answered the user
var ErrBlocked = errors.New("command blocked by middleware")

// Middleware runs before a slash command. Returning ErrBlocked skips the command silently.
type Middleware func(ctx *CommandContext, cmd *Command) error

// HasPermissions reports whether perms grants every bit of required.
// Administrator grants everything.
func HasPermissions(perms, required int64) bool {
	if required == 0 {
		return true
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return perms&required == required
}

// PermissionMiddleware enforces Command.UserPermissions with the member's
// resolved permissions in the interaction channel
func PermissionMiddleware(ctx *CommandContext, cmd *Command) error {
	if cmd.UserPermissions == 0 {
		return nil
	}

	member := ctx.Member()
	if member == nil {
		_ = ctx.ReplyEphemeral("❌ Cette commande ne peut être utilisée que sur un serveur.")
		return ErrBlocked
	}

	if !HasPermissions(member.Permissions, cmd.UserPermissions) {
		_ = ctx.ReplyEphemeral("❌ Vous n'avez pas la permission d'utiliser cette commande.")
		return ErrBlocked
	}
	return nil
}

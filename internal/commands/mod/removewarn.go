package mod

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PancyStudios/PancyCommunity/internal/auditlog"
	"github.com/PancyStudios/PancyCommunity/internal/warns"
	"github.com/PancyStudios/PancyCommunity/pkg/discord"
	"github.com/PancyStudios/PancyCommunity/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// removeWarnCommand creates the /mod removewarn subcommand
func (m *moderation) removeWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Retirer un avertissement d'un membre",
		"mod",
		m.removeWarn,
	).WithOptions(
		userOption("Membre concerné"),
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de l'avertissement, ou sa position dans /mod warns",
			Required:     true,
			Autocomplete: true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).WithAutoComplete(m.removeWarnAutoComplete)
}

// removeWarn handles the /mod removewarn command
func (m *moderation) removeWarn(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Vous devez indiquer un membre.")
	}
	ref := strings.TrimSpace(ctx.GetStringOption("id"))
	if ref == "" {
		return ctx.ReplyEphemeral("❌ Vous devez indiquer l'avertissement à retirer.")
	}

	if err := ctx.DeferEphemeral(); err != nil {
		return err
	}

	removed, err := removeByRef(context.Background(), m.Warns, ctx.GuildID(), user.ID, ref)
	if errors.Is(err, warns.ErrNotFound) {
		return ctx.EditReply(fmt.Sprintf("❌ Aucun avertissement `%s` pour %s.", ref, mention(user.ID)))
	}
	if err != nil {
		_ = ctx.EditReply("❌ L'avertissement n'a pas pu être retiré.")
		return fmt.Errorf("remove warn: %w", err)
	}

	m.Audit.Send(ctx.GuildID(), auditlog.Entry{
		Title: "🗑️ Avertissement retiré",
		Description: fmt.Sprintf("%s a retiré l'avertissement `%s` de %s\n**Raison d'origine :** %s",
			mention(ctx.User().ID), removed.ID, mention(user.ID), removed.Reason),
		Color: auditlog.ColorInfo,
	})

	dmErr := sendDM(ctx.Session, user.ID, &discordgo.MessageEmbed{
		Title:       "ℹ️ Avertissement retiré",
		Description: fmt.Sprintf("**Serveur :** %s\n**Avertissement retiré :** %s", guildName(ctx), removed.Reason),
		Color:       auditlog.ColorSuccess,
	})

	return ctx.EditReply(fmt.Sprintf("✅ Avertissement `%s` retiré de %s.%s", removed.ID, mention(user.ID), dmNotice(user, dmErr)))
}

// removeByRef removes a warn by ID, or by 1-based position when ref is a number
// that matches no ID
func removeByRef(ctx context.Context, s *warns.Service, guildID, userID, ref string) (models.Warn, error) {
	w, err := s.RemoveByID(ctx, guildID, userID, ref)
	if !errors.Is(err, warns.ErrNotFound) {
		return w, err
	}
	pos, convErr := strconv.Atoi(ref)
	if convErr != nil {
		return w, err
	}
	return s.RemoveAt(ctx, guildID, userID, pos)
}

// removeWarnAutoComplete suggests the warns of the selected member
func (m *moderation) removeWarnAutoComplete(ctx *discord.CommandContext) {
	opt := ctx.GetOption("membre")
	if opt == nil {
		_ = ctx.SendAutoCompleteChoices(nil)
		return
	}
	// Autocomplete receives the raw user ID
	userID, _ := opt.Value.(string)

	_ = ctx.SendAutoCompleteChoices(warnChoices(m.Warns.List(ctx.GuildID(), userID)))
}

func warnChoices(list []models.Warn) []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(list))
	for i, w := range list {
		if i >= 25 {
			break
		}
		name := []rune(fmt.Sprintf("#%d · %s · %s", i+1, w.ID, w.Reason))
		if len(name) > 100 {
			name = append(name[:97], '…')
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  string(name),
			Value: w.ID,
		})
	}
	return choices
}

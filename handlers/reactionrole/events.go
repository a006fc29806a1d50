package reactionrole

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"community-bot/model"
	"community-bot/utils"
	"community-bot/utils/database"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// ReactionEvent is the shape of an inbound reaction notification. EmojiID is
// empty for unicode emojis; for custom emojis the animated flag comes from
// the payload, never from the name.
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	EmojiName string
	EmojiID   string
	Animated  bool
}

// RoleManager is the guild-membership side of the chat platform.
type RoleManager interface {
	MemberRoles(guildID, userID string) ([]string, error)
	GrantRole(guildID, userID, roleID, reason string) error
	RevokeRole(guildID, userID, roleID, reason string) error
	RemoveUserReaction(channelID, messageID, emojiKey, userID string) error
}

type discordRoleManager struct {
	s *discordgo.Session
}

// NewRoleManager returns a RoleManager backed by a live Discord session.
func NewRoleManager(s *discordgo.Session) RoleManager {
	return &discordRoleManager{s: s}
}

func (m *discordRoleManager) MemberRoles(guildID, userID string) ([]string, error) {
	member, err := m.s.GuildMember(guildID, userID)
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}

func (m *discordRoleManager) GrantRole(guildID, userID, roleID, reason string) error {
	return m.s.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
}

func (m *discordRoleManager) RevokeRole(guildID, userID, roleID, reason string) error {
	return m.s.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithAuditLogReason(reason))
}

func (m *discordRoleManager) RemoveUserReaction(channelID, messageID, emojiKey, userID string) error {
	return m.s.MessageReactionRemove(channelID, messageID, utils.EmojiAPIName(emojiKey), userID)
}

// EventHandler turns raw reaction notifications into role grants and
// revocations. It never returns an error: a reaction event has no human
// waiting for a reply, so every failure is a logged no-op.
type EventHandler struct {
	db        *sqlx.DB
	roles     RoleManager
	botUserID string
}

func NewEventHandler(db *sqlx.DB, roles RoleManager, botUserID string) *EventHandler {
	return &EventHandler{db: db, roles: roles, botUserID: botUserID}
}

func (h *EventHandler) OnReactionAdd(ev ReactionEvent) {
	h.handle(ev, true)
}

func (h *EventHandler) OnReactionRemove(ev ReactionEvent) {
	h.handle(ev, false)
}

func (h *EventHandler) handle(ev ReactionEvent, added bool) {
	// Our own reactions and DM reactions are not events.
	if ev.UserID == h.botUserID || ev.GuildID == "" {
		return
	}

	panel, err := database.GetPanelByMessage(h.db, ev.GuildID, ev.MessageID)
	if err != nil {
		log.Printf("reaction event on message %s in guild %s: panel lookup failed: %v", ev.MessageID, ev.GuildID, err)
		return
	}
	if panel == nil {
		return // not a panel message
	}

	emoji, err := utils.NormalizeReactionEmoji(ev.EmojiName, ev.EmojiID, ev.Animated)
	if err != nil {
		// An unrecognized emoji on a panel message is simply not one of
		// the panel's configured roles.
		return
	}

	rr, err := database.GetReactionRole(h.db, ev.GuildID, panel.PanelID, emoji)
	if err != nil {
		var nerr *model.NotFoundError
		if !errors.As(err, &nerr) {
			log.Printf("panel %s/%s: reaction role lookup for %s failed: %v", ev.GuildID, panel.PanelID, emoji, err)
		}
		return
	}

	memberRoles, err := h.roles.MemberRoles(ev.GuildID, ev.UserID)
	if err != nil {
		log.Printf("panel %s/%s: could not fetch member %s: %v", ev.GuildID, panel.PanelID, ev.UserID, err)
		return
	}
	holds := slices.Contains(memberRoles, rr.RoleID)
	reason := fmt.Sprintf("reaction role panel %s", panel.PanelID)

	if added {
		if !holds {
			if err := h.roles.GrantRole(ev.GuildID, ev.UserID, rr.RoleID, reason); err != nil {
				log.Printf("panel %s/%s: could not grant role %s to %s: %v", ev.GuildID, panel.PanelID, rr.RoleID, ev.UserID, err)
				return
			}
		}
		if rr.Type == model.ReactionRoleTypeVerify {
			// Verify rows are one-shot claims: strip the reaction so the
			// panel acts as a button rather than a toggle.
			if err := h.roles.RemoveUserReaction(panel.ChannelID, ev.MessageID, emoji, ev.UserID); err != nil {
				log.Printf("panel %s/%s: could not strip verify reaction of %s: %v", ev.GuildID, panel.PanelID, ev.UserID, err)
			}
		}
		return
	}

	if rr.Type == model.ReactionRoleTypeVerify {
		// The strip above echoes back as a reaction-removed event for the
		// claiming user; revoking here would undo the claim immediately.
		return
	}
	if !holds {
		return
	}
	if err := h.roles.RevokeRole(ev.GuildID, ev.UserID, rr.RoleID, reason); err != nil {
		log.Printf("panel %s/%s: could not revoke role %s from %s: %v", ev.GuildID, panel.PanelID, rr.RoleID, ev.UserID, err)
	}
}

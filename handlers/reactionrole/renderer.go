package reactionrole

import (
	"fmt"
	"strings"

	"community-bot/model"
	"community-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Renderer maintains the chat message that mirrors a panel's persisted
// definition. The message is a best-effort mirror; the store stays
// authoritative when the two disagree.
type Renderer interface {
	PostPanel(channelID string, panel *model.Panel, roles []model.ReactionRole) (messageID string, err error)
	EditPanel(channelID, messageID string, panel *model.Panel, roles []model.ReactionRole) error
	DeletePanelMessage(channelID, messageID string) error
	AddReaction(channelID, messageID, emojiKey string) error
	RemoveOwnReaction(channelID, messageID, emojiKey string) error
}

type discordRenderer struct {
	s *discordgo.Session
}

// NewRenderer returns a Renderer backed by a live Discord session.
func NewRenderer(s *discordgo.Session) Renderer {
	return &discordRenderer{s: s}
}

func buildPanelEmbed(panel *model.Panel, roles []model.ReactionRole) *discordgo.MessageEmbed {
	var body strings.Builder
	if panel.Description != "" {
		body.WriteString(panel.Description)
		body.WriteString("\n\n")
	}
	if len(roles) == 0 {
		body.WriteString("*No roles configured yet.*")
	} else {
		for _, rr := range roles {
			body.WriteString(fmt.Sprintf("%s **%s**", utils.EmojiDisplay(rr.Emoji), rr.Name))
			if rr.Description != "" {
				body.WriteString(" — " + rr.Description)
			}
			body.WriteString("\n")
		}
	}

	return &discordgo.MessageEmbed{
		Title:       panel.Name,
		Description: body.String(),
		Color:       0x5865F2, // Discord Blurple
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Panel ID: " + panel.PanelID,
		},
	}
}

func (r *discordRenderer) PostPanel(channelID string, panel *model.Panel, roles []model.ReactionRole) (string, error) {
	msg, err := r.s.ChannelMessageSendEmbed(channelID, buildPanelEmbed(panel, roles))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (r *discordRenderer) EditPanel(channelID, messageID string, panel *model.Panel, roles []model.ReactionRole) error {
	_, err := r.s.ChannelMessageEditEmbed(channelID, messageID, buildPanelEmbed(panel, roles))
	return err
}

func (r *discordRenderer) DeletePanelMessage(channelID, messageID string) error {
	return r.s.ChannelMessageDelete(channelID, messageID)
}

func (r *discordRenderer) AddReaction(channelID, messageID, emojiKey string) error {
	return r.s.MessageReactionAdd(channelID, messageID, utils.EmojiAPIName(emojiKey))
}

func (r *discordRenderer) RemoveOwnReaction(channelID, messageID, emojiKey string) error {
	return r.s.MessageReactionRemove(channelID, messageID, utils.EmojiAPIName(emojiKey), "@me")
}

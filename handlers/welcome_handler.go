package handlers

import (
	"log"
	"strings"

	"community-bot/model"

	"github.com/bwmarrin/discordgo"
)

func renderMemberTemplate(template string, user *discordgo.User, guildName string) string {
	msg := strings.ReplaceAll(template, "{user}", user.Mention())
	msg = strings.ReplaceAll(msg, "{username}", user.Username)
	return strings.ReplaceAll(msg, "{guild}", guildName)
}

// HandleGuildMemberAdd posts the configured welcome message for a guild.
func HandleGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd, b model.Bot) {
	serverCfg, ok := b.GetConfig().ServerConfigs[m.GuildID]
	if !ok || serverCfg.WelcomeChannelID == "" || serverCfg.WelcomeMessage == "" {
		return
	}
	guildName := m.GuildID
	if guild, err := s.Guild(m.GuildID); err == nil {
		guildName = guild.Name
	}
	msg := renderMemberTemplate(serverCfg.WelcomeMessage, m.User, guildName)
	if _, err := s.ChannelMessageSend(serverCfg.WelcomeChannelID, msg); err != nil {
		log.Printf("could not send welcome message in guild %s: %v", m.GuildID, err)
	}
}

// HandleGuildMemberRemove posts the configured leave message for a guild.
func HandleGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove, b model.Bot) {
	serverCfg, ok := b.GetConfig().ServerConfigs[m.GuildID]
	if !ok || serverCfg.WelcomeChannelID == "" || serverCfg.LeaveMessage == "" {
		return
	}
	guildName := m.GuildID
	if guild, err := s.Guild(m.GuildID); err == nil {
		guildName = guild.Name
	}
	msg := renderMemberTemplate(serverCfg.LeaveMessage, m.User, guildName)
	if _, err := s.ChannelMessageSend(serverCfg.WelcomeChannelID, msg); err != nil {
		log.Printf("could not send leave message in guild %s: %v", m.GuildID, err)
	}
}

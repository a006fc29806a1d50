package moderation

import (
	"fmt"
	"log"
	"time"

	"community-bot/model"
	"community-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func logAction(s *discordgo.Session, b model.Bot, guildID, operation, detail string) {
	channelID := b.GetConfig().LogChannelID
	if serverCfg, ok := b.GetConfig().ServerConfigs[guildID]; ok && serverCfg.LogChannelID != "" {
		channelID = serverCfg.LogChannelID
	}
	if err := utils.LogInfo(s, channelID, "Moderation", operation, detail); err != nil {
		log.Printf("could not write moderation log for guild %s: %v", guildID, err)
	}
}

// HandleBanCommand bans a member with an audit reason.
func HandleBanCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	var target *discordgo.User
	reason := "no reason given"
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		}
	}
	if target == nil {
		utils.SendErrorResponse(s, i, "Pick someone to ban.")
		return
	}

	if err := s.GuildBanCreateWithReason(i.GuildID, target.ID, reason, 0); err != nil {
		log.Printf("ban of %s in guild %s failed: %v", target.ID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "Could not ban that member.")
		return
	}
	logAction(s, b, i.GuildID, "Ban", fmt.Sprintf("%s banned %s: %s", i.Member.User.Username, target.Username, reason))
	utils.SendPublicResponse(s, i, fmt.Sprintf("🔨 Banned %s. Reason: %s", target.Username, reason))
}

// HandleKickCommand removes a member from the guild.
func HandleKickCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	var target *discordgo.User
	reason := "no reason given"
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "reason":
			reason = opt.StringValue()
		}
	}
	if target == nil {
		utils.SendErrorResponse(s, i, "Pick someone to kick.")
		return
	}

	if err := s.GuildMemberDeleteWithReason(i.GuildID, target.ID, reason); err != nil {
		log.Printf("kick of %s in guild %s failed: %v", target.ID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "Could not kick that member.")
		return
	}
	logAction(s, b, i.GuildID, "Kick", fmt.Sprintf("%s kicked %s: %s", i.Member.User.Username, target.Username, reason))
	utils.SendPublicResponse(s, i, fmt.Sprintf("👢 Kicked %s. Reason: %s", target.Username, reason))
}

// HandleTimeoutCommand times a member out for a duration like 10m, 2h or 3d.
func HandleTimeoutCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	var target *discordgo.User
	durationStr := "10m"
	reason := "no reason given"
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "duration":
			durationStr = opt.StringValue()
		case "reason":
			reason = opt.StringValue()
		}
	}
	if target == nil {
		utils.SendErrorResponse(s, i, "Pick someone to time out.")
		return
	}

	duration, err := utils.ParseDuration(durationStr)
	if err != nil || duration <= 0 {
		utils.SendErrorResponse(s, i, "Invalid duration. Use forms like 10m, 2h or 3d.")
		return
	}
	// Discord caps timeouts at 28 days.
	if duration > 28*24*time.Hour {
		utils.SendErrorResponse(s, i, "Timeouts cannot exceed 28 days.")
		return
	}

	until := time.Now().Add(duration)
	if err := s.GuildMemberTimeout(i.GuildID, target.ID, &until); err != nil {
		log.Printf("timeout of %s in guild %s failed: %v", target.ID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "Could not time out that member.")
		return
	}
	logAction(s, b, i.GuildID, "Timeout", fmt.Sprintf("%s timed out %s for %s: %s", i.Member.User.Username, target.Username, durationStr, reason))
	utils.SendPublicResponse(s, i, fmt.Sprintf("🤐 Timed out %s for %s.", target.Username, utils.FormatDuration(duration)))
}

// HandleClearCommand bulk-deletes recent messages in the current channel.
func HandleClearCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	count := int64(10)
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "count" {
			count = opt.IntValue()
		}
	}
	if count < 1 || count > 100 {
		utils.SendErrorResponse(s, i, "Count must be between 1 and 100.")
		return
	}

	messages, err := s.ChannelMessages(i.ChannelID, int(count), "", "", "")
	if err != nil {
		log.Printf("message fetch in channel %s failed: %v", i.ChannelID, err)
		utils.SendErrorResponse(s, i, "Could not fetch messages.")
		return
	}
	ids := make([]string, 0, len(messages))
	for _, m := range messages {
		ids = append(ids, m.ID)
	}
	if err := s.ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
		log.Printf("bulk delete in channel %s failed: %v", i.ChannelID, err)
		utils.SendErrorResponse(s, i, "Could not delete messages. Messages older than 14 days cannot be bulk-deleted.")
		return
	}
	logAction(s, b, i.GuildID, "Clear", fmt.Sprintf("%s cleared %d messages in <#%s>", i.Member.User.Username, len(ids), i.ChannelID))
	utils.SendSimpleResponse(s, i, fmt.Sprintf("🧹 Deleted %d messages.", len(ids)))
}

package handlers

import (
	"log"

	"community-bot/bot"
	"community-bot/handlers/economy"
	"community-bot/handlers/moderation"
	"community-bot/handlers/reactionrole"
	"community-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

// requireAdmin gates a command on the invoker's configured admin roles.
func requireAdmin(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) bool {
	serverCfg, ok := b.GetConfig().ServerConfigs[i.GuildID]
	if !ok {
		utils.SendErrorResponse(s, i, "This server is not configured.")
		return false
	}
	level := utils.CheckPermission(i.Member.Roles, i.Member.User.ID, serverCfg.AdminRoleIDs, b.GetConfig().DeveloperUserIDs)
	if level == utils.GuestPermission {
		utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
		return false
	}
	return true
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	admin := func(h func(*discordgo.Session, *discordgo.InteractionCreate, *bot.Bot)) func(*discordgo.Session, *discordgo.InteractionCreate) {
		return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireAdmin(s, i, b) {
				return
			}
			h(s, i, b)
		}
	}
	public := func(h func(*discordgo.Session, *discordgo.InteractionCreate, *bot.Bot)) func(*discordgo.Session, *discordgo.InteractionCreate) {
		return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			h(s, i, b)
		}
	}

	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"panel": admin(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			reactionrole.HandlePanelCommand(s, i, b)
		}),

		"balance": public(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			economy.HandleBalanceCommand(s, i, b)
		}),
		"daily": public(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			economy.HandleDailyCommand(s, i, b)
		}),
		"pay": public(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			economy.HandlePayCommand(s, i, b)
		}),
		"history": public(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			economy.HandleHistoryCommand(s, i, b)
		}),
		"rich": public(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			economy.HandleRichCommand(s, i, b)
		}),
		"coinflip": public(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			economy.HandleCoinflipCommand(s, i, b)
		}),
		"slots": public(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			economy.HandleSlotsCommand(s, i, b)
		}),

		"ban": admin(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			moderation.HandleBanCommand(s, i, b)
		}),
		"kick": admin(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			moderation.HandleKickCommand(s, i, b)
		}),
		"timeout": admin(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			moderation.HandleTimeoutCommand(s, i, b)
		}),
		"clear": admin(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			moderation.HandleClearCommand(s, i, b)
		}),

		"ship": public(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			HandleShipCommand(s, i, b)
		}),
		"status": public(func(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
			HandleStatusCommand(s, i, b)
		}),
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})

	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	})

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		reactionEvents(s, b).OnReactionAdd(reactionrole.ReactionEvent{
			GuildID:   r.GuildID,
			ChannelID: r.ChannelID,
			MessageID: r.MessageID,
			UserID:    r.UserID,
			EmojiName: r.Emoji.Name,
			EmojiID:   r.Emoji.ID,
			Animated:  r.Emoji.Animated,
		})
	})
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
		reactionEvents(s, b).OnReactionRemove(reactionrole.ReactionEvent{
			GuildID:   r.GuildID,
			ChannelID: r.ChannelID,
			MessageID: r.MessageID,
			UserID:    r.UserID,
			EmojiName: r.Emoji.Name,
			EmojiID:   r.Emoji.ID,
			Animated:  r.Emoji.Animated,
		})
	})

	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
		HandleGuildMemberAdd(s, m, b)
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
		HandleGuildMemberRemove(s, m, b)
	})
}

// reactionEvents builds the event handler against the live session. The bot
// user id is only known once the session is ready.
func reactionEvents(s *discordgo.Session, b *bot.Bot) *reactionrole.EventHandler {
	botUserID := ""
	if s.State != nil && s.State.User != nil {
		botUserID = s.State.User.ID
	}
	return reactionrole.NewEventHandler(b.GetDB(), reactionrole.NewRoleManager(s), botUserID)
}

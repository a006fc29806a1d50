package economy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"community-bot/model"
	"community-bot/utils"
	"community-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

const dailyCooldown = 24 * time.Hour

// HandleBalanceCommand replies with a member's wallet.
func HandleBalanceCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	target := i.Member.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}

	balance, err := database.GetBalance(b.GetDB(), i.GuildID, target.ID)
	if err != nil {
		log.Printf("balance lookup for %s in guild %s failed: %v", target.ID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "Could not look up that balance.")
		return
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       "💰 Balance",
		Description: fmt.Sprintf("%s has **%d** coins.", target.Mention(), balance),
		Color:       0xF1C40F,
	})
}

// HandleDailyCommand grants the daily reward once per 24h, tracked by a
// redis TTL key.
func HandleDailyCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	userID := i.Member.User.ID
	claimed, remaining, err := b.GetCache().ClaimDaily(context.Background(), i.GuildID, userID, dailyCooldown)
	if err != nil {
		log.Printf("daily claim for %s in guild %s failed: %v", userID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "The reward service is unavailable right now.")
		return
	}
	if !claimed {
		utils.SendErrorResponse(s, i, fmt.Sprintf("You already claimed today. Try again in %s.", utils.FormatDuration(remaining)))
		return
	}

	reward := b.GetConfig().DailyReward
	if err := database.AdjustBalance(b.GetDB(), i.GuildID, userID, reward, "daily reward"); err != nil {
		log.Printf("daily credit for %s in guild %s failed: %v", userID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "Could not credit your reward, please ping a moderator.")
		return
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       "🗓️ Daily Reward",
		Description: fmt.Sprintf("You received **%d** coins. Come back tomorrow!", reward),
		Color:       0x2ECC71,
	})
}

// HandlePayCommand transfers coins between two members.
func HandlePayCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	var target *discordgo.User
	var amount int64
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "amount":
			amount = opt.IntValue()
		}
	}
	from := i.Member.User
	if target == nil {
		utils.SendErrorResponse(s, i, "Pick someone to pay.")
		return
	}
	if target.ID == from.ID {
		utils.SendErrorResponse(s, i, "You cannot pay yourself.")
		return
	}
	if target.Bot {
		utils.SendErrorResponse(s, i, "Bots have no use for coins.")
		return
	}

	err := database.Transfer(b.GetDB(), i.GuildID, from.ID, target.ID, amount, fmt.Sprintf("payment from %s", from.Username))
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			utils.SendErrorResponse(s, i, verr.Message)
			return
		}
		log.Printf("transfer %s -> %s in guild %s failed: %v", from.ID, target.ID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "The transfer failed.")
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("💸 %s paid %s **%d** coins.", from.Mention(), target.Mention(), amount))
}

// HandleHistoryCommand shows a member's latest ledger entries.
func HandleHistoryCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	userID := i.Member.User.ID
	records, err := database.GetRecentTransactions(b.GetDB(), i.GuildID, userID, 10)
	if err != nil {
		log.Printf("history lookup for %s in guild %s failed: %v", userID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "Could not load your history.")
		return
	}
	if len(records) == 0 {
		utils.SendSimpleResponse(s, i, "No transactions yet. Try `/daily`.")
		return
	}

	var lines []string
	for _, r := range records {
		sign := "+"
		if r.Delta < 0 {
			sign = ""
		}
		lines = append(lines, fmt.Sprintf("`%s%d` %s · <t:%d:R>", sign, r.Delta, r.Reason, r.Timestamp))
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       "📜 Transaction History",
		Description: strings.Join(lines, "\n"),
		Color:       0x95A5A6,
	})
}

// HandleRichCommand shows the guild's richest members.
func HandleRichCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	top, err := database.TopBalances(b.GetDB(), i.GuildID, 10)
	if err != nil {
		log.Printf("leaderboard lookup in guild %s failed: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Could not load the leaderboard.")
		return
	}
	if len(top) == 0 {
		utils.SendSimpleResponse(s, i, "Nobody has any coins yet.")
		return
	}

	var lines []string
	for rank, entry := range top {
		lines = append(lines, fmt.Sprintf("**%d.** <@%s> — %d coins", rank+1, entry.UserID, entry.Balance))
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       "🏆 Richest Members",
		Description: strings.Join(lines, "\n"),
		Color:       0xF1C40F,
	})
}

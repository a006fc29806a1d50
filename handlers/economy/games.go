package economy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"community-bot/model"
	"community-bot/utils"
	"community-bot/utils/database"

	"github.com/bwmarrin/discordgo"
)

const gambleCooldown = 15 * time.Second

// Weighted slot symbols with their triple payout multipliers.
var slotSymbols = []struct {
	emoji  string
	weight int
	payout int64
}{
	{"🍒", 5, 3},
	{"🍋", 5, 3},
	{"🍊", 4, 4},
	{"🔔", 3, 5},
	{"⭐", 2, 8},
	{"💎", 1, 15},
}

var slotTotalWeight = func() int {
	total := 0
	for _, s := range slotSymbols {
		total += s.weight
	}
	return total
}()

func spinReel() string {
	n := rand.Intn(slotTotalWeight)
	for _, s := range slotSymbols {
		if n < s.weight {
			return s.emoji
		}
		n -= s.weight
	}
	return slotSymbols[0].emoji
}

func payoutFor(emoji string) int64 {
	for _, s := range slotSymbols {
		if s.emoji == emoji {
			return s.payout
		}
	}
	return 0
}

// takeBet enforces the gamble cooldown and debits the stake. It replies to
// the interaction itself on failure and reports whether to continue.
func takeBet(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot, bet int64, game string) bool {
	userID := i.Member.User.ID
	if bet <= 0 {
		utils.SendErrorResponse(s, i, "The bet must be positive.")
		return false
	}

	ok, remaining, err := b.GetCache().GambleCooldown(context.Background(), i.GuildID, userID, gambleCooldown)
	if err != nil {
		log.Printf("gamble cooldown for %s in guild %s failed: %v", userID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "The games are closed right now.")
		return false
	}
	if !ok {
		utils.SendErrorResponse(s, i, fmt.Sprintf("Slow down! Try again in %s.", utils.FormatDuration(remaining)))
		return false
	}

	if err := database.AdjustBalance(b.GetDB(), i.GuildID, userID, -bet, game+" bet"); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			utils.SendErrorResponse(s, i, "You cannot afford that bet.")
			return false
		}
		log.Printf("bet debit for %s in guild %s failed: %v", userID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "Could not place the bet.")
		return false
	}
	return true
}

func creditWin(s *discordgo.Session, b model.Bot, guildID, userID string, amount int64, game string) {
	if err := database.AdjustBalance(b.GetDB(), guildID, userID, amount, game+" win"); err != nil {
		log.Printf("win credit for %s in guild %s failed: %v", userID, guildID, err)
	}
}

// HandleCoinflipCommand plays double-or-nothing on a coin toss.
func HandleCoinflipCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	var bet int64
	side := "heads"
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "bet":
			bet = opt.IntValue()
		case "side":
			side = opt.StringValue()
		}
	}
	if !takeBet(s, i, b, bet, "coinflip") {
		return
	}

	result := "heads"
	if rand.Intn(2) == 1 {
		result = "tails"
	}

	userID := i.Member.User.ID
	if result == side {
		creditWin(s, b, i.GuildID, userID, bet*2, "coinflip")
		utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
			Title:       "🪙 Coinflip",
			Description: fmt.Sprintf("It landed on **%s** — you win **%d** coins!", result, bet),
			Color:       0x2ECC71,
		})
		return
	}
	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title:       "🪙 Coinflip",
		Description: fmt.Sprintf("It landed on **%s** — you lose **%d** coins.", result, bet),
		Color:       0xE74C3C,
	})
}

// HandleSlotsCommand spins three weighted reels. A triple pays the symbol's
// multiplier, a pair refunds the stake.
func HandleSlotsCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	var bet int64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "bet" {
			bet = opt.IntValue()
		}
	}
	if !takeBet(s, i, b, bet, "slots") {
		return
	}

	reels := []string{spinReel(), spinReel(), spinReel()}
	row := strings.Join(reels, " │ ")
	userID := i.Member.User.ID

	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		win := bet * payoutFor(reels[0])
		creditWin(s, b, i.GuildID, userID, win, "slots")
		utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
			Title:       "🎰 Slots",
			Description: fmt.Sprintf("%s\n\n**JACKPOT!** You win **%d** coins!", row, win-bet),
			Color:       0x2ECC71,
		})
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		creditWin(s, b, i.GuildID, userID, bet, "slots")
		utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
			Title:       "🎰 Slots",
			Description: fmt.Sprintf("%s\n\nA pair — your **%d** coin stake is returned.", row, bet),
			Color:       0xF1C40F,
		})
	default:
		utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
			Title:       "🎰 Slots",
			Description: fmt.Sprintf("%s\n\nNo luck — you lose **%d** coins.", row, bet),
			Color:       0xE74C3C,
		})
	}
}

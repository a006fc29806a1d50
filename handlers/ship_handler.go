package handlers

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"math/rand"
	"strings"
	"time"

	"community-bot/model"
	"community-bot/utils"

	"github.com/bwmarrin/discordgo"
)

type shipResult struct {
	FirstID  string `json:"first_id"`
	SecondID string `json:"second_id"`
	Score    int    `json:"score"`
}

// shipScore derives a deterministic compatibility score from the ordered
// user-id pair and the UTC date, so a pair's result is stable for a day.
func shipScore(firstID, secondID, date string) int {
	if firstID > secondID {
		firstID, secondID = secondID, firstID
	}
	h := fnv.New32a()
	h.Write([]byte(firstID + "+" + secondID + "@" + date))
	return int(h.Sum32() % 101)
}

func shipBar(score int) string {
	filled := score / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func shipVerdict(score int) string {
	switch {
	case score >= 90:
		return "A match made in heaven! 💒"
	case score >= 70:
		return "Sparks are flying! 💞"
	case score >= 50:
		return "There is something there... 💓"
	case score >= 30:
		return "Maybe as friends? 🤝"
	default:
		return "Not meant to be. 💔"
	}
}

// HandleShipCommand pairs two members and rates their compatibility. With no
// arguments it picks a random pair of recent guild members.
func HandleShipCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	var first, second *discordgo.User
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "first":
			first = opt.UserValue(s)
		case "second":
			second = opt.UserValue(s)
		}
	}

	if first == nil || second == nil {
		members, err := s.GuildMembers(i.GuildID, "", 1000)
		if err != nil {
			log.Printf("member list for ship in guild %s failed: %v", i.GuildID, err)
			utils.SendErrorResponse(s, i, "Could not find anyone to ship.")
			return
		}
		humans := make([]*discordgo.User, 0, len(members))
		for _, m := range members {
			if m.User != nil && !m.User.Bot {
				humans = append(humans, m.User)
			}
		}
		if len(humans) < 2 {
			utils.SendErrorResponse(s, i, "Not enough members to ship.")
			return
		}
		picks := rand.Perm(len(humans))
		if first == nil {
			first = humans[picks[0]]
		}
		if second == nil {
			second = humans[picks[1]]
			if second.ID == first.ID {
				second = humans[picks[0]]
			}
		}
	}
	if first.ID == second.ID {
		utils.SendErrorResponse(s, i, "Shipping someone with themselves is cheating.")
		return
	}

	date := time.Now().UTC().Format("2006-01-02")
	a, z := first.ID, second.ID
	if a > z {
		a, z = z, a
	}
	cacheKey := fmt.Sprintf("ship:%s:%s:%s:%s", i.GuildID, date, a, z)

	ctx := context.Background()
	var result shipResult
	found, err := b.GetCache().GetJSON(ctx, cacheKey, &result)
	if err != nil {
		log.Printf("ship cache read in guild %s failed: %v", i.GuildID, err)
	}
	if !found {
		result = shipResult{FirstID: first.ID, SecondID: second.ID, Score: shipScore(first.ID, second.ID, date)}
		untilMidnight := time.Until(time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour))
		if err := b.GetCache().SetJSON(ctx, cacheKey, result, untilMidnight); err != nil {
			log.Printf("ship cache write in guild %s failed: %v", i.GuildID, err)
		}
	}

	utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
		Title: "💘 Ship-o-meter",
		Description: fmt.Sprintf("%s ❤ %s\n\n`%s` **%d%%**\n\n%s",
			first.Mention(), second.Mention(), shipBar(result.Score), result.Score, shipVerdict(result.Score)),
		Color: 0xE91E63,
	})
}

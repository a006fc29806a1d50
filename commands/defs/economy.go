package defs

import "github.com/bwmarrin/discordgo"

func minBet() *float64 {
	v := 1.0
	return &v
}

// EconomyCommands covers wallets, the daily reward and the gambling games.
func EconomyCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Show a member's coin balance",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member to look up (defaults to you)",
				},
			},
		},
		{
			Name:        "daily",
			Description: "Claim your daily coins",
		},
		{
			Name:        "pay",
			Description: "Send coins to another member",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Recipient",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "amount",
					Description: "Coins to send",
					MinValue:    minBet(),
					Required:    true,
				},
			},
		},
		{
			Name:        "history",
			Description: "Show your recent transactions",
		},
		{
			Name:        "rich",
			Description: "Show the richest members",
		},
		{
			Name:        "coinflip",
			Description: "Double or nothing on a coin toss",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Coins to bet",
					MinValue:    minBet(),
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "side",
					Description: "Your call",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "heads", Value: "heads"},
						{Name: "tails", Value: "tails"},
					},
				},
			},
		},
		{
			Name:        "slots",
			Description: "Spin the slot machine",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "bet",
					Description: "Coins to bet",
					MinValue:    minBet(),
					Required:    true,
				},
			},
		},
	}
}

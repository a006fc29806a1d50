package defs

import "github.com/bwmarrin/discordgo"

// SocialCommands covers the ship game and the status command.
func SocialCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ship",
			Description: "Rate the compatibility of two members",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "first",
					Description: "First member (random if omitted)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "second",
					Description: "Second member (random if omitted)",
				},
			},
		},
		{
			Name:        "status",
			Description: "Show bot and host statistics",
		},
	}
}

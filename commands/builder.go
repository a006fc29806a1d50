package commands

import (
	"community-bot/commands/defs"
	"community-bot/model"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands builds the slash command set registered for a guild.
func GenerateCommands(serverCfg *model.ServerConfig) []*discordgo.ApplicationCommand {
	cmds := []*discordgo.ApplicationCommand{
		defs.PanelCommand(),
	}
	cmds = append(cmds, defs.EconomyCommands()...)
	cmds = append(cmds, defs.ModerationCommands()...)
	cmds = append(cmds, defs.SocialCommands()...)
	return cmds
}

package reactionrole

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"community-bot/model"
	"community-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// HandlePanelCommand dispatches the /panel subcommands. The caller has
// already verified the invoker holds role-management authority.
func HandlePanelCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b model.Bot) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	svc := NewService(b.GetDB(), NewRenderer(s))
	sub := options[0]
	opts := optionMap(sub.Options)

	switch sub.Name {
	case "create":
		channel := opts["channel"].ChannelValue(s)
		description := ""
		if opt, ok := opts["description"]; ok {
			description = opt.StringValue()
		}
		panel, err := svc.CreatePanel(i.GuildID, opts["name"].StringValue(), description, channel.ID)
		if err != nil {
			replyError(s, i, err)
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Panel `%s` created in <#%s>.", panel.PanelID, channel.ID))

	case "add":
		description := ""
		if opt, ok := opts["description"]; ok {
			description = opt.StringValue()
		}
		rrType := ""
		if opt, ok := opts["type"]; ok {
			rrType = opt.StringValue()
		}
		role := opts["role"].RoleValue(s, i.GuildID)
		rr, err := svc.AddReactionRole(i.GuildID, opts["panel"].StringValue(), opts["name"].StringValue(),
			description, opts["emoji"].StringValue(), role.ID, rrType)
		if err != nil {
			var rerr *model.RenderError
			if errors.As(err, &rerr) {
				// The binding is saved; only the message is stale.
				utils.SendSimpleResponse(s, i, fmt.Sprintf("Role `%s` saved, but the panel message could not be updated: %v", rr.Name, rerr.Err))
				return
			}
			replyError(s, i, err)
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Added %s **%s** to panel `%s`.", utils.EmojiDisplay(rr.Emoji), rr.Name, rr.PanelID))

	case "remove":
		panelID := opts["panel"].StringValue()
		err := svc.RemoveReactionRole(i.GuildID, panelID, opts["emoji"].StringValue())
		if err != nil {
			replyError(s, i, err)
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Removed the reaction role from panel `%s`.", panelID))

	case "list":
		panels, err := svc.ListPanels(i.GuildID)
		if err != nil {
			replyError(s, i, err)
			return
		}
		if len(panels) == 0 {
			utils.SendSimpleResponse(s, i, "This server has no panels yet.")
			return
		}
		var lines []string
		for _, p := range panels {
			location := "draft"
			if p.Posted() {
				location = fmt.Sprintf("<#%s>", p.ChannelID)
			}
			lines = append(lines, fmt.Sprintf("`%s` **%s** (%s)", p.PanelID, p.Name, location))
		}
		utils.SendEmbedResponse(s, i, &discordgo.MessageEmbed{
			Title:       "Reaction Role Panels",
			Description: strings.Join(lines, "\n"),
			Color:       0x5865F2,
		})

	case "delete":
		panelID := opts["panel"].StringValue()
		if err := svc.DeletePanel(i.GuildID, panelID); err != nil {
			replyError(s, i, err)
			return
		}
		utils.SendSimpleResponse(s, i, fmt.Sprintf("Panel `%s` and its roles were deleted.", panelID))
	}
}

func optionMap(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		m[opt.Name] = opt
	}
	return m
}

// replyError maps the error taxonomy onto user-facing replies. Unclassified
// errors are logged and answered generically.
func replyError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	var (
		verr *model.ValidationError
		nerr *model.NotFoundError
		cerr *model.ConflictError
		rerr *model.RenderError
	)
	switch {
	case errors.As(err, &verr):
		utils.SendErrorResponse(s, i, verr.Message)
	case errors.As(err, &nerr):
		utils.SendErrorResponse(s, i, nerr.Error())
	case errors.As(err, &cerr):
		utils.SendErrorResponse(s, i, cerr.Message)
	case errors.As(err, &rerr):
		utils.SendErrorResponse(s, i, "The panel message could not be updated. Saved state is intact; re-run the command or check channel permissions.")
	default:
		log.Printf("panel command in guild %s failed: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Something went wrong.")
	}
}

package reactionrole

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"community-bot/model"
	"community-bot/utils"
	"community-bot/utils/database"

	"github.com/jmoiron/sqlx"
)

// Service owns panel and reaction-role state. Store writes happen before or
// independently of render calls, so a render failure leaves a recoverable
// store-authoritative state, never a lost mutation.
type Service struct {
	db       *sqlx.DB
	renderer Renderer
}

func NewService(db *sqlx.DB, renderer Renderer) *Service {
	return &Service{db: db, renderer: renderer}
}

var panelIDPattern = regexp.MustCompile(`^p([0-9]+)$`)

// nextPanelID returns p<max+1> over the existing ids of a guild. Ids not
// matching p<N> are ignored. Deleted ids are never reused.
func nextPanelID(panels []model.Panel) string {
	max := 0
	for _, p := range panels {
		m := panelIDPattern.FindStringSubmatch(p.PanelID)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err == nil && n > max {
			max = n
		}
	}
	return "p" + strconv.Itoa(max+1)
}

// createPanelRetries bounds the id-regeneration loop when concurrent
// creations in the same guild race on the same next id.
const createPanelRetries = 3

// CreatePanel posts the panel message and then persists the panel. A failed
// post leaves no state anywhere; a post success with a failed insert is
// logged as an orphaned message.
func (svc *Service) CreatePanel(guildID, name, description, channelID string) (*model.Panel, error) {
	panels, err := database.ListPanels(svc.db, guildID)
	if err != nil {
		return nil, err
	}

	p := &model.Panel{
		PanelID:     nextPanelID(panels),
		GuildID:     guildID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().Unix(),
	}

	messageID, err := svc.renderer.PostPanel(channelID, p, nil)
	if err != nil {
		return nil, &model.RenderError{Op: "post panel message", Err: err}
	}
	p.ChannelID = channelID
	p.MessageID = messageID

	for attempt := 0; ; attempt++ {
		err = database.CreatePanel(svc.db, *p)
		if err == nil {
			break
		}
		var cerr *model.ConflictError
		if !errors.As(err, &cerr) || attempt >= createPanelRetries {
			log.Printf("panel %s/%s: message %s posted but insert failed: %v", guildID, p.PanelID, messageID, err)
			return nil, err
		}
		// A concurrent creation took the id. Regenerate and fix the footer.
		panels, lerr := database.ListPanels(svc.db, guildID)
		if lerr != nil {
			return nil, lerr
		}
		p.PanelID = nextPanelID(panels)
		if rerr := svc.renderer.EditPanel(channelID, messageID, p, nil); rerr != nil {
			log.Printf("panel %s/%s: could not update footer after id retry: %v", guildID, p.PanelID, rerr)
		}
	}
	return p, nil
}

// AddReactionRole binds a normalized emoji to a guild role under a panel.
// The row is persisted before the live reaction is added: a mid-failure
// leaves a store-authoritative, message-stale state instead of an orphan
// reaction with no backing rule. The returned RenderError therefore does
// not mean the role was lost, only that the message needs a re-render.
func (svc *Service) AddReactionRole(guildID, panelID, name, description, rawEmoji, roleID, rrType string) (*model.ReactionRole, error) {
	panel, err := database.GetPanel(svc.db, guildID, panelID)
	if err != nil {
		return nil, err
	}

	emoji, err := utils.NormalizeEmoji(rawEmoji)
	if err != nil {
		return nil, err
	}

	switch rrType {
	case "":
		rrType = model.ReactionRoleTypeNormal
	case model.ReactionRoleTypeNormal, model.ReactionRoleTypeVerify:
	default:
		return nil, &model.ValidationError{Message: "unknown reaction role type: " + rrType}
	}

	rr := model.ReactionRole{
		GuildID:     guildID,
		PanelID:     panelID,
		Name:        name,
		Description: description,
		Emoji:       emoji,
		RoleID:      roleID,
		Type:        rrType,
	}
	rr.ID, err = database.AddReactionRole(svc.db, rr)
	if err != nil {
		return nil, err
	}

	if !panel.Posted() {
		return &rr, nil
	}
	if err := svc.renderer.AddReaction(panel.ChannelID, panel.MessageID, emoji); err != nil {
		return &rr, &model.RenderError{Op: "add panel reaction", Err: err}
	}
	if err := svc.renderPanel(panel); err != nil {
		return &rr, err
	}
	return &rr, nil
}

// RemoveReactionRole deletes a binding by raw or normalized emoji. The live
// reaction removal is best-effort; the re-render result is surfaced.
func (svc *Service) RemoveReactionRole(guildID, panelID, rawEmoji string) error {
	panel, err := database.GetPanel(svc.db, guildID, panelID)
	if err != nil {
		return err
	}
	emoji, err := utils.NormalizeEmoji(rawEmoji)
	if err != nil {
		return err
	}
	if err := database.DeleteReactionRole(svc.db, guildID, panelID, emoji); err != nil {
		return err
	}
	if !panel.Posted() {
		return nil
	}
	if err := svc.renderer.RemoveOwnReaction(panel.ChannelID, panel.MessageID, emoji); err != nil {
		log.Printf("panel %s/%s: could not remove reaction %s: %v", guildID, panelID, emoji, err)
	}
	return svc.renderPanel(panel)
}

// DeletePanel removes the panel row, cascading its reaction roles, then
// deletes the backing chat message best-effort.
func (svc *Service) DeletePanel(guildID, panelID string) error {
	panel, err := database.GetPanel(svc.db, guildID, panelID)
	if err != nil {
		return err
	}
	if err := database.DeletePanel(svc.db, guildID, panelID); err != nil {
		return err
	}
	if panel.Posted() {
		if err := svc.renderer.DeletePanelMessage(panel.ChannelID, panel.MessageID); err != nil {
			log.Printf("panel %s/%s: could not delete message %s: %v", guildID, panelID, panel.MessageID, err)
		}
	}
	return nil
}

// ListPanels returns all panels of a guild in insertion order.
func (svc *Service) ListPanels(guildID string) ([]model.Panel, error) {
	return database.ListPanels(svc.db, guildID)
}

// RenderPanel rebuilds the panel message from the current persisted state.
func (svc *Service) RenderPanel(guildID, panelID string) error {
	panel, err := database.GetPanel(svc.db, guildID, panelID)
	if err != nil {
		return err
	}
	return svc.renderPanel(panel)
}

func (svc *Service) renderPanel(panel *model.Panel) error {
	if !panel.Posted() {
		return &model.RenderError{Op: "render panel", Err: fmt.Errorf("panel %s has no message", panel.PanelID)}
	}
	roles, err := database.GetReactionRoles(svc.db, panel.GuildID, panel.PanelID)
	if err != nil {
		return err
	}
	if err := svc.renderer.EditPanel(panel.ChannelID, panel.MessageID, panel, roles); err != nil {
		return &model.RenderError{Op: "edit panel message", Err: err}
	}
	return nil
}

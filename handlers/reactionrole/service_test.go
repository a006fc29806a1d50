package reactionrole

import (
	"errors"
	"fmt"
	"testing"

	"community-bot/model"
	"community-bot/utils/database"

	"github.com/jmoiron/sqlx"
)

type fakeRenderer struct {
	nextMessage int
	postErr     error
	addErr      error
	editErr     error

	reactions       []string // emoji keys added
	edits           int
	deletedMessages []string
}

func (f *fakeRenderer) PostPanel(channelID string, panel *model.Panel, roles []model.ReactionRole) (string, error) {
	if f.postErr != nil {
		return "", f.postErr
	}
	f.nextMessage++
	return fmt.Sprintf("M%d", f.nextMessage), nil
}

func (f *fakeRenderer) EditPanel(channelID, messageID string, panel *model.Panel, roles []model.ReactionRole) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edits++
	return nil
}

func (f *fakeRenderer) DeletePanelMessage(channelID, messageID string) error {
	f.deletedMessages = append(f.deletedMessages, messageID)
	return nil
}

func (f *fakeRenderer) AddReaction(channelID, messageID, emojiKey string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.reactions = append(f.reactions, emojiKey)
	return nil
}

func (f *fakeRenderer) RemoveOwnReaction(channelID, messageID, emojiKey string) error {
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeRenderer, *sqlx.DB) {
	t.Helper()
	db, err := database.Init(":memory:")
	if err != nil {
		t.Fatalf("database.Init: %v", err)
	}
	// In-memory sqlite is per-connection; keep the pool at one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	renderer := &fakeRenderer{}
	return NewService(db, renderer), renderer, db
}

func TestCreatePanelSequentialIDs(t *testing.T) {
	svc, _, _ := newTestService(t)

	for n := 1; n <= 3; n++ {
		p, err := svc.CreatePanel("G", fmt.Sprintf("panel %d", n), "", "C")
		if err != nil {
			t.Fatalf("CreatePanel #%d: %v", n, err)
		}
		want := fmt.Sprintf("p%d", n)
		if p.PanelID != want {
			t.Errorf("panel id = %s, want %s", p.PanelID, want)
		}
		if !p.Posted() {
			t.Errorf("panel %s not posted after create", p.PanelID)
		}
	}

	// Deleted ids are not reused.
	if err := svc.DeletePanel("G", "p2"); err != nil {
		t.Fatalf("DeletePanel: %v", err)
	}
	p, err := svc.CreatePanel("G", "fourth", "", "C")
	if err != nil {
		t.Fatal(err)
	}
	if p.PanelID != "p4" {
		t.Errorf("panel id after delete = %s, want p4", p.PanelID)
	}

	// Ids are scoped per guild.
	p, err = svc.CreatePanel("OTHER", "first", "", "C")
	if err != nil {
		t.Fatal(err)
	}
	if p.PanelID != "p1" {
		t.Errorf("panel id in fresh guild = %s, want p1", p.PanelID)
	}
}

func TestNextPanelIDIgnoresForeignIDs(t *testing.T) {
	panels := []model.Panel{
		{PanelID: "p3"},
		{PanelID: "legacy-7"},
		{PanelID: "p12x"},
		{PanelID: "p10"},
	}
	if got := nextPanelID(panels); got != "p11" {
		t.Errorf("nextPanelID = %s, want p11", got)
	}
	if got := nextPanelID(nil); got != "p1" {
		t.Errorf("nextPanelID(nil) = %s, want p1", got)
	}
}

func TestCreatePanelPostFailure(t *testing.T) {
	svc, renderer, _ := newTestService(t)
	renderer.postErr = errors.New("missing permission")

	_, err := svc.CreatePanel("G", "broken", "", "C")
	var rerr *model.RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("CreatePanel: got %v, want RenderError", err)
	}

	// Post-then-persist: nothing was stored.
	panels, err := svc.ListPanels("G")
	if err != nil {
		t.Fatal(err)
	}
	if len(panels) != 0 {
		t.Errorf("panels persisted despite failed post: %+v", panels)
	}
}

func TestAddReactionRoleLifecycle(t *testing.T) {
	svc, renderer, _ := newTestService(t)
	p, err := svc.CreatePanel("G", "Colors", "pick a team", "C")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AddReactionRole("G", p.PanelID, "Red Team", "", "🔴", "R1", ""); err != nil {
		t.Fatalf("AddReactionRole: %v", err)
	}
	if _, err := svc.AddReactionRole("G", p.PanelID, "Stars", "", "<:star:999>", "R2", ""); err != nil {
		t.Fatalf("AddReactionRole custom: %v", err)
	}

	// Duplicate normalized emoji conflicts and leaves both rows intact.
	_, err = svc.AddReactionRole("G", p.PanelID, "Crimson", "", "🔴", "R3", "")
	var cerr *model.ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("duplicate emoji: got %v, want ConflictError", err)
	}
	roles, err := database.GetReactionRoles(svc.db, "G", p.PanelID)
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 2 {
		t.Fatalf("panel has %d roles, want 2", len(roles))
	}

	// The live message mirrored both reactions with normalized keys.
	if len(renderer.reactions) != 2 || renderer.reactions[0] != "🔴" || renderer.reactions[1] != "star:999" {
		t.Errorf("mirrored reactions = %v", renderer.reactions)
	}
	if renderer.edits == 0 {
		t.Error("panel message was never re-rendered")
	}
}

func TestAddReactionRoleValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	p, err := svc.CreatePanel("G", "Colors", "", "C")
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.AddReactionRole("G", p.PanelID, "bad", "", "not-an-emoji", "R1", "")
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("invalid emoji: got %v, want ValidationError", err)
	}

	_, err = svc.AddReactionRole("G", p.PanelID, "bad", "", "🔴", "R1", "weird")
	if !errors.As(err, &verr) {
		t.Errorf("invalid type: got %v, want ValidationError", err)
	}

	_, err = svc.AddReactionRole("G", "p99", "bad", "", "🔴", "R1", "")
	var nerr *model.NotFoundError
	if !errors.As(err, &nerr) {
		t.Errorf("missing panel: got %v, want NotFoundError", err)
	}
}

func TestAddReactionRoleKeepsRowOnRenderFailure(t *testing.T) {
	svc, renderer, db := newTestService(t)
	p, err := svc.CreatePanel("G", "Colors", "", "C")
	if err != nil {
		t.Fatal(err)
	}

	renderer.addErr = errors.New("message gone")
	rr, err := svc.AddReactionRole("G", p.PanelID, "Red Team", "", "🔴", "R1", "")
	var rerr *model.RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("AddReactionRole with dead message: got %v, want RenderError", err)
	}
	if rr == nil {
		t.Fatal("no reaction role returned alongside RenderError")
	}

	// The store keeps the binding; the message heals on a later re-render.
	stored, err := database.GetReactionRole(db, "G", p.PanelID, "🔴")
	if err != nil {
		t.Fatalf("binding not persisted: %v", err)
	}
	if stored.RoleID != "R1" {
		t.Errorf("stored role = %+v", stored)
	}
}

func TestRemoveReactionRole(t *testing.T) {
	svc, _, db := newTestService(t)
	p, err := svc.CreatePanel("G", "Colors", "", "C")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddReactionRole("G", p.PanelID, "Party", "", "<a:party:123>", "R1", ""); err != nil {
		t.Fatal(err)
	}

	// Removal accepts the raw markup form as well as the normalized key.
	if err := svc.RemoveReactionRole("G", p.PanelID, "<a:party:123>"); err != nil {
		t.Fatalf("RemoveReactionRole: %v", err)
	}
	roles, err := database.GetReactionRoles(db, "G", p.PanelID)
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 0 {
		t.Errorf("roles after removal: %+v", roles)
	}

	var nerr *model.NotFoundError
	if err := svc.RemoveReactionRole("G", p.PanelID, "a:party:123"); !errors.As(err, &nerr) {
		t.Errorf("second removal: got %v, want NotFoundError", err)
	}
}

func TestDeletePanelDeletesMessage(t *testing.T) {
	svc, renderer, db := newTestService(t)
	p, err := svc.CreatePanel("G", "Colors", "", "C")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddReactionRole("G", p.PanelID, "Red Team", "", "🔴", "R1", ""); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeletePanel("G", p.PanelID); err != nil {
		t.Fatalf("DeletePanel: %v", err)
	}
	if len(renderer.deletedMessages) != 1 || renderer.deletedMessages[0] != p.MessageID {
		t.Errorf("deleted messages = %v, want [%s]", renderer.deletedMessages, p.MessageID)
	}
	roles, err := database.GetReactionRoles(db, "G", p.PanelID)
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 0 {
		t.Errorf("reaction roles outlived their panel: %+v", roles)
	}
}

func TestRenderPanelDraft(t *testing.T) {
	svc, _, db := newTestService(t)
	// A draft panel exists in the store but has no message yet.
	if err := database.CreatePanel(db, model.Panel{PanelID: "p1", GuildID: "G", Name: "draft", CreatedAt: 1}); err != nil {
		t.Fatal(err)
	}

	err := svc.RenderPanel("G", "p1")
	var rerr *model.RenderError
	if !errors.As(err, &rerr) {
		t.Errorf("RenderPanel on draft: got %v, want RenderError", err)
	}
}

package reactionrole

import (
	"errors"
	"slices"
	"testing"

	"community-bot/model"
)

type fakeRoles struct {
	members   map[string][]string // userID -> held role ids
	memberErr error
	grantErr  error

	grants           []string // "user:role"
	revokes          []string
	removedReactions []string // "user:emoji"
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{members: make(map[string][]string)}
}

func (f *fakeRoles) MemberRoles(guildID, userID string) ([]string, error) {
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	return f.members[userID], nil
}

func (f *fakeRoles) GrantRole(guildID, userID, roleID, reason string) error {
	if f.grantErr != nil {
		return f.grantErr
	}
	f.grants = append(f.grants, userID+":"+roleID)
	f.members[userID] = append(f.members[userID], roleID)
	return nil
}

func (f *fakeRoles) RevokeRole(guildID, userID, roleID, reason string) error {
	f.revokes = append(f.revokes, userID+":"+roleID)
	held := f.members[userID]
	if idx := slices.Index(held, roleID); idx >= 0 {
		f.members[userID] = slices.Delete(held, idx, idx+1)
	}
	return nil
}

func (f *fakeRoles) RemoveUserReaction(channelID, messageID, emojiKey, userID string) error {
	f.removedReactions = append(f.removedReactions, userID+":"+emojiKey)
	return nil
}

// setupPanel creates a posted panel with one reaction role and returns the
// event handler plus the panel's message id.
func setupPanel(t *testing.T, emoji, roleID, rrType string) (*EventHandler, *fakeRoles, string) {
	t.Helper()
	svc, _, db := newTestService(t)
	p, err := svc.CreatePanel("G", "Colors", "", "C")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddReactionRole("G", p.PanelID, "Red Team", "", emoji, roleID, rrType); err != nil {
		t.Fatal(err)
	}
	roles := newFakeRoles()
	return NewEventHandler(db, roles, "BOT"), roles, p.MessageID
}

func TestReactionToggleEndToEnd(t *testing.T) {
	h, roles, messageID := setupPanel(t, "🔴", "R1", "")

	ev := ReactionEvent{GuildID: "G", ChannelID: "C", MessageID: messageID, UserID: "userX", EmojiName: "🔴"}
	h.OnReactionAdd(ev)
	if !slices.Contains(roles.members["userX"], "R1") {
		t.Fatalf("member does not hold R1 after reaction: %v", roles.members["userX"])
	}
	if len(roles.grants) != 1 {
		t.Fatalf("grants = %v, want exactly one", roles.grants)
	}

	h.OnReactionRemove(ev)
	if slices.Contains(roles.members["userX"], "R1") {
		t.Fatalf("member still holds R1 after removal: %v", roles.members["userX"])
	}
	if len(roles.revokes) != 1 {
		t.Fatalf("revokes = %v, want exactly one", roles.revokes)
	}
}

func TestCustomEmojiEventMatchesStoredKey(t *testing.T) {
	// The moderator added the role via markup; the live payload carries the
	// (name, id, animated) triple. Both must resolve to the same binding.
	h, roles, messageID := setupPanel(t, "<a:party:123456789012345678>", "R1", "")

	h.OnReactionAdd(ReactionEvent{
		GuildID: "G", ChannelID: "C", MessageID: messageID, UserID: "u1",
		EmojiName: "party", EmojiID: "123456789012345678", Animated: true,
	})
	if len(roles.grants) != 1 {
		t.Fatalf("grants = %v, want one", roles.grants)
	}
}

func TestGrantIsIdempotent(t *testing.T) {
	h, roles, messageID := setupPanel(t, "🔴", "R1", "")
	ev := ReactionEvent{GuildID: "G", ChannelID: "C", MessageID: messageID, UserID: "u1", EmojiName: "🔴"}

	h.OnReactionAdd(ev)
	h.OnReactionAdd(ev)
	if len(roles.grants) != 1 {
		t.Errorf("grants after duplicate delivery = %v, want one", roles.grants)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	h, roles, messageID := setupPanel(t, "🔴", "R1", "")

	// The member never held the role.
	h.OnReactionRemove(ReactionEvent{GuildID: "G", ChannelID: "C", MessageID: messageID, UserID: "u1", EmojiName: "🔴"})
	if len(roles.revokes) != 0 {
		t.Errorf("revokes = %v, want none", roles.revokes)
	}
}

func TestVerifyClaimButton(t *testing.T) {
	h, roles, messageID := setupPanel(t, "🔴", "R1", model.ReactionRoleTypeVerify)
	ev := ReactionEvent{GuildID: "G", ChannelID: "C", MessageID: messageID, UserID: "u1", EmojiName: "🔴"}

	h.OnReactionAdd(ev)
	if len(roles.grants) != 1 {
		t.Fatalf("grants = %v, want one", roles.grants)
	}
	// The claim strips the user's reaction.
	if len(roles.removedReactions) != 1 || roles.removedReactions[0] != "u1:🔴" {
		t.Fatalf("removed reactions = %v, want [u1:🔴]", roles.removedReactions)
	}

	// The strip echoes back as a remove event; the claim must survive it.
	h.OnReactionRemove(ev)
	if len(roles.revokes) != 0 {
		t.Errorf("revokes = %v, want none for verify role", roles.revokes)
	}
	if !slices.Contains(roles.members["u1"], "R1") {
		t.Errorf("claimed role lost: %v", roles.members["u1"])
	}
}

func TestUnrelatedMessageIsNoop(t *testing.T) {
	h, roles, _ := setupPanel(t, "🔴", "R1", "")

	h.OnReactionAdd(ReactionEvent{GuildID: "G", ChannelID: "C", MessageID: "unrelated", UserID: "u1", EmojiName: "🔴"})
	if len(roles.grants) != 0 || len(roles.revokes) != 0 {
		t.Errorf("unrelated message mutated roles: grants=%v revokes=%v", roles.grants, roles.revokes)
	}
}

func TestUnconfiguredEmojiIsNoop(t *testing.T) {
	h, roles, messageID := setupPanel(t, "🔴", "R1", "")

	h.OnReactionAdd(ReactionEvent{GuildID: "G", ChannelID: "C", MessageID: messageID, UserID: "u1", EmojiName: "🎉"})
	if len(roles.grants) != 0 {
		t.Errorf("unconfigured emoji granted roles: %v", roles.grants)
	}
}

func TestBotAndDMEventsIgnored(t *testing.T) {
	h, roles, messageID := setupPanel(t, "🔴", "R1", "")

	h.OnReactionAdd(ReactionEvent{GuildID: "G", ChannelID: "C", MessageID: messageID, UserID: "BOT", EmojiName: "🔴"})
	h.OnReactionAdd(ReactionEvent{GuildID: "", ChannelID: "C", MessageID: messageID, UserID: "u1", EmojiName: "🔴"})
	if len(roles.grants) != 0 {
		t.Errorf("ignored events granted roles: %v", roles.grants)
	}
}

func TestMemberFetchFailureAborts(t *testing.T) {
	h, roles, messageID := setupPanel(t, "🔴", "R1", "")
	roles.memberErr = errors.New("member left")

	h.OnReactionAdd(ReactionEvent{GuildID: "G", ChannelID: "C", MessageID: messageID, UserID: "u1", EmojiName: "🔴"})
	if len(roles.grants) != 0 {
		t.Errorf("grant happened despite member fetch failure: %v", roles.grants)
	}
}

func TestGrantFailureIsSwallowed(t *testing.T) {
	h, roles, messageID := setupPanel(t, "🔴", "R1", "")
	roles.grantErr = errors.New("role hierarchy")

	// Must not panic or propagate; Discord-side state simply stays unchanged.
	h.OnReactionAdd(ReactionEvent{GuildID: "G", ChannelID: "C", MessageID: messageID, UserID: "u1", EmojiName: "🔴"})
	if len(roles.members["u1"]) != 0 {
		t.Errorf("member roles changed: %v", roles.members["u1"])
	}
}

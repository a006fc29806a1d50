package model

// Reaction role types. A normal role toggles with the reaction; a verify
// role is a one-shot claim button.
const (
	ReactionRoleTypeNormal = "normal"
	ReactionRoleTypeVerify = "verify"
)

// Panel represents a reaction-role panel backed by one chat message.
// The database table is named 'panels'; (guild_id, panel_id) is the key.
type Panel struct {
	PanelID     string `db:"panel_id"` // guild-scoped, format p<N>
	GuildID     string `db:"guild_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	MessageID   string `db:"message_id"` // empty until posted
	ChannelID   string `db:"channel_id"` // empty until posted
	CreatedAt   int64  `db:"created_at"`
}

// Posted reports whether the panel has a live chat message. A panel without
// one is a draft and cannot produce role grants.
func (p *Panel) Posted() bool {
	return p.MessageID != "" && p.ChannelID != ""
}

// ReactionRole binds one normalized emoji under a panel to one guild role.
type ReactionRole struct {
	ID          int64  `db:"id"` // Primary Key, Auto-increment
	GuildID     string `db:"guild_id"`
	PanelID     string `db:"panel_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Emoji       string `db:"emoji"` // stored in normalized form
	RoleID      string `db:"role_id"`
	Type        string `db:"type"`
}

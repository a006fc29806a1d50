package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"community-bot/model"

	"github.com/jmoiron/sqlx"
)

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreatePanel inserts a new panel row. A duplicate (guild_id, panel_id) pair
// is reported as a ConflictError so the caller can regenerate the id.
func CreatePanel(db *sqlx.DB, p model.Panel) error {
	query := `INSERT INTO panels (panel_id, guild_id, name, description, message_id, channel_id, created_at)
			  VALUES (:panel_id, :guild_id, :name, :description, :message_id, :channel_id, :created_at)`
	_, err := db.NamedExec(query, p)
	if isUniqueViolation(err) {
		return &model.ConflictError{Message: fmt.Sprintf("panel id %s already exists in guild %s", p.PanelID, p.GuildID)}
	}
	if err != nil {
		return fmt.Errorf("failed to insert panel %s: %w", p.PanelID, err)
	}
	return nil
}

// GetPanel retrieves a panel by its guild-scoped id.
func GetPanel(db *sqlx.DB, guildID, panelID string) (*model.Panel, error) {
	var p model.Panel
	err := db.Get(&p, "SELECT * FROM panels WHERE guild_id = ? AND panel_id = ?", guildID, panelID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &model.NotFoundError{Resource: "panel", ID: panelID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get panel %s: %w", panelID, err)
	}
	return &p, nil
}

// GetPanelByMessage retrieves the panel backed by a specific chat message,
// or nil if the message does not belong to any panel.
func GetPanelByMessage(db *sqlx.DB, guildID, messageID string) (*model.Panel, error) {
	var p model.Panel
	err := db.Get(&p, "SELECT * FROM panels WHERE guild_id = ? AND message_id = ?", guildID, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get panel for message %s: %w", messageID, err)
	}
	return &p, nil
}

// ListPanels retrieves all panels for a guild in insertion order.
func ListPanels(db *sqlx.DB, guildID string) ([]model.Panel, error) {
	var panels []model.Panel
	err := db.Select(&panels, "SELECT * FROM panels WHERE guild_id = ? ORDER BY created_at, panel_id", guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list panels for guild %s: %w", guildID, err)
	}
	return panels, nil
}

// SetPanelMessage records the posted chat message backing a panel. Message
// and channel ids are always set together.
func SetPanelMessage(db *sqlx.DB, guildID, panelID, channelID, messageID string) error {
	res, err := db.Exec("UPDATE panels SET channel_id = ?, message_id = ? WHERE guild_id = ? AND panel_id = ?",
		channelID, messageID, guildID, panelID)
	if err != nil {
		return fmt.Errorf("failed to set panel message for %s: %w", panelID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &model.NotFoundError{Resource: "panel", ID: panelID}
	}
	return nil
}

// DeletePanel removes a panel and cascades to its reaction roles in one
// transaction. Roles cannot outlive their panel.
func DeletePanel(db *sqlx.DB, guildID, panelID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin delete of panel %s: %w", panelID, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM reaction_roles WHERE guild_id = ? AND panel_id = ?", guildID, panelID); err != nil {
		return fmt.Errorf("failed to delete reaction roles of panel %s: %w", panelID, err)
	}
	res, err := tx.Exec("DELETE FROM panels WHERE guild_id = ? AND panel_id = ?", guildID, panelID)
	if err != nil {
		return fmt.Errorf("failed to delete panel %s: %w", panelID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &model.NotFoundError{Resource: "panel", ID: panelID}
	}
	return tx.Commit()
}

// AddReactionRole inserts a reaction role. The emoji must already be
// normalized; a duplicate emoji on the same panel is a ConflictError.
func AddReactionRole(db *sqlx.DB, rr model.ReactionRole) (int64, error) {
	query := `INSERT INTO reaction_roles (guild_id, panel_id, name, description, emoji, role_id, type)
			  VALUES (:guild_id, :panel_id, :name, :description, :emoji, :role_id, :type)`
	result, err := db.NamedExec(query, rr)
	if isUniqueViolation(err) {
		return 0, &model.ConflictError{Message: fmt.Sprintf("emoji %s is already bound on panel %s", rr.Emoji, rr.PanelID)}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert reaction role: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// GetReactionRoles retrieves all reaction roles of a panel.
func GetReactionRoles(db *sqlx.DB, guildID, panelID string) ([]model.ReactionRole, error) {
	var roles []model.ReactionRole
	err := db.Select(&roles, "SELECT * FROM reaction_roles WHERE guild_id = ? AND panel_id = ? ORDER BY id", guildID, panelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction roles of panel %s: %w", panelID, err)
	}
	return roles, nil
}

// GetReactionRole retrieves one reaction role by its normalized emoji key.
func GetReactionRole(db *sqlx.DB, guildID, panelID, emoji string) (*model.ReactionRole, error) {
	var rr model.ReactionRole
	err := db.Get(&rr, "SELECT * FROM reaction_roles WHERE guild_id = ? AND panel_id = ? AND emoji = ?", guildID, panelID, emoji)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &model.NotFoundError{Resource: "reaction role", ID: emoji}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction role %s on panel %s: %w", emoji, panelID, err)
	}
	return &rr, nil
}

// DeleteReactionRole removes a reaction role by its normalized emoji key.
func DeleteReactionRole(db *sqlx.DB, guildID, panelID, emoji string) error {
	res, err := db.Exec("DELETE FROM reaction_roles WHERE guild_id = ? AND panel_id = ? AND emoji = ?", guildID, panelID, emoji)
	if err != nil {
		return fmt.Errorf("failed to delete reaction role %s on panel %s: %w", emoji, panelID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &model.NotFoundError{Resource: "reaction role", ID: emoji}
	}
	return nil
}

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"community-bot/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetBalance returns a member's balance, zero if they have no wallet yet.
func GetBalance(db *sqlx.DB, guildID, userID string) (int64, error) {
	var balance int64
	err := db.Get(&balance, "SELECT balance FROM balances WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance for user %s: %w", userID, err)
	}
	return balance, nil
}

func applyDelta(tx *sqlx.Tx, guildID, userID string, delta int64, reason string, now int64) error {
	_, err := tx.Exec(`INSERT INTO balances (guild_id, user_id, balance) VALUES (?, ?, ?)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET balance = balance + ?`,
		guildID, userID, delta, delta)
	if err != nil {
		return fmt.Errorf("failed to update balance for user %s: %w", userID, err)
	}

	var balance int64
	if err := tx.Get(&balance, "SELECT balance FROM balances WHERE guild_id = ? AND user_id = ?", guildID, userID); err != nil {
		return fmt.Errorf("failed to read back balance for user %s: %w", userID, err)
	}
	if balance < 0 {
		return &model.ValidationError{Message: "insufficient balance"}
	}

	_, err = tx.Exec("INSERT INTO transactions (id, guild_id, user_id, delta, reason, timestamp) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.NewString(), guildID, userID, delta, reason, now)
	if err != nil {
		return fmt.Errorf("failed to record transaction for user %s: %w", userID, err)
	}
	return nil
}

// AdjustBalance applies a single signed delta to a member's wallet and
// records the ledger entry. Overdrafts roll the whole change back.
func AdjustBalance(db *sqlx.DB, guildID, userID string, delta int64, reason string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin balance adjustment: %w", err)
	}
	defer tx.Rollback()

	if err := applyDelta(tx, guildID, userID, delta, reason, time.Now().Unix()); err != nil {
		return err
	}
	return tx.Commit()
}

// Transfer moves an amount between two wallets atomically.
func Transfer(db *sqlx.DB, guildID, fromUserID, toUserID string, amount int64, reason string) error {
	if amount <= 0 {
		return &model.ValidationError{Message: "transfer amount must be positive"}
	}
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transfer: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	if err := applyDelta(tx, guildID, fromUserID, -amount, reason, now); err != nil {
		return err
	}
	if err := applyDelta(tx, guildID, toUserID, amount, reason, now); err != nil {
		return err
	}
	return tx.Commit()
}

// GetRecentTransactions retrieves a member's latest ledger entries, newest first.
func GetRecentTransactions(db *sqlx.DB, guildID, userID string, limit int) ([]model.Transaction, error) {
	var records []model.Transaction
	err := db.Select(&records, `SELECT * FROM transactions WHERE guild_id = ? AND user_id = ?
		ORDER BY timestamp DESC, id LIMIT ?`, guildID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for user %s: %w", userID, err)
	}
	return records, nil
}

// TopBalances retrieves the richest members of a guild.
func TopBalances(db *sqlx.DB, guildID string, limit int) ([]model.Balance, error) {
	var balances []model.Balance
	err := db.Select(&balances, "SELECT * FROM balances WHERE guild_id = ? ORDER BY balance DESC LIMIT ?", guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances for guild %s: %w", guildID, err)
	}
	return balances, nil
}

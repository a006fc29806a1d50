package model

// Balance represents a member's wallet in one guild.
// The database table is named 'balances'.
type Balance struct {
	GuildID string `db:"guild_id"`
	UserID  string `db:"user_id"`
	Balance int64  `db:"balance"`
}

// Transaction is one ledger entry. Balances are derived state; the ledger
// records every mutation with a reason for auditing.
type Transaction struct {
	ID        string `db:"id"` // uuid
	GuildID   string `db:"guild_id"`
	UserID    string `db:"user_id"`
	Delta     int64  `db:"delta"`
	Reason    string `db:"reason"`
	Timestamp int64  `db:"timestamp"`
}

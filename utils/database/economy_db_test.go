package database

import (
	"errors"
	"testing"

	"community-bot/model"
)

func TestBalanceDefaultsToZero(t *testing.T) {
	db := newTestDB(t)
	balance, err := GetBalance(db, "G", "nobody")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance != 0 {
		t.Errorf("fresh balance = %d, want 0", balance)
	}
}

func TestAdjustBalanceAndLedger(t *testing.T) {
	db := newTestDB(t)

	if err := AdjustBalance(db, "G", "u1", 100, "daily reward"); err != nil {
		t.Fatalf("AdjustBalance: %v", err)
	}
	if err := AdjustBalance(db, "G", "u1", -30, "coinflip bet"); err != nil {
		t.Fatalf("AdjustBalance debit: %v", err)
	}

	balance, err := GetBalance(db, "G", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if balance != 70 {
		t.Errorf("balance = %d, want 70", balance)
	}

	records, err := GetRecentTransactions(db, "G", "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(records))
	}
	for _, r := range records {
		if r.ID == "" {
			t.Errorf("transaction without id: %+v", r)
		}
	}
}

func TestAdjustBalanceRejectsOverdraft(t *testing.T) {
	db := newTestDB(t)
	if err := AdjustBalance(db, "G", "u1", 50, "seed"); err != nil {
		t.Fatal(err)
	}

	err := AdjustBalance(db, "G", "u1", -80, "bet")
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("overdraft: got %v, want ValidationError", err)
	}

	// The failed debit left no trace.
	balance, err := GetBalance(db, "G", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if balance != 50 {
		t.Errorf("balance = %d after rejected overdraft, want 50", balance)
	}
	records, err := GetRecentTransactions(db, "G", "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("ledger has %d entries after rejected overdraft, want 1", len(records))
	}
}

func TestTransfer(t *testing.T) {
	db := newTestDB(t)
	if err := AdjustBalance(db, "G", "alice", 100, "seed"); err != nil {
		t.Fatal(err)
	}

	if err := Transfer(db, "G", "alice", "bob", 40, "payment"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	aliceBalance, _ := GetBalance(db, "G", "alice")
	bobBalance, _ := GetBalance(db, "G", "bob")
	if aliceBalance != 60 || bobBalance != 40 {
		t.Errorf("balances after transfer: alice=%d bob=%d, want 60/40", aliceBalance, bobBalance)
	}

	// Insufficient funds abort both sides.
	err := Transfer(db, "G", "alice", "bob", 1000, "too much")
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("overdraft transfer: got %v, want ValidationError", err)
	}
	aliceBalance, _ = GetBalance(db, "G", "alice")
	bobBalance, _ = GetBalance(db, "G", "bob")
	if aliceBalance != 60 || bobBalance != 40 {
		t.Errorf("balances changed by failed transfer: alice=%d bob=%d", aliceBalance, bobBalance)
	}
}

func TestTopBalances(t *testing.T) {
	db := newTestDB(t)
	for _, u := range []struct {
		id     string
		amount int64
	}{{"a", 10}, {"b", 30}, {"c", 20}} {
		if err := AdjustBalance(db, "G", u.id, u.amount, "seed"); err != nil {
			t.Fatal(err)
		}
	}
	top, err := TopBalances(db, "G", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].UserID != "b" || top[1].UserID != "c" {
		t.Errorf("TopBalances = %+v", top)
	}
}

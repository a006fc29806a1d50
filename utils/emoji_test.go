package utils

import (
	"errors"
	"testing"

	"community-bot/model"
)

func TestNormalizeEmojiCustomMarkup(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"<:star:999>", "star:999"},
		{"<a:party:123456789012345678>", "a:party:123456789012345678"},
		{"<:blob_wave:42>", "blob_wave:42"},
	}
	for _, c := range cases {
		got, err := NormalizeEmoji(c.raw)
		if err != nil {
			t.Fatalf("NormalizeEmoji(%q): %v", c.raw, err)
		}
		if got != c.want {
			t.Errorf("NormalizeEmoji(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestNormalizeEmojiUnicode(t *testing.T) {
	for _, raw := range []string{"🔴", "👍🏽", "👨‍👩‍👧", "1️⃣", "🇩🇪", "⭐"} {
		got, err := NormalizeEmoji(raw)
		if err != nil {
			t.Fatalf("NormalizeEmoji(%q): %v", raw, err)
		}
		if got != raw {
			t.Errorf("NormalizeEmoji(%q) = %q, want unchanged", raw, got)
		}
	}
}

func TestNormalizeEmojiIdempotent(t *testing.T) {
	for _, raw := range []string{"<a:party:123>", "<:star:999>", "🔴", "👍🏽"} {
		once, err := NormalizeEmoji(raw)
		if err != nil {
			t.Fatalf("NormalizeEmoji(%q): %v", raw, err)
		}
		twice, err := NormalizeEmoji(once)
		if err != nil {
			t.Fatalf("NormalizeEmoji(%q): %v", once, err)
		}
		if once != twice {
			t.Errorf("normalization not idempotent: %q -> %q -> %q", raw, once, twice)
		}
	}
}

func TestNormalizeEmojiRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "hello", "<:missingid:>", "<a::123>", "not an emoji", ":smile:"} {
		_, err := NormalizeEmoji(raw)
		if err == nil {
			t.Errorf("NormalizeEmoji(%q) accepted invalid input", raw)
			continue
		}
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("NormalizeEmoji(%q) returned %T, want ValidationError", raw, err)
		}
	}
}

func TestNormalizationAgreement(t *testing.T) {
	// A moderator-supplied markup form and the live reaction payload for the
	// same emoji must produce the same key.
	fromMarkup, err := NormalizeEmoji("<a:party:123456789012345678>")
	if err != nil {
		t.Fatal(err)
	}
	fromPayload, err := NormalizeReactionEmoji("party", "123456789012345678", true)
	if err != nil {
		t.Fatal(err)
	}
	if fromMarkup != fromPayload {
		t.Errorf("markup key %q != payload key %q", fromMarkup, fromPayload)
	}

	uniMarkup, err := NormalizeEmoji("🔴")
	if err != nil {
		t.Fatal(err)
	}
	uniPayload, err := NormalizeReactionEmoji("🔴", "", false)
	if err != nil {
		t.Fatal(err)
	}
	if uniMarkup != uniPayload {
		t.Errorf("unicode markup key %q != payload key %q", uniMarkup, uniPayload)
	}
}

func TestEmojiAPIName(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"a:party:123", "party:123"},
		{"star:999", "star:999"},
		{"🔴", "🔴"},
	}
	for _, c := range cases {
		if got := EmojiAPIName(c.key); got != c.want {
			t.Errorf("EmojiAPIName(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestEmojiDisplay(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"a:party:123", "<a:party:123>"},
		{"star:999", "<:star:999>"},
		{"🔴", "🔴"},
	}
	for _, c := range cases {
		if got := EmojiDisplay(c.key); got != c.want {
			t.Errorf("EmojiDisplay(%q) = %q, want %q", c.key, got, c.want)
		}
	}
}

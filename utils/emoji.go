package utils

import (
	"regexp"
	"strings"

	"community-bot/model"
)

// Custom Discord emojis arrive either as markup (<:name:id> / <a:name:id>)
// from command arguments, or already normalized (name:id / a:name:id) from
// stored keys. Unicode emojis are kept as their literal string.
var (
	customEmojiMarkup = regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]+):([0-9]+)>$`)
	customEmojiKey    = regexp.MustCompile(`^(a:)?[A-Za-z0-9_~]+:[0-9]+$`)
)

// NormalizeEmoji canonicalizes a raw emoji token into the single comparable
// key used for storage and live-reaction matching. It is idempotent: feeding
// a normalized key back in returns it unchanged.
func NormalizeEmoji(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &model.ValidationError{Message: "emoji must not be empty"}
	}

	if m := customEmojiMarkup.FindStringSubmatch(raw); m != nil {
		if m[1] == "a" {
			return "a:" + m[2] + ":" + m[3], nil
		}
		return m[2] + ":" + m[3], nil
	}

	if customEmojiKey.MatchString(raw) {
		return raw, nil
	}

	if isUnicodeEmoji(raw) {
		return raw, nil
	}

	return "", &model.ValidationError{Message: "invalid emoji: " + raw}
}

// NormalizeReactionEmoji canonicalizes the emoji descriptor of a live
// reaction payload. Custom emojis carry a name/id pair plus an animated
// flag; unicode emojis carry only the literal string in the name field.
func NormalizeReactionEmoji(name, id string, animated bool) (string, error) {
	if id != "" {
		if name == "" {
			return "", &model.ValidationError{Message: "custom emoji without a name"}
		}
		if animated {
			return "a:" + name + ":" + id, nil
		}
		return name + ":" + id, nil
	}
	return NormalizeEmoji(name)
}

// EmojiAPIName converts a normalized key into the form the Discord REST API
// expects for reaction endpoints: name:id for custom emojis (the animation
// prefix is not part of the API name), the literal string for unicode.
func EmojiAPIName(key string) string {
	if customEmojiKey.MatchString(key) {
		return strings.TrimPrefix(key, "a:")
	}
	return key
}

// EmojiDisplay converts a normalized key back into its message-renderable
// form: markup for custom emojis, the literal string for unicode.
func EmojiDisplay(key string) string {
	if !customEmojiKey.MatchString(key) {
		return key
	}
	if strings.HasPrefix(key, "a:") {
		return "<" + key + ">"
	}
	return "<:" + key + ">"
}

// Unicode ranges that make up common emoji graphemes, including joiners,
// variation selectors, skin tones, flags and keycap sequences.
func emojiRune(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, flags, skin tones
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	case r >= 0x2300 && r <= 0x23FF:
		return true
	case r >= 0x25A0 && r <= 0x25FF:
		return true
	case r == 0x200D || r == 0xFE0F: // ZWJ, variation selector
		return true
	case r == 0x20E3: // combining enclosing keycap
		return true
	case r == 0x00A9 || r == 0x00AE || r == 0x2122:
		return true
	case r == 0x3030 || r == 0x303D || r == 0x3297 || r == 0x3299:
		return true
	case r >= 0x2190 && r <= 0x21FF: // arrows
		return true
	}
	return false
}

func isUnicodeEmoji(s string) bool {
	keycap := strings.ContainsRune(s, 0x20E3)
	for _, r := range s {
		if emojiRune(r) {
			continue
		}
		// Digits, # and * only appear inside keycap sequences.
		if keycap && (r == '#' || r == '*' || (r >= '0' && r <= '9')) {
			continue
		}
		return false
	}
	return true
}

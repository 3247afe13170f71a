package room

import (
	"strings"
	"unicode/utf8"
)

const (
	maxUsernameRunes = 20
	maxTextRunes     = 500
)

var (
	usernameStripper = strings.NewReplacer("<", "", ">", "", "&", "", `"`, "", "'", "")
	textEscaper      = strings.NewReplacer("<", "&lt;", ">", "&gt;")
)

// sanitizeUsername strips HTML metacharacters, trims whitespace and caps the
// result at 20 runes. An empty result means the join is ignored outright.
func sanitizeUsername(raw string) string {
	return truncateRunes(strings.TrimSpace(usernameStripper.Replace(raw)), maxUsernameRunes)
}

// sanitizeText escapes angle brackets before applying the 500-rune cap, so
// the escaped entities count against the cap. The result is not trimmed;
// callers only check for whitespace-only content.
func sanitizeText(raw string) string {
	return truncateRunes(textEscaper.Replace(raw), maxTextRunes)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

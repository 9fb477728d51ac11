package engine

import (
	"html"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// UserAgentBot identifies go_tube on outbound HTTP requests.
const UserAgentBot = "GoTube/1.0"

// CleanText unescapes HTML entities (the Data API returns titles like "Rock &amp; Roll")
// and trims whitespace.
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

// Truncate returns the first n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

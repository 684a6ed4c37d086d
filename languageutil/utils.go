package languageutil

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/width"
)

var Weekdays = [...]string{"周日", "周一", "周二", "周三", "周四", "周五", "周六"}

// Greeting picks the salutation for the hour of day.
func Greeting(hour int) string {
	switch {
	case hour < 6:
		return "🌙 夜深了"
	case hour < 9:
		return "☀️ 早安"
	case hour < 12:
		return "🌤️ 上午好"
	case hour < 14:
		return "🍱 午安"
	case hour < 18:
		return "☕ 下午好"
	}
	return "🌆 晚上好"
}

// DateString formats t as "M月D日 周X".
func DateString(t time.Time) string {
	return fmt.Sprintf("%d月%d日 %s", int(t.Month()), t.Day(), Weekdays[t.Weekday()])
}

// NormalizeInbound folds full-width latin letters, digits and punctuation
// typed by IME users into their narrow forms. CJK text is left alone.
func NormalizeInbound(text string) string {
	return strings.TrimSpace(width.Fold.String(text))
}

// StripMention drops an "@bot" mention: the text before the first "@" when
// present, otherwise whatever follows the last "@".
func StripMention(text string) string {
	if !strings.Contains(text, "@") {
		return strings.TrimSpace(text)
	}
	before := strings.TrimSpace(text[:strings.Index(text, "@")])
	if before != "" {
		return before
	}
	parts := strings.Split(text, "@")
	return strings.TrimSpace(parts[len(parts)-1])
}

package render

import (
	"strings"
	"time"
	"unicode/utf8"
)

const ellipsis = "..."

// Preview returns the first n characters of content, followed by an ellipsis only
// when something was cut. Counting is by rune so multi-byte text is never split.
func Preview(content string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(content) <= n {
		return content
	}

	var b strings.Builder
	i := 0
	for _, r := range content {
		if i == n {
			break
		}
		b.WriteRune(r)
		i++
	}
	b.WriteString(ellipsis)
	return b.String()
}

// FormatDate renders t in the local time zone with layout. The zero time, which
// stands for a missing or unreadable timestamp, renders as "".
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(layout)
}

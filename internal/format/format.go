// Package format provides display formatting helpers for counts, durations,
// progress bars, and ETA estimates shown in the live status block.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ProgressBar generates a string representing a textual progress bar.
// Progress values outside [0, 1] are clamped.
//
// Parameters:
//   - progress: The normalized progress value (0.0 to 1.0).
//   - length: The total character width of the progress bar.
//
// Returns:
//   - string: A string representation of the progress bar.
func ProgressBar(progress float64, length int) string {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0.0 {
		progress = 0.0
	}
	count := int(progress * float64(length))
	var builder strings.Builder
	builder.Grow(length)
	for i := 0; i < length; i++ {
		if i < count {
			builder.WriteRune('█')
		} else {
			builder.WriteRune('░')
		}
	}
	return builder.String()
}

// FormatETA formats an estimated time to completion in a compact form.
// Non-positive durations render as "calculating..." since no estimate
// exists yet.
//
// Parameters:
//   - eta: The estimated remaining duration.
//
// Returns:
//   - string: A compact human-readable form such as "45s", "2m30s", "1h15m".
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "calculating..."
	}
	if eta < time.Second {
		return "< 1s"
	}

	eta = eta.Round(time.Second)
	h := int(eta.Hours())
	m := int(eta.Minutes()) % 60
	s := int(eta.Seconds()) % 60

	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatElapsed formats an elapsed wall-clock duration with second
// granularity, e.g. "1h2m3s".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Truncate(time.Second).String()
}

// FormatNumberString inserts thousand separators into a decimal number
// string. A leading minus sign is preserved.
//
// Parameters:
//   - s: The decimal digits to format, optionally signed.
//
// Returns:
//   - string: The input with "," separators every three digits.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	sign := ""
	if s[0] == '-' {
		sign = "-"
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.Grow(n + n/3)
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

// FormatCount formats an integer counter with thousand separators.
func FormatCount(n int64) string {
	return FormatNumberString(strconv.FormatInt(n, 10))
}

// FormatRate formats an executions-per-second rate. Rates of at least one
// thousand collapse to the "k" suffix to keep status columns narrow.
func FormatRate(perSecond float64) string {
	if perSecond <= 0 {
		return "-"
	}
	if perSecond >= 1000 {
		return fmt.Sprintf("%.1fk/s", perSecond/1000)
	}
	return fmt.Sprintf("%.0f/s", perSecond)
}

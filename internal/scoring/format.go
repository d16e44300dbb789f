package scoring

import "fmt"

// FormatDuration renders an exam length given in minutes, e.g. "45min",
// "1h 30min" or "2h".
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dmin", minutes)
	}
	hours, mins := minutes/60, minutes%60
	if mins > 0 {
		return fmt.Sprintf("%dh %dmin", hours, mins)
	}
	return fmt.Sprintf("%dh", hours)
}

// FormatTimeSpent renders seconds as "1h 2m 3s", "2m 5s" or "9s".
func FormatTimeSpent(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

package pipeline

import (
	"strconv"
	"strings"
)

// parseTimestampSeconds converts a timestamp to seconds. Accepts
// "MM:SS", "HH:MM:SS" or a bare integer second count, which is what
// the model returns for section and CTA positions.
func parseTimestampSeconds(ts string) (int, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return 0, false
	}

	if !strings.Contains(ts, ":") {
		secs, err := strconv.Atoi(ts)
		if err != nil || secs < 0 {
			return 0, false
		}
		return secs, true
	}

	parts := strings.Split(ts, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

package clock

import (
	"fmt"
	"regexp"
	"strconv"
)

var hhmmRegex = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// IsValidHHMM reports whether s is a 24-hour HH:mm time of day.
func IsValidHHMM(s string) bool {
	return hhmmRegex.MatchString(s)
}

// ParseHHMM converts HH:mm into minutes since midnight.
func ParseHHMM(s string) (int, error) {
	m := hhmmRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time of day %q, expected HH:mm", s)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return h*60 + mm, nil
}

// MinutesToHHMM formats minutes since midnight, wrapping values outside one day.
func MinutesToHHMM(minutes int) string {
	minutes %= 24 * 60
	if minutes < 0 {
		minutes += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

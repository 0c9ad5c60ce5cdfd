package request

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/clock"
)

const minutesPerLeaveDay = 480

// Title builds the display title of a new request. Local hours are read in
// the organization's clock.
func Title(t request.Type, start, end time.Time, leaveCategory, destination *string, clk clock.Clock) string {
	minutes := request.SpanMinutes(start, end)

	switch t {
	case request.TypeLeave:
		days := int(math.Round(float64(minutes) / minutesPerLeaveDay))
		unit := "days"
		if days == 1 {
			unit = "day"
		}
		return fmt.Sprintf("%s-%d %s", orDefault(leaveCategory, "Leave"), days, unit)
	case request.TypeTrip:
		return "Trip-" + orDefault(destination, "Unknown")
	case request.TypeFixPunch:
		if clk.In(start).Hour() < 9 {
			return "Fix punch IN"
		}
		if clk.In(end).Hour() >= 18 {
			return "Fix punch OUT"
		}
		return fmt.Sprintf("Fix punch-%dh", roundHours(minutes))
	case request.TypeOvertime:
		return fmt.Sprintf("Overtime-%dh", roundHours(minutes))
	}
	return string(t)
}

func roundHours(minutes int) int {
	return int(math.Round(float64(minutes) / 60))
}

func orDefault(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return strings.TrimSpace(*s)
}

package stats

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/anomaly"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/stats"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
)

const (
	defaultMinWorkMinutes = 480
	minutesPerLeaveDay    = 480
)

// monthData is everything one user's monthly figure is computed from.
type monthData struct {
	punches        []punch.Punch
	requests       []request.Request
	anomalies      anomaly.Counts
	minWorkMinutes int
}

type dayPunches struct {
	in, out *punch.Punch
}

// aggregate folds a month of punches, approved requests and anomaly counts
// into stats. Punches are bucketed by local date in clk.
func aggregate(userID, month string, data monthData, clk clock.Clock) stats.MonthlyStats {
	days := make(map[string]*dayPunches)
	for i := range data.punches {
		p := &data.punches[i]
		key := clk.DateKey(p.PunchedAt)
		d, ok := days[key]
		if !ok {
			d = &dayPunches{}
			days[key] = d
		}
		switch p.Type {
		case punch.TypeIn:
			if d.in == nil || p.PunchedAt.After(d.in.PunchedAt) {
				d.in = p
			}
		case punch.TypeOut:
			if d.out == nil || p.PunchedAt.After(d.out.PunchedAt) {
				d.out = p
			}
		}
	}

	out := stats.MonthlyStats{
		UserID:          userID,
		Month:           month,
		LateCount:       data.anomalies.Late,
		EarlyLeaveCount: data.anomalies.EarlyLeave,
		AnomalyCount:    data.anomalies.Total,
	}

	for _, d := range days {
		if d.in == nil || d.out == nil {
			out.MissingPunchCount++
			continue
		}
		// An OUT before the IN of the same day contributes nothing.
		out.BaseWorkMinutes += max(floorMinutes(d.in, d.out), 0)
		out.WorkDays++
	}

	minWork := data.minWorkMinutes
	if minWork <= 0 {
		minWork = defaultMinWorkMinutes
	}

	leaveDays := decimal.Zero
	for _, r := range data.requests {
		if r.Status != request.StatusApproved {
			continue
		}
		minutes := creditedMinutes(r)

		switch r.Type {
		case request.TypeOvertime:
			out.OvertimeMinutes += minutes
		case request.TypeTrip:
			out.TripMinutes += minutes
		case request.TypeFixPunch:
			if minutes <= 0 {
				minutes = minWork / 2
			}
			out.FixPunchMinutes += minutes
		case request.TypeLeave:
			out.LeaveMinutes += minutes
			leaveDays = leaveDays.Add(decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(minutesPerLeaveDay)))
		}
	}

	out.WorkMinutes = out.BaseWorkMinutes + out.OvertimeMinutes + out.FixPunchMinutes + out.TripMinutes

	out.WorkHours = hours(out.WorkMinutes)
	out.BaseWorkHours = hours(out.BaseWorkMinutes)
	out.OvertimeHours = hours(out.OvertimeMinutes)
	out.FixPunchHours = hours(out.FixPunchMinutes)
	out.TripHours = hours(out.TripMinutes)
	out.LeaveDays = leaveDays.Round(1).InexactFloat64()

	return out
}

// creditedMinutes prefers the approver's duration, then the submitted one,
// then the raw interval.
func creditedMinutes(r request.Request) int {
	if r.ApprovedDurationMinutes != nil && *r.ApprovedDurationMinutes > 0 {
		return *r.ApprovedDurationMinutes
	}
	if r.DurationMinutes != nil && *r.DurationMinutes != 0 {
		return *r.DurationMinutes
	}
	return int(r.EndAt.Sub(r.StartAt) / time.Minute)
}

func floorMinutes(in, out *punch.Punch) int {
	return int(out.PunchedAt.Sub(in.PunchedAt) / time.Minute)
}

// hours renders minutes with one decimal, half away from zero.
func hours(minutes int) float64 {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(1).InexactFloat64()
}

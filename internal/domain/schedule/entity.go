package schedule

import "time"

const (
	DefaultLateGraceMinutes       = 5
	DefaultEarlyLeaveGraceMinutes = 5
)

// WorkSchedule holds wall-clock times as minutes since local midnight,
// interpreted in the owning organization's offset.
type WorkSchedule struct {
	ID                     string
	OrgID                  string
	Name                   string
	StartMinutes           int
	EndMinutes             int
	BreakStartMinutes      *int
	BreakEndMinutes        *int
	LateGraceMinutes       int
	EarlyLeaveGraceMinutes int
	MinWorkMinutes         *int
	CrossDay               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// LateThreshold is the last local minute of day still counted as on time for IN.
func (s WorkSchedule) LateThreshold() int {
	return s.StartMinutes + s.LateGraceMinutes
}

// EarlyLeaveThreshold is the first local minute of day not counted as early for OUT.
func (s WorkSchedule) EarlyLeaveThreshold() int {
	return s.EndMinutes - s.EarlyLeaveGraceMinutes
}

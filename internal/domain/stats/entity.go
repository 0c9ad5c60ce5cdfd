package stats

// MonthlyStats summarises one user's organization-local month. Minute totals
// are kept alongside the rounded hour figures shown to users.
type MonthlyStats struct {
	UserID            string  `json:"user_id"`
	Month             string  `json:"month"`
	WorkDays          int     `json:"work_days"`
	WorkHours         float64 `json:"work_hours"`
	BaseWorkHours     float64 `json:"base_work_hours"`
	OvertimeHours     float64 `json:"overtime_hours"`
	FixPunchHours     float64 `json:"fix_punch_hours"`
	TripHours         float64 `json:"trip_hours"`
	LeaveDays         float64 `json:"leave_days"`
	LateCount         int     `json:"late_count"`
	EarlyLeaveCount   int     `json:"early_leave_count"`
	MissingPunchCount int     `json:"missing_punch_count"`
	AnomalyCount      int     `json:"anomaly_count"`

	WorkMinutes     int `json:"work_minutes"`
	BaseWorkMinutes int `json:"base_work_minutes"`
	OvertimeMinutes int `json:"overtime_minutes"`
	FixPunchMinutes int `json:"fix_punch_minutes"`
	TripMinutes     int `json:"trip_minutes"`
	LeaveMinutes    int `json:"leave_minutes"`
}

type TeamMemberStats struct {
	FullName string `json:"full_name"`
	MonthlyStats
}

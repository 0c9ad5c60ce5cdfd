package schedule

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/clock"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type CreateScheduleRequest struct {
	Name                   string  `json:"name"`
	StartTime              string  `json:"start_time"`
	EndTime                string  `json:"end_time"`
	BreakStart             *string `json:"break_start,omitempty"`
	BreakEnd               *string `json:"break_end,omitempty"`
	LateGraceMinutes       *int    `json:"late_grace_minutes,omitempty"`
	EarlyLeaveGraceMinutes *int    `json:"early_leave_grace_minutes,omitempty"`
	MinWorkMinutes         *int    `json:"min_work_minutes,omitempty"`
	CrossDay               *bool   `json:"cross_day,omitempty"`
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if !clock.IsValidHHMM(r.StartTime) {
		errs.Add("start_time", "start_time must be HH:mm")
	}
	if !clock.IsValidHHMM(r.EndTime) {
		errs.Add("end_time", "end_time must be HH:mm")
	}
	validateBreak(&errs, r.BreakStart, r.BreakEnd)
	validateMinutes(&errs, "late_grace_minutes", r.LateGraceMinutes, 0, 240)
	validateMinutes(&errs, "early_leave_grace_minutes", r.EarlyLeaveGraceMinutes, 0, 240)
	validateMinutes(&errs, "min_work_minutes", r.MinWorkMinutes, 1, 24*60)

	crossDay := r.CrossDay != nil && *r.CrossDay
	if len(errs) == 0 && !crossDay && r.StartTime >= r.EndTime {
		errs.Add("end_time", "end_time must be after start_time unless cross_day is set")
	}

	return errs.Err()
}

// ToEntity must only be called on a validated request.
func (r *CreateScheduleRequest) ToEntity(orgID string, now time.Time) WorkSchedule {
	start, _ := clock.ParseHHMM(r.StartTime)
	end, _ := clock.ParseHHMM(r.EndTime)

	s := WorkSchedule{
		OrgID:                  orgID,
		Name:                   r.Name,
		StartMinutes:           start,
		EndMinutes:             end,
		BreakStartMinutes:      parseOptional(r.BreakStart),
		BreakEndMinutes:        parseOptional(r.BreakEnd),
		LateGraceMinutes:       DefaultLateGraceMinutes,
		EarlyLeaveGraceMinutes: DefaultEarlyLeaveGraceMinutes,
		MinWorkMinutes:         r.MinWorkMinutes,
		CrossDay:               r.CrossDay != nil && *r.CrossDay,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if r.LateGraceMinutes != nil {
		s.LateGraceMinutes = *r.LateGraceMinutes
	}
	if r.EarlyLeaveGraceMinutes != nil {
		s.EarlyLeaveGraceMinutes = *r.EarlyLeaveGraceMinutes
	}
	return s
}

// UpdateScheduleRequest treats an empty break string as "clear".
type UpdateScheduleRequest struct {
	ID                     string  `json:"-"`
	Name                   *string `json:"name,omitempty"`
	StartTime              *string `json:"start_time,omitempty"`
	EndTime                *string `json:"end_time,omitempty"`
	BreakStart             *string `json:"break_start,omitempty"`
	BreakEnd               *string `json:"break_end,omitempty"`
	LateGraceMinutes       *int    `json:"late_grace_minutes,omitempty"`
	EarlyLeaveGraceMinutes *int    `json:"early_leave_grace_minutes,omitempty"`
	MinWorkMinutes         *int    `json:"min_work_minutes,omitempty"`
	CrossDay               *bool   `json:"cross_day,omitempty"`
}

func (r *UpdateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs.Add("name", "name cannot be empty")
	}
	if r.StartTime != nil && !clock.IsValidHHMM(*r.StartTime) {
		errs.Add("start_time", "start_time must be HH:mm")
	}
	if r.EndTime != nil && !clock.IsValidHHMM(*r.EndTime) {
		errs.Add("end_time", "end_time must be HH:mm")
	}
	if r.BreakStart != nil && *r.BreakStart != "" && !clock.IsValidHHMM(*r.BreakStart) {
		errs.Add("break_start", "break_start must be HH:mm")
	}
	if r.BreakEnd != nil && *r.BreakEnd != "" && !clock.IsValidHHMM(*r.BreakEnd) {
		errs.Add("break_end", "break_end must be HH:mm")
	}
	validateMinutes(&errs, "late_grace_minutes", r.LateGraceMinutes, 0, 240)
	validateMinutes(&errs, "early_leave_grace_minutes", r.EarlyLeaveGraceMinutes, 0, 240)
	validateMinutes(&errs, "min_work_minutes", r.MinWorkMinutes, 1, 24*60)

	return errs.Err()
}

// Apply copies the set fields onto s and re-checks the resulting times.
func (r *UpdateScheduleRequest) Apply(s *WorkSchedule, now time.Time) error {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.StartTime != nil {
		s.StartMinutes, _ = clock.ParseHHMM(*r.StartTime)
	}
	if r.EndTime != nil {
		s.EndMinutes, _ = clock.ParseHHMM(*r.EndTime)
	}
	if r.BreakStart != nil {
		s.BreakStartMinutes = parseOptional(r.BreakStart)
	}
	if r.BreakEnd != nil {
		s.BreakEndMinutes = parseOptional(r.BreakEnd)
	}
	if r.LateGraceMinutes != nil {
		s.LateGraceMinutes = *r.LateGraceMinutes
	}
	if r.EarlyLeaveGraceMinutes != nil {
		s.EarlyLeaveGraceMinutes = *r.EarlyLeaveGraceMinutes
	}
	if r.MinWorkMinutes != nil {
		s.MinWorkMinutes = r.MinWorkMinutes
	}
	if r.CrossDay != nil {
		s.CrossDay = *r.CrossDay
	}
	s.UpdatedAt = now

	var errs validator.ValidationErrors
	if (s.BreakStartMinutes == nil) != (s.BreakEndMinutes == nil) {
		errs.Add("break_start", "break_start and break_end must be set together")
	}
	if !s.CrossDay && s.StartMinutes >= s.EndMinutes {
		errs.Add("end_time", "end_time must be after start_time unless cross_day is set")
	}
	return errs.Err()
}

type ScheduleResponse struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	StartTime              string  `json:"start_time"`
	EndTime                string  `json:"end_time"`
	BreakStart             *string `json:"break_start"`
	BreakEnd               *string `json:"break_end"`
	LateGraceMinutes       int     `json:"late_grace_minutes"`
	EarlyLeaveGraceMinutes int     `json:"early_leave_grace_minutes"`
	MinWorkMinutes         *int    `json:"min_work_minutes"`
	CrossDay               bool    `json:"cross_day"`
	IsDefault              bool    `json:"is_default"`
}

func NewScheduleResponse(s WorkSchedule, defaultID *string) ScheduleResponse {
	return ScheduleResponse{
		ID:                     s.ID,
		Name:                   s.Name,
		StartTime:              clock.MinutesToHHMM(s.StartMinutes),
		EndTime:                clock.MinutesToHHMM(s.EndMinutes),
		BreakStart:             formatOptional(s.BreakStartMinutes),
		BreakEnd:               formatOptional(s.BreakEndMinutes),
		LateGraceMinutes:       s.LateGraceMinutes,
		EarlyLeaveGraceMinutes: s.EarlyLeaveGraceMinutes,
		MinWorkMinutes:         s.MinWorkMinutes,
		CrossDay:               s.CrossDay,
		IsDefault:              defaultID != nil && *defaultID == s.ID,
	}
}

func validateBreak(errs *validator.ValidationErrors, start, end *string) {
	if start != nil && !clock.IsValidHHMM(*start) {
		errs.Add("break_start", "break_start must be HH:mm")
	}
	if end != nil && !clock.IsValidHHMM(*end) {
		errs.Add("break_end", "break_end must be HH:mm")
	}
	if (start == nil) != (end == nil) {
		errs.Add("break_start", "break_start and break_end must be set together")
	}
}

func validateMinutes(errs *validator.ValidationErrors, field string, v *int, lo, hi int) {
	if v == nil {
		return
	}
	if *v < lo || *v > hi {
		errs.Add(field, field+" is out of range")
	}
}

func parseOptional(s *string) *int {
	if s == nil || *s == "" {
		return nil
	}
	m, err := clock.ParseHHMM(*s)
	if err != nil {
		return nil
	}
	return &m
}

func formatOptional(m *int) *string {
	if m == nil {
		return nil
	}
	s := clock.MinutesToHHMM(*m)
	return &s
}

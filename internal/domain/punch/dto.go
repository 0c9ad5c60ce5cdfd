package punch

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

type CreatePunchRequest struct {
	PunchType      string   `json:"punch_type"`
	Latitude       *float64 `json:"lat,omitempty"`
	Longitude      *float64 `json:"lng,omitempty"`
	AccuracyMeters *float64 `json:"accuracy_m,omitempty"`
	VerifyMethod   string   `json:"verify_method,omitempty"`
	EvidenceURL    *string  `json:"evidence_url,omitempty"`
	DeviceInfo     *string  `json:"device_info,omitempty"`
	IPAddress      *string  `json:"-"`
}

func (r *CreatePunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PunchType != string(TypeIn) && r.PunchType != string(TypeOut) {
		errs.Add("punch_type", "punch_type must be IN or OUT")
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs.Add("lat", "lat and lng must be provided together")
	}
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs.Add("lat", "lat must be between -90 and 90")
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs.Add("lng", "lng must be between -180 and 180")
	}
	if r.AccuracyMeters != nil && *r.AccuracyMeters < 0 {
		errs.Add("accuracy_m", "accuracy_m cannot be negative")
	}
	if r.VerifyMethod != "" && !validator.IsInSlice(r.VerifyMethod, VerifyMethodValues) {
		errs.Add("verify_method", "verify_method must be one of NONE, PHOTO, FACE, LIVENESS")
	}
	if r.EvidenceURL != nil && len(*r.EvidenceURL) > 2048 {
		errs.Add("evidence_url", "evidence_url is too long")
	}

	return errs.Err()
}

// Method returns the requested verification method, PHOTO when omitted.
func (r *CreatePunchRequest) Method() VerifyMethod {
	if r.VerifyMethod == "" {
		return VerifyPhoto
	}
	return VerifyMethod(r.VerifyMethod)
}

type ScheduleInfo struct {
	ScheduleName           string `json:"schedule_name"`
	StartTime              string `json:"start_time"`
	EndTime                string `json:"end_time"`
	LateGraceMinutes       int    `json:"late_grace_minutes"`
	EarlyLeaveGraceMinutes int    `json:"early_leave_grace_minutes"`
}

type PunchResponse struct {
	ID                    string        `json:"id"`
	PunchType             Type          `json:"punch_type"`
	PunchedAt             string        `json:"punched_at"`
	InFence               *bool         `json:"in_fence"`
	GeoFenceID            *string       `json:"geo_fence_id,omitempty"`
	DistanceToFenceMeters *int          `json:"distance_to_fence_m,omitempty"`
	VerifyStatus          VerifyStatus  `json:"verify_status"`
	Status                Status        `json:"status"`
	LateMinutes           *int          `json:"late_minutes,omitempty"`
	EarlyLeaveMinutes     *int          `json:"early_leave_minutes,omitempty"`
	Message               string        `json:"message"`
	ScheduleInfo          *ScheduleInfo `json:"schedule_info"`
}

type PunchSummary struct {
	ID           string       `json:"id"`
	PunchType    Type         `json:"punch_type"`
	PunchedAt    string       `json:"punched_at"`
	LocalTime    string       `json:"local_time"`
	InFence      *bool        `json:"in_fence"`
	Status       Status       `json:"status"`
	VerifyStatus VerifyStatus `json:"verify_status"`
}

type TodayPunchesResponse struct {
	Date     string        `json:"date"`
	PunchIn  *PunchSummary `json:"punch_in"`
	PunchOut *PunchSummary `json:"punch_out"`
}

type HistoryFilter struct {
	From     string
	To       string
	Page     int
	PageSize int
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(f.From)
	if !okFrom {
		errs.Add("from", "from must be YYYY-MM-DD")
	}
	to, okTo := validator.IsValidDate(f.To)
	if !okTo {
		errs.Add("to", "to must be YYYY-MM-DD")
	}
	if okFrom && okTo {
		if to.Before(from) {
			errs.Add("to", "to must not be before from")
		} else if to.Sub(from) > 366*24*time.Hour {
			errs.Add("to", "range must not exceed one year")
		}
	}
	if f.Page < 0 {
		errs.Add("page", "page must be positive")
	}
	if f.PageSize < 0 || f.PageSize > 100 {
		errs.Add("page_size", "page_size must be between 1 and 100")
	}

	return errs.Err()
}

func (f *HistoryFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
}

type HistoryDay struct {
	Date     string        `json:"date"`
	PunchIn  *PunchSummary `json:"punch_in"`
	PunchOut *PunchSummary `json:"punch_out"`
}

type HistoryResponse struct {
	Items      []HistoryDay `json:"items"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}

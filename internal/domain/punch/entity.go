package punch

import (
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/geo"
)

type Type string

const (
	TypeIn  Type = "IN"
	TypeOut Type = "OUT"
)

type VerifyMethod string

const (
	VerifyNone     VerifyMethod = "NONE"
	VerifyPhoto    VerifyMethod = "PHOTO"
	VerifyFace     VerifyMethod = "FACE"
	VerifyLiveness VerifyMethod = "LIVENESS"
)

var VerifyMethodValues = []string{
	string(VerifyNone),
	string(VerifyPhoto),
	string(VerifyFace),
	string(VerifyLiveness),
}

type VerifyStatus string

const (
	VerifyPass    VerifyStatus = "PASS"
	VerifyFail    VerifyStatus = "FAIL"
	VerifySkipped VerifyStatus = "SKIPPED"
)

type Status string

const (
	StatusNormal     Status = "NORMAL"
	StatusLate       Status = "LATE"
	StatusEarlyLeave Status = "EARLY_LEAVE"
	StatusNoSchedule Status = "NO_SCHEDULE"
)

// Punch is a classified punch. It is never modified after creation.
type Punch struct {
	ID                    string
	OrgID                 string
	UserID                string
	Type                  Type
	PunchedAt             time.Time
	Latitude              *float64
	Longitude             *float64
	AccuracyMeters        *float64
	GeoFenceID            *string
	DistanceToFenceMeters *int
	InFence               *bool
	VerifyMethod          VerifyMethod
	VerifyStatus          VerifyStatus
	EvidenceURL           *string
	DeviceInfo            *string
	IPAddress             *string
	ScheduleID            *string
	Status                Status
	LateMinutes           *int
	EarlyLeaveMinutes     *int
	CreatedAt             time.Time
}

// Point returns the punch coordinate, or nil when none was supplied.
func (p Punch) Point() *geo.Point {
	if p.Latitude == nil || p.Longitude == nil {
		return nil
	}
	return &geo.Point{Lat: *p.Latitude, Lng: *p.Longitude}
}

// VerifyStatusFor passes a punch that names a verification method and carries evidence.
func VerifyStatusFor(method VerifyMethod, evidenceURL *string) VerifyStatus {
	if method != VerifyNone && evidenceURL != nil && *evidenceURL != "" {
		return VerifyPass
	}
	return VerifySkipped
}

package anomaly

import "time"

type Type string

const (
	TypeMissingIn      Type = "MISSING_IN"
	TypeMissingOut     Type = "MISSING_OUT"
	TypeOutOfFence     Type = "OUT_OF_FENCE"
	TypeLocationDenied Type = "LOCATION_DENIED"
	TypeLate           Type = "LATE"
	TypeEarlyLeave     Type = "EARLY_LEAVE"
)

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusResolved Status = "RESOLVED"
)

type Anomaly struct {
	ID             string
	OrgID          string
	UserID         string
	Date           time.Time // local start of day
	Type           Type
	Severity       Severity
	Status         Status
	RelatedPunchID *string
	CreatedAt      time.Time
}

// SeverityFor: classification anomalies are LOW, everything else MEDIUM.
func SeverityFor(t Type) Severity {
	if t == TypeLate || t == TypeEarlyLeave {
		return SeverityLow
	}
	return SeverityMedium
}

// New builds an OPEN anomaly stamped with now.
func New(orgID, userID string, day time.Time, t Type, relatedPunchID *string, now time.Time) Anomaly {
	return Anomaly{
		OrgID:          orgID,
		UserID:         userID,
		Date:           day,
		Type:           t,
		Severity:       SeverityFor(t),
		Status:         StatusOpen,
		RelatedPunchID: relatedPunchID,
		CreatedAt:      now,
	}
}

// Counts aggregates anomalies of one user over a period.
type Counts struct {
	Total      int
	Late       int
	EarlyLeave int
}

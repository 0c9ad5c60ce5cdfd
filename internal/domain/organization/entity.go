package organization

import (
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/clock"
)

type Organization struct {
	ID                string
	Name              string
	UTCOffsetMinutes  int
	Timezone          *string
	DefaultScheduleID *string
}

// Clock returns the organization's local calendar.
func (o Organization) Clock() (clock.Clock, error) {
	return clock.ForOrganization(o.UTCOffsetMinutes, o.Timezone)
}

package punch

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/anomaly"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/punch"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/clock"
)

type classification struct {
	status            punch.Status
	lateMinutes       *int
	earlyLeaveMinutes *int
	anomaly           *anomaly.Type
	message           string
	scheduleInfo      *punch.ScheduleInfo
}

// classify grades a punch taken at localMinutes (minutes since local
// midnight) against sched. A nil schedule yields NO_SCHEDULE.
func classify(punchType punch.Type, localMinutes int, sched *schedule.WorkSchedule) classification {
	if sched == nil {
		return classification{
			status:  punch.StatusNoSchedule,
			message: "Punch recorded, no work schedule configured",
		}
	}

	info := &punch.ScheduleInfo{
		ScheduleName:           sched.Name,
		StartTime:              clock.MinutesToHHMM(sched.StartMinutes),
		EndTime:                clock.MinutesToHHMM(sched.EndMinutes),
		LateGraceMinutes:       sched.LateGraceMinutes,
		EarlyLeaveGraceMinutes: sched.EarlyLeaveGraceMinutes,
	}
	actual := clock.MinutesToHHMM(localMinutes)

	if punchType == punch.TypeIn {
		if localMinutes > sched.LateThreshold() {
			late := localMinutes - sched.StartMinutes
			t := anomaly.TypeLate
			return classification{
				status:       punch.StatusLate,
				lateMinutes:  &late,
				anomaly:      &t,
				message:      fmt.Sprintf("Late by %s (scheduled start %s, punched at %s)", formatSpan(late), info.StartTime, actual),
				scheduleInfo: info,
			}
		}
		return classification{
			status:       punch.StatusNormal,
			message:      fmt.Sprintf("Punch in recorded (scheduled start %s, punched at %s)", info.StartTime, actual),
			scheduleInfo: info,
		}
	}

	if localMinutes < sched.EarlyLeaveThreshold() {
		early := sched.EndMinutes - localMinutes
		t := anomaly.TypeEarlyLeave
		return classification{
			status:            punch.StatusEarlyLeave,
			earlyLeaveMinutes: &early,
			anomaly:           &t,
			message:           fmt.Sprintf("Left early by %s (scheduled end %s, punched at %s)", formatSpan(early), info.EndTime, actual),
			scheduleInfo:      info,
		}
	}
	return classification{
		status:       punch.StatusNormal,
		message:      fmt.Sprintf("Punch out recorded (scheduled end %s, punched at %s)", info.EndTime, actual),
		scheduleInfo: info,
	}
}

// formatSpan renders minutes as "Xh Ym", or "Ym" under an hour.
func formatSpan(minutes int) string {
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

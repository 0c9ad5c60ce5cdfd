package request

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/request"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	clk := clock.FixedOffset(480)
	local := func(day, hour, minute int) time.Time {
		return time.Date(2026, 4, day, hour, minute, 0, 0, clk.Location())
	}
	annual := "Annual"
	blank := "  "
	jakarta := "Jakarta"

	tests := []struct {
		name     string
		typ      request.Type
		start    time.Time
		end      time.Time
		category *string
		dest     *string
		want     string
	}{
		{"leave with category", request.TypeLeave, local(1, 9, 0), local(3, 9, 0), &annual, nil, "Annual-6 days"},
		{"leave single day", request.TypeLeave, local(1, 9, 0), local(1, 17, 0), nil, nil, "Leave-1 day"},
		{"leave blank category", request.TypeLeave, local(1, 9, 0), local(1, 13, 0), &blank, nil, "Leave-1 day"},
		{"trip", request.TypeTrip, local(1, 9, 0), local(2, 9, 0), nil, &jakarta, "Trip-Jakarta"},
		{"trip unknown", request.TypeTrip, local(1, 9, 0), local(2, 9, 0), nil, nil, "Trip-Unknown"},
		{"fix punch in", request.TypeFixPunch, local(1, 8, 30), local(1, 9, 0), nil, nil, "Fix punch IN"},
		{"fix punch out", request.TypeFixPunch, local(1, 17, 30), local(1, 18, 0), nil, nil, "Fix punch OUT"},
		{"fix punch span", request.TypeFixPunch, local(1, 10, 0), local(1, 13, 0), nil, nil, "Fix punch-3h"},
		{"overtime", request.TypeOvertime, local(1, 18, 0), local(1, 20, 30), nil, nil, "Overtime-3h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.typ, tt.start.UTC(), tt.end.UTC(), tt.category, tt.dest, clk))
		})
	}
}

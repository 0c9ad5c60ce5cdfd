package stats

import "github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"

type MonthQuery struct {
	Month string
}

func (q *MonthQuery) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidMonth(q.Month) {
		errs.Add("month", "month must be YYYY-MM")
	}
	return errs.Err()
}

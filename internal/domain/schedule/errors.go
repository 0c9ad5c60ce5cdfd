package schedule

import "errors"

var (
	ErrScheduleNotFound        = errors.New("work schedule not found")
	ErrCannotDeleteDefault     = errors.New("the default work schedule cannot be deleted")
	ErrDefaultScheduleNotFound = errors.New("organization has no default work schedule")
)

package organization

import "errors"

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrInvalidTimezone      = errors.New("organization timezone is invalid")
)

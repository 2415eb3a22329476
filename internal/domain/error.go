package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrAlreadyTracked   = errors.New("user is already tracked")
	ErrNotTracked       = errors.New("user is not tracked")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidHour      = errors.New("hour must be between 0 and 23")
	ErrInvalidWeekday   = errors.New("unknown weekday")
	ErrInvalidInterval  = errors.New("activity interval must be between 15 and 240 minutes")
	ErrInvalidFraction  = errors.New("probability must be between 0 and 1")
	ErrInvalidTimezone  = errors.New("unknown timezone identifier")
	ErrCredentialDenied = errors.New("time tracking credential rejected")
)

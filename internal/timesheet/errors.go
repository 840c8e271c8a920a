package timesheet

import "errors"

var (
	ErrInvalidCommit    = errors.New("invalid commit record")
	ErrUnsorted         = errors.New("commits are not in chronological order")
	ErrInvalidThreshold = errors.New("gap threshold must be a positive number of hours")
	ErrInvalidDate      = errors.New("invalid date")

	// ErrEmptyDenominator is returned by the share calculations when the
	// reference set has nothing to divide by.
	ErrEmptyDenominator = errors.New("share of an empty commit set is undefined")
)

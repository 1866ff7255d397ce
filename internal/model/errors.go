package model

import "errors"

// Expected outcomes are returned as sentinel errors and drive reprompts;
// anything else is a real store or I/O fault.
var (
	ErrPastMealDate = errors.New("meal date is before the submission date")
	ErrNoData       = errors.New("no requests to export")
)

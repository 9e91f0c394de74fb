package payroll

import "errors"

var (
	ErrConfigNotFound         = errors.New("payroll config not found for the requested year")
	ErrConfigExists           = errors.New("payroll config already exists for this year")
	ErrConfigImmutable        = errors.New("payroll config is referenced by a processed period and cannot be changed")
	ErrPeriodNotFound         = errors.New("payroll period not found")
	ErrDuplicatePeriod        = errors.New("payroll period already exists for this date range")
	ErrPeriodAlreadyProcessed = errors.New("payroll period already processed")
	ErrPeriodNotProcessed     = errors.New("payroll period has not been processed yet")
	ErrDetailNotFound         = errors.New("payroll detail not found")
)

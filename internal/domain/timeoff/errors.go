package timeoff

import "errors"

var (
	ErrPolicyNotFound          = errors.New("time-off policy not found")
	ErrPolicyExists            = errors.New("time-off policy already exists for this leave type")
	ErrBalanceNotFound         = errors.New("time-off balance not found")
	ErrInsufficientBalance     = errors.New("requested days exceed available balance")
	ErrRequestNotFound         = errors.New("time-off request not found")
	ErrRequestAlreadyProcessed = errors.New("time-off request already processed")
)

package timeoff

import "context"

type PolicyRepository interface {
	Create(ctx context.Context, p Policy) (Policy, error)
	GetByID(ctx context.Context, id string, companyID string) (Policy, error)
	GetByType(ctx context.Context, companyID string, policyType PolicyType) (Policy, error)
	List(ctx context.Context, companyID string) ([]Policy, error)
}

type BalanceRepository interface {
	Create(ctx context.Context, b Balance) (Balance, error)
	ListByCompany(ctx context.Context, companyID string) ([]Balance, error)
	ListByEmployeePolicy(ctx context.Context, companyID, employeeID, policyID string) ([]Balance, error)

	// ListByEmployeePolicyForUpdate locks the pair's year rows for the
	// remainder of the surrounding transaction, serializing concurrent
	// approvals against the same balance.
	ListByEmployeePolicyForUpdate(ctx context.Context, companyID, employeeID, policyID string) ([]Balance, error)

	AddUsedDays(ctx context.Context, id string, days float64) error

	// SetUsedDays overwrites used_days; the year rollover uses it to forfeit
	// surplus beyond the carry-forward cap.
	SetUsedDays(ctx context.Context, id string, days float64) error
}

type RequestRepository interface {
	Create(ctx context.Context, r Request) (Request, error)
	GetByID(ctx context.Context, id string, companyID string) (Request, error)
	List(ctx context.Context, companyID string) ([]Request, error)
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]Request, error)

	// UpdateStatus flips PENDING to the given terminal status. Compare-and-
	// swap on the current status: returns false when the request was no
	// longer pending.
	UpdateStatus(ctx context.Context, id string, companyID string, to RequestStatus, reviewedBy string) (bool, error)
}

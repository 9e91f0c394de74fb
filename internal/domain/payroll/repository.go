package payroll

import (
	"context"
	"time"
)

// ConfigRepository defines data access for annual payroll configs.
type ConfigRepository interface {
	Create(ctx context.Context, cfg Config) (Config, error)
	GetByYear(ctx context.Context, companyID string, year int) (Config, error)
	List(ctx context.Context, companyID string) ([]Config, error)
	Update(ctx context.Context, companyID string, req UpdateConfigRequest) error
}

// PeriodRepository defines data access for payroll periods.
type PeriodRepository interface {
	Create(ctx context.Context, p Period) (Period, error)
	GetByID(ctx context.Context, id string, companyID string) (Period, error)
	List(ctx context.Context, companyID string) ([]Period, error)
	ExistsByRange(ctx context.Context, companyID string, start, end time.Time) (bool, error)

	// MarkProcessed performs the DRAFT -> PROCESSED compare-and-swap,
	// freezing totals and processed_at in the same statement. Returns false
	// when the period was not in DRAFT (another operator won the claim).
	MarkProcessed(ctx context.Context, id string, companyID string, totals Totals, processedAt time.Time) (bool, error)

	// MarkPaid performs the PROCESSED -> PAID compare-and-swap.
	MarkPaid(ctx context.Context, id string, companyID string) (bool, error)

	HasProcessedInYear(ctx context.Context, companyID string, year int) (bool, error)
}

// DetailRepository defines data access for the append-only per-employee
// payroll facts.
type DetailRepository interface {
	CreateBatch(ctx context.Context, details []Detail) error
	ListByPeriod(ctx context.Context, periodID string, companyID string) ([]Detail, error)
	GetByPeriodEmployee(ctx context.Context, periodID string, employeeID string, companyID string) (Detail, error)
}

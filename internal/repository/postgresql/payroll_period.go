package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
)

type payrollPeriodRepository struct {
	db *database.DB
}

func NewPayrollPeriodRepository(db *database.DB) payroll.PeriodRepository {
	return &payrollPeriodRepository{db: db}
}

const periodColumns = `id, company_id, start_date, end_date, period_days, status,
	total_gross, total_deductions, total_net, total_transportation,
	processed_at, created_at, updated_at`

func scanPeriod(row pgx.Row) (payroll.Period, error) {
	var p payroll.Period
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.StartDate, &p.EndDate, &p.PeriodDays, &p.Status,
		&p.TotalGross, &p.TotalDeductions, &p.TotalNet, &p.TotalTransportation,
		&p.ProcessedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *payrollPeriodRepository) Create(ctx context.Context, p payroll.Period) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (
			company_id, start_date, end_date, period_days, status,
			total_gross, total_deductions, total_net, total_transportation
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + periodColumns

	created, err := scanPeriod(q.QueryRow(ctx, query,
		p.CompanyID, p.StartDate, p.EndDate, p.PeriodDays, p.Status,
		p.TotalGross, p.TotalDeductions, p.TotalNet, p.TotalTransportation,
	))
	if err != nil {
		return payroll.Period{}, fmt.Errorf("failed to create payroll period: %w", err)
	}

	return created, nil
}

func (r *payrollPeriodRepository) GetByID(ctx context.Context, id string, companyID string) (payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE id = $1 AND company_id = $2`

	p, err := scanPeriod(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Period{}, payroll.ErrPeriodNotFound
		}
		return payroll.Period{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *payrollPeriodRepository) List(ctx context.Context, companyID string) ([]payroll.Period, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE company_id = $1 ORDER BY start_date DESC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}

	return periods, rows.Err()
}

func (r *payrollPeriodRepository) ExistsByRange(ctx context.Context, companyID string, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM payroll_periods
			WHERE company_id = $1 AND start_date = $2 AND end_date = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, companyID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for duplicate period: %w", err)
	}

	return exists, nil
}

// MarkProcessed is the one-way DRAFT -> PROCESSED claim. The status guard in
// the WHERE clause makes the transition a compare-and-swap: with two
// concurrent processing attempts, exactly one sees an affected row.
func (r *payrollPeriodRepository) MarkProcessed(ctx context.Context, id string, companyID string, totals payroll.Totals, processedAt time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET status = $1,
			total_gross = $2,
			total_deductions = $3,
			total_net = $4,
			total_transportation = $5,
			processed_at = $6,
			updated_at = NOW()
		WHERE id = $7 AND company_id = $8 AND status = $9
	`

	tag, err := q.Exec(ctx, query,
		payroll.PeriodStatusProcessed,
		totals.TotalGross, totals.TotalDeductions, totals.TotalNet, totals.TotalTransportation,
		processedAt, id, companyID, payroll.PeriodStatusDraft,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark period processed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *payrollPeriodRepository) MarkPaid(ctx context.Context, id string, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND status = $4
	`

	tag, err := q.Exec(ctx, query, payroll.PeriodStatusPaid, id, companyID, payroll.PeriodStatusProcessed)
	if err != nil {
		return false, fmt.Errorf("failed to mark period paid: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *payrollPeriodRepository) HasProcessedInYear(ctx context.Context, companyID string, year int) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM payroll_periods
			WHERE company_id = $1
			  AND status <> $2
			  AND EXTRACT(YEAR FROM start_date) = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, companyID, payroll.PeriodStatusDraft, year).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check processed periods in year: %w", err)
	}

	return exists, nil
}

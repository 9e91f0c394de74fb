package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/timeoff"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
)

type timeOffBalanceRepository struct {
	db *database.DB
}

func NewTimeOffBalanceRepository(db *database.DB) timeoff.BalanceRepository {
	return &timeOffBalanceRepository{db: db}
}

const balanceColumns = `id, company_id, employee_id, policy_id, year, total_days, used_days, created_at, updated_at`

func scanBalance(row pgx.Row) (timeoff.Balance, error) {
	var b timeoff.Balance
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.EmployeeID, &b.PolicyID, &b.Year,
		&b.TotalDays, &b.UsedDays, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

func (r *timeOffBalanceRepository) Create(ctx context.Context, b timeoff.Balance) (timeoff.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_off_balances (company_id, employee_id, policy_id, year, total_days, used_days)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + balanceColumns

	created, err := scanBalance(q.QueryRow(ctx, query,
		b.CompanyID, b.EmployeeID, b.PolicyID, b.Year, b.TotalDays, b.UsedDays,
	))
	if err != nil {
		return timeoff.Balance{}, fmt.Errorf("failed to create time-off balance: %w", err)
	}

	return created, nil
}

func (r *timeOffBalanceRepository) ListByCompany(ctx context.Context, companyID string) ([]timeoff.Balance, error) {
	return r.list(ctx,
		`SELECT `+balanceColumns+` FROM time_off_balances WHERE company_id = $1 ORDER BY employee_id, policy_id, year`,
		companyID,
	)
}

func (r *timeOffBalanceRepository) ListByEmployeePolicy(ctx context.Context, companyID, employeeID, policyID string) ([]timeoff.Balance, error) {
	return r.list(ctx,
		`SELECT `+balanceColumns+` FROM time_off_balances
		 WHERE company_id = $1 AND employee_id = $2 AND policy_id = $3
		 ORDER BY year`,
		companyID, employeeID, policyID,
	)
}

// ListByEmployeePolicyForUpdate takes row locks on every year row of the
// pair. Two concurrent approvals against the same balance serialize here;
// the second one re-reads the state the first one committed.
func (r *timeOffBalanceRepository) ListByEmployeePolicyForUpdate(ctx context.Context, companyID, employeeID, policyID string) ([]timeoff.Balance, error) {
	return r.list(ctx,
		`SELECT `+balanceColumns+` FROM time_off_balances
		 WHERE company_id = $1 AND employee_id = $2 AND policy_id = $3
		 ORDER BY year
		 FOR UPDATE`,
		companyID, employeeID, policyID,
	)
}

func (r *timeOffBalanceRepository) list(ctx context.Context, query string, args ...interface{}) ([]timeoff.Balance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off balances: %w", err)
	}
	defer rows.Close()

	var balances []timeoff.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time-off balance: %w", err)
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

func (r *timeOffBalanceRepository) AddUsedDays(ctx context.Context, id string, days float64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE time_off_balances SET used_days = used_days + $1, updated_at = NOW() WHERE id = $2`,
		days, id,
	)
	if err != nil {
		return fmt.Errorf("failed to add used days: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeoff.ErrBalanceNotFound
	}

	return nil
}

func (r *timeOffBalanceRepository) SetUsedDays(ctx context.Context, id string, days float64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx,
		`UPDATE time_off_balances SET used_days = $1, updated_at = NOW() WHERE id = $2`,
		days, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set used days: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeoff.ErrBalanceNotFound
	}

	return nil
}

package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
)

type payrollDetailRepository struct {
	db *database.DB
}

func NewPayrollDetailRepository(db *database.DB) payroll.DetailRepository {
	return &payrollDetailRepository{db: db}
}

func (r *payrollDetailRepository) CreateBatch(ctx context.Context, details []payroll.Detail) error {
	if len(details) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_details (
			period_id, company_id, employee_id, base_salary, transportation_allowance,
			health_contribution, pension_contribution, solidarity_fund,
			gross_salary, total_deductions, net_salary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, d := range details {
		_, err := q.Exec(ctx, query,
			d.PeriodID, d.CompanyID, d.EmployeeID, d.BaseSalary, d.TransportationAllowance,
			d.HealthContribution, d.PensionContribution, d.SolidarityFund,
			d.GrossSalary, d.TotalDeductions, d.NetSalary,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payroll detail for employee %s: %w", d.EmployeeID, err)
		}
	}

	return nil
}

const detailColumns = `d.id, d.period_id, d.company_id, d.employee_id, d.base_salary,
	d.transportation_allowance, d.health_contribution, d.pension_contribution,
	d.solidarity_fund, d.gross_salary, d.total_deductions, d.net_salary,
	d.created_at, e.full_name, e.employee_code`

func scanDetail(row pgx.Row) (payroll.Detail, error) {
	var d payroll.Detail
	err := row.Scan(
		&d.ID, &d.PeriodID, &d.CompanyID, &d.EmployeeID, &d.BaseSalary,
		&d.TransportationAllowance, &d.HealthContribution, &d.PensionContribution,
		&d.SolidarityFund, &d.GrossSalary, &d.TotalDeductions, &d.NetSalary,
		&d.CreatedAt, &d.EmployeeName, &d.EmployeeCode,
	)
	return d, err
}

func (r *payrollDetailRepository) ListByPeriod(ctx context.Context, periodID string, companyID string) ([]payroll.Detail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + detailColumns + `
		FROM payroll_details d
		LEFT JOIN employees e ON e.id = d.employee_id
		WHERE d.period_id = $1 AND d.company_id = $2
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, periodID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll details: %w", err)
	}
	defer rows.Close()

	var details []payroll.Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll detail: %w", err)
		}
		details = append(details, d)
	}

	return details, rows.Err()
}

func (r *payrollDetailRepository) GetByPeriodEmployee(ctx context.Context, periodID string, employeeID string, companyID string) (payroll.Detail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + detailColumns + `
		FROM payroll_details d
		LEFT JOIN employees e ON e.id = d.employee_id
		WHERE d.period_id = $1 AND d.employee_id = $2 AND d.company_id = $3
	`

	d, err := scanDetail(q.QueryRow(ctx, query, periodID, employeeID, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Detail{}, payroll.ErrDetailNotFound
		}
		return payroll.Detail{}, fmt.Errorf("failed to get payroll detail: %w", err)
	}

	return d, nil
}

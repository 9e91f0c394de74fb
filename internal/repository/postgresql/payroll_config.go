package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
)

type payrollConfigRepository struct {
	db *database.DB
}

func NewPayrollConfigRepository(db *database.DB) payroll.ConfigRepository {
	return &payrollConfigRepository{db: db}
}

const configColumns = `id, company_id, year, minimum_wage, transportation_allowance,
	health_contribution_percentage, pension_contribution_percentage,
	solidarity_fund_threshold, created_at, updated_at`

func scanConfig(row pgx.Row) (payroll.Config, error) {
	var c payroll.Config
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Year, &c.MinimumWage, &c.TransportationAllowance,
		&c.HealthContributionPercentage, &c.PensionContributionPercentage,
		&c.SolidarityFundThreshold, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *payrollConfigRepository) Create(ctx context.Context, cfg payroll.Config) (payroll.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_configs (
			company_id, year, minimum_wage, transportation_allowance,
			health_contribution_percentage, pension_contribution_percentage,
			solidarity_fund_threshold
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + configColumns

	created, err := scanConfig(q.QueryRow(ctx, query,
		cfg.CompanyID, cfg.Year, cfg.MinimumWage, cfg.TransportationAllowance,
		cfg.HealthContributionPercentage, cfg.PensionContributionPercentage,
		cfg.SolidarityFundThreshold,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.Config{}, payroll.ErrConfigExists
		}
		return payroll.Config{}, fmt.Errorf("failed to create payroll config: %w", err)
	}

	return created, nil
}

func (r *payrollConfigRepository) GetByYear(ctx context.Context, companyID string, year int) (payroll.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + configColumns + ` FROM payroll_configs WHERE company_id = $1 AND year = $2`

	cfg, err := scanConfig(q.QueryRow(ctx, query, companyID, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Config{}, payroll.ErrConfigNotFound
		}
		return payroll.Config{}, fmt.Errorf("failed to get payroll config: %w", err)
	}

	return cfg, nil
}

func (r *payrollConfigRepository) List(ctx context.Context, companyID string) ([]payroll.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + configColumns + ` FROM payroll_configs WHERE company_id = $1 ORDER BY year DESC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll configs: %w", err)
	}
	defer rows.Close()

	var configs []payroll.Config
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll config: %w", err)
		}
		configs = append(configs, cfg)
	}

	return configs, rows.Err()
}

func (r *payrollConfigRepository) Update(ctx context.Context, companyID string, req payroll.UpdateConfigRequest) error {
	q := GetQuerier(ctx, r.db)

	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{companyID, req.Year}
	idx := 3

	if req.MinimumWage != nil {
		setClauses = append(setClauses, fmt.Sprintf("minimum_wage = $%d", idx))
		args = append(args, *req.MinimumWage)
		idx++
	}
	if req.TransportationAllowance != nil {
		setClauses = append(setClauses, fmt.Sprintf("transportation_allowance = $%d", idx))
		args = append(args, *req.TransportationAllowance)
		idx++
	}
	if req.HealthContributionPercentage != nil {
		setClauses = append(setClauses, fmt.Sprintf("health_contribution_percentage = $%d", idx))
		args = append(args, *req.HealthContributionPercentage)
		idx++
	}
	if req.PensionContributionPercentage != nil {
		setClauses = append(setClauses, fmt.Sprintf("pension_contribution_percentage = $%d", idx))
		args = append(args, *req.PensionContributionPercentage)
		idx++
	}
	if req.SolidarityFundThreshold != nil {
		setClauses = append(setClauses, fmt.Sprintf("solidarity_fund_threshold = $%d", idx))
		args = append(args, *req.SolidarityFundThreshold)
		idx++
	}

	query := fmt.Sprintf(
		`UPDATE payroll_configs SET %s WHERE company_id = $1 AND year = $2`,
		strings.Join(setClauses, ", "),
	)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payroll config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrConfigNotFound
	}

	return nil
}

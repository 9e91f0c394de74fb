package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nominahr/payroll-backend-go/internal/domain/timeoff"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
)

type timeOffPolicyRepository struct {
	db *database.DB
}

func NewTimeOffPolicyRepository(db *database.DB) timeoff.PolicyRepository {
	return &timeOffPolicyRepository{db: db}
}

const policyColumns = `id, company_id, type, days_per_year, carries_forward, max_carry_forward, created_at, updated_at`

func scanPolicy(row pgx.Row) (timeoff.Policy, error) {
	var p timeoff.Policy
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Type, &p.DaysPerYear,
		&p.CarriesForward, &p.MaxCarryForward, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *timeOffPolicyRepository) Create(ctx context.Context, p timeoff.Policy) (timeoff.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_off_policies (company_id, type, days_per_year, carries_forward, max_carry_forward)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + policyColumns

	created, err := scanPolicy(q.QueryRow(ctx, query,
		p.CompanyID, p.Type, p.DaysPerYear, p.CarriesForward, p.MaxCarryForward,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return timeoff.Policy{}, timeoff.ErrPolicyExists
		}
		return timeoff.Policy{}, fmt.Errorf("failed to create time-off policy: %w", err)
	}

	return created, nil
}

func (r *timeOffPolicyRepository) GetByID(ctx context.Context, id string, companyID string) (timeoff.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + policyColumns + ` FROM time_off_policies WHERE id = $1 AND company_id = $2`

	p, err := scanPolicy(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.Policy{}, timeoff.ErrPolicyNotFound
		}
		return timeoff.Policy{}, fmt.Errorf("failed to get time-off policy: %w", err)
	}

	return p, nil
}

func (r *timeOffPolicyRepository) GetByType(ctx context.Context, companyID string, policyType timeoff.PolicyType) (timeoff.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + policyColumns + ` FROM time_off_policies WHERE company_id = $1 AND type = $2`

	p, err := scanPolicy(q.QueryRow(ctx, query, companyID, policyType))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.Policy{}, timeoff.ErrPolicyNotFound
		}
		return timeoff.Policy{}, fmt.Errorf("failed to get time-off policy by type: %w", err)
	}

	return p, nil
}

func (r *timeOffPolicyRepository) List(ctx context.Context, companyID string) ([]timeoff.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + policyColumns + ` FROM time_off_policies WHERE company_id = $1 ORDER BY type`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off policies: %w", err)
	}
	defer rows.Close()

	var policies []timeoff.Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time-off policy: %w", err)
		}
		policies = append(policies, p)
	}

	return policies, rows.Err()
}

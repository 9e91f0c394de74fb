package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/timeoff"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
)

type timeOffRequestRepository struct {
	db *database.DB
}

func NewTimeOffRequestRepository(db *database.DB) timeoff.RequestRepository {
	return &timeOffRequestRepository{db: db}
}

const requestColumns = `id, company_id, employee_id, leave_type, start_date, end_date,
	reason, status, reviewed_by, reviewed_at, created_at, updated_at`

func scanRequest(row pgx.Row) (timeoff.Request, error) {
	var req timeoff.Request
	err := row.Scan(
		&req.ID, &req.CompanyID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate,
		&req.Reason, &req.Status, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (r *timeOffRequestRepository) Create(ctx context.Context, req timeoff.Request) (timeoff.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO time_off_requests (company_id, employee_id, leave_type, start_date, end_date, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + requestColumns

	created, err := scanRequest(q.QueryRow(ctx, query,
		req.CompanyID, req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate, req.Reason, req.Status,
	))
	if err != nil {
		return timeoff.Request{}, fmt.Errorf("failed to create time-off request: %w", err)
	}

	return created, nil
}

func (r *timeOffRequestRepository) GetByID(ctx context.Context, id string, companyID string) (timeoff.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM time_off_requests WHERE id = $1 AND company_id = $2`

	req, err := scanRequest(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return timeoff.Request{}, timeoff.ErrRequestNotFound
		}
		return timeoff.Request{}, fmt.Errorf("failed to get time-off request: %w", err)
	}

	return req, nil
}

func (r *timeOffRequestRepository) List(ctx context.Context, companyID string) ([]timeoff.Request, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM time_off_requests WHERE company_id = $1 ORDER BY created_at DESC`,
		companyID,
	)
}

func (r *timeOffRequestRepository) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]timeoff.Request, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM time_off_requests
		 WHERE company_id = $1 AND employee_id = $2
		 ORDER BY created_at DESC`,
		companyID, employeeID,
	)
}

func (r *timeOffRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]timeoff.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off requests: %w", err)
	}
	defer rows.Close()

	var requests []timeoff.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time-off request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// UpdateStatus flips a pending request to a terminal status. The status
// guard makes the flip a compare-and-swap: a request can be approved or
// rejected at most once.
func (r *timeOffRequestRepository) UpdateStatus(ctx context.Context, id string, companyID string, to timeoff.RequestStatus, reviewedBy string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_off_requests
		SET status = $1, reviewed_by = $2, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND company_id = $4 AND status = $5
	`

	tag, err := q.Exec(ctx, query, to, reviewedBy, id, companyID, timeoff.RequestStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to update request status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

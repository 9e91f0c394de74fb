package audit

import "context"

type Repository interface {
	Create(ctx context.Context, e Entry) error
	List(ctx context.Context, companyID string, limit int) ([]Entry, error)
}

package employee

import "context"

// Repository defines data access for employees. All methods take companyID
// to prevent cross-company data access.
type Repository interface {
	Create(ctx context.Context, e Employee) (Employee, error)
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	ListByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	ListByStatus(ctx context.Context, companyID string, status EmploymentStatus) ([]Employee, error)
	Update(ctx context.Context, companyID string, req UpdateEmployeeRequest) error
	Delete(ctx context.Context, id string, companyID string) error
}

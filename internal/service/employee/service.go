package employee

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/audit"
	"github.com/nominahr/payroll-backend-go/internal/domain/employee"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
	"github.com/nominahr/payroll-backend-go/internal/pkg/validator"
	"github.com/nominahr/payroll-backend-go/internal/repository/postgresql"
)

type Service interface {
	CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error)
	ListEmployees(ctx context.Context, status string) ([]employee.EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteEmployee(ctx context.Context, id string) error
}

type ServiceImpl struct {
	db           *database.DB
	employeeRepo employee.Repository
	auditRepo    audit.Repository
}

func NewEmployeeService(db *database.DB, employeeRepo employee.Repository, auditRepo audit.Repository) Service {
	return &ServiceImpl{
		db:           db,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

func (s *ServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, _ := time.Parse("2006-01-02", req.HireDate)

	emp := employee.Employee{
		CompanyID:        companyID,
		EmployeeCode:     req.EmployeeCode,
		FullName:         req.FullName,
		Email:            req.Email,
		BaseSalary:       req.BaseSalary,
		EmploymentStatus: employee.EmploymentStatus(req.EmploymentStatus),
		HireDate:         hireDate,
	}

	var created employee.Employee
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		created, err = s.employeeRepo.Create(txCtx, emp)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "employee.created",
			Entity:      "employee",
			EntityID:    created.ID,
			Details:     map[string]interface{}{"employee_code": created.EmployeeCode},
		})
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return mapEmployeeResponse(created), nil
}

func (s *ServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return mapEmployeeResponse(emp), nil
}

func (s *ServiceImpl) ListEmployees(ctx context.Context, status string) ([]employee.EmployeeResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var employees []employee.Employee
	if status == "" {
		employees, err = s.employeeRepo.ListByCompanyID(ctx, companyID)
	} else {
		if !employee.ValidEmploymentStatus(status) {
			return nil, validator.ValidationErrors{
				{Field: "status", Message: "must be FULL_TIME, PART_TIME, CONTRACTOR or INACTIVE"},
			}
		}
		employees, err = s.employeeRepo.ListByStatus(ctx, companyID, employee.EmploymentStatus(status))
	}
	if err != nil {
		return nil, err
	}

	result := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		result = append(result, mapEmployeeResponse(emp))
	}

	return result, nil
}

func (s *ServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.employeeRepo.Update(txCtx, companyID, req); err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "employee.updated",
			Entity:      "employee",
			EntityID:    req.ID,
		})
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID, companyID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	return mapEmployeeResponse(emp), nil
}

func (s *ServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.employeeRepo.Delete(txCtx, id, companyID); err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "employee.deleted",
			Entity:      "employee",
			EntityID:    id,
		})
	})
}

func mapEmployeeResponse(e employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:               e.ID,
		CompanyID:        e.CompanyID,
		EmployeeCode:     e.EmployeeCode,
		FullName:         e.FullName,
		Email:            e.Email,
		BaseSalary:       e.BaseSalary,
		EmploymentStatus: string(e.EmploymentStatus),
		HireDate:         e.HireDate.Format("2006-01-02"),
	}
}

package document

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/company"
	"github.com/nominahr/payroll-backend-go/internal/domain/employee"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/nominahr/payroll-backend-go/internal/pkg/pdf"
)

// Service renders documents from already-persisted payroll facts. Payslips
// exist only for processed periods; drafts have nothing durable to print.
type Service interface {
	RenderPayslip(ctx context.Context, periodID, employeeID string, w io.Writer) error
}

type ServiceImpl struct {
	companyRepo  company.Repository
	employeeRepo employee.Repository
	periodRepo   payroll.PeriodRepository
	detailRepo   payroll.DetailRepository
}

func NewDocumentService(
	companyRepo company.Repository,
	employeeRepo employee.Repository,
	periodRepo payroll.PeriodRepository,
	detailRepo payroll.DetailRepository,
) Service {
	return &ServiceImpl{
		companyRepo:  companyRepo,
		employeeRepo: employeeRepo,
		periodRepo:   periodRepo,
		detailRepo:   detailRepo,
	}
}

func getCompanyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}
	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}
	return companyID, nil
}

func (s *ServiceImpl) RenderPayslip(ctx context.Context, periodID, employeeID string, w io.Writer) error {
	companyID, err := getCompanyIDFromContext(ctx)
	if err != nil {
		return err
	}

	period, err := s.periodRepo.GetByID(ctx, periodID, companyID)
	if err != nil {
		return err
	}
	if period.Status == payroll.PeriodStatusDraft {
		return payroll.ErrPeriodNotProcessed
	}

	detail, err := s.detailRepo.GetByPeriodEmployee(ctx, periodID, employeeID, companyID)
	if err != nil {
		return err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return err
	}

	comp, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}

	return pdf.RenderPayslip(w, pdf.Payslip{
		CompanyName:  comp.Name,
		EmployeeName: emp.FullName,
		EmployeeCode: emp.EmployeeCode,
		PeriodStart:  period.StartDate,
		PeriodEnd:    period.EndDate,
		PeriodDays:   period.PeriodDays,
		Detail:       detail,
		GeneratedAt:  time.Now().UTC(),
	})
}

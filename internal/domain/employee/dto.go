package employee

import (
	"github.com/nominahr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	EmployeeCode     string          `json:"employee_code"`
	FullName         string          `json:"full_name"`
	Email            string          `json:"email"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	EmploymentStatus string          `json:"employment_status"`
	HireDate         string          `json:"hire_date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "is required"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if !validator.IsEmpty(r.Email) && !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "is not a valid email"})
	}
	if r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if !ValidEmploymentStatus(r.EmploymentStatus) {
		errs = append(errs, validator.ValidationError{Field: "employment_status", Message: "must be FULL_TIME, PART_TIME, CONTRACTOR or INACTIVE"})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "must be a date in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID               string
	FullName         *string          `json:"full_name,omitempty"`
	Email            *string          `json:"email,omitempty"`
	BaseSalary       *decimal.Decimal `json:"base_salary,omitempty"`
	EmploymentStatus *string          `json:"employment_status,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary != nil && r.BaseSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "must be non-negative"})
	}
	if r.EmploymentStatus != nil && !ValidEmploymentStatus(*r.EmploymentStatus) {
		errs = append(errs, validator.ValidationError{Field: "employment_status", Message: "must be FULL_TIME, PART_TIME, CONTRACTOR or INACTIVE"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"company_id"`
	EmployeeCode     string          `json:"employee_code"`
	FullName         string          `json:"full_name"`
	Email            string          `json:"email"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	EmploymentStatus string          `json:"employment_status"`
	HireDate         string          `json:"hire_date"`
}

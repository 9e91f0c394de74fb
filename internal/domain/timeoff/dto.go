package timeoff

import (
	"github.com/nominahr/payroll-backend-go/internal/pkg/validator"
)

// ========== POLICY DTOs ==========

type CreatePolicyRequest struct {
	Type            string  `json:"type"`
	DaysPerYear     float64 `json:"days_per_year"`
	CarriesForward  bool    `json:"carries_forward"`
	MaxCarryForward float64 `json:"max_carry_forward"`
}

func (r *CreatePolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if !ValidPolicyType(r.Type) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be VACATION, SICK_LEAVE, PERSONAL, BEREAVEMENT or OTHER"})
	}
	if r.DaysPerYear <= 0 {
		errs = append(errs, validator.ValidationError{Field: "days_per_year", Message: "must be positive"})
	}
	if r.MaxCarryForward < 0 {
		errs = append(errs, validator.ValidationError{Field: "max_carry_forward", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PolicyResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	Type            string  `json:"type"`
	DaysPerYear     float64 `json:"days_per_year"`
	CarriesForward  bool    `json:"carries_forward"`
	MaxCarryForward float64 `json:"max_carry_forward"`
}

// ========== REQUEST DTOs ==========

type CreateRequestRequest struct {
	EmployeeID string  `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *CreateRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !ValidPolicyType(r.LeaveType) {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "must be VACATION, SICK_LEAVE, PERSONAL, BEREAVEMENT or OTHER"})
	}
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RequestResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
	Status     string  `json:"status"`
	ReviewedBy *string `json:"reviewed_by,omitempty"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
}

// ========== BALANCE DTOs ==========

// BalanceResponse is the consolidated view: totals summed across every year
// row for the employee/policy pair.
type BalanceResponse struct {
	EmployeeID    string  `json:"employee_id"`
	PolicyID      string  `json:"policy_id"`
	PolicyType    string  `json:"policy_type,omitempty"`
	TotalDays     float64 `json:"total_days"`
	UsedDays      float64 `json:"used_days"`
	AvailableDays float64 `json:"available_days"`
}

type RolloverRequest struct {
	FromYear int `json:"from_year"`
}

func (r *RolloverRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FromYear < 2000 || r.FromYear > 2100 {
		errs = append(errs, validator.ValidationError{Field: "from_year", Message: "must be a plausible calendar year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

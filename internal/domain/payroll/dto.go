package payroll

import (
	"github.com/nominahr/payroll-backend-go/internal/pkg/dates"
	"github.com/nominahr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== CONFIG DTOs ==========

type CreateConfigRequest struct {
	Year                          int             `json:"year"`
	MinimumWage                   decimal.Decimal `json:"minimum_wage"`
	TransportationAllowance       decimal.Decimal `json:"transportation_allowance"`
	HealthContributionPercentage  decimal.Decimal `json:"health_contribution_percentage"`
	PensionContributionPercentage decimal.Decimal `json:"pension_contribution_percentage"`
	SolidarityFundThreshold       decimal.Decimal `json:"solidarity_fund_threshold"`
}

func (r *CreateConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a plausible calendar year"})
	}
	if !r.MinimumWage.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "minimum_wage", Message: "must be positive"})
	}
	if r.TransportationAllowance.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "transportation_allowance", Message: "must be non-negative"})
	}
	hundred := decimal.NewFromInt(100)
	if r.HealthContributionPercentage.IsNegative() || r.HealthContributionPercentage.GreaterThan(hundred) {
		errs = append(errs, validator.ValidationError{Field: "health_contribution_percentage", Message: "must be between 0 and 100"})
	}
	if r.PensionContributionPercentage.IsNegative() || r.PensionContributionPercentage.GreaterThan(hundred) {
		errs = append(errs, validator.ValidationError{Field: "pension_contribution_percentage", Message: "must be between 0 and 100"})
	}
	if r.SolidarityFundThreshold.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "solidarity_fund_threshold", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateConfigRequest struct {
	Year                          int
	MinimumWage                   *decimal.Decimal `json:"minimum_wage,omitempty"`
	TransportationAllowance       *decimal.Decimal `json:"transportation_allowance,omitempty"`
	HealthContributionPercentage  *decimal.Decimal `json:"health_contribution_percentage,omitempty"`
	PensionContributionPercentage *decimal.Decimal `json:"pension_contribution_percentage,omitempty"`
	SolidarityFundThreshold       *decimal.Decimal `json:"solidarity_fund_threshold,omitempty"`
}

type ConfigResponse struct {
	ID                            string          `json:"id"`
	CompanyID                     string          `json:"company_id"`
	Year                          int             `json:"year"`
	MinimumWage                   decimal.Decimal `json:"minimum_wage"`
	TransportationAllowance       decimal.Decimal `json:"transportation_allowance"`
	HealthContributionPercentage  decimal.Decimal `json:"health_contribution_percentage"`
	PensionContributionPercentage decimal.Decimal `json:"pension_contribution_percentage"`
	SolidarityFundThreshold       decimal.Decimal `json:"solidarity_fund_threshold"`
}

// ========== PERIOD DTOs ==========

type CreatePeriodRequest struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	PeriodDays int    `json:"period_days"`
}

func (r *CreatePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

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
	if !dates.ValidPeriodDays(r.PeriodDays) {
		errs = append(errs, validator.ValidationError{Field: "period_days", Message: "must be 15, 30 or 45"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PeriodResponse struct {
	ID                  string          `json:"id"`
	CompanyID           string          `json:"company_id"`
	StartDate           string          `json:"start_date"`
	EndDate             string          `json:"end_date"`
	PeriodDays          int             `json:"period_days"`
	Status              string          `json:"status"`
	TotalGross          decimal.Decimal `json:"total_gross"`
	TotalDeductions     decimal.Decimal `json:"total_deductions"`
	TotalNet            decimal.Decimal `json:"total_net"`
	TotalTransportation decimal.Decimal `json:"total_transportation"`
	ProcessedAt         *string         `json:"processed_at,omitempty"`
}

type DetailResponse struct {
	ID                      string          `json:"id,omitempty"`
	PeriodID                string          `json:"period_id,omitempty"`
	EmployeeID              string          `json:"employee_id"`
	EmployeeName            string          `json:"employee_name,omitempty"`
	EmployeeCode            string          `json:"employee_code,omitempty"`
	BaseSalary              decimal.Decimal `json:"base_salary"`
	TransportationAllowance decimal.Decimal `json:"transportation_allowance"`
	HealthContribution      decimal.Decimal `json:"health_contribution"`
	PensionContribution     decimal.Decimal `json:"pension_contribution"`
	SolidarityFund          decimal.Decimal `json:"solidarity_fund"`
	GrossSalary             decimal.Decimal `json:"gross_salary"`
	TotalDeductions         decimal.Decimal `json:"total_deductions"`
	NetSalary               decimal.Decimal `json:"net_salary"`
}

// PreviewResponse carries a draft computation: the same details and totals
// that processing would persist, computed from current salaries and config.
type PreviewResponse struct {
	PeriodID            string           `json:"period_id"`
	Details             []DetailResponse `json:"details"`
	TotalGross          decimal.Decimal  `json:"total_gross"`
	TotalDeductions     decimal.Decimal  `json:"total_deductions"`
	TotalNet            decimal.Decimal  `json:"total_net"`
	TotalTransportation decimal.Decimal  `json:"total_transportation"`
}

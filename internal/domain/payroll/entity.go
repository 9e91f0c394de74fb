package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config - annual payroll parameters for one company. Immutable once a
// processed period references its year.
type Config struct {
	ID                            string
	CompanyID                     string
	Year                          int
	MinimumWage                   decimal.Decimal
	TransportationAllowance       decimal.Decimal
	HealthContributionPercentage  decimal.Decimal
	PensionContributionPercentage decimal.Decimal
	SolidarityFundThreshold       decimal.Decimal
	CreatedAt                     time.Time
	UpdatedAt                     time.Time
}

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodStatusDraft     PeriodStatus = "DRAFT"
	PeriodStatusProcessed PeriodStatus = "PROCESSED"
	PeriodStatusPaid      PeriodStatus = "PAID"
)

// Period - one payroll batch. Transitions DRAFT -> PROCESSED exactly once;
// PROCESSED -> PAID is a later manual step.
type Period struct {
	ID                  string
	CompanyID           string
	StartDate           time.Time
	EndDate             time.Time
	PeriodDays          int
	Status              PeriodStatus
	TotalGross          decimal.Decimal
	TotalDeductions     decimal.Decimal
	TotalNet            decimal.Decimal
	TotalTransportation decimal.Decimal
	ProcessedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Detail - one employee's prorated pay within a period. Written as a batch
// when the period is processed and never mutated afterwards.
type Detail struct {
	ID                      string
	PeriodID                string
	CompanyID               string
	EmployeeID              string
	BaseSalary              decimal.Decimal
	TransportationAllowance decimal.Decimal
	HealthContribution      decimal.Decimal
	PensionContribution     decimal.Decimal
	SolidarityFund          decimal.Decimal
	GrossSalary             decimal.Decimal
	TotalDeductions         decimal.Decimal
	NetSalary               decimal.Decimal
	CreatedAt               time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// Totals - period-level aggregation of details.
type Totals struct {
	TotalGross          decimal.Decimal
	TotalDeductions     decimal.Decimal
	TotalNet            decimal.Decimal
	TotalTransportation decimal.Decimal
}

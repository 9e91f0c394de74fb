package payroll

import (
	"github.com/nominahr/payroll-backend-go/internal/domain/employee"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Proration uses a fixed 30-day month as denominator regardless of the
// actual calendar length of the period.
var prorationDenominator = decimal.NewFromInt(30)

// The solidarity fund rate is a fixed 1%. The health and pension rates are
// configurable on payroll.Config; this one is not.
var solidarityRate = decimal.NewFromFloat(0.01)

var two = decimal.NewFromInt(2)

var hundred = decimal.NewFromInt(100)

// ComputeEmployeePayroll prorates one employee's monthly salary over
// periodDays and derives allowance, contributions and net pay from the
// year's config. Pure: no I/O, no rounding; callers round at render time.
func ComputeEmployeePayroll(emp employee.Employee, periodDays int, cfg payroll.Config) payroll.Detail {
	days := decimal.NewFromInt(int64(periodDays))
	periodSalary := emp.BaseSalary.Mul(days).Div(prorationDenominator)

	// Transportation allowance applies up to and including twice the
	// minimum wage, prorated over the same denominator.
	transportation := decimal.Zero
	if emp.BaseSalary.LessThanOrEqual(cfg.MinimumWage.Mul(two)) {
		transportation = cfg.TransportationAllowance.Mul(days).Div(prorationDenominator)
	}

	health := periodSalary.Mul(cfg.HealthContributionPercentage).Div(hundred)
	pension := periodSalary.Mul(cfg.PensionContributionPercentage).Div(hundred)

	solidarity := decimal.Zero
	if emp.BaseSalary.GreaterThan(cfg.SolidarityFundThreshold) {
		solidarity = periodSalary.Mul(solidarityRate)
	}

	gross := periodSalary.Add(transportation)
	deductions := health.Add(pension).Add(solidarity)

	return payroll.Detail{
		CompanyID:               emp.CompanyID,
		EmployeeID:              emp.ID,
		BaseSalary:              periodSalary,
		TransportationAllowance: transportation,
		HealthContribution:      health,
		PensionContribution:     pension,
		SolidarityFund:          solidarity,
		GrossSalary:             gross,
		TotalDeductions:         deductions,
		NetSalary:               gross.Sub(deductions),
	}
}

// Aggregate sums details into period totals. Draft previews and processing
// both go through here, so the previewed and persisted totals are the same
// numbers by construction.
func Aggregate(details []payroll.Detail) payroll.Totals {
	totals := payroll.Totals{
		TotalGross:          decimal.Zero,
		TotalDeductions:     decimal.Zero,
		TotalNet:            decimal.Zero,
		TotalTransportation: decimal.Zero,
	}
	for _, d := range details {
		totals.TotalGross = totals.TotalGross.Add(d.GrossSalary)
		totals.TotalDeductions = totals.TotalDeductions.Add(d.TotalDeductions)
		totals.TotalNet = totals.TotalNet.Add(d.NetSalary)
		totals.TotalTransportation = totals.TotalTransportation.Add(d.TransportationAllowance)
	}
	return totals
}

package payroll

import (
	"testing"

	"github.com/nominahr/payroll-backend-go/internal/domain/employee"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() payroll.Config {
	return payroll.Config{
		Year:                          2025,
		MinimumWage:                   decimal.NewFromInt(1300000),
		TransportationAllowance:       decimal.NewFromInt(140000),
		HealthContributionPercentage:  decimal.NewFromInt(4),
		PensionContributionPercentage: decimal.NewFromInt(4),
		SolidarityFundThreshold:       decimal.NewFromInt(10000000),
	}
}

func testEmployee(salary int64) employee.Employee {
	return employee.Employee{
		ID:               "emp-1",
		CompanyID:        "co-1",
		BaseSalary:       decimal.NewFromInt(salary),
		EmploymentStatus: employee.StatusFullTime,
	}
}

func TestComputeEmployeePayroll_FullMonth(t *testing.T) {
	detail := ComputeEmployeePayroll(testEmployee(2000000), 30, testConfig())

	assert.True(t, detail.BaseSalary.Equal(decimal.NewFromInt(2000000)), "period salary: %s", detail.BaseSalary)
	assert.True(t, detail.TransportationAllowance.Equal(decimal.NewFromInt(140000)), "transportation: %s", detail.TransportationAllowance)
	assert.True(t, detail.HealthContribution.Equal(decimal.NewFromInt(80000)), "health: %s", detail.HealthContribution)
	assert.True(t, detail.PensionContribution.Equal(decimal.NewFromInt(80000)), "pension: %s", detail.PensionContribution)
	assert.True(t, detail.SolidarityFund.IsZero(), "solidarity: %s", detail.SolidarityFund)
	assert.True(t, detail.GrossSalary.Equal(decimal.NewFromInt(2140000)), "gross: %s", detail.GrossSalary)
	assert.True(t, detail.TotalDeductions.Equal(decimal.NewFromInt(160000)), "deductions: %s", detail.TotalDeductions)
	assert.True(t, detail.NetSalary.Equal(decimal.NewFromInt(1980000)), "net: %s", detail.NetSalary)
}

func TestComputeEmployeePayroll_TransportationBoundary(t *testing.T) {
	cfg := testConfig()
	twiceMinWage := int64(2600000)

	tests := []struct {
		name       string
		salary     int64
		wantAmount decimal.Decimal
	}{
		{"below threshold", twiceMinWage - 1, decimal.NewFromInt(140000)},
		{"exactly twice minimum wage", twiceMinWage, decimal.NewFromInt(140000)},
		{"above threshold", twiceMinWage + 1, decimal.Zero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := ComputeEmployeePayroll(testEmployee(tt.salary), 30, cfg)
			assert.True(t, detail.TransportationAllowance.Equal(tt.wantAmount),
				"transportation for salary %d: got %s want %s", tt.salary, detail.TransportationAllowance, tt.wantAmount)
		})
	}
}

func TestComputeEmployeePayroll_ProrationIsLinear(t *testing.T) {
	cfg := testConfig()
	emp := testEmployee(3000000)

	for _, periodDays := range []int{15, 30, 45} {
		detail := ComputeEmployeePayroll(emp, periodDays, cfg)

		want := emp.BaseSalary.
			Mul(decimal.NewFromInt(int64(periodDays))).
			Div(decimal.NewFromInt(30))
		assert.True(t, detail.BaseSalary.Equal(want),
			"period salary for %d days: got %s want %s", periodDays, detail.BaseSalary, want)
	}

	// 15 days must be exactly half of 30, 45 exactly one and a half.
	half := ComputeEmployeePayroll(emp, 15, cfg)
	full := ComputeEmployeePayroll(emp, 30, cfg)
	assert.True(t, half.BaseSalary.Mul(decimal.NewFromInt(2)).Equal(full.BaseSalary))
}

func TestComputeEmployeePayroll_ProratedTransportation(t *testing.T) {
	detail := ComputeEmployeePayroll(testEmployee(2000000), 15, testConfig())

	// 140000 * 15/30 = 70000
	assert.True(t, detail.TransportationAllowance.Equal(decimal.NewFromInt(70000)),
		"transportation: %s", detail.TransportationAllowance)
}

func TestComputeEmployeePayroll_SolidarityFund(t *testing.T) {
	cfg := testConfig()

	// At the threshold: no deduction. Strictly above: 1% of period salary.
	atThreshold := ComputeEmployeePayroll(testEmployee(10000000), 30, cfg)
	assert.True(t, atThreshold.SolidarityFund.IsZero())

	above := ComputeEmployeePayroll(testEmployee(12000000), 30, cfg)
	assert.True(t, above.SolidarityFund.Equal(decimal.NewFromInt(120000)),
		"solidarity: %s", above.SolidarityFund)

	// High earner also loses the transportation allowance.
	assert.True(t, above.TransportationAllowance.IsZero())
}

func TestComputeEmployeePayroll_NetIdentity(t *testing.T) {
	cfg := testConfig()

	for _, salary := range []int64{1000000, 2600000, 5000000, 12000000} {
		for _, periodDays := range []int{15, 30, 45} {
			detail := ComputeEmployeePayroll(testEmployee(salary), periodDays, cfg)

			gross := detail.BaseSalary.Add(detail.TransportationAllowance)
			deductions := detail.HealthContribution.Add(detail.PensionContribution).Add(detail.SolidarityFund)
			require.True(t, detail.GrossSalary.Equal(gross))
			require.True(t, detail.TotalDeductions.Equal(deductions))
			require.True(t, detail.NetSalary.Equal(gross.Sub(deductions)))
		}
	}
}

func TestAggregate(t *testing.T) {
	cfg := testConfig()
	details := []payroll.Detail{
		ComputeEmployeePayroll(testEmployee(2000000), 30, cfg),
		ComputeEmployeePayroll(testEmployee(5000000), 30, cfg),
		ComputeEmployeePayroll(testEmployee(12000000), 30, cfg),
	}

	totals := Aggregate(details)

	var wantGross, wantDeductions, wantNet, wantTransport decimal.Decimal
	for _, d := range details {
		wantGross = wantGross.Add(d.GrossSalary)
		wantDeductions = wantDeductions.Add(d.TotalDeductions)
		wantNet = wantNet.Add(d.NetSalary)
		wantTransport = wantTransport.Add(d.TransportationAllowance)
	}

	assert.True(t, totals.TotalGross.Equal(wantGross))
	assert.True(t, totals.TotalDeductions.Equal(wantDeductions))
	assert.True(t, totals.TotalNet.Equal(wantNet))
	assert.True(t, totals.TotalTransportation.Equal(wantTransport))
}

func TestAggregate_Empty(t *testing.T) {
	totals := Aggregate(nil)

	assert.True(t, totals.TotalGross.IsZero())
	assert.True(t, totals.TotalDeductions.IsZero())
	assert.True(t, totals.TotalNet.IsZero())
	assert.True(t, totals.TotalTransportation.IsZero())
}

// Recomputing from the same inputs must yield identical totals: the draft
// preview and the processed persistence share the numbers by construction.
func TestAggregate_Deterministic(t *testing.T) {
	cfg := testConfig()
	employees := []employee.Employee{
		testEmployee(2000000),
		testEmployee(2600000),
		testEmployee(9000000),
	}

	compute := func() payroll.Totals {
		var details []payroll.Detail
		for _, emp := range employees {
			details = append(details, ComputeEmployeePayroll(emp, 30, cfg))
		}
		return Aggregate(details)
	}

	first := compute()
	second := compute()

	assert.True(t, first.TotalGross.Equal(second.TotalGross))
	assert.True(t, first.TotalDeductions.Equal(second.TotalDeductions))
	assert.True(t, first.TotalNet.Equal(second.TotalNet))
	assert.True(t, first.TotalTransportation.Equal(second.TotalTransportation))
}

package timeoff

import (
	"github.com/nominahr/payroll-backend-go/internal/domain/timeoff"
)

// BalanceKey identifies one logical balance: all year rows for an
// employee/policy pair consolidate into a single running total.
type BalanceKey struct {
	EmployeeID string
	PolicyID   string
}

type ConsolidatedBalance struct {
	TotalDays float64
	UsedDays  float64
}

func (c ConsolidatedBalance) Available() float64 {
	return c.TotalDays - c.UsedDays
}

// Consolidate groups balance rows by (employee, policy) and sums total and
// used days across years. The result is order-independent: it is a plain
// sum, whatever order the rows arrive in.
func Consolidate(rows []timeoff.Balance) map[BalanceKey]ConsolidatedBalance {
	result := make(map[BalanceKey]ConsolidatedBalance, len(rows))
	for _, row := range rows {
		key := BalanceKey{EmployeeID: row.EmployeeID, PolicyID: row.PolicyID}
		c := result[key]
		c.TotalDays += row.TotalDays
		c.UsedDays += row.UsedDays
		result[key] = c
	}
	return result
}

package timeoff

import (
	"testing"

	"github.com/nominahr/payroll-backend-go/internal/domain/timeoff"
	"github.com/stretchr/testify/assert"
)

func TestConsolidate_SumsAcrossYears(t *testing.T) {
	rows := []timeoff.Balance{
		{EmployeeID: "emp-1", PolicyID: "pol-1", Year: 2023, TotalDays: 15, UsedDays: 5},
		{EmployeeID: "emp-1", PolicyID: "pol-1", Year: 2024, TotalDays: 15, UsedDays: 2},
	}

	consolidated := Consolidate(rows)

	c, ok := consolidated[BalanceKey{EmployeeID: "emp-1", PolicyID: "pol-1"}]
	assert.True(t, ok)
	assert.Equal(t, 30.0, c.TotalDays)
	assert.Equal(t, 7.0, c.UsedDays)
	assert.Equal(t, 23.0, c.Available())
}

func TestConsolidate_OrderIndependent(t *testing.T) {
	forward := []timeoff.Balance{
		{EmployeeID: "emp-1", PolicyID: "pol-1", Year: 2022, TotalDays: 10, UsedDays: 3},
		{EmployeeID: "emp-1", PolicyID: "pol-1", Year: 2023, TotalDays: 12, UsedDays: 8},
		{EmployeeID: "emp-1", PolicyID: "pol-1", Year: 2024, TotalDays: 15, UsedDays: 0},
	}
	reversed := []timeoff.Balance{forward[2], forward[0], forward[1]}

	assert.Equal(t, Consolidate(forward), Consolidate(reversed))
}

func TestConsolidate_SeparatesPairs(t *testing.T) {
	rows := []timeoff.Balance{
		{EmployeeID: "emp-1", PolicyID: "vacation", Year: 2024, TotalDays: 15, UsedDays: 5},
		{EmployeeID: "emp-1", PolicyID: "sick", Year: 2024, TotalDays: 10, UsedDays: 1},
		{EmployeeID: "emp-2", PolicyID: "vacation", Year: 2024, TotalDays: 15, UsedDays: 0},
	}

	consolidated := Consolidate(rows)

	assert.Len(t, consolidated, 3)
	assert.Equal(t, 5.0, consolidated[BalanceKey{"emp-1", "vacation"}].UsedDays)
	assert.Equal(t, 1.0, consolidated[BalanceKey{"emp-1", "sick"}].UsedDays)
	assert.Equal(t, 0.0, consolidated[BalanceKey{"emp-2", "vacation"}].UsedDays)
}

func TestConsolidate_Empty(t *testing.T) {
	assert.Empty(t, Consolidate(nil))
}

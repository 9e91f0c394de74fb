package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmploymentStatus enum
type EmploymentStatus string

const (
	StatusFullTime   EmploymentStatus = "FULL_TIME"
	StatusPartTime   EmploymentStatus = "PART_TIME"
	StatusContractor EmploymentStatus = "CONTRACTOR"
	StatusInactive   EmploymentStatus = "INACTIVE"
)

func ValidEmploymentStatus(s string) bool {
	switch EmploymentStatus(s) {
	case StatusFullTime, StatusPartTime, StatusContractor, StatusInactive:
		return true
	}
	return false
}

type Employee struct {
	ID               string
	CompanyID        string
	EmployeeCode     string
	FullName         string
	Email            string
	BaseSalary       decimal.Decimal
	EmploymentStatus EmploymentStatus
	HireDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

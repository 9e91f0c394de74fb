package timeoff

import "time"

// PolicyType enum
type PolicyType string

const (
	PolicyVacation    PolicyType = "VACATION"
	PolicySickLeave   PolicyType = "SICK_LEAVE"
	PolicyPersonal    PolicyType = "PERSONAL"
	PolicyBereavement PolicyType = "BEREAVEMENT"
	PolicyOther       PolicyType = "OTHER"
)

func ValidPolicyType(s string) bool {
	switch PolicyType(s) {
	case PolicyVacation, PolicySickLeave, PolicyPersonal, PolicyBereavement, PolicyOther:
		return true
	}
	return false
}

type Policy struct {
	ID              string
	CompanyID       string
	Type            PolicyType
	DaysPerYear     float64
	CarriesForward  bool
	MaxCarryForward float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Balance - one (employee, policy, year) row. The logical balance for an
// employee/policy pair is the sum over all of its year rows.
type Balance struct {
	ID         string
	CompanyID  string
	EmployeeID string
	PolicyID   string
	Year       int
	TotalDays  float64
	UsedDays   float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RequestStatus enum
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

type Request struct {
	ID         string
	CompanyID  string
	EmployeeID string
	LeaveType  PolicyType
	StartDate  time.Time
	EndDate    time.Time
	Reason     *string
	Status     RequestStatus
	ReviewedBy *string
	ReviewedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package timeoff

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/audit"
	"github.com/nominahr/payroll-backend-go/internal/domain/employee"
	"github.com/nominahr/payroll-backend-go/internal/domain/timeoff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes (fn-field style) ----

type fakePolicyRepo struct {
	createFn    func(ctx context.Context, p timeoff.Policy) (timeoff.Policy, error)
	getByTypeFn func(ctx context.Context, companyID string, policyType timeoff.PolicyType) (timeoff.Policy, error)
	listFn      func(ctx context.Context, companyID string) ([]timeoff.Policy, error)
}

func (f *fakePolicyRepo) Create(ctx context.Context, p timeoff.Policy) (timeoff.Policy, error) {
	return f.createFn(ctx, p)
}
func (f *fakePolicyRepo) GetByID(ctx context.Context, id, companyID string) (timeoff.Policy, error) {
	panic("not used")
}
func (f *fakePolicyRepo) GetByType(ctx context.Context, companyID string, policyType timeoff.PolicyType) (timeoff.Policy, error) {
	return f.getByTypeFn(ctx, companyID, policyType)
}
func (f *fakePolicyRepo) List(ctx context.Context, companyID string) ([]timeoff.Policy, error) {
	return f.listFn(ctx, companyID)
}

// fakeBalanceRepo keeps rows in memory so the approval path's
// lock-read/seed/increment sequence can be observed end to end.
type fakeBalanceRepo struct {
	rows   []timeoff.Balance
	nextID int
}

func (f *fakeBalanceRepo) Create(ctx context.Context, b timeoff.Balance) (timeoff.Balance, error) {
	f.nextID++
	b.ID = fmt.Sprintf("bal-%d", f.nextID)
	f.rows = append(f.rows, b)
	return b, nil
}
func (f *fakeBalanceRepo) ListByCompany(ctx context.Context, companyID string) ([]timeoff.Balance, error) {
	return append([]timeoff.Balance(nil), f.rows...), nil
}
func (f *fakeBalanceRepo) ListByEmployeePolicy(ctx context.Context, companyID, employeeID, policyID string) ([]timeoff.Balance, error) {
	var out []timeoff.Balance
	for _, row := range f.rows {
		if row.EmployeeID == employeeID && row.PolicyID == policyID {
			out = append(out, row)
		}
	}
	return out, nil
}
func (f *fakeBalanceRepo) ListByEmployeePolicyForUpdate(ctx context.Context, companyID, employeeID, policyID string) ([]timeoff.Balance, error) {
	return f.ListByEmployeePolicy(ctx, companyID, employeeID, policyID)
}
func (f *fakeBalanceRepo) AddUsedDays(ctx context.Context, id string, days float64) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].UsedDays += days
			return nil
		}
	}
	return timeoff.ErrBalanceNotFound
}
func (f *fakeBalanceRepo) SetUsedDays(ctx context.Context, id string, days float64) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].UsedDays = days
			return nil
		}
	}
	return timeoff.ErrBalanceNotFound
}

type fakeRequestRepo struct {
	requests map[string]*timeoff.Request
}

func (f *fakeRequestRepo) Create(ctx context.Context, r timeoff.Request) (timeoff.Request, error) {
	r.ID = fmt.Sprintf("req-%d", len(f.requests)+1)
	f.requests[r.ID] = &r
	return r, nil
}
func (f *fakeRequestRepo) GetByID(ctx context.Context, id, companyID string) (timeoff.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return timeoff.Request{}, timeoff.ErrRequestNotFound
	}
	return *r, nil
}
func (f *fakeRequestRepo) List(ctx context.Context, companyID string) ([]timeoff.Request, error) {
	var out []timeoff.Request
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}
func (f *fakeRequestRepo) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]timeoff.Request, error) {
	panic("not used")
}
func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id, companyID string, to timeoff.RequestStatus, reviewedBy string) (bool, error) {
	r, ok := f.requests[id]
	if !ok || r.Status != timeoff.RequestStatusPending {
		return false, nil
	}
	now := time.Now()
	r.Status = to
	r.ReviewedBy = &reviewedBy
	r.ReviewedAt = &now
	return true, nil
}

type fakeEmployeeRepo struct{}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	panic("not used")
}
func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	return employee.Employee{ID: id, CompanyID: companyID}, nil
}
func (f *fakeEmployeeRepo) ListByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	panic("not used")
}
func (f *fakeEmployeeRepo) ListByStatus(ctx context.Context, companyID string, status employee.EmploymentStatus) ([]employee.Employee, error) {
	panic("not used")
}
func (f *fakeEmployeeRepo) Update(ctx context.Context, companyID string, req employee.UpdateEmployeeRequest) error {
	panic("not used")
}
func (f *fakeEmployeeRepo) Delete(ctx context.Context, id, companyID string) error {
	panic("not used")
}

type fakeAuditRepo struct {
	entries []audit.Entry
}

func (f *fakeAuditRepo) Create(ctx context.Context, e audit.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}
func (f *fakeAuditRepo) List(ctx context.Context, companyID string, limit int) ([]audit.Entry, error) {
	return f.entries, nil
}

// ---- helpers ----

func authedContext(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":    "user-1",
		"company_id": "co-1",
		"role":       "ADMIN",
		"type":       "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func vacationPolicy() timeoff.Policy {
	return timeoff.Policy{
		ID:              "pol-1",
		CompanyID:       "co-1",
		Type:            timeoff.PolicyVacation,
		DaysPerYear:     12,
		CarriesForward:  true,
		MaxCarryForward: 5,
	}
}

func newTestService(policy timeoff.Policy, balances *fakeBalanceRepo, requests *fakeRequestRepo, audits *fakeAuditRepo) Service {
	return NewTimeOffService(nil,
		&fakePolicyRepo{
			getByTypeFn: func(ctx context.Context, companyID string, policyType timeoff.PolicyType) (timeoff.Policy, error) {
				if policyType != policy.Type {
					return timeoff.Policy{}, timeoff.ErrPolicyNotFound
				}
				return policy, nil
			},
			listFn: func(ctx context.Context, companyID string) ([]timeoff.Policy, error) {
				return []timeoff.Policy{policy}, nil
			},
		},
		balances,
		requests,
		&fakeEmployeeRepo{},
		audits,
	)
}

func pendingRequest(requests *fakeRequestRepo, days int) string {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days-1)
	req := timeoff.Request{
		CompanyID:  "co-1",
		EmployeeID: "emp-1",
		LeaveType:  timeoff.PolicyVacation,
		StartDate:  start,
		EndDate:    end,
		Status:     timeoff.RequestStatusPending,
	}
	created, _ := requests.Create(context.Background(), req)
	return created.ID
}

// ---- tests ----

// Multi-year balance: totals [10,5], used [3,1] -> 11 available. A 12-day
// request must fail; an 11-day request must succeed and exhaust the balance.
func TestApproveRequest_ConsolidatedBalance(t *testing.T) {
	currentYear := time.Now().UTC().Year()

	setup := func() (*fakeBalanceRepo, *fakeRequestRepo, Service) {
		balances := &fakeBalanceRepo{rows: []timeoff.Balance{
			{ID: "bal-a", CompanyID: "co-1", EmployeeID: "emp-1", PolicyID: "pol-1", Year: currentYear - 1, TotalDays: 10, UsedDays: 3},
			{ID: "bal-b", CompanyID: "co-1", EmployeeID: "emp-1", PolicyID: "pol-1", Year: currentYear, TotalDays: 5, UsedDays: 1},
		}}
		requests := &fakeRequestRepo{requests: map[string]*timeoff.Request{}}
		svc := newTestService(vacationPolicy(), balances, requests, &fakeAuditRepo{})
		return balances, requests, svc
	}

	t.Run("12 days exceeds the 11 available", func(t *testing.T) {
		balances, requests, svc := setup()
		id := pendingRequest(requests, 12)

		_, err := svc.ApproveRequest(authedContext(t), id)

		assert.ErrorIs(t, err, timeoff.ErrInsufficientBalance)
		assert.Equal(t, timeoff.RequestStatusPending, requests.requests[id].Status, "request must stay pending")
		assert.Equal(t, 1.0, balances.rows[1].UsedDays, "used days must not change")
	})

	t.Run("11 days exactly exhausts the balance", func(t *testing.T) {
		balances, requests, svc := setup()
		id := pendingRequest(requests, 11)

		resp, err := svc.ApproveRequest(authedContext(t), id)

		require.NoError(t, err)
		assert.Equal(t, string(timeoff.RequestStatusApproved), resp.Status)

		consolidated := Consolidate(balances.rows)[BalanceKey{EmployeeID: "emp-1", PolicyID: "pol-1"}]
		assert.Equal(t, 15.0, consolidated.TotalDays)
		assert.Equal(t, 15.0, consolidated.UsedDays)
		assert.Equal(t, 0.0, consolidated.Available())
	})
}

func TestApproveRequest_SeedsCurrentYearRow(t *testing.T) {
	balances := &fakeBalanceRepo{}
	requests := &fakeRequestRepo{requests: map[string]*timeoff.Request{}}
	audits := &fakeAuditRepo{}
	svc := newTestService(vacationPolicy(), balances, requests, audits)
	id := pendingRequest(requests, 5)

	_, err := svc.ApproveRequest(authedContext(t), id)
	require.NoError(t, err)

	require.Len(t, balances.rows, 1)
	seeded := balances.rows[0]
	assert.Equal(t, time.Now().UTC().Year(), seeded.Year)
	assert.Equal(t, 12.0, seeded.TotalDays, "seeded from the policy's days per year")
	assert.Equal(t, 5.0, seeded.UsedDays)

	require.Len(t, audits.entries, 1)
	assert.Equal(t, "timeoff.request.approved", audits.entries[0].Action)
}

func TestApproveRequest_AlreadyProcessed(t *testing.T) {
	balances := &fakeBalanceRepo{rows: []timeoff.Balance{
		{ID: "bal-a", CompanyID: "co-1", EmployeeID: "emp-1", PolicyID: "pol-1", Year: time.Now().UTC().Year(), TotalDays: 12, UsedDays: 0},
	}}
	requests := &fakeRequestRepo{requests: map[string]*timeoff.Request{}}
	svc := newTestService(vacationPolicy(), balances, requests, &fakeAuditRepo{})
	id := pendingRequest(requests, 3)

	_, err := svc.ApproveRequest(authedContext(t), id)
	require.NoError(t, err)

	_, err = svc.ApproveRequest(authedContext(t), id)
	assert.ErrorIs(t, err, timeoff.ErrRequestAlreadyProcessed)

	assert.Equal(t, 3.0, balances.rows[0].UsedDays, "second approval must not deduct again")
}

func TestRejectRequest_DoesNotTouchBalance(t *testing.T) {
	balances := &fakeBalanceRepo{rows: []timeoff.Balance{
		{ID: "bal-a", CompanyID: "co-1", EmployeeID: "emp-1", PolicyID: "pol-1", Year: time.Now().UTC().Year(), TotalDays: 12, UsedDays: 2},
	}}
	requests := &fakeRequestRepo{requests: map[string]*timeoff.Request{}}
	svc := newTestService(vacationPolicy(), balances, requests, &fakeAuditRepo{})
	id := pendingRequest(requests, 4)

	resp, err := svc.RejectRequest(authedContext(t), id)

	require.NoError(t, err)
	assert.Equal(t, string(timeoff.RequestStatusRejected), resp.Status)
	assert.Equal(t, 2.0, balances.rows[0].UsedDays)
}

func TestRolloverYear_CapsCarryForward(t *testing.T) {
	fromYear := 2024
	balances := &fakeBalanceRepo{rows: []timeoff.Balance{
		// 10 available, cap is 5
		{ID: "bal-a", CompanyID: "co-1", EmployeeID: "emp-1", PolicyID: "pol-1", Year: fromYear, TotalDays: 15, UsedDays: 5},
	}}
	svc := newTestService(vacationPolicy(), balances, &fakeRequestRepo{requests: map[string]*timeoff.Request{}}, &fakeAuditRepo{})

	err := svc.RolloverYear(authedContext(t), timeoff.RolloverRequest{FromYear: fromYear})
	require.NoError(t, err)

	require.Len(t, balances.rows, 2)

	old := balances.rows[0]
	assert.Equal(t, old.TotalDays, old.UsedDays, "surplus beyond the cap is forfeited")

	next := balances.rows[1]
	assert.Equal(t, fromYear+1, next.Year)
	assert.Equal(t, 17.0, next.TotalDays, "12 per year + 5 carried")
	assert.Equal(t, 0.0, next.UsedDays)

	// Consolidated view after rollover carries exactly the capped amount.
	c := Consolidate(balances.rows)[BalanceKey{EmployeeID: "emp-1", PolicyID: "pol-1"}]
	assert.Equal(t, 17.0, c.Available())
}

func TestRolloverYear_NonCarryingPolicyForfeitsAll(t *testing.T) {
	policy := vacationPolicy()
	policy.CarriesForward = false

	fromYear := 2024
	balances := &fakeBalanceRepo{rows: []timeoff.Balance{
		{ID: "bal-a", CompanyID: "co-1", EmployeeID: "emp-1", PolicyID: "pol-1", Year: fromYear, TotalDays: 15, UsedDays: 5},
	}}
	svc := newTestService(policy, balances, &fakeRequestRepo{requests: map[string]*timeoff.Request{}}, &fakeAuditRepo{})

	err := svc.RolloverYear(authedContext(t), timeoff.RolloverRequest{FromYear: fromYear})
	require.NoError(t, err)

	require.Len(t, balances.rows, 2)
	assert.Equal(t, 12.0, balances.rows[1].TotalDays, "next year starts fresh")
}

func TestRolloverYear_Idempotent(t *testing.T) {
	fromYear := 2024
	balances := &fakeBalanceRepo{rows: []timeoff.Balance{
		{ID: "bal-a", CompanyID: "co-1", EmployeeID: "emp-1", PolicyID: "pol-1", Year: fromYear, TotalDays: 15, UsedDays: 5},
	}}
	svc := newTestService(vacationPolicy(), balances, &fakeRequestRepo{requests: map[string]*timeoff.Request{}}, &fakeAuditRepo{})

	require.NoError(t, svc.RolloverYear(authedContext(t), timeoff.RolloverRequest{FromYear: fromYear}))
	require.NoError(t, svc.RolloverYear(authedContext(t), timeoff.RolloverRequest{FromYear: fromYear}))

	assert.Len(t, balances.rows, 2, "a pair with a next-year row is skipped")
}

func TestCreateRequest_UnknownPolicyType(t *testing.T) {
	svc := newTestService(vacationPolicy(), &fakeBalanceRepo{}, &fakeRequestRepo{requests: map[string]*timeoff.Request{}}, &fakeAuditRepo{})

	_, err := svc.CreateRequest(authedContext(t), timeoff.CreateRequestRequest{
		EmployeeID: "emp-1",
		LeaveType:  "SICK_LEAVE",
		StartDate:  "2025-06-01",
		EndDate:    "2025-06-02",
	})

	assert.ErrorIs(t, err, timeoff.ErrPolicyNotFound)
}

package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/audit"
	"github.com/nominahr/payroll-backend-go/internal/domain/employee"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes (fn-field style) ----

type fakeConfigRepo struct {
	createFn    func(ctx context.Context, cfg payroll.Config) (payroll.Config, error)
	getByYearFn func(ctx context.Context, companyID string, year int) (payroll.Config, error)
	listFn      func(ctx context.Context, companyID string) ([]payroll.Config, error)
	updateFn    func(ctx context.Context, companyID string, req payroll.UpdateConfigRequest) error
}

func (f *fakeConfigRepo) Create(ctx context.Context, cfg payroll.Config) (payroll.Config, error) {
	return f.createFn(ctx, cfg)
}
func (f *fakeConfigRepo) GetByYear(ctx context.Context, companyID string, year int) (payroll.Config, error) {
	return f.getByYearFn(ctx, companyID, year)
}
func (f *fakeConfigRepo) List(ctx context.Context, companyID string) ([]payroll.Config, error) {
	return f.listFn(ctx, companyID)
}
func (f *fakeConfigRepo) Update(ctx context.Context, companyID string, req payroll.UpdateConfigRequest) error {
	return f.updateFn(ctx, companyID, req)
}

type fakePeriodRepo struct {
	createFn             func(ctx context.Context, p payroll.Period) (payroll.Period, error)
	getByIDFn            func(ctx context.Context, id, companyID string) (payroll.Period, error)
	listFn               func(ctx context.Context, companyID string) ([]payroll.Period, error)
	existsByRangeFn      func(ctx context.Context, companyID string, start, end time.Time) (bool, error)
	markProcessedFn      func(ctx context.Context, id, companyID string, totals payroll.Totals, processedAt time.Time) (bool, error)
	markPaidFn           func(ctx context.Context, id, companyID string) (bool, error)
	hasProcessedInYearFn func(ctx context.Context, companyID string, year int) (bool, error)
}

func (f *fakePeriodRepo) Create(ctx context.Context, p payroll.Period) (payroll.Period, error) {
	return f.createFn(ctx, p)
}
func (f *fakePeriodRepo) GetByID(ctx context.Context, id, companyID string) (payroll.Period, error) {
	return f.getByIDFn(ctx, id, companyID)
}
func (f *fakePeriodRepo) List(ctx context.Context, companyID string) ([]payroll.Period, error) {
	return f.listFn(ctx, companyID)
}
func (f *fakePeriodRepo) ExistsByRange(ctx context.Context, companyID string, start, end time.Time) (bool, error) {
	return f.existsByRangeFn(ctx, companyID, start, end)
}
func (f *fakePeriodRepo) MarkProcessed(ctx context.Context, id, companyID string, totals payroll.Totals, processedAt time.Time) (bool, error) {
	return f.markProcessedFn(ctx, id, companyID, totals, processedAt)
}
func (f *fakePeriodRepo) MarkPaid(ctx context.Context, id, companyID string) (bool, error) {
	return f.markPaidFn(ctx, id, companyID)
}
func (f *fakePeriodRepo) HasProcessedInYear(ctx context.Context, companyID string, year int) (bool, error) {
	return f.hasProcessedInYearFn(ctx, companyID, year)
}

type fakeDetailRepo struct {
	createBatchFn         func(ctx context.Context, details []payroll.Detail) error
	listByPeriodFn        func(ctx context.Context, periodID, companyID string) ([]payroll.Detail, error)
	getByPeriodEmployeeFn func(ctx context.Context, periodID, employeeID, companyID string) (payroll.Detail, error)
}

func (f *fakeDetailRepo) CreateBatch(ctx context.Context, details []payroll.Detail) error {
	return f.createBatchFn(ctx, details)
}
func (f *fakeDetailRepo) ListByPeriod(ctx context.Context, periodID, companyID string) ([]payroll.Detail, error) {
	return f.listByPeriodFn(ctx, periodID, companyID)
}
func (f *fakeDetailRepo) GetByPeriodEmployee(ctx context.Context, periodID, employeeID, companyID string) (payroll.Detail, error) {
	return f.getByPeriodEmployeeFn(ctx, periodID, employeeID, companyID)
}

type fakeEmployeeRepo struct {
	listByStatusFn func(ctx context.Context, companyID string, status employee.EmploymentStatus) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	panic("not used")
}
func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id, companyID string) (employee.Employee, error) {
	panic("not used")
}
func (f *fakeEmployeeRepo) ListByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	panic("not used")
}
func (f *fakeEmployeeRepo) ListByStatus(ctx context.Context, companyID string, status employee.EmploymentStatus) ([]employee.Employee, error) {
	return f.listByStatusFn(ctx, companyID, status)
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

func fullTimeEmployees() []employee.Employee {
	return []employee.Employee{
		{ID: "emp-1", CompanyID: "co-1", BaseSalary: decimal.NewFromInt(2000000), EmploymentStatus: employee.StatusFullTime},
		{ID: "emp-2", CompanyID: "co-1", BaseSalary: decimal.NewFromInt(5000000), EmploymentStatus: employee.StatusFullTime},
	}
}

func draftPeriod() payroll.Period {
	return payroll.Period{
		ID:         "per-1",
		CompanyID:  "co-1",
		StartDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 1, 30, 0, 0, 0, 0, time.UTC),
		PeriodDays: 30,
		Status:     payroll.PeriodStatusDraft,
	}
}

// ---- tests ----

func TestCreatePeriod_MissingConfigAborts(t *testing.T) {
	periodCreated := false
	svc := NewPayrollService(nil,
		&fakeConfigRepo{
			getByYearFn: func(ctx context.Context, companyID string, year int) (payroll.Config, error) {
				return payroll.Config{}, payroll.ErrConfigNotFound
			},
		},
		&fakePeriodRepo{
			existsByRangeFn: func(ctx context.Context, companyID string, start, end time.Time) (bool, error) {
				return false, nil
			},
			createFn: func(ctx context.Context, p payroll.Period) (payroll.Period, error) {
				periodCreated = true
				return p, nil
			},
		},
		&fakeDetailRepo{},
		&fakeEmployeeRepo{},
		&fakeAuditRepo{},
	)

	_, err := svc.CreatePeriod(authedContext(t), payroll.CreatePeriodRequest{
		StartDate:  "2025-01-01",
		EndDate:    "2025-01-30",
		PeriodDays: 30,
	})

	assert.ErrorIs(t, err, payroll.ErrConfigNotFound)
	assert.False(t, periodCreated, "no period row may be written when the config is missing")
}

func TestCreatePeriod_DuplicateRange(t *testing.T) {
	svc := NewPayrollService(nil,
		&fakeConfigRepo{},
		&fakePeriodRepo{
			existsByRangeFn: func(ctx context.Context, companyID string, start, end time.Time) (bool, error) {
				return true, nil
			},
		},
		&fakeDetailRepo{},
		&fakeEmployeeRepo{},
		&fakeAuditRepo{},
	)

	_, err := svc.CreatePeriod(authedContext(t), payroll.CreatePeriodRequest{
		StartDate:  "2025-01-01",
		EndDate:    "2025-01-30",
		PeriodDays: 30,
	})

	assert.ErrorIs(t, err, payroll.ErrDuplicatePeriod)
}

func TestCreatePeriod_InvalidPeriodDays(t *testing.T) {
	svc := NewPayrollService(nil, &fakeConfigRepo{}, &fakePeriodRepo{}, &fakeDetailRepo{}, &fakeEmployeeRepo{}, &fakeAuditRepo{})

	_, err := svc.CreatePeriod(authedContext(t), payroll.CreatePeriodRequest{
		StartDate:  "2025-01-01",
		EndDate:    "2025-01-30",
		PeriodDays: 31,
	})

	assert.Error(t, err)
}

func TestProcessPeriod_MatchesPreview(t *testing.T) {
	period := draftPeriod()
	cfg := testConfig()
	cfg.CompanyID = "co-1"

	var persisted []payroll.Detail
	var frozenTotals payroll.Totals
	audits := &fakeAuditRepo{}

	periodRepo := &fakePeriodRepo{
		getByIDFn: func(ctx context.Context, id, companyID string) (payroll.Period, error) {
			return period, nil
		},
		markProcessedFn: func(ctx context.Context, id, companyID string, totals payroll.Totals, processedAt time.Time) (bool, error) {
			frozenTotals = totals
			period.Status = payroll.PeriodStatusProcessed
			return true, nil
		},
	}
	svc := NewPayrollService(nil,
		&fakeConfigRepo{
			getByYearFn: func(ctx context.Context, companyID string, year int) (payroll.Config, error) {
				return cfg, nil
			},
		},
		periodRepo,
		&fakeDetailRepo{
			createBatchFn: func(ctx context.Context, details []payroll.Detail) error {
				persisted = details
				return nil
			},
			listByPeriodFn: func(ctx context.Context, periodID, companyID string) ([]payroll.Detail, error) {
				return persisted, nil
			},
		},
		&fakeEmployeeRepo{
			listByStatusFn: func(ctx context.Context, companyID string, status employee.EmploymentStatus) ([]employee.Employee, error) {
				require.Equal(t, employee.StatusFullTime, status)
				return fullTimeEmployees(), nil
			},
		},
		audits,
	)

	ctx := authedContext(t)

	preview, err := svc.PreviewPeriod(ctx, "per-1")
	require.NoError(t, err)

	_, err = svc.ProcessPeriod(ctx, "per-1")
	require.NoError(t, err)

	require.Len(t, persisted, 2)
	for _, d := range persisted {
		assert.Equal(t, "per-1", d.PeriodID)
	}
	assert.True(t, preview.TotalGross.Equal(frozenTotals.TotalGross))
	assert.True(t, preview.TotalNet.Equal(frozenTotals.TotalNet))
	assert.True(t, preview.TotalDeductions.Equal(frozenTotals.TotalDeductions))
	assert.True(t, preview.TotalTransportation.Equal(frozenTotals.TotalTransportation))

	// A second preview now reads the persisted details and still agrees.
	after, err := svc.PreviewPeriod(ctx, "per-1")
	require.NoError(t, err)
	assert.True(t, after.TotalNet.Equal(preview.TotalNet))

	require.Len(t, audits.entries, 1)
	assert.Equal(t, "payroll.period.processed", audits.entries[0].Action)
}

func TestProcessPeriod_AlreadyProcessed(t *testing.T) {
	period := draftPeriod()
	period.Status = payroll.PeriodStatusProcessed

	svc := NewPayrollService(nil,
		&fakeConfigRepo{},
		&fakePeriodRepo{
			getByIDFn: func(ctx context.Context, id, companyID string) (payroll.Period, error) {
				return period, nil
			},
		},
		&fakeDetailRepo{},
		&fakeEmployeeRepo{},
		&fakeAuditRepo{},
	)

	_, err := svc.ProcessPeriod(authedContext(t), "per-1")
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyProcessed)
}

func TestProcessPeriod_LosesClaimRace(t *testing.T) {
	batchWritten := false
	svc := NewPayrollService(nil,
		&fakeConfigRepo{
			getByYearFn: func(ctx context.Context, companyID string, year int) (payroll.Config, error) {
				return testConfig(), nil
			},
		},
		&fakePeriodRepo{
			getByIDFn: func(ctx context.Context, id, companyID string) (payroll.Period, error) {
				return draftPeriod(), nil
			},
			// Another operator processed between our read and the claim.
			markProcessedFn: func(ctx context.Context, id, companyID string, totals payroll.Totals, processedAt time.Time) (bool, error) {
				return false, nil
			},
		},
		&fakeDetailRepo{
			createBatchFn: func(ctx context.Context, details []payroll.Detail) error {
				batchWritten = true
				return nil
			},
		},
		&fakeEmployeeRepo{
			listByStatusFn: func(ctx context.Context, companyID string, status employee.EmploymentStatus) ([]employee.Employee, error) {
				return fullTimeEmployees(), nil
			},
		},
		&fakeAuditRepo{},
	)

	_, err := svc.ProcessPeriod(authedContext(t), "per-1")

	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyProcessed)
	assert.False(t, batchWritten, "losing the claim must not insert details")
}

func TestMarkPeriodPaid_RequiresProcessed(t *testing.T) {
	svc := NewPayrollService(nil,
		&fakeConfigRepo{},
		&fakePeriodRepo{
			markPaidFn: func(ctx context.Context, id, companyID string) (bool, error) {
				return false, nil
			},
		},
		&fakeDetailRepo{},
		&fakeEmployeeRepo{},
		&fakeAuditRepo{},
	)

	_, err := svc.MarkPeriodPaid(authedContext(t), "per-1")
	assert.ErrorIs(t, err, payroll.ErrPeriodNotProcessed)
}

func TestUpdateConfig_ImmutableOnceProcessed(t *testing.T) {
	updated := false
	svc := NewPayrollService(nil,
		&fakeConfigRepo{
			updateFn: func(ctx context.Context, companyID string, req payroll.UpdateConfigRequest) error {
				updated = true
				return nil
			},
		},
		&fakePeriodRepo{
			hasProcessedInYearFn: func(ctx context.Context, companyID string, year int) (bool, error) {
				return true, nil
			},
		},
		&fakeDetailRepo{},
		&fakeEmployeeRepo{},
		&fakeAuditRepo{},
	)

	wage := decimal.NewFromInt(1500000)
	_, err := svc.UpdateConfig(authedContext(t), payroll.UpdateConfigRequest{
		Year:        2025,
		MinimumWage: &wage,
	})

	assert.ErrorIs(t, err, payroll.ErrConfigImmutable)
	assert.False(t, updated)
}

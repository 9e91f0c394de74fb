package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/audit"
	"github.com/nominahr/payroll-backend-go/internal/domain/employee"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
	"github.com/nominahr/payroll-backend-go/internal/repository/postgresql"
)

type Service interface {
	// Configs
	CreateConfig(ctx context.Context, req payroll.CreateConfigRequest) (payroll.ConfigResponse, error)
	GetConfig(ctx context.Context, year int) (payroll.ConfigResponse, error)
	ListConfigs(ctx context.Context) ([]payroll.ConfigResponse, error)
	UpdateConfig(ctx context.Context, req payroll.UpdateConfigRequest) (payroll.ConfigResponse, error)

	// Periods
	CreatePeriod(ctx context.Context, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error)
	GetPeriod(ctx context.Context, id string) (payroll.PeriodResponse, error)
	ListPeriods(ctx context.Context) ([]payroll.PeriodResponse, error)
	PreviewPeriod(ctx context.Context, id string) (payroll.PreviewResponse, error)
	ProcessPeriod(ctx context.Context, id string) (payroll.PeriodResponse, error)
	MarkPeriodPaid(ctx context.Context, id string) (payroll.PeriodResponse, error)
	ListDetails(ctx context.Context, periodID string) ([]payroll.DetailResponse, error)
	GetDetail(ctx context.Context, periodID, employeeID string) (payroll.DetailResponse, error)
}

type ServiceImpl struct {
	db           *database.DB
	configRepo   payroll.ConfigRepository
	periodRepo   payroll.PeriodRepository
	detailRepo   payroll.DetailRepository
	employeeRepo employee.Repository
	auditRepo    audit.Repository
}

func NewPayrollService(
	db *database.DB,
	configRepo payroll.ConfigRepository,
	periodRepo payroll.PeriodRepository,
	detailRepo payroll.DetailRepository,
	employeeRepo employee.Repository,
	auditRepo audit.Repository,
) Service {
	return &ServiceImpl{
		db:           db,
		configRepo:   configRepo,
		periodRepo:   periodRepo,
		detailRepo:   detailRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// ========== CONFIGS ==========

func (s *ServiceImpl) CreateConfig(ctx context.Context, req payroll.CreateConfigRequest) (payroll.ConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ConfigResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ConfigResponse{}, err
	}

	cfg := payroll.Config{
		CompanyID:                     companyID,
		Year:                          req.Year,
		MinimumWage:                   req.MinimumWage,
		TransportationAllowance:       req.TransportationAllowance,
		HealthContributionPercentage:  req.HealthContributionPercentage,
		PensionContributionPercentage: req.PensionContributionPercentage,
		SolidarityFundThreshold:       req.SolidarityFundThreshold,
	}

	var created payroll.Config
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		created, err = s.configRepo.Create(txCtx, cfg)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "payroll.config.created",
			Entity:      "payroll_config",
			EntityID:    created.ID,
			Details:     map[string]interface{}{"year": created.Year},
		})
	})
	if err != nil {
		return payroll.ConfigResponse{}, err
	}

	return mapConfigResponse(created), nil
}

func (s *ServiceImpl) GetConfig(ctx context.Context, year int) (payroll.ConfigResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ConfigResponse{}, err
	}

	cfg, err := s.configRepo.GetByYear(ctx, companyID, year)
	if err != nil {
		return payroll.ConfigResponse{}, err
	}

	return mapConfigResponse(cfg), nil
}

func (s *ServiceImpl) ListConfigs(ctx context.Context) ([]payroll.ConfigResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	configs, err := s.configRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.ConfigResponse, 0, len(configs))
	for _, cfg := range configs {
		result = append(result, mapConfigResponse(cfg))
	}

	return result, nil
}

func (s *ServiceImpl) UpdateConfig(ctx context.Context, req payroll.UpdateConfigRequest) (payroll.ConfigResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ConfigResponse{}, err
	}

	// Once a period in this year has been processed, the config it was
	// computed from is frozen.
	referenced, err := s.periodRepo.HasProcessedInYear(ctx, companyID, req.Year)
	if err != nil {
		return payroll.ConfigResponse{}, err
	}
	if referenced {
		return payroll.ConfigResponse{}, payroll.ErrConfigImmutable
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.configRepo.Update(txCtx, companyID, req); err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "payroll.config.updated",
			Entity:      "payroll_config",
			EntityID:    fmt.Sprintf("%d", req.Year),
			Details:     map[string]interface{}{"year": req.Year},
		})
	})
	if err != nil {
		return payroll.ConfigResponse{}, err
	}

	return s.GetConfig(ctx, req.Year)
}

// ========== PERIODS ==========

func (s *ServiceImpl) CreatePeriod(ctx context.Context, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	exists, err := s.periodRepo.ExistsByRange(ctx, companyID, start, end)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	if exists {
		return payroll.PeriodResponse{}, payroll.ErrDuplicatePeriod
	}

	period := payroll.Period{
		CompanyID:  companyID,
		StartDate:  start,
		EndDate:    end,
		PeriodDays: req.PeriodDays,
		Status:     payroll.PeriodStatusDraft,
	}

	// Draft periods carry pre-computed totals from day one. This also
	// surfaces a missing annual config at creation time instead of at
	// processing time.
	_, totals, err := s.computeDraft(ctx, companyID, period)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	period.TotalGross = totals.TotalGross
	period.TotalDeductions = totals.TotalDeductions
	period.TotalNet = totals.TotalNet
	period.TotalTransportation = totals.TotalTransportation

	var created payroll.Period
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		created, err = s.periodRepo.Create(txCtx, period)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "payroll.period.created",
			Entity:      "payroll_period",
			EntityID:    created.ID,
			Details: map[string]interface{}{
				"start_date":  req.StartDate,
				"end_date":    req.EndDate,
				"period_days": req.PeriodDays,
			},
		})
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	return mapPeriodResponse(created), nil
}

func (s *ServiceImpl) GetPeriod(ctx context.Context, id string) (payroll.PeriodResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	period, err := s.periodRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	return mapPeriodResponse(period), nil
}

func (s *ServiceImpl) ListPeriods(ctx context.Context) ([]payroll.PeriodResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	periods, err := s.periodRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		result = append(result, mapPeriodResponse(p))
	}

	return result, nil
}

// PreviewPeriod recomputes a draft period from current salaries and config.
// It persists nothing and can be repeated any number of times; processing
// runs the exact same computation, so a preview always matches what
// processing would freeze. For an already processed period the persisted
// details are returned instead.
func (s *ServiceImpl) PreviewPeriod(ctx context.Context, id string) (payroll.PreviewResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	period, err := s.periodRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	var details []payroll.Detail
	if period.Status == payroll.PeriodStatusDraft {
		details, _, err = s.computeDraft(ctx, companyID, period)
	} else {
		details, err = s.detailRepo.ListByPeriod(ctx, id, companyID)
	}
	if err != nil {
		return payroll.PreviewResponse{}, err
	}

	totals := Aggregate(details)

	return payroll.PreviewResponse{
		PeriodID:            period.ID,
		Details:             mapDetailResponses(details),
		TotalGross:          totals.TotalGross,
		TotalDeductions:     totals.TotalDeductions,
		TotalNet:            totals.TotalNet,
		TotalTransportation: totals.TotalTransportation,
	}, nil
}

// ProcessPeriod freezes a draft period: the same computation as the preview,
// then a single transaction that claims the DRAFT -> PROCESSED transition
// and persists the per-employee details. The claim is a compare-and-swap, so
// two simultaneous processing attempts cannot both insert details.
func (s *ServiceImpl) ProcessPeriod(ctx context.Context, id string) (payroll.PeriodResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	period, err := s.periodRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	if period.Status != payroll.PeriodStatusDraft {
		return payroll.PeriodResponse{}, payroll.ErrPeriodAlreadyProcessed
	}

	details, totals, err := s.computeDraft(ctx, companyID, period)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	processedAt := time.Now()
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		claimed, err := s.periodRepo.MarkProcessed(txCtx, id, companyID, totals, processedAt)
		if err != nil {
			return err
		}
		if !claimed {
			return payroll.ErrPeriodAlreadyProcessed
		}

		for i := range details {
			details[i].PeriodID = id
		}
		if err := s.detailRepo.CreateBatch(txCtx, details); err != nil {
			return err
		}

		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "payroll.period.processed",
			Entity:      "payroll_period",
			EntityID:    id,
			Details: map[string]interface{}{
				"employees":   len(details),
				"total_net":   totals.TotalNet.String(),
				"total_gross": totals.TotalGross.String(),
			},
		})
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	return s.GetPeriod(ctx, id)
}

func (s *ServiceImpl) MarkPeriodPaid(ctx context.Context, id string) (payroll.PeriodResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		paid, err := s.periodRepo.MarkPaid(txCtx, id, companyID)
		if err != nil {
			return err
		}
		if !paid {
			return payroll.ErrPeriodNotProcessed
		}
		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "payroll.period.paid",
			Entity:      "payroll_period",
			EntityID:    id,
		})
	})
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	return s.GetPeriod(ctx, id)
}

func (s *ServiceImpl) ListDetails(ctx context.Context, periodID string) ([]payroll.DetailResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	details, err := s.detailRepo.ListByPeriod(ctx, periodID, companyID)
	if err != nil {
		return nil, err
	}

	return mapDetailResponses(details), nil
}

func (s *ServiceImpl) GetDetail(ctx context.Context, periodID, employeeID string) (payroll.DetailResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.DetailResponse{}, err
	}

	detail, err := s.detailRepo.GetByPeriodEmployee(ctx, periodID, employeeID, companyID)
	if err != nil {
		return payroll.DetailResponse{}, err
	}

	return mapDetailResponses([]payroll.Detail{detail})[0], nil
}

// ========== HELPERS ==========

// computeDraft runs the proration engine over the company's full-time
// employees. Everyone else is excluded from both previews and processing.
func (s *ServiceImpl) computeDraft(ctx context.Context, companyID string, period payroll.Period) ([]payroll.Detail, payroll.Totals, error) {
	cfg, err := s.configRepo.GetByYear(ctx, companyID, period.StartDate.Year())
	if err != nil {
		return nil, payroll.Totals{}, err
	}

	employees, err := s.employeeRepo.ListByStatus(ctx, companyID, employee.StatusFullTime)
	if err != nil {
		return nil, payroll.Totals{}, fmt.Errorf("failed to get employees: %w", err)
	}

	details := make([]payroll.Detail, 0, len(employees))
	for _, emp := range employees {
		d := ComputeEmployeePayroll(emp, period.PeriodDays, cfg)
		d.PeriodID = period.ID
		details = append(details, d)
	}

	return details, Aggregate(details), nil
}

func mapConfigResponse(cfg payroll.Config) payroll.ConfigResponse {
	return payroll.ConfigResponse{
		ID:                            cfg.ID,
		CompanyID:                     cfg.CompanyID,
		Year:                          cfg.Year,
		MinimumWage:                   cfg.MinimumWage,
		TransportationAllowance:       cfg.TransportationAllowance,
		HealthContributionPercentage:  cfg.HealthContributionPercentage,
		PensionContributionPercentage: cfg.PensionContributionPercentage,
		SolidarityFundThreshold:       cfg.SolidarityFundThreshold,
	}
}

func mapPeriodResponse(p payroll.Period) payroll.PeriodResponse {
	var processedAtStr *string
	if p.ProcessedAt != nil {
		str := p.ProcessedAt.Format(time.RFC3339)
		processedAtStr = &str
	}

	return payroll.PeriodResponse{
		ID:                  p.ID,
		CompanyID:           p.CompanyID,
		StartDate:           p.StartDate.Format("2006-01-02"),
		EndDate:             p.EndDate.Format("2006-01-02"),
		PeriodDays:          p.PeriodDays,
		Status:              string(p.Status),
		TotalGross:          p.TotalGross,
		TotalDeductions:     p.TotalDeductions,
		TotalNet:            p.TotalNet,
		TotalTransportation: p.TotalTransportation,
		ProcessedAt:         processedAtStr,
	}
}

func mapDetailResponses(details []payroll.Detail) []payroll.DetailResponse {
	result := make([]payroll.DetailResponse, 0, len(details))
	for _, d := range details {
		resp := payroll.DetailResponse{
			ID:                      d.ID,
			PeriodID:                d.PeriodID,
			EmployeeID:              d.EmployeeID,
			BaseSalary:              d.BaseSalary,
			TransportationAllowance: d.TransportationAllowance,
			HealthContribution:      d.HealthContribution,
			PensionContribution:     d.PensionContribution,
			SolidarityFund:          d.SolidarityFund,
			GrossSalary:             d.GrossSalary,
			TotalDeductions:         d.TotalDeductions,
			NetSalary:               d.NetSalary,
		}
		if d.EmployeeName != nil {
			resp.EmployeeName = *d.EmployeeName
		}
		if d.EmployeeCode != nil {
			resp.EmployeeCode = *d.EmployeeCode
		}
		result = append(result, resp)
	}
	return result
}

package timeoff

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/audit"
	"github.com/nominahr/payroll-backend-go/internal/domain/employee"
	"github.com/nominahr/payroll-backend-go/internal/domain/timeoff"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
	"github.com/nominahr/payroll-backend-go/internal/pkg/dates"
	"github.com/nominahr/payroll-backend-go/internal/repository/postgresql"
)

type Service interface {
	// Policies
	CreatePolicy(ctx context.Context, req timeoff.CreatePolicyRequest) (timeoff.PolicyResponse, error)
	ListPolicies(ctx context.Context) ([]timeoff.PolicyResponse, error)

	// Balances
	ListBalances(ctx context.Context) ([]timeoff.BalanceResponse, error)
	RolloverYear(ctx context.Context, req timeoff.RolloverRequest) error

	// Requests
	CreateRequest(ctx context.Context, req timeoff.CreateRequestRequest) (timeoff.RequestResponse, error)
	ListRequests(ctx context.Context) ([]timeoff.RequestResponse, error)
	ApproveRequest(ctx context.Context, requestID string) (timeoff.RequestResponse, error)
	RejectRequest(ctx context.Context, requestID string) (timeoff.RequestResponse, error)
}

type ServiceImpl struct {
	db           *database.DB
	policyRepo   timeoff.PolicyRepository
	balanceRepo  timeoff.BalanceRepository
	requestRepo  timeoff.RequestRepository
	employeeRepo employee.Repository
	auditRepo    audit.Repository
}

func NewTimeOffService(
	db *database.DB,
	policyRepo timeoff.PolicyRepository,
	balanceRepo timeoff.BalanceRepository,
	requestRepo timeoff.RequestRepository,
	employeeRepo employee.Repository,
	auditRepo audit.Repository,
) Service {
	return &ServiceImpl{
		db:           db,
		policyRepo:   policyRepo,
		balanceRepo:  balanceRepo,
		requestRepo:  requestRepo,
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

// ========== POLICIES ==========

func (s *ServiceImpl) CreatePolicy(ctx context.Context, req timeoff.CreatePolicyRequest) (timeoff.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return timeoff.PolicyResponse{}, err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return timeoff.PolicyResponse{}, err
	}

	policy := timeoff.Policy{
		CompanyID:       companyID,
		Type:            timeoff.PolicyType(req.Type),
		DaysPerYear:     req.DaysPerYear,
		CarriesForward:  req.CarriesForward,
		MaxCarryForward: req.MaxCarryForward,
	}

	var created timeoff.Policy
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		created, err = s.policyRepo.Create(txCtx, policy)
		if err != nil {
			return err
		}
		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "timeoff.policy.created",
			Entity:      "time_off_policy",
			EntityID:    created.ID,
			Details:     map[string]interface{}{"type": req.Type},
		})
	})
	if err != nil {
		return timeoff.PolicyResponse{}, err
	}

	return mapPolicyResponse(created), nil
}

func (s *ServiceImpl) ListPolicies(ctx context.Context) ([]timeoff.PolicyResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	policies, err := s.policyRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]timeoff.PolicyResponse, 0, len(policies))
	for _, p := range policies {
		result = append(result, mapPolicyResponse(p))
	}

	return result, nil
}

// ========== BALANCES ==========

// ListBalances returns the consolidated view: one entry per employee/policy
// pair, total and used days summed across every year row.
func (s *ServiceImpl) ListBalances(ctx context.Context) ([]timeoff.BalanceResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.balanceRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	policies, err := s.policyRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	typeByPolicy := make(map[string]timeoff.PolicyType, len(policies))
	for _, p := range policies {
		typeByPolicy[p.ID] = p.Type
	}

	consolidated := Consolidate(rows)
	result := make([]timeoff.BalanceResponse, 0, len(consolidated))
	for key, c := range consolidated {
		result = append(result, timeoff.BalanceResponse{
			EmployeeID:    key.EmployeeID,
			PolicyID:      key.PolicyID,
			PolicyType:    string(typeByPolicy[key.PolicyID]),
			TotalDays:     c.TotalDays,
			UsedDays:      c.UsedDays,
			AvailableDays: c.Available(),
		})
	}

	return result, nil
}

// RolloverYear closes fromYear for every carrying policy: the surplus of
// each employee/policy pair is capped at the policy's max_carry_forward,
// prior rows are zeroed out (used_days = total_days), and the next year's
// row starts at days_per_year plus the carried amount. Consolidation over
// the resulting rows yields exactly the capped carry.
func (s *ServiceImpl) RolloverYear(ctx context.Context, req timeoff.RolloverRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	policies, err := s.policyRepo.List(ctx, companyID)
	if err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		rows, err := s.balanceRepo.ListByCompany(txCtx, companyID)
		if err != nil {
			return err
		}

		policyByID := make(map[string]timeoff.Policy, len(policies))
		for _, p := range policies {
			policyByID[p.ID] = p
		}

		grouped := make(map[BalanceKey][]timeoff.Balance)
		for _, row := range rows {
			key := BalanceKey{EmployeeID: row.EmployeeID, PolicyID: row.PolicyID}
			grouped[key] = append(grouped[key], row)
		}

		nextYear := req.FromYear + 1
		for key, pairRows := range grouped {
			policy, ok := policyByID[key.PolicyID]
			if !ok {
				continue
			}

			alreadyRolled := false
			for _, row := range pairRows {
				if row.Year >= nextYear {
					alreadyRolled = true
					break
				}
			}
			if alreadyRolled {
				continue
			}

			c := Consolidate(pairRows)[key]
			carried := c.Available()
			if !policy.CarriesForward {
				carried = 0
			} else if carried > policy.MaxCarryForward {
				carried = policy.MaxCarryForward
			}
			if carried < 0 {
				carried = 0
			}

			// Zero out prior rows so the consolidated sum carries exactly
			// the capped amount forward.
			for _, row := range pairRows {
				if row.UsedDays != row.TotalDays {
					if err := s.balanceRepo.SetUsedDays(txCtx, row.ID, row.TotalDays); err != nil {
						return err
					}
				}
			}

			if _, err := s.balanceRepo.Create(txCtx, timeoff.Balance{
				CompanyID:  companyID,
				EmployeeID: key.EmployeeID,
				PolicyID:   key.PolicyID,
				Year:       nextYear,
				TotalDays:  policy.DaysPerYear + carried,
				UsedDays:   0,
			}); err != nil {
				return err
			}
		}

		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "timeoff.balance.rollover",
			Entity:      "time_off_balance",
			EntityID:    fmt.Sprintf("%d", req.FromYear),
			Details:     map[string]interface{}{"from_year": req.FromYear, "to_year": nextYear},
		})
	})
}

// ========== REQUESTS ==========

func (s *ServiceImpl) CreateRequest(ctx context.Context, req timeoff.CreateRequestRequest) (timeoff.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return timeoff.RequestResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return timeoff.RequestResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return timeoff.RequestResponse{}, err
	}

	// The leave type must map to a policy up front; requests for types the
	// company has no policy for are rejected at submission.
	if _, err := s.policyRepo.GetByType(ctx, companyID, timeoff.PolicyType(req.LeaveType)); err != nil {
		return timeoff.RequestResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	request := timeoff.Request{
		CompanyID:  companyID,
		EmployeeID: req.EmployeeID,
		LeaveType:  timeoff.PolicyType(req.LeaveType),
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		Status:     timeoff.RequestStatusPending,
	}

	created, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		return timeoff.RequestResponse{}, err
	}

	return mapRequestResponse(created), nil
}

func (s *ServiceImpl) ListRequests(ctx context.Context) ([]timeoff.RequestResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]timeoff.RequestResponse, 0, len(requests))
	for _, req := range requests {
		result = append(result, mapRequestResponse(req))
	}

	return result, nil
}

// ApproveRequest runs the whole approval as one transaction: lock the
// pair's balance rows, seed the current year's row if absent, check the
// consolidated balance, then flip the request status and deduct the days.
// If any step fails nothing is visible.
func (s *ServiceImpl) ApproveRequest(ctx context.Context, requestID string) (timeoff.RequestResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return timeoff.RequestResponse{}, err
	}

	request, err := s.requestRepo.GetByID(ctx, requestID, companyID)
	if err != nil {
		return timeoff.RequestResponse{}, err
	}
	if request.Status != timeoff.RequestStatusPending {
		return timeoff.RequestResponse{}, timeoff.ErrRequestAlreadyProcessed
	}

	policy, err := s.policyRepo.GetByType(ctx, companyID, request.LeaveType)
	if err != nil {
		return timeoff.RequestResponse{}, err
	}

	requestedDays := dates.InclusiveDays(request.StartDate, request.EndDate)
	currentYear := time.Now().UTC().Year()

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		rows, err := s.balanceRepo.ListByEmployeePolicyForUpdate(txCtx, companyID, request.EmployeeID, policy.ID)
		if err != nil {
			return err
		}

		var current *timeoff.Balance
		for i := range rows {
			if rows[i].Year == currentYear {
				current = &rows[i]
				break
			}
		}
		if current == nil {
			seeded, err := s.balanceRepo.Create(txCtx, timeoff.Balance{
				CompanyID:  companyID,
				EmployeeID: request.EmployeeID,
				PolicyID:   policy.ID,
				Year:       currentYear,
				TotalDays:  policy.DaysPerYear,
				UsedDays:   0,
			})
			if err != nil {
				return err
			}
			rows = append(rows, seeded)
			current = &rows[len(rows)-1]
		}

		// The check runs against the consolidated totals, not just the
		// current year's row, so multi-year carry-forward is respected.
		key := BalanceKey{EmployeeID: request.EmployeeID, PolicyID: policy.ID}
		c := Consolidate(rows)[key]
		if c.UsedDays+requestedDays > c.TotalDays {
			return timeoff.ErrInsufficientBalance
		}

		flipped, err := s.requestRepo.UpdateStatus(txCtx, requestID, companyID, timeoff.RequestStatusApproved, userID)
		if err != nil {
			return err
		}
		if !flipped {
			return timeoff.ErrRequestAlreadyProcessed
		}

		if err := s.balanceRepo.AddUsedDays(txCtx, current.ID, requestedDays); err != nil {
			return err
		}

		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "timeoff.request.approved",
			Entity:      "time_off_request",
			EntityID:    requestID,
			Details: map[string]interface{}{
				"employee_id": request.EmployeeID,
				"policy_id":   policy.ID,
				"days":        requestedDays,
			},
		})
	})
	if err != nil {
		return timeoff.RequestResponse{}, err
	}

	return s.getResponse(ctx, requestID, companyID)
}

func (s *ServiceImpl) RejectRequest(ctx context.Context, requestID string) (timeoff.RequestResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return timeoff.RequestResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		flipped, err := s.requestRepo.UpdateStatus(txCtx, requestID, companyID, timeoff.RequestStatusRejected, userID)
		if err != nil {
			return err
		}
		if !flipped {
			return timeoff.ErrRequestAlreadyProcessed
		}
		return s.auditRepo.Create(txCtx, audit.Entry{
			CompanyID:   companyID,
			ActorUserID: userID,
			Action:      "timeoff.request.rejected",
			Entity:      "time_off_request",
			EntityID:    requestID,
		})
	})
	if err != nil {
		return timeoff.RequestResponse{}, err
	}

	return s.getResponse(ctx, requestID, companyID)
}

// ========== HELPERS ==========

func (s *ServiceImpl) getResponse(ctx context.Context, requestID, companyID string) (timeoff.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID, companyID)
	if err != nil {
		return timeoff.RequestResponse{}, err
	}
	return mapRequestResponse(request), nil
}

func mapPolicyResponse(p timeoff.Policy) timeoff.PolicyResponse {
	return timeoff.PolicyResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		Type:            string(p.Type),
		DaysPerYear:     p.DaysPerYear,
		CarriesForward:  p.CarriesForward,
		MaxCarryForward: p.MaxCarryForward,
	}
}

func mapRequestResponse(r timeoff.Request) timeoff.RequestResponse {
	var reviewedAtStr *string
	if r.ReviewedAt != nil {
		str := r.ReviewedAt.Format(time.RFC3339)
		reviewedAtStr = &str
	}

	return timeoff.RequestResponse{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		LeaveType:  string(r.LeaveType),
		StartDate:  r.StartDate.Format("2006-01-02"),
		EndDate:    r.EndDate.Format("2006-01-02"),
		Reason:     r.Reason,
		Status:     string(r.Status),
		ReviewedBy: r.ReviewedBy,
		ReviewedAt: reviewedAtStr,
	}
}

package response

import (
	"errors"
	"net/http"

	"github.com/nominahr/payroll-backend-go/internal/domain/auth"
	"github.com/nominahr/payroll-backend-go/internal/domain/company"
	"github.com/nominahr/payroll-backend-go/internal/domain/employee"
	"github.com/nominahr/payroll-backend-go/internal/domain/payroll"
	"github.com/nominahr/payroll-backend-go/internal/domain/timeoff"
	"github.com/nominahr/payroll-backend-go/internal/domain/user"
	"github.com/nominahr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrUsernameExists):
		Conflict(w, "Company username already taken")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered in this company")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrConfigNotFound):
		NotFound(w, "Payroll config not found for the requested year")
	case errors.Is(err, payroll.ErrConfigExists):
		Conflict(w, "Payroll config already exists for this year")
	case errors.Is(err, payroll.ErrConfigImmutable):
		Conflict(w, "Payroll config is locked by a processed period")
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrDuplicatePeriod):
		Conflict(w, "Payroll period already exists for this date range")
	case errors.Is(err, payroll.ErrPeriodAlreadyProcessed):
		Conflict(w, "Payroll period already processed")
	case errors.Is(err, payroll.ErrPeriodNotProcessed):
		Conflict(w, "Payroll period has not been processed yet")
	case errors.Is(err, payroll.ErrDetailNotFound):
		NotFound(w, "Payroll detail not found")

	// Time-off domain errors
	case errors.Is(err, timeoff.ErrPolicyNotFound):
		NotFound(w, "Time-off policy not found")
	case errors.Is(err, timeoff.ErrPolicyExists):
		Conflict(w, "Time-off policy already exists for this leave type")
	case errors.Is(err, timeoff.ErrBalanceNotFound):
		NotFound(w, "Time-off balance not found")
	case errors.Is(err, timeoff.ErrInsufficientBalance):
		BadRequest(w, "Requested days exceed available balance", nil)
	case errors.Is(err, timeoff.ErrRequestNotFound):
		NotFound(w, "Time-off request not found")
	case errors.Is(err, timeoff.ErrRequestAlreadyProcessed):
		Conflict(w, "Time-off request already processed")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

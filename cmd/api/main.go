package main

import (
	"fmt"
	"net/http"

	"github.com/nominahr/payroll-backend-go/internal/config"
	appHTTP "github.com/nominahr/payroll-backend-go/internal/handler/http"
	"github.com/nominahr/payroll-backend-go/internal/pkg/database"
	"github.com/nominahr/payroll-backend-go/internal/pkg/jwt"
	"github.com/nominahr/payroll-backend-go/internal/repository/postgresql"
	authService "github.com/nominahr/payroll-backend-go/internal/service/auth"
	documentService "github.com/nominahr/payroll-backend-go/internal/service/document"
	employeeService "github.com/nominahr/payroll-backend-go/internal/service/employee"
	payrollService "github.com/nominahr/payroll-backend-go/internal/service/payroll"
	timeoffService "github.com/nominahr/payroll-backend-go/internal/service/timeoff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	companyRepo := postgresql.NewCompanyRepository(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	payrollConfigRepo := postgresql.NewPayrollConfigRepository(db)
	payrollPeriodRepo := postgresql.NewPayrollPeriodRepository(db)
	payrollDetailRepo := postgresql.NewPayrollDetailRepository(db)
	timeOffPolicyRepo := postgresql.NewTimeOffPolicyRepository(db)
	timeOffBalanceRepo := postgresql.NewTimeOffBalanceRepository(db)
	timeOffRequestRepo := postgresql.NewTimeOffRequestRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authSvc := authService.NewAuthService(db, userRepo, companyRepo, jwtService)
	employeeSvc := employeeService.NewEmployeeService(db, employeeRepo, auditRepo)
	payrollSvc := payrollService.NewPayrollService(db, payrollConfigRepo, payrollPeriodRepo, payrollDetailRepo, employeeRepo, auditRepo)
	timeOffSvc := timeoffService.NewTimeOffService(db, timeOffPolicyRepo, timeOffBalanceRepo, timeOffRequestRepo, employeeRepo, auditRepo)
	documentSvc := documentService.NewDocumentService(companyRepo, employeeRepo, payrollPeriodRepo, payrollDetailRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	employeeHandler := appHTTP.NewEmployeeHandler(employeeSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, documentSvc)
	timeOffHandler := appHTTP.NewTimeOffHandler(timeOffSvc)
	auditHandler := appHTTP.NewAuditHandler(auditRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        cfg.App.Name,
			AppEnv:         cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
		},
		jwtService,
		authHandler,
		employeeHandler,
		payrollHandler,
		timeOffHandler,
		auditHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}

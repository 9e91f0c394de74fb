package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/nominahr/payroll-backend-go/internal/domain/user"
	"github.com/nominahr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/nominahr/payroll-backend-go/internal/pkg/jwt"
)

type RouterConfig struct {
	AppName        string
	AppEnv         string
	AllowedOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	employeeHandler EmployeeHandler,
	payrollHandler PayrollHandler,
	timeOffHandler TimeOffHandler,
	auditHandler AuditHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("env", cfg.AppEnv),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.List)
				r.Get("/{id}", employeeHandler.GetByID)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleOperator))
					r.Post("/", employeeHandler.Create)
					r.Put("/{id}", employeeHandler.Update)
					r.Delete("/{id}", employeeHandler.Delete)
				})
			})

			r.Route("/payroll", func(r chi.Router) {

				// Config is admin only
				r.Route("/configs", func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", payrollHandler.ListConfigs)
					r.Post("/", payrollHandler.CreateConfig)
					r.Get("/{year}", payrollHandler.GetConfig)
					r.Put("/{year}", payrollHandler.UpdateConfig)
				})

				r.Route("/periods", func(r chi.Router) {
					r.Get("/", payrollHandler.ListPeriods)
					r.Get("/{id}", payrollHandler.GetPeriod)
					r.Get("/{id}/preview", payrollHandler.PreviewPeriod)
					r.Get("/{id}/details", payrollHandler.ListDetails)
					r.Get("/{id}/details/{employeeID}", payrollHandler.GetDetail)
					r.Get("/{id}/details/{employeeID}/payslip", payrollHandler.DownloadPayslip)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleOperator))
						r.Post("/", payrollHandler.CreatePeriod)
						r.Post("/{id}/process", payrollHandler.ProcessPeriod)
						r.Post("/{id}/pay", payrollHandler.MarkPeriodPaid)
					})
				})
			})

			r.Route("/timeoff", func(r chi.Router) {
				r.Route("/policies", func(r chi.Router) {
					r.Get("/", timeOffHandler.ListPolicies)
					r.With(middleware.AdminOnly).Post("/", timeOffHandler.CreatePolicy)
				})

				r.Route("/balances", func(r chi.Router) {
					r.Get("/", timeOffHandler.ListBalances)
					r.With(middleware.AdminOnly).Post("/rollover", timeOffHandler.RolloverYear)
				})

				r.Route("/requests", func(r chi.Router) {
					r.Get("/", timeOffHandler.ListRequests)
					r.Post("/", timeOffHandler.CreateRequest)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleOperator))
						r.Post("/{id}/approve", timeOffHandler.ApproveRequest)
						r.Post("/{id}/reject", timeOffHandler.RejectRequest)
					})
				})
			})

			r.With(middleware.AdminOnly).Get("/audit", auditHandler.List)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	return r
}

package api

import (
	"loan-backoffice/internal/api/handler"
	mw "loan-backoffice/internal/api/middleware"
	"loan-backoffice/internal/config"
	"loan-backoffice/internal/domain/customer"
	"loan-backoffice/internal/domain/loan"
	"loan-backoffice/internal/domain/repayment"
	"loan-backoffice/internal/domain/report"
	"log/slog"
	"net/http"
	"time"

	_ "loan-backoffice/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Services struct {
	Customers  customer.Service
	Loans      loan.LoanService
	Repayments repayment.Service
	Reports    report.Service
}

// SetupRouter wires every route. redisClient may be nil.
func SetupRouter(svc Services, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, redisClient, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)
	setupAuthRoutes(router, cfg, logger)
	setupReportRoutes(router, svc.Reports, logger)

	router.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		setupCustomerRoutes(r, svc.Customers, logger)
		setupLoanRoutes(r, svc.Loans, logger)
		setupRepaymentRoutes(r, svc.Repayments, logger)
	})

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, redisClient, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(cfg.Server.Auth, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

// Dashboard aggregates stay readable without a token.
func setupReportRoutes(router *chi.Mux, svc report.Service, logger *slog.Logger) {
	h := handler.NewReportHandler(svc, logger)
	router.Get("/customer-count", h.CustomerCount)
	router.Get("/loan-pending-total", h.PendingLoanTotal)
	router.Get("/loan-disbursement-summary", h.DisbursementSummary)
	router.Get("/repayment-summary", h.RepaymentSummary)
	router.Get("/loan-trends", h.LoanTrend)
}

func setupCustomerRoutes(r chi.Router, svc customer.Service, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, logger)

	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Put("/", h.UpdateCustomer)
			r.Delete("/", h.DeleteCustomer)
		})
	})
}

func setupLoanRoutes(r chi.Router, svc loan.LoanService, logger *slog.Logger) {
	h := handler.NewLoanHandler(svc, logger)

	r.Route("/loan-applications", func(r chi.Router) {
		r.Post("/", h.CreateLoan)
		r.Get("/", h.ListLoans)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", h.GetLoan)
			r.Put("/", h.UpdateLoan)
			r.Delete("/", h.DeleteLoan)
			r.Post("/approve", h.ApproveLoan)
			r.Post("/reject", h.RejectLoan)
			r.Put("/guarantors", h.SetGuarantors)
			r.Get("/balance", h.GetBalance)
		})
	})
}

func setupRepaymentRoutes(r chi.Router, svc repayment.Service, logger *slog.Logger) {
	h := handler.NewRepaymentHandler(svc, logger)

	r.Route("/loan-repayments", func(r chi.Router) {
		r.Post("/", h.RecordRepayment)
		r.Get("/", h.ListRepayments)
		r.Route("/{repaymentID}", func(r chi.Router) {
			r.Get("/", h.GetRepayment)
			r.Put("/", h.UpdateRepayment)
			r.Delete("/", h.DeleteRepayment)
		})
	})
}

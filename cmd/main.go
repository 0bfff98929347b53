package main

import (
	"context"
	"errors"
	"fmt"
	_ "loan-backoffice/docs"
	"loan-backoffice/internal/api"
	"loan-backoffice/internal/batch"
	"loan-backoffice/internal/config"
	"loan-backoffice/internal/domain/customer"
	"loan-backoffice/internal/domain/loan"
	"loan-backoffice/internal/domain/repayment"
	"loan-backoffice/internal/domain/report"
	"loan-backoffice/internal/event"
	"loan-backoffice/internal/infrastructure/database/postgres"
	"loan-backoffice/internal/infrastructure/logging"
	"loan-backoffice/internal/pkg/clock"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	defaultReconcileSchedule = "0 2 * * *"
	defaultReconcileTimeout  = 10 * time.Minute
)

type jobRunner interface {
	Run(ctx context.Context) error
}

// @title Loan Back Office API
// @version 1.0
// @description Customers, loan applications, guarantors, repayments and dashboard aggregates.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)
	applySchema(cfg, dbPool, logger)

	rabbitMQConn := setupRabbitMQ(cfg, logger)
	publisher := initializePublisher(rabbitMQConn, cfg, logger)
	redisClient := initializeRedisClient(cfg, logger)

	clk := clock.System{Location: cfg.App.Location()}
	services := initializeServices(dbPool, publisher, clk, logger)

	reconcileJob := batch.NewReconcileTotalsJob(services.Loans, logger)
	cronScheduler := startBatchJobs(cfg, logger, reconcileJob)
	router := api.SetupRouter(services, cfg, redisClient, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, rabbitMQConn, redisClient, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed(), "timezone", cfg.App.Location().String())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func applySchema(cfg *config.Config, dbPool *pgxpool.Pool, logger *slog.Logger) {
	if !cfg.Database.AutoMigrate {
		logger.Info("Schema auto-migration disabled, skipping.")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.ApplySchema(ctx, dbPool, logger); err != nil {
		logger.Error("Failed to apply database schema", "error", err)
		dbPool.Close()
		os.Exit(1)
	}
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

func initializePublisher(rabbitConn *amqp.Connection, cfg *config.Config, logger *slog.Logger) event.EventPublisher {
	if rabbitConn == nil {
		logger.Info("Domain events will not leave the process (RabbitMQ not connected).")
		return event.NewNoopPublisher(logger)
	}

	publisher, err := event.NewRabbitMQEventPublisher(rabbitConn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to set up RabbitMQ publisher, falling back to no-op", "error", err)
		return event.NewNoopPublisher(logger)
	}
	return publisher
}

func initializeServices(dbPool *pgxpool.Pool, publisher event.EventPublisher, clk clock.Clock, logger *slog.Logger) api.Services {
	logger.Info("Initializing application components...")
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	loanRepo := postgres.NewLoanRepository(dbPool, logger)
	repaymentRepo := postgres.NewRepaymentRepository(dbPool, logger)
	reportRepo := postgres.NewReportRepository(dbPool, logger)

	customerService := customer.NewService(customerRepo, logger)
	loanService := loan.NewLoanService(loanRepo, customerService, publisher, clk, logger)

	return api.Services{
		Customers:  customerService,
		Loans:      loanService,
		Repayments: repayment.NewService(repaymentRepo, loanService, publisher, clk, logger),
		Reports:    report.NewService(reportRepo, customerService, clk, logger),
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rabbitConn *amqp.Connection, redisClient *redis.Client,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	closeRedisClient(redisClient, logger)
	shutdownHTTPServer(srv, serverErrors, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		logger.Info("Server goroutine finished before signal.", "error", err)
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	switch {
	case rabbitConn == nil:
		logger.Info("RabbitMQ connection was not established, skipping close.")
	case rabbitConn.IsClosed():
		logger.Info("RabbitMQ connection already closed, skipping close.")
	default:
		logger.Info("Closing RabbitMQ connection...")
		if err := rabbitConn.Close(); err != nil {
			logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
		} else {
			logger.Info("RabbitMQ connection closed.")
		}
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

// initializeRedisClient returns nil when Redis is not configured or not reachable;
// the rate limiter then keeps its buckets in-process.
func initializeRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		logger.Info("Redis address not configured, skipping Redis client.")
		return nil
	}

	logger.Info("Initializing Redis client...", "addr", cfg.Redis.Addr)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, continuing without it", "error", err, "addr", cfg.Redis.Addr)
		_ = rdb.Close()
		return nil
	}

	logger.Info("Redis client connected successfully.", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return rdb
}

func closeRedisClient(redisClient *redis.Client, logger *slog.Logger) {
	if redisClient == nil {
		logger.Info("Redis client was not initialized, skipping close.")
		return
	}
	logger.Info("Closing Redis client connection...")
	if err := redisClient.Close(); err != nil {
		logger.Error("Failed to close Redis client connection gracefully", "error", err)
	} else {
		logger.Info("Redis client connection closed.")
	}
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, reconcileJob jobRunner) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New(cron.WithLocation(cfg.App.Location()))

	scheduleSpec := cfg.Batch.ReconcileSchedule
	if scheduleSpec == "" {
		scheduleSpec = defaultReconcileSchedule
		logger.Warn("Reconcile schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.ReconcileTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultReconcileTimeout
	}

	jobID, err := scheduleJob(c, scheduleSpec, jobTimeout, "ReconcileTotals", reconcileJob, logger)
	if err != nil {
		logger.Error("Failed to schedule reconcile job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled reconcile job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func scheduleJob(c *cron.Cron, spec string, timeout time.Duration, name string, job jobRunner, logger *slog.Logger) (cron.EntryID, error) {
	return c.AddJob(spec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", name)
		jobLogger.Info("Cron triggered: running job.")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if runErr := job.Run(ctx); runErr != nil {
			jobLogger.Error("Job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Job finished successfully.")
		}
	}))
}

func connectRabbitMQ(uri string, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	retryCount := 5
	for i := 1; i <= retryCount; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error, 1))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					if e != nil {
						logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
					}
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", retryCount),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", retryCount, err)
}

// setupRabbitMQ returns nil when events are disabled or the broker cannot be reached.
func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled via configuration.")
		return nil
	}
	if cfg.RabbitMQ.URL == "" {
		logger.Warn("RabbitMQ enabled but no URL configured.")
		return nil
	}

	conn, err := connectRabbitMQ(cfg.RabbitMQ.URL, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		return nil
	}
	return conn
}

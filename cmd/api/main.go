package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"userlookup/docs"
	"userlookup/internal/config"
	"userlookup/internal/database"
	"userlookup/internal/database/migration"
	handlers "userlookup/internal/http/handler"
	"userlookup/internal/http/middleware"
	"userlookup/internal/metrics"
	"userlookup/internal/otel"
	"userlookup/internal/repository/postgres"
	"userlookup/internal/service"
	"userlookup/internal/storage"
	"userlookup/internal/usersapi"
)

const shutdownTimeout = 10 * time.Second

// @title User Lookup API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing_shutdown_failed", "error", err)
		}
	}()

	policy, err := service.ParsePolicy(cfg.RenderPolicy)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}
	lookupMetrics, err := metrics.NewLookupMetrics(reg)
	if err != nil {
		return err
	}

	users := usersapi.New(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.UsersAPI.Timeout,
	}, cfg.UsersAPI.BaseURL)

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithPolicy(policy),
		service.WithRecorder(lookupMetrics),
	}
	deps := handlers.Dependencies{
		Gatherer: reg,
		Page:     handlers.PageOptions{Policy: policy.String(), BaseURL: cfg.UsersAPI.BaseURL},
	}

	// Optional lookup audit log in PostgreSQL
	var db *sql.DB
	if cfg.Database.Enabled() {
		db, err = database.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			return err
		}

		audit := service.NewAuditService(postgres.NewLookupPostgres(db))
		opts = append(opts, service.WithRecorder(audit))
		deps.Audit = audit
		deps.DB = db
	}

	// Optional diagnostics archive in S3-compatible object storage
	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return err
		}
		archive := service.NewDiagnosticsArchive(objStore)
		opts = append(opts, service.WithDiagnostics(archive))
		deps.Diagnostics = archive
	}

	deps.Lookup = service.NewLookupService(users, opts...)

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// RequestID first so the logger and error payloads can read it
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(httpMetrics.Handler())

	// wasm_exec.js and main.wasm for the /wasm page
	app.Static("/static", cfg.StaticDir)

	if err := handlers.RegisterRoutes(app, deps); err != nil {
		return err
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_starting",
			"port", cfg.Port,
			"render_policy", policy.String(),
			"audit_enabled", deps.Audit != nil,
			"diagnostics_enabled", deps.Diagnostics != nil,
		)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_stopping")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

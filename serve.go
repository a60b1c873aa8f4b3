package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/alerts"
	"github.com/ekaya-inc/ekaya-mes/pkg/handlers"
	"github.com/ekaya-inc/ekaya-mes/pkg/kpi"
	"github.com/ekaya-inc/ekaya-mes/pkg/middleware"
	"github.com/ekaya-inc/ekaya-mes/pkg/services"
	"github.com/ekaya-inc/ekaya-mes/pkg/telemetry"
)

const shutdownTimeout = 15 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, logger := a.cfg, a.logger

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("listen", cfg.ListenAddr()),
		zap.String("default_range", cfg.Analytics.DefaultRange),
		zap.String("timezone", cfg.Analytics.Timezone),
		zap.Duration("alert_refresh_interval", cfg.Alerts.RefreshInterval))

	if err := a.migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	set := a.collections()
	// A failed initial load leaves the affected collection empty with its
	// error recorded; the server still starts.
	if err := set.LoadAll(ctx); err != nil {
		logger.Warn("Initial collection load incomplete", zap.Error(err))
	}

	store := alerts.NewStore()
	dashboardService := services.NewDashboardService(set, cfg.Analytics.Location, kpi.Range(cfg.Analytics.DefaultRange), logger)
	alertService := services.NewAlertService(store, logger)
	alertMonitor := services.NewAlertMonitor(set, store, logger)
	alertMonitor.RunScheduler(ctx, cfg.Alerts.RefreshInterval)
	defer alertMonitor.Stop()

	httpMetrics := telemetry.NewHTTPMetrics()
	registry := telemetry.NewRegistry(append(httpMetrics.Collectors(), telemetry.NewKPICollector(set, store))...)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, dashboardService, logger).RegisterRoutes(mux)
	handlers.NewWorkOrderHandler(services.NewWorkOrderService(set.WorkOrders, logger), logger).RegisterRoutes(mux)
	handlers.NewMachineHandler(services.NewMachineService(set.Machines, logger), logger).RegisterRoutes(mux)
	handlers.NewOperatorHandler(services.NewOperatorService(set.Operators, logger), logger).RegisterRoutes(mux)
	handlers.NewQualityCheckHandler(services.NewQualityCheckService(set.QualityChecks, logger), logger).RegisterRoutes(mux)
	handlers.NewDashboardHandler(dashboardService, logger).RegisterRoutes(mux)
	handlers.NewAlertHandler(alertService, alertMonitor, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", telemetry.Handler(registry))

	rateLimit, err := middleware.RateLimit(cfg.RateLimit, logger)
	if err != nil {
		return fmt.Errorf("failed to configure rate limiting: %w", err)
	}
	var handler http.Handler = mux
	handler = middleware.RequestLogger(logger)(handler)
	handler = httpMetrics.Middleware(handler)
	handler = rateLimit(handler)

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting ekaya-mes", zap.String("addr", server.Addr), zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

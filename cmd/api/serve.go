package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/asset-inventory/internal/api/http"
	"github.com/spec-kit/asset-inventory/internal/api/http/handlers"
	"github.com/spec-kit/asset-inventory/internal/auth"
	"github.com/spec-kit/asset-inventory/internal/cache"
	"github.com/spec-kit/asset-inventory/internal/events"
	"github.com/spec-kit/asset-inventory/internal/observability"
	"github.com/spec-kit/asset-inventory/internal/persistence"
	"github.com/spec-kit/asset-inventory/internal/service"
	"github.com/spec-kit/asset-inventory/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	logger := rt.logger

	if rt.cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, rt.pg.PoolHandle(), logger); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
			return err
		}
	}

	var publisher *events.KafkaPublisher
	if rt.cfg.Kafka.Enabled() {
		writer := events.NewKafkaWriter(rt.cfg.Kafka.Brokers, rt.cfg.Kafka.Topic, rt.cfg.Kafka.BatchTimeout)
		publisher = events.NewKafkaPublisher(writer, logger)
		defer publisher.Close() //nolint:errcheck
		logger.Info("publishing events to kafka", zap.Strings("brokers", rt.cfg.Kafka.Brokers), zap.String("topic", rt.cfg.Kafka.Topic))
	}
	notificationService := service.NewNotificationService(rt.dispatcher, logger, rt.cfg.Notification)
	worker.StartNotificationWorker(rt.dispatcher, notificationService, publisher)

	assetCache := rt.assetCache()
	assetService := rt.assetService()
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		AssetRepo:      rt.assets,
		AssignmentRepo: rt.assignments,
		EmployeeRepo:   rt.employees,
		Cache:          assetCache,
		Dispatcher:     rt.dispatcher,
		Logger:         logger,
	})
	maintenanceService := service.NewMaintenanceService(service.MaintenanceDependencies{
		MaintenanceRepo: rt.tickets,
		HistoryRepo:     rt.history,
		AssetRepo:       rt.assets,
		Dispatcher:      rt.dispatcher,
		Logger:          logger,
	})
	userService := service.NewUserService(service.UserDependencies{
		UserRepo:     rt.users,
		EmployeeRepo: rt.employees,
		Logger:       logger,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		AssetRepo:      rt.assets,
		AssignmentRepo: rt.assignments,
		Baselines:      cache.NewBaselineStore(rt.redis.Client),
		BaselineMaxAge: rt.cfg.Stats.BaselineMaxAge,
		Logger:         logger,
	})
	authService := rt.authService()
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), rt.users)

	if seeded, err := assetService.SeedCategories(ctx); err != nil {
		logger.Warn("failed to seed categories", zap.Error(err))
	} else if seeded > 0 {
		logger.Info("seeded default categories", zap.Int("count", seeded))
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: rt.cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, rt.cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(rt.cfg.App.Name, rt.cfg.App.Version, rt.pg, rt.redis, metrics),
		Users:          handlers.NewUsersHandler(authService, userService),
		Assets:         handlers.NewAssetsHandler(assetService, assignmentService, maintenanceService),
		Assignments:    handlers.NewAssignmentsHandler(assignmentService),
		Maintenance:    handlers.NewMaintenanceHandler(maintenanceService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", rt.cfg.App.Addr()))
		errCh <- app.Listen(rt.cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		logger.Error("fiber listen", zap.Error(err))
		return err
	case <-waitForShutdown(logger):
	}

	return app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("shutting down", zap.String("signal", sig.String()))
		close(done)
	}()
	return done
}

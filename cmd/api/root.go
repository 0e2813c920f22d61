package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/asset-inventory/internal/cache"
	"github.com/spec-kit/asset-inventory/internal/config"
	"github.com/spec-kit/asset-inventory/internal/events"
	"github.com/spec-kit/asset-inventory/internal/observability"
	"github.com/spec-kit/asset-inventory/internal/persistence"
	"github.com/spec-kit/asset-inventory/internal/repository"
	"github.com/spec-kit/asset-inventory/internal/service"
)

var rootCmd = &cobra.Command{
	Use:          "inventory",
	Short:        "IT asset inventory: assets, assignments and maintenance tickets",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCategoriesCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(createUserCmd)
}

// deps holds the process-wide collaborators shared by every command.
type deps struct {
	cfg        *config.Config
	logger     *zap.Logger
	pg         *persistence.Postgres
	redis      *persistence.Redis
	dispatcher events.Dispatcher

	users       repository.UserRepository
	employees   repository.EmployeeRepository
	categories  repository.CategoryRepository
	assets      repository.AssetRepository
	assignments repository.AssignmentRepository
	tickets     repository.MaintenanceLogRepository
	history     repository.MaintenanceLogHistoryRepository
}

// bootstrap loads configuration, connects to Postgres and Redis and builds repositories.
func bootstrap(ctx context.Context) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return nil, err
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to connect postgres", zap.Error(err))
		return nil, err
	}

	pool := pg.PoolHandle()
	return &deps{
		cfg:         cfg,
		logger:      logger,
		pg:          pg,
		redis:       persistence.NewRedis(ctx, cfg.Redis, logger),
		dispatcher:  events.NewInMemoryDispatcher(logger),
		users:       repository.NewUserRepository(pool),
		employees:   repository.NewEmployeeRepository(pool),
		categories:  repository.NewCategoryRepository(pool),
		assets:      repository.NewAssetRepository(pool),
		assignments: repository.NewAssignmentRepository(pool),
		tickets:     repository.NewMaintenanceLogRepository(pool),
		history:     repository.NewMaintenanceLogHistoryRepository(pool),
	}, nil
}

func (rt *deps) close() {
	rt.redis.Close()
	rt.pg.Close()
	_ = rt.logger.Sync()
}

func (rt *deps) assetCache() *cache.AssetCache {
	return cache.NewAssetCache(rt.redis.Client, rt.cfg.Cache.BarcodeTTL)
}

func (rt *deps) assetService() *service.AssetService {
	return service.NewAssetService(service.AssetDependencies{
		AssetRepo:       rt.assets,
		AssignmentRepo:  rt.assignments,
		MaintenanceRepo: rt.tickets,
		CategoryRepo:    rt.categories,
		Cache:           rt.assetCache(),
		Dispatcher:      rt.dispatcher,
		Logger:          rt.logger,
	})
}

func (rt *deps) authService() *service.AuthService {
	return service.NewAuthService(rt.cfg.Auth, service.AuthDependencies{
		UserRepo: rt.users,
		Logger:   rt.logger,
	})
}

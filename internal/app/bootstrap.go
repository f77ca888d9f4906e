package app

import (
	"errors"
	"fmt"

	"github.com/freshcart-shop/freshcart/internal/config"
	"github.com/freshcart-shop/freshcart/internal/models"
	"github.com/freshcart-shop/freshcart/internal/provider"
	"github.com/freshcart-shop/freshcart/internal/router"
	"github.com/freshcart-shop/freshcart/internal/worker"
)

// BuildRunner opens the database, wires the container, and assembles
// the services selected by mode.
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	container := provider.NewContainer(cfg, db)

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(cfg, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		} else if mode == ModeWorker {
			return nil, errors.New("worker mode requires queue.enabled")
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run is the application entry point.
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

package worker

import (
	"context"
	"errors"
	"time"

	"github.com/freshcart-shop/freshcart/internal/config"
	"github.com/freshcart-shop/freshcart/internal/logger"
	"github.com/freshcart-shop/freshcart/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultCouponSweepInterval = time.Hour

// Service runs the asynq consumer plus periodic housekeeping.
type Service struct {
	name          string
	server        *asynq.Server
	mux           *asynq.ServeMux
	consumer      *Consumer
	sweepInterval time.Duration
}

// NewService creates the queue worker service.
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	sweepInterval := defaultCouponSweepInterval
	if cfg.Coupon.ExpireSweepMinutes > 0 {
		sweepInterval = time.Duration(cfg.Coupon.ExpireSweepMinutes) * time.Minute
	}

	return &Service{
		name:          "worker",
		server:        server,
		mux:           mux,
		consumer:      consumer,
		sweepInterval: sweepInterval,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the consumer until shutdown.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.CouponService != nil {
		go s.runCouponExpireLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the consumer down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runCouponExpireLoop periodically flips lapsed coupons to EXPIRED so
// reads never serve a stale ACTIVE status.
func (s *Service) runCouponExpireLoop(ctx context.Context) {
	runOnce := func() {
		if _, err := s.consumer.CouponService.ExpireLapsed(time.Now()); err != nil {
			logger.Warnw("worker_coupon_expire_sweep_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

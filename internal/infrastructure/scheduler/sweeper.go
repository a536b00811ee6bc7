package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantSource lists the tenants the sweeper iterates on each pass.
// Every document query is tenant scoped, so the sweeper runs each sweep
// once per tenant.
type TenantSource interface {
	TenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// SweepFunc expires due documents for a single tenant and returns how
// many were transitioned.
type SweepFunc func(ctx context.Context, tenantID uuid.UUID) (int, error)

// Sweep is a named per-tenant expiry task
type Sweep struct {
	Name string
	Run  SweepFunc
}

// ExpirySweeper periodically retires overdue documents: sent quotations
// past their expiration date and active reservations past their expiry.
type ExpirySweeper struct {
	interval time.Duration
	tenants  TenantSource
	sweeps   []Sweep
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewExpirySweeper creates a sweeper that runs the given sweeps every
// interval. Intervals below one second are raised to one second.
func NewExpirySweeper(interval time.Duration, tenants TenantSource, logger *zap.Logger, sweeps ...Sweep) *ExpirySweeper {
	if interval < time.Second {
		interval = time.Second
	}
	return &ExpirySweeper{
		interval: interval,
		tenants:  tenants,
		sweeps:   sweeps,
		logger:   logger,
	}
}

// Start launches the sweep loop. It is a no-op if already running.
func (s *ExpirySweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Expiry sweeper started",
		zap.Duration("interval", s.interval),
		zap.Int("sweeps", len(s.sweeps)),
	)
}

// Stop cancels the loop and waits for an in-flight pass to finish
func (s *ExpirySweeper) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("Expiry sweeper stopped")
}

func (s *ExpirySweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes every sweep for every known tenant. Failures are
// logged and do not stop the pass; the next tick retries naturally.
func (s *ExpirySweeper) RunOnce(ctx context.Context) {
	tenantIDs, err := s.tenants.TenantIDs(ctx)
	if err != nil {
		s.logger.Warn("Expiry sweep skipped: failed to list tenants", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		for _, sweep := range s.sweeps {
			expired, err := sweep.Run(ctx, tenantID)
			if err != nil {
				s.logger.Warn("Expiry sweep failed",
					zap.String("sweep", sweep.Name),
					zap.String("tenant_id", tenantID.String()),
					zap.Error(err),
				)
				continue
			}
			if expired > 0 {
				s.logger.Info("Expiry sweep transitioned documents",
					zap.String("sweep", sweep.Name),
					zap.String("tenant_id", tenantID.String()),
					zap.Int("expired", expired),
				)
			}
		}
	}
}

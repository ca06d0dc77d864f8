package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/errors"
)

type OrderRepository interface {
	ListDueForAutoTransition(ctx context.Context, now time.Time) ([]domain.Order, error)
}

type LifecycleService interface {
	AdvanceAutomatically(ctx context.Context, orderID string) (*domain.Order, bool, error)
}

// Scheduler periodically sweeps for orders whose next auto-transition time
// has elapsed and advances each at most once. Optimistic versioning makes a
// sweep idempotent: a competing manual command or an overlapping sweep wins
// the conditional write and the loser is skipped, never retried.
type Scheduler struct {
	orderRepo OrderRepository
	lifecycle LifecycleService
	interval  time.Duration
	logger    *zap.Logger
	clock     func() time.Time
}

func New(orderRepo OrderRepository, lifecycle LifecycleService, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		orderRepo: orderRepo,
		lifecycle: lifecycle,
		interval:  interval,
		logger:    logger,
		clock:     time.Now,
	}
}

// Run blocks sweeping on the configured interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("transition scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("transition scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep advances every eligible order one step and returns the orders that
// changed. Per-order failures are isolated: one order's error never aborts
// the rest of the sweep.
func (s *Scheduler) Sweep(ctx context.Context) ([]domain.Order, error) {
	due, err := s.orderRepo.ListDueForAutoTransition(ctx, s.clock().UTC())
	if err != nil {
		return nil, err
	}

	var changed []domain.Order
	for _, candidate := range due {
		updated, advanced, err := s.lifecycle.AdvanceAutomatically(ctx, candidate.ID)
		if err != nil {
			if _, ok := errors.IsStaleVersionError(err); ok {
				// Another writer advanced this order between our read and
				// write. Retrying here could double-advance; the next sweep
				// picks it up again if it is still eligible.
				s.logger.Debug("sweep lost race", zap.String("orderId", candidate.ID))
				continue
			}
			s.logger.Error("sweep could not advance order",
				zap.String("orderId", candidate.ID), zap.Error(err))
			continue
		}
		if advanced {
			changed = append(changed, *updated)
		}
	}

	if len(changed) > 0 {
		s.logger.Info("sweep advanced orders", zap.Int("count", len(changed)))
	}

	return changed, nil
}

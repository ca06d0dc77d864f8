package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cactus377/japede-cardapio/internal/config"
	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/dto"
	"github.com/cactus377/japede-cardapio/internal/errors"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, expectedVersion time.Time, change dto.StatusChange) error
	UpdateAutoProgress(ctx context.Context, id string, expectedVersion time.Time, autoProgress bool, nextAutoTransitionTime *time.Time) error
	ClearAutoTransitionTimer(ctx context.Context, id string, expectedVersion time.Time) error
	Settle(ctx context.Context, id string, expectedVersion time.Time, settlement dto.Settlement) error
}

// LifecycleService owns the order status transition table: which moves are
// legal, when the next automatic transition fires, and how transitions are
// persisted under optimistic versioning.
type LifecycleService struct {
	orderRepo OrderRepository
	flow      config.FlowDurations
	logger    *zap.Logger
	clock     func() time.Time
}

func NewLifecycleService(orderRepo OrderRepository, flow config.FlowDurations, logger *zap.Logger) *LifecycleService {
	return &LifecycleService{
		orderRepo: orderRepo,
		flow:      flow,
		logger:    logger,
		clock:     time.Now,
	}
}

// now returns the clock truncated to microseconds, matching the DATETIME(6)
// precision of the version token column.
func (s *LifecycleService) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
}

// scheduleFor computes the next auto-transition deadline for an order
// sitting in status since from. Nil when the configured duration is zero:
// auto-progress pauses at this status and the order awaits manual action.
func (s *LifecycleService) scheduleFor(orderType, status string, from time.Time) *time.Time {
	if domain.IsTerminalStatus(status) {
		return nil
	}
	d := s.flow.DurationFor(orderType, status)
	if d <= 0 {
		return nil
	}
	deadline := from.Add(d)
	return &deadline
}

// AdvanceManually moves the order to target, which must be the immediate
// successor for the order's type or CANCELLED.
func (s *LifecycleService) AdvanceManually(ctx context.Context, orderID, target string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return s.applyTransition(ctx, order, target, false)
}

// Cancel is a manual transition to CANCELLED, legal from any non-terminal
// status.
func (s *LifecycleService) Cancel(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.AdvanceManually(ctx, orderID, domain.OrderStatusCancelled)
}

// AdvanceAutomatically is the scheduler's entry point. It re-reads the order
// to get a fresh version token, verifies it is still eligible, and advances
// it one step. The returned bool reports whether a transition was applied.
func (s *LifecycleService) AdvanceAutomatically(ctx context.Context, orderID string) (*domain.Order, bool, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	if !order.AutoProgress || order.IsTerminal() || order.NextAutoTransitionTime == nil {
		return order, false, nil
	}
	if order.NextAutoTransitionTime.After(s.now()) {
		// Another writer already advanced this order and armed a new timer;
		// advancing again now would skip a stage.
		return order, false, nil
	}

	successor := order.Successor()
	if successor == "" {
		// Last auto-advanceable stage for this order type; park the order
		// until a manual command or the account closing settles it.
		if err := s.orderRepo.ClearAutoTransitionTimer(ctx, order.ID, order.LastStatusChangeTime); err != nil {
			return nil, false, err
		}
		order.NextAutoTransitionTime = nil
		s.logger.Info("auto progression parked",
			zap.String("orderId", order.ID),
			zap.String("status", order.Status))
		return order, false, nil
	}

	updated, err := s.applyTransition(ctx, order, successor, true)
	if err != nil {
		return nil, false, err
	}
	return updated, true, nil
}

func (s *LifecycleService) applyTransition(ctx context.Context, order *domain.Order, target string, automatic bool) (*domain.Order, error) {
	if !order.CanTransitionTo(target) {
		return nil, errors.NewInvalidTransitionError(
			fmt.Sprintf("order %s cannot move from %s to %s", order.ID, order.Status, target))
	}

	changedAt := s.now()
	var next *time.Time
	if order.AutoProgress {
		next = s.scheduleFor(order.OrderType, target, changedAt)
	}

	change := dto.StatusChange{
		Status:                 target,
		ChangedAt:              changedAt,
		NextAutoTransitionTime: next,
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.LastStatusChangeTime, change); err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = target
	order.LastStatusChangeTime = changedAt
	order.NextAutoTransitionTime = next

	s.logger.Info("order status changed",
		zap.String("orderId", order.ID),
		zap.String("from", previous),
		zap.String("to", target),
		zap.Bool("automatic", automatic))

	return order, nil
}

// ToggleAutoProgress flips the auto-progress flag. Enabling recomputes the
// timer from the current status relative to now; disabling clears it.
func (s *LifecycleService) ToggleAutoProgress(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	enabled := !order.AutoProgress
	var next *time.Time
	if enabled && !order.IsTerminal() {
		next = s.scheduleFor(order.OrderType, order.Status, s.now())
	}

	if err := s.orderRepo.UpdateAutoProgress(ctx, order.ID, order.LastStatusChangeTime, enabled, next); err != nil {
		return nil, err
	}

	order.AutoProgress = enabled
	order.NextAutoTransitionTime = next

	s.logger.Info("order auto progress toggled",
		zap.String("orderId", order.ID),
		zap.Bool("autoProgress", enabled))

	return order, nil
}

// Settle moves an already-validated order to DELIVERED in one conditional
// write that also records the payment and the cash session attribution. The
// account closing coordinator performs all validation before calling this.
func (s *LifecycleService) Settle(ctx context.Context, order *domain.Order, paymentMethod string, amountPaid decimal.Decimal, sessionID *string) (*domain.Order, error) {
	if order.IsTerminal() {
		return nil, errors.NewInvalidTransitionError(
			fmt.Sprintf("order %s is already %s", order.ID, order.Status))
	}

	amountPaid = amountPaid.Round(2)
	changeDue := decimal.Zero
	if paymentMethod == domain.PaymentMethodCash {
		changeDue = amountPaid.Sub(order.TotalAmount).Round(2)
	}

	changedAt := s.now()
	settlement := dto.Settlement{
		StatusChange: dto.StatusChange{
			Status:    domain.OrderStatusDelivered,
			ChangedAt: changedAt,
		},
		PaymentMethod: paymentMethod,
		AmountPaid:    amountPaid,
		ChangeDue:     changeDue,
		SessionID:     sessionID,
	}

	if err := s.orderRepo.Settle(ctx, order.ID, order.LastStatusChangeTime, settlement); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusDelivered
	order.LastStatusChangeTime = changedAt
	order.NextAutoTransitionTime = nil
	order.PaymentMethod = &paymentMethod
	order.AmountPaid = &amountPaid
	order.ChangeDue = &changeDue
	order.CashRegisterSessionID = sessionID

	s.logger.Info("order settled",
		zap.String("orderId", order.ID),
		zap.String("paymentMethod", paymentMethod),
		zap.Bool("attributed", sessionID != nil))

	return order, nil
}

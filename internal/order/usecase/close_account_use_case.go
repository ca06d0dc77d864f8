package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/dto"
	"github.com/cactus377/japede-cardapio/internal/errors"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

type LifecycleService interface {
	Settle(ctx context.Context, order *domain.Order, paymentMethod string, amountPaid decimal.Decimal, sessionID *string) (*domain.Order, error)
}

type SessionLedger interface {
	Active(ctx context.Context) (*domain.CashRegisterSession, error)
}

type TableReleaser interface {
	ReleaseForCleaning(ctx context.Context, tableID string) (*domain.Table, error)
}

// CloseAccountUseCase settles a dine-in order as one logical unit: attribute
// the sale to the open cash session, move the order to DELIVERED, then
// release the table. The order becomes terminal before the table is
// released, and is attributed before it can be counted by a session close,
// so a close racing with this settlement either counts the order or leaves
// it visibly unattributed; the sale is never lost.
type CloseAccountUseCase struct {
	orderRepo OrderRepository
	lifecycle LifecycleService
	ledger    SessionLedger
	tables    TableReleaser
	logger    *zap.Logger
}

func NewCloseAccountUseCase(
	orderRepo OrderRepository,
	lifecycle LifecycleService,
	ledger SessionLedger,
	tables TableReleaser,
	logger *zap.Logger,
) *CloseAccountUseCase {
	return &CloseAccountUseCase{
		orderRepo: orderRepo,
		lifecycle: lifecycle,
		ledger:    ledger,
		tables:    tables,
		logger:    logger,
	}
}

// CloseTableAccount settles the order. amountPaid is required for cash-like
// methods and must cover the order total; for card-like methods a zero
// amountPaid defaults to the order total.
func (uc *CloseAccountUseCase) CloseTableAccount(ctx context.Context, orderID, paymentMethod string, amountPaid decimal.Decimal) (*dto.CloseAccountResult, error) {
	uc.logger.Info("closing table account",
		zap.String("orderId", orderID),
		zap.String("paymentMethod", paymentMethod))

	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.IsTerminal() {
		return nil, errors.NewConflictError(
			fmt.Sprintf("order %s is already %s", order.ID, order.Status))
	}
	if order.TableID == nil {
		return nil, errors.NewConflictError(
			fmt.Sprintf("order %s is not bound to a table", order.ID))
	}

	amountPaid = amountPaid.Round(2)
	if domain.IsCashLike(paymentMethod) {
		if amountPaid.LessThan(order.TotalAmount) {
			return nil, errors.NewInsufficientPaymentError(
				fmt.Sprintf("paid %s but order total is %s",
					amountPaid.StringFixed(2), order.TotalAmount.StringFixed(2)))
		}
	} else if amountPaid.IsZero() {
		amountPaid = order.TotalAmount
	}

	result := &dto.CloseAccountResult{}

	var sessionID *string
	session, err := uc.ledger.Active(ctx)
	switch {
	case err == nil:
		sessionID = &session.ID
	default:
		if _, ok := errors.IsNoActiveSessionError(err); !ok {
			return nil, err
		}
		// Not fatal: the order settles but the sale cannot be reconciled
		// against any drawer.
		result.Unattributed = true
		result.Warnings = append(result.Warnings, "no open cash session; sale is unattributed")
		uc.logger.Warn("settling without open cash session", zap.String("orderId", orderID))
	}

	tableID := *order.TableID
	settled, err := uc.lifecycle.Settle(ctx, order, paymentMethod, amountPaid, sessionID)
	if err != nil {
		return nil, err
	}
	result.Order = settled

	// The order is terminal now, so the release is expected to succeed; if
	// it does not, the settlement stands and the release can be retried
	// independently.
	table, err := uc.tables.ReleaseForCleaning(ctx, tableID)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("table %s could not be released: %v", tableID, err))
		uc.logger.Error("table release failed after settlement",
			zap.String("orderId", orderID),
			zap.String("tableId", tableID),
			zap.Error(err))
		return result, nil
	}
	result.Table = table

	uc.logger.Info("table account closed",
		zap.String("orderId", orderID),
		zap.String("tableId", tableID),
		zap.Bool("unattributed", result.Unattributed))

	return result, nil
}

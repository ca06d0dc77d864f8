package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/errors"
)

type TableRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Table, error)
	Occupy(ctx context.Context, id, orderID string) error
	ReleaseForCleaning(ctx context.Context, id string) error
	MarkClean(ctx context.Context, id string) error
	Reserve(ctx context.Context, id string, details domain.ReservationDetails) error
	CancelReservation(ctx context.Context, id string) error
}

type OrderFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

// TableService keeps table occupancy consistent with the orders bound to
// tables and governs the reservation and cleaning workflows.
type TableService struct {
	tableRepo TableRepository
	orders    OrderFinder
	logger    *zap.Logger
}

func NewTableService(tableRepo TableRepository, orders OrderFinder, logger *zap.Logger) *TableService {
	return &TableService{
		tableRepo: tableRepo,
		orders:    orders,
		logger:    logger,
	}
}

// BindOrderToTable occupies an available or reserved table with the order.
// Binding against a reservation consumes the reservation details.
func (s *TableService) BindOrderToTable(ctx context.Context, tableID, orderID string) (*domain.Table, error) {
	if err := s.tableRepo.Occupy(ctx, tableID, orderID); err != nil {
		return nil, err
	}

	s.logger.Info("order bound to table",
		zap.String("tableId", tableID),
		zap.String("orderId", orderID))

	return s.tableRepo.FindByID(ctx, tableID)
}

// ReleaseForCleaning frees an occupied table once its bound order reached a
// terminal status. A non-terminal bound order fails the command with no
// mutation.
func (s *TableService) ReleaseForCleaning(ctx context.Context, tableID string) (*domain.Table, error) {
	table, err := s.tableRepo.FindByID(ctx, tableID)
	if err != nil {
		return nil, err
	}

	if table.CurrentOrderID != nil {
		order, err := s.orders.FindByID(ctx, *table.CurrentOrderID)
		if err != nil {
			return nil, err
		}
		if !order.IsTerminal() {
			return nil, errors.NewOrderStillActiveError(
				fmt.Sprintf("table %s cannot be released: order %s is still %s",
					table.Name, order.ID, order.Status))
		}
	}

	if err := s.tableRepo.ReleaseForCleaning(ctx, tableID); err != nil {
		return nil, err
	}

	s.logger.Info("table released for cleaning", zap.String("tableId", tableID))

	return s.tableRepo.FindByID(ctx, tableID)
}

func (s *TableService) MarkClean(ctx context.Context, tableID string) (*domain.Table, error) {
	if err := s.tableRepo.MarkClean(ctx, tableID); err != nil {
		return nil, err
	}

	s.logger.Info("table marked clean", zap.String("tableId", tableID))

	return s.tableRepo.FindByID(ctx, tableID)
}

// Reserve is informational: it blocks the table but binds no order.
func (s *TableService) Reserve(ctx context.Context, tableID string, details domain.ReservationDetails) (*domain.Table, error) {
	if err := s.tableRepo.Reserve(ctx, tableID, details); err != nil {
		return nil, err
	}

	s.logger.Info("table reserved",
		zap.String("tableId", tableID),
		zap.String("customerName", details.CustomerName))

	return s.tableRepo.FindByID(ctx, tableID)
}

func (s *TableService) CancelReservation(ctx context.Context, tableID string) (*domain.Table, error) {
	if err := s.tableRepo.CancelReservation(ctx, tableID); err != nil {
		return nil, err
	}

	s.logger.Info("table reservation cancelled", zap.String("tableId", tableID))

	return s.tableRepo.FindByID(ctx, tableID)
}

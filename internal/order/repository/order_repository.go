package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/dto"
	"github.com/cactus377/japede-cardapio/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `id, customer_name, notes, status, order_type, total_amount,
	       auto_progress, next_auto_transition_time, last_status_change_time,
	       order_time, table_id, cash_register_session_id,
	       payment_method, amount_paid, change_due, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.CustomerName, &order.Notes, &order.Status, &order.OrderType,
		&order.TotalAmount, &order.AutoProgress, &order.NextAutoTransitionTime,
		&order.LastStatusChangeTime, &order.OrderTime, &order.TableID,
		&order.CashRegisterSessionID, &order.PaymentMethod, &order.AmountPaid,
		&order.ChangeDue, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// ListDueForAutoTransition returns orders the scheduler may advance: auto
// progress enabled, non-terminal, and timer elapsed.
func (r *MySQLOrderRepository) ListDueForAutoTransition(ctx context.Context, now time.Time) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE auto_progress = 1
		  AND status NOT IN (?, ?)
		  AND next_auto_transition_time IS NOT NULL
		  AND next_auto_transition_time <= ?
		ORDER BY next_auto_transition_time ASC`

	rows, err := r.db.QueryContext(ctx, query,
		domain.OrderStatusDelivered, domain.OrderStatusCancelled, now)
	if err != nil {
		return nil, fmt.Errorf("listing due orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning due order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating due orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus applies a status transition conditionally on the version
// token read by the caller. A concurrent writer that changed the order first
// makes this a StaleVersionError; the caller decides whether to surface or
// swallow it.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id string, expectedVersion time.Time, change dto.StatusChange) error {
	query := `UPDATE orders
		SET status = ?, last_status_change_time = ?, next_auto_transition_time = ?
		WHERE id = ? AND last_status_change_time = ?`

	result, err := r.db.ExecContext(ctx, query,
		change.Status, change.ChangedAt, change.NextAutoTransitionTime,
		id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	return r.checkConditionalWrite(ctx, id, result)
}

// UpdateAutoProgress flips the auto-progress flag and replaces the timer,
// guarded by the same version token as status transitions.
func (r *MySQLOrderRepository) UpdateAutoProgress(ctx context.Context, id string, expectedVersion time.Time, autoProgress bool, nextAutoTransitionTime *time.Time) error {
	query := `UPDATE orders
		SET auto_progress = ?, next_auto_transition_time = ?
		WHERE id = ? AND last_status_change_time = ?`

	result, err := r.db.ExecContext(ctx, query,
		autoProgress, nextAutoTransitionTime, id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating order auto progress: %w", err)
	}

	return r.checkConditionalWrite(ctx, id, result)
}

// ClearAutoTransitionTimer parks an order that reached the last
// auto-advanceable stage of its type: the timer is cleared without touching
// status or the auto-progress flag.
func (r *MySQLOrderRepository) ClearAutoTransitionTimer(ctx context.Context, id string, expectedVersion time.Time) error {
	query := `UPDATE orders
		SET next_auto_transition_time = NULL
		WHERE id = ? AND last_status_change_time = ?`

	result, err := r.db.ExecContext(ctx, query, id, expectedVersion)
	if err != nil {
		return fmt.Errorf("clearing order auto transition timer: %w", err)
	}

	return r.checkConditionalWrite(ctx, id, result)
}

// Settle records the terminal transition, the payment fields and the cash
// session attribution of a closed table account in a single conditional
// write.
func (r *MySQLOrderRepository) Settle(ctx context.Context, id string, expectedVersion time.Time, settlement dto.Settlement) error {
	query := `UPDATE orders
		SET status = ?, last_status_change_time = ?, next_auto_transition_time = NULL,
		    payment_method = ?, amount_paid = ?, change_due = ?, cash_register_session_id = ?
		WHERE id = ? AND last_status_change_time = ?`

	result, err := r.db.ExecContext(ctx, query,
		settlement.Status, settlement.ChangedAt,
		settlement.PaymentMethod, settlement.AmountPaid, settlement.ChangeDue,
		settlement.SessionID, id, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("settling order: %w", err)
	}

	return r.checkConditionalWrite(ctx, id, result)
}

func (r *MySQLOrderRepository) checkConditionalWrite(ctx context.Context, id string, result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking order existence: %w", err)
	}
	if !exists {
		return errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}

	return errors.NewStaleVersionError(fmt.Sprintf("order %s changed concurrently", id))
}

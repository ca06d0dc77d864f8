package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/errors"
)

type MySQLTableRepository struct {
	db *sql.DB
}

func NewMySQLTableRepository(db *sql.DB) *MySQLTableRepository {
	return &MySQLTableRepository{db: db}
}

func (r *MySQLTableRepository) FindByID(ctx context.Context, id string) (*domain.Table, error) {
	query := `SELECT id, name, capacity, status, current_order_id, reservation_details,
		       created_at, updated_at
		FROM tables
		WHERE id = ?`

	var table domain.Table
	var details []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&table.ID, &table.Name, &table.Capacity, &table.Status,
		&table.CurrentOrderID, &details, &table.CreatedAt, &table.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("table %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying table by id: %w", err)
	}

	if len(details) > 0 {
		var rd domain.ReservationDetails
		if err := json.Unmarshal(details, &rd); err != nil {
			return nil, fmt.Errorf("decoding reservation details: %w", err)
		}
		table.ReservationDetails = &rd
	}

	return &table, nil
}

// Occupy binds an order to the table, guarded on the table still being
// available or reserved. Reservation details are cleared: starting the order
// consumes the reservation.
func (r *MySQLTableRepository) Occupy(ctx context.Context, id, orderID string) error {
	query := `UPDATE tables
		SET status = ?, current_order_id = ?, reservation_details = NULL
		WHERE id = ? AND status IN (?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		domain.TableStatusOccupied, orderID, id,
		domain.TableStatusAvailable, domain.TableStatusReserved,
	)
	if err != nil {
		return fmt.Errorf("occupying table: %w", err)
	}

	return r.checkGuardedWrite(ctx, id, result, "table is not available for binding")
}

// ReleaseForCleaning moves an occupied table to NEEDS_CLEANING and unbinds
// its order. The caller verifies the bound order is terminal first.
func (r *MySQLTableRepository) ReleaseForCleaning(ctx context.Context, id string) error {
	query := `UPDATE tables
		SET status = ?, current_order_id = NULL
		WHERE id = ? AND status = ?`

	result, err := r.db.ExecContext(ctx, query,
		domain.TableStatusNeedsCleaning, id, domain.TableStatusOccupied,
	)
	if err != nil {
		return fmt.Errorf("releasing table for cleaning: %w", err)
	}

	return r.checkGuardedWrite(ctx, id, result, "table is not occupied")
}

func (r *MySQLTableRepository) MarkClean(ctx context.Context, id string) error {
	query := `UPDATE tables
		SET status = ?
		WHERE id = ? AND status = ?`

	result, err := r.db.ExecContext(ctx, query,
		domain.TableStatusAvailable, id, domain.TableStatusNeedsCleaning,
	)
	if err != nil {
		return fmt.Errorf("marking table clean: %w", err)
	}

	return r.checkGuardedWrite(ctx, id, result, "table is not awaiting cleaning")
}

func (r *MySQLTableRepository) Reserve(ctx context.Context, id string, details domain.ReservationDetails) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encoding reservation details: %w", err)
	}

	query := `UPDATE tables
		SET status = ?, reservation_details = ?
		WHERE id = ? AND status = ?`

	result, err := r.db.ExecContext(ctx, query,
		domain.TableStatusReserved, payload, id, domain.TableStatusAvailable,
	)
	if err != nil {
		return fmt.Errorf("reserving table: %w", err)
	}

	return r.checkGuardedWrite(ctx, id, result, "table is not available for reservation")
}

func (r *MySQLTableRepository) CancelReservation(ctx context.Context, id string) error {
	query := `UPDATE tables
		SET status = ?, reservation_details = NULL
		WHERE id = ? AND status = ?`

	result, err := r.db.ExecContext(ctx, query,
		domain.TableStatusAvailable, id, domain.TableStatusReserved,
	)
	if err != nil {
		return fmt.Errorf("cancelling table reservation: %w", err)
	}

	return r.checkGuardedWrite(ctx, id, result, "table is not reserved")
}

func (r *MySQLTableRepository) checkGuardedWrite(ctx context.Context, id string, result sql.Result, conflictMessage string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tables WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking table existence: %w", err)
	}
	if !exists {
		return errors.NewNotFoundError(fmt.Sprintf("table %s not found", id))
	}

	return errors.NewConflictError(conflictMessage)
}

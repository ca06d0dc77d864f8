package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cactus377/japede-cardapio/internal/domain"
)

type MySQLAdjustmentRepository struct {
	db *sql.DB
}

func NewMySQLAdjustmentRepository(db *sql.DB) *MySQLAdjustmentRepository {
	return &MySQLAdjustmentRepository{db: db}
}

// Insert appends an adjustment. Adjustments are immutable; there is no
// update or delete.
func (r *MySQLAdjustmentRepository) Insert(ctx context.Context, adj domain.CashAdjustment) error {
	query := `INSERT INTO cash_adjustments (id, session_id, type, amount, reason, adjusted_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		adj.ID, adj.SessionID, adj.Type, adj.Amount, adj.Reason, adj.AdjustedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting cash adjustment: %w", err)
	}

	return nil
}

func (r *MySQLAdjustmentRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.CashAdjustment, error) {
	query := `SELECT id, session_id, type, amount, reason, adjusted_at, created_at
		FROM cash_adjustments
		WHERE session_id = ?
		ORDER BY adjusted_at ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing cash adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []domain.CashAdjustment
	for rows.Next() {
		var adj domain.CashAdjustment
		err := rows.Scan(&adj.ID, &adj.SessionID, &adj.Type, &adj.Amount,
			&adj.Reason, &adj.AdjustedAt, &adj.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning cash adjustment: %w", err)
		}
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cash adjustments: %w", err)
	}

	return adjustments, nil
}

// SumBySession totals the session's manual adds and removes in one pass.
func (r *MySQLAdjustmentRepository) SumBySession(ctx context.Context, tx *sql.Tx, sessionID string) (adds, removes decimal.Decimal, err error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0)
		FROM cash_adjustments
		WHERE session_id = ?`

	err = tx.QueryRowContext(ctx, query,
		domain.CashAdjustmentAdd, domain.CashAdjustmentRemove, sessionID,
	).Scan(&adds, &removes)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("summing cash adjustments: %w", err)
	}

	return adds.Round(2), removes.Round(2), nil
}

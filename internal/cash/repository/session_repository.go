package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/dto"
	"github.com/cactus377/japede-cardapio/internal/errors"
)

type MySQLSessionRepository struct {
	db *sql.DB
}

func NewMySQLSessionRepository(db *sql.DB) *MySQLSessionRepository {
	return &MySQLSessionRepository{db: db}
}

const sessionColumns = `id, status, opened_at, closed_at, opening_balance,
	       calculated_sales, expected_in_cash, closing_balance_informed, difference,
	       notes_opening, notes_closing, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (*domain.CashRegisterSession, error) {
	var session domain.CashRegisterSession
	err := row.Scan(
		&session.ID, &session.Status, &session.OpenedAt, &session.ClosedAt,
		&session.OpeningBalance, &session.CalculatedSales, &session.ExpectedInCash,
		&session.ClosingBalanceInformed, &session.Difference,
		&session.NotesOpening, &session.NotesClosing,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *MySQLSessionRepository) FindByID(ctx context.Context, id string) (*domain.CashRegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_register_sessions WHERE id = ?`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("cash session %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying cash session by id: %w", err)
	}

	return session, nil
}

// FindByIDForUpdate locks the session row for the duration of the close
// transaction.
func (r *MySQLSessionRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.CashRegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_register_sessions WHERE id = ? FOR UPDATE`

	session, err := scanSession(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("cash session %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying cash session for update: %w", err)
	}

	return session, nil
}

func (r *MySQLSessionRepository) FindOpen(ctx context.Context) (*domain.CashRegisterSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cash_register_sessions WHERE status = ? LIMIT 1`

	session, err := scanSession(r.db.QueryRowContext(ctx, query, domain.CashSessionStatusOpen))
	if err == sql.ErrNoRows {
		return nil, errors.NewNoActiveSessionError("no cash session is open")
	}
	if err != nil {
		return nil, fmt.Errorf("querying open cash session: %w", err)
	}

	return session, nil
}

// OpenIfNoneOpen inserts the session only when no OPEN session exists, as a
// single conditional statement so two concurrent opens cannot both succeed.
func (r *MySQLSessionRepository) OpenIfNoneOpen(ctx context.Context, session domain.CashRegisterSession) error {
	query := `INSERT INTO cash_register_sessions
		(id, status, opened_at, opening_balance, notes_opening)
		SELECT ?, ?, ?, ?, ?
		FROM DUAL
		WHERE NOT EXISTS (SELECT 1 FROM cash_register_sessions WHERE status = ?)`

	result, err := r.db.ExecContext(ctx, query,
		session.ID, session.Status, session.OpenedAt,
		session.OpeningBalance, session.NotesOpening,
		domain.CashSessionStatusOpen,
	)
	if err != nil {
		return fmt.Errorf("opening cash session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewSessionAlreadyOpenError("a cash session is already open")
	}

	return nil
}

// Close moves the session to CLOSED with its reconciliation figures, guarded
// on the session still being OPEN.
func (r *MySQLSessionRepository) Close(ctx context.Context, tx *sql.Tx, id string, close dto.SessionClose) error {
	query := `UPDATE cash_register_sessions
		SET status = ?, closed_at = ?, calculated_sales = ?, expected_in_cash = ?,
		    closing_balance_informed = ?, difference = ?, notes_closing = ?
		WHERE id = ? AND status = ?`

	result, err := tx.ExecContext(ctx, query,
		domain.CashSessionStatusClosed, close.ClosedAt,
		close.CalculatedSales, close.ExpectedInCash,
		close.ClosingBalanceInformed, close.Difference, close.NotesClosing,
		id, domain.CashSessionStatusOpen,
	)
	if err != nil {
		return fmt.Errorf("closing cash session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewConflictError(fmt.Sprintf("cash session %s is not open", id))
	}

	return nil
}

// SumAttributedSales totals the drawer-feeding sales of the session: orders
// attributed to it, settled in cash or instant transfer, and delivered.
func (r *MySQLSessionRepository) SumAttributedSales(ctx context.Context, tx *sql.Tx, sessionID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE cash_register_session_id = ?
		  AND status = ?
		  AND payment_method IN (?, ?)`

	var total decimal.Decimal
	err := tx.QueryRowContext(ctx, query,
		sessionID, domain.OrderStatusDelivered,
		domain.PaymentMethodCash, domain.PaymentMethodPix,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing attributed sales: %w", err)
	}

	return total.Round(2), nil
}

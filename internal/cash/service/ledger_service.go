package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/dto"
	"github.com/cactus377/japede-cardapio/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type SessionRepository interface {
	FindByID(ctx context.Context, id string) (*domain.CashRegisterSession, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.CashRegisterSession, error)
	FindOpen(ctx context.Context) (*domain.CashRegisterSession, error)
	OpenIfNoneOpen(ctx context.Context, session domain.CashRegisterSession) error
	Close(ctx context.Context, tx *sql.Tx, id string, close dto.SessionClose) error
	SumAttributedSales(ctx context.Context, tx *sql.Tx, sessionID string) (decimal.Decimal, error)
}

type AdjustmentRepository interface {
	Insert(ctx context.Context, adj domain.CashAdjustment) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.CashAdjustment, error)
	SumBySession(ctx context.Context, tx *sql.Tx, sessionID string) (adds, removes decimal.Decimal, err error)
}

// LedgerService manages the cash drawer sessions: the single-open-session
// invariant, manual adjustments, and the close-out reconciliation.
type LedgerService struct {
	db             TransactionManager
	sessionRepo    SessionRepository
	adjustmentRepo AdjustmentRepository
	logger         *zap.Logger
	closeTimeout   time.Duration
	clock          func() time.Time
}

func NewLedgerService(
	db TransactionManager,
	sessionRepo SessionRepository,
	adjustmentRepo AdjustmentRepository,
	logger *zap.Logger,
	closeTimeout time.Duration,
) *LedgerService {
	return &LedgerService{
		db:             db,
		sessionRepo:    sessionRepo,
		adjustmentRepo: adjustmentRepo,
		logger:         logger,
		closeTimeout:   closeTimeout,
		clock:          time.Now,
	}
}

func (s *LedgerService) now() time.Time {
	return s.clock().UTC().Truncate(time.Microsecond)
}

// Open starts a new session. The store-level conditional insert enforces at
// most one open session even under concurrent opens.
func (s *LedgerService) Open(ctx context.Context, openingBalance decimal.Decimal, notes *string) (*domain.CashRegisterSession, error) {
	if openingBalance.IsNegative() {
		return nil, errors.NewValidationError("opening balance must not be negative",
			errors.ValidationDetail{Field: "openingBalance", Message: "must be zero or greater"})
	}

	session := domain.CashRegisterSession{
		ID:             uuid.New().String(),
		Status:         domain.CashSessionStatusOpen,
		OpenedAt:       s.now(),
		OpeningBalance: openingBalance.Round(2),
		NotesOpening:   notes,
	}

	if err := s.sessionRepo.OpenIfNoneOpen(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("cash session opened",
		zap.String("sessionId", session.ID),
		zap.String("openingBalance", session.OpeningBalance.StringFixed(2)))

	return &session, nil
}

// Active returns the currently open session.
func (s *LedgerService) Active(ctx context.Context) (*domain.CashRegisterSession, error) {
	return s.sessionRepo.FindOpen(ctx)
}

// AddAdjustment appends an immutable add/remove record against an open
// session.
func (s *LedgerService) AddAdjustment(ctx context.Context, sessionID, adjType string, amount decimal.Decimal, reason string) (*domain.CashAdjustment, error) {
	var details []errors.ValidationDetail
	if adjType != domain.CashAdjustmentAdd && adjType != domain.CashAdjustmentRemove {
		details = append(details, errors.ValidationDetail{
			Field: "type", Message: "type must be ADD or REMOVE",
		})
	}
	if !amount.IsPositive() {
		details = append(details, errors.ValidationDetail{
			Field: "amount", Message: "amount must be greater than zero",
		})
	}
	if reason == "" {
		details = append(details, errors.ValidationDetail{
			Field: "reason", Message: "reason is required",
		})
	}
	if len(details) > 0 {
		return nil, errors.NewValidationError("invalid cash adjustment", details...)
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.CashSessionStatusOpen {
		return nil, errors.NewConflictError(fmt.Sprintf("cash session %s is not open", sessionID))
	}

	adj := domain.CashAdjustment{
		ID:         uuid.New().String(),
		SessionID:  sessionID,
		Type:       adjType,
		Amount:     amount.Round(2),
		Reason:     reason,
		AdjustedAt: s.now(),
	}

	if err := s.adjustmentRepo.Insert(ctx, adj); err != nil {
		return nil, err
	}

	s.logger.Info("cash adjustment recorded",
		zap.String("sessionId", sessionID),
		zap.String("type", adjType),
		zap.String("amount", adj.Amount.StringFixed(2)))

	return &adj, nil
}

// Adjustments lists the session's adjustment entries in insertion order.
func (s *LedgerService) Adjustments(ctx context.Context, sessionID string) ([]domain.CashAdjustment, error) {
	if _, err := s.sessionRepo.FindByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.adjustmentRepo.ListBySession(ctx, sessionID)
}

// Close reconciles and closes the session inside one transaction: sales are
// summed from delivered cash-like orders attributed to the session, manual
// adjustments are applied, and the OPEN -> CLOSED move is guarded so the
// session closes exactly once.
func (s *LedgerService) Close(ctx context.Context, sessionID string, closingBalanceInformed decimal.Decimal, notes *string) (*domain.CashRegisterSession, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.closeTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin close transaction", zap.Error(err))
		return nil, err
	}
	// Rollback is a no-op once the transaction committed.
	defer tx.Rollback()

	session, err := s.sessionRepo.FindByIDForUpdate(txCtx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.CashSessionStatusOpen {
		return nil, errors.NewConflictError(fmt.Sprintf("cash session %s is already closed", sessionID))
	}

	sales, err := s.sessionRepo.SumAttributedSales(txCtx, tx, sessionID)
	if err != nil {
		return nil, err
	}

	adds, removes, err := s.adjustmentRepo.SumBySession(txCtx, tx, sessionID)
	if err != nil {
		return nil, err
	}

	expected := domain.ExpectedInCash(session.OpeningBalance, sales, adds, removes)
	closingBalanceInformed = closingBalanceInformed.Round(2)
	difference := closingBalanceInformed.Sub(expected).Round(2)
	closedAt := s.now()

	close := dto.SessionClose{
		ClosedAt:               closedAt,
		CalculatedSales:        sales,
		ExpectedInCash:         expected,
		ClosingBalanceInformed: closingBalanceInformed,
		Difference:             difference,
		NotesClosing:           notes,
	}

	if err := s.sessionRepo.Close(txCtx, tx, sessionID, close); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit close transaction",
			zap.String("sessionId", sessionID), zap.Error(err))
		return nil, err
	}

	session.Status = domain.CashSessionStatusClosed
	session.ClosedAt = &closedAt
	session.CalculatedSales = &sales
	session.ExpectedInCash = &expected
	session.ClosingBalanceInformed = &closingBalanceInformed
	session.Difference = &difference
	session.NotesClosing = notes

	s.logger.Info("cash session closed",
		zap.String("sessionId", sessionID),
		zap.String("calculatedSales", sales.StringFixed(2)),
		zap.String("expectedInCash", expected.StringFixed(2)),
		zap.String("difference", difference.StringFixed(2)))

	return session, nil
}

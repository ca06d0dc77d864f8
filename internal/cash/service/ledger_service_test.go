package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/dto"
	"github.com/cactus377/japede-cardapio/internal/errors"
)

type mockSessionRepository struct {
	FindByIDFunc           func(ctx context.Context, id string) (*domain.CashRegisterSession, error)
	FindByIDForUpdateFunc  func(ctx context.Context, tx *sql.Tx, id string) (*domain.CashRegisterSession, error)
	FindOpenFunc           func(ctx context.Context) (*domain.CashRegisterSession, error)
	OpenIfNoneOpenFunc     func(ctx context.Context, session domain.CashRegisterSession) error
	CloseFunc              func(ctx context.Context, tx *sql.Tx, id string, close dto.SessionClose) error
	SumAttributedSalesFunc func(ctx context.Context, tx *sql.Tx, sessionID string) (decimal.Decimal, error)
}

func (m *mockSessionRepository) FindByID(ctx context.Context, id string) (*domain.CashRegisterSession, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockSessionRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.CashRegisterSession, error) {
	return m.FindByIDForUpdateFunc(ctx, tx, id)
}

func (m *mockSessionRepository) FindOpen(ctx context.Context) (*domain.CashRegisterSession, error) {
	return m.FindOpenFunc(ctx)
}

func (m *mockSessionRepository) OpenIfNoneOpen(ctx context.Context, session domain.CashRegisterSession) error {
	return m.OpenIfNoneOpenFunc(ctx, session)
}

func (m *mockSessionRepository) Close(ctx context.Context, tx *sql.Tx, id string, close dto.SessionClose) error {
	return m.CloseFunc(ctx, tx, id, close)
}

func (m *mockSessionRepository) SumAttributedSales(ctx context.Context, tx *sql.Tx, sessionID string) (decimal.Decimal, error) {
	return m.SumAttributedSalesFunc(ctx, tx, sessionID)
}

type mockAdjustmentRepository struct {
	InsertFunc        func(ctx context.Context, adj domain.CashAdjustment) error
	ListBySessionFunc func(ctx context.Context, sessionID string) ([]domain.CashAdjustment, error)
	SumBySessionFunc  func(ctx context.Context, tx *sql.Tx, sessionID string) (decimal.Decimal, decimal.Decimal, error)
}

func (m *mockAdjustmentRepository) Insert(ctx context.Context, adj domain.CashAdjustment) error {
	return m.InsertFunc(ctx, adj)
}

func (m *mockAdjustmentRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.CashAdjustment, error) {
	return m.ListBySessionFunc(ctx, sessionID)
}

func (m *mockAdjustmentRepository) SumBySession(ctx context.Context, tx *sql.Tx, sessionID string) (decimal.Decimal, decimal.Decimal, error) {
	return m.SumBySessionFunc(ctx, tx, sessionID)
}

type mockTransactionManager struct {
	BeginTxFunc func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

func (m *mockTransactionManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return m.BeginTxFunc(ctx, opts)
}

func newLedgerFixture(sessions *mockSessionRepository, adjustments *mockAdjustmentRepository) *LedgerService {
	return NewLedgerService(&mockTransactionManager{}, sessions, adjustments, zap.NewNop(), 0)
}

func TestLedgerService_Open(t *testing.T) {
	var captured domain.CashRegisterSession
	sessions := &mockSessionRepository{
		OpenIfNoneOpenFunc: func(ctx context.Context, session domain.CashRegisterSession) error {
			captured = session
			return nil
		},
	}

	svc := newLedgerFixture(sessions, &mockAdjustmentRepository{})

	opened, err := svc.Open(context.Background(), decimal.NewFromFloat(100.00), nil)

	require.NoError(t, err)
	assert.NotEmpty(t, opened.ID)
	assert.Equal(t, domain.CashSessionStatusOpen, opened.Status)
	assert.True(t, captured.OpeningBalance.Equal(decimal.NewFromFloat(100.00)))
	assert.False(t, opened.OpenedAt.IsZero())
}

func TestLedgerService_Open_NegativeBalance(t *testing.T) {
	sessions := &mockSessionRepository{
		OpenIfNoneOpenFunc: func(ctx context.Context, session domain.CashRegisterSession) error {
			t.Fatal("no insert expected for an invalid opening balance")
			return nil
		},
	}

	svc := newLedgerFixture(sessions, &mockAdjustmentRepository{})

	_, err := svc.Open(context.Background(), decimal.NewFromFloat(-1.00), nil)

	require.Error(t, err)
	ve, ok := errors.IsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "openingBalance", ve.Details[0].Field)
}

func TestLedgerService_Open_AlreadyOpen(t *testing.T) {
	sessions := &mockSessionRepository{
		OpenIfNoneOpenFunc: func(ctx context.Context, session domain.CashRegisterSession) error {
			return errors.NewSessionAlreadyOpenError("a cash session is already open")
		},
	}

	svc := newLedgerFixture(sessions, &mockAdjustmentRepository{})

	_, err := svc.Open(context.Background(), decimal.NewFromFloat(50.00), nil)

	require.Error(t, err)
	_, ok := errors.IsSessionAlreadyOpenError(err)
	assert.True(t, ok)
}

func TestLedgerService_Active_NoOpenSession(t *testing.T) {
	sessions := &mockSessionRepository{
		FindOpenFunc: func(ctx context.Context) (*domain.CashRegisterSession, error) {
			return nil, errors.NewNoActiveSessionError("no open cash session")
		},
	}

	svc := newLedgerFixture(sessions, &mockAdjustmentRepository{})

	_, err := svc.Active(context.Background())

	require.Error(t, err)
	_, ok := errors.IsNoActiveSessionError(err)
	assert.True(t, ok)
}

func TestLedgerService_AddAdjustment(t *testing.T) {
	sessions := &mockSessionRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.CashRegisterSession, error) {
			return &domain.CashRegisterSession{ID: id, Status: domain.CashSessionStatusOpen}, nil
		},
	}
	var captured domain.CashAdjustment
	adjustments := &mockAdjustmentRepository{
		InsertFunc: func(ctx context.Context, adj domain.CashAdjustment) error {
			captured = adj
			return nil
		},
	}

	svc := newLedgerFixture(sessions, adjustments)

	adj, err := svc.AddAdjustment(context.Background(), "session-1", domain.CashAdjustmentAdd, decimal.NewFromFloat(20.00), "change fund top-up")

	require.NoError(t, err)
	assert.Equal(t, domain.CashAdjustmentAdd, captured.Type)
	assert.True(t, captured.Amount.Equal(decimal.NewFromFloat(20.00)))
	assert.Equal(t, "session-1", adj.SessionID)
	assert.False(t, adj.AdjustedAt.IsZero())
}

func TestLedgerService_AddAdjustment_Validation(t *testing.T) {
	adjustments := &mockAdjustmentRepository{
		InsertFunc: func(ctx context.Context, adj domain.CashAdjustment) error {
			t.Fatal("no insert expected for an invalid adjustment")
			return nil
		},
	}

	svc := newLedgerFixture(&mockSessionRepository{}, adjustments)

	_, err := svc.AddAdjustment(context.Background(), "session-1", "TRANSFER", decimal.Zero, "")

	require.Error(t, err)
	ve, ok := errors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 3, "type, amount and reason are all invalid")
}

func TestLedgerService_Adjustments(t *testing.T) {
	sessions := &mockSessionRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.CashRegisterSession, error) {
			return &domain.CashRegisterSession{ID: id, Status: domain.CashSessionStatusOpen}, nil
		},
	}
	adjustments := &mockAdjustmentRepository{
		ListBySessionFunc: func(ctx context.Context, sessionID string) ([]domain.CashAdjustment, error) {
			return []domain.CashAdjustment{
				{ID: "adj-1", SessionID: sessionID, Type: domain.CashAdjustmentAdd},
				{ID: "adj-2", SessionID: sessionID, Type: domain.CashAdjustmentRemove},
			}, nil
		},
	}

	svc := newLedgerFixture(sessions, adjustments)

	listed, err := svc.Adjustments(context.Background(), "session-1")

	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "adj-1", listed[0].ID)
}

func TestLedgerService_Adjustments_UnknownSession(t *testing.T) {
	sessions := &mockSessionRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.CashRegisterSession, error) {
			return nil, errors.NewNotFoundError("cash session not found")
		},
	}
	adjustments := &mockAdjustmentRepository{
		ListBySessionFunc: func(ctx context.Context, sessionID string) ([]domain.CashAdjustment, error) {
			t.Fatal("no listing expected for an unknown session")
			return nil, nil
		},
	}

	svc := newLedgerFixture(sessions, adjustments)

	_, err := svc.Adjustments(context.Background(), "session-1")

	require.Error(t, err)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestLedgerService_AddAdjustment_ClosedSession(t *testing.T) {
	sessions := &mockSessionRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.CashRegisterSession, error) {
			return &domain.CashRegisterSession{ID: id, Status: domain.CashSessionStatusClosed}, nil
		},
	}
	adjustments := &mockAdjustmentRepository{
		InsertFunc: func(ctx context.Context, adj domain.CashAdjustment) error {
			t.Fatal("no insert expected against a closed session")
			return nil
		},
	}

	svc := newLedgerFixture(sessions, adjustments)

	_, err := svc.AddAdjustment(context.Background(), "session-1", domain.CashAdjustmentRemove, decimal.NewFromFloat(5.00), "supplier payment")

	require.Error(t, err)
	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

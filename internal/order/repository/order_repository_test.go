package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/dto"
	"github.com/cactus377/japede-cardapio/internal/errors"
	"github.com/cactus377/japede-cardapio/internal/testutil"
)

func TestNewMySQLOrderRepository(t *testing.T) {
	repo := NewMySQLOrderRepository(nil)
	assert.NotNil(t, repo)
}

func insertOrder(t *testing.T, db *sql.DB, order domain.Order) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO orders
		(id, customer_name, notes, status, order_type, total_amount, auto_progress,
		 next_auto_transition_time, last_status_change_time, order_time, table_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.CustomerName, order.Notes, order.Status, order.OrderType,
		order.TotalAmount, order.AutoProgress, order.NextAutoTransitionTime,
		order.LastStatusChangeTime, order.OrderTime, order.TableID,
	)
	require.NoError(t, err)
}

func sampleOrder(status string, timer *time.Time) domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Order{
		ID:                     uuid.New().String(),
		CustomerName:           "Helena",
		Status:                 status,
		OrderType:              domain.OrderTypeDelivery,
		TotalAmount:            decimal.NewFromFloat(25.00),
		AutoProgress:           true,
		NextAutoTransitionTime: timer,
		LastStatusChangeTime:   now,
		OrderTime:              now,
	}
}

func TestMySQLOrderRepository_Integration_FindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	order := sampleOrder(domain.OrderStatusPending, nil)
	insertOrder(t, db, order)

	found, err := repo.FindByID(ctx, order.ID)

	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, domain.OrderStatusPending, found.Status)
	assert.True(t, found.TotalAmount.Equal(order.TotalAmount))
	assert.True(t, found.LastStatusChangeTime.Equal(order.LastStatusChangeTime),
		"DATETIME(6) must round-trip the version token exactly")
}

func TestMySQLOrderRepository_Integration_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New().String())

	require.Error(t, err)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestMySQLOrderRepository_Integration_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	order := sampleOrder(domain.OrderStatusPending, nil)
	insertOrder(t, db, order)

	changedAt := order.LastStatusChangeTime.Add(time.Minute)
	next := changedAt.Add(15 * time.Minute)
	err := repo.UpdateStatus(ctx, order.ID, order.LastStatusChangeTime, dto.StatusChange{
		Status:                 domain.OrderStatusPreparing,
		ChangedAt:              changedAt,
		NextAutoTransitionTime: &next,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPreparing, found.Status)
	assert.True(t, found.LastStatusChangeTime.Equal(changedAt))
	require.NotNil(t, found.NextAutoTransitionTime)
	assert.True(t, found.NextAutoTransitionTime.Equal(next))
}

func TestMySQLOrderRepository_Integration_UpdateStatus_StaleVersion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	order := sampleOrder(domain.OrderStatusPending, nil)
	insertOrder(t, db, order)

	staleVersion := order.LastStatusChangeTime.Add(-time.Second)
	err := repo.UpdateStatus(ctx, order.ID, staleVersion, dto.StatusChange{
		Status:    domain.OrderStatusPreparing,
		ChangedAt: time.Now().UTC().Truncate(time.Microsecond),
	})

	require.Error(t, err)
	_, ok := errors.IsStaleVersionError(err)
	assert.True(t, ok)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, found.Status, "losing write must not land")
}

func TestMySQLOrderRepository_Integration_UpdateStatus_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)

	err := repo.UpdateStatus(context.Background(), uuid.New().String(),
		time.Now().UTC().Truncate(time.Microsecond), dto.StatusChange{
			Status:    domain.OrderStatusPreparing,
			ChangedAt: time.Now().UTC().Truncate(time.Microsecond),
		})

	require.Error(t, err)
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok, "missing row is NotFound, not a stale version")
}

func TestMySQLOrderRepository_Integration_ListDueForAutoTransition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	due := sampleOrder(domain.OrderStatusPending, &past)
	notYet := sampleOrder(domain.OrderStatusPending, &future)
	parked := sampleOrder(domain.OrderStatusReadyForPickup, nil)
	paused := sampleOrder(domain.OrderStatusPending, &past)
	paused.AutoProgress = false
	terminal := sampleOrder(domain.OrderStatusCancelled, &past)

	for _, o := range []domain.Order{due, notYet, parked, paused, terminal} {
		insertOrder(t, db, o)
	}

	listed, err := repo.ListDueForAutoTransition(ctx, now)

	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, due.ID, listed[0].ID)
}

func TestMySQLOrderRepository_Integration_ClearAutoTransitionTimer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	timer := time.Now().UTC().Truncate(time.Microsecond)
	order := sampleOrder(domain.OrderStatusReadyForPickup, &timer)
	order.OrderType = domain.OrderTypeDineIn
	insertOrder(t, db, order)

	err := repo.ClearAutoTransitionTimer(ctx, order.ID, order.LastStatusChangeTime)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, found.NextAutoTransitionTime)
	assert.Equal(t, domain.OrderStatusReadyForPickup, found.Status)
	assert.True(t, found.AutoProgress, "parking keeps the flag on")

	// Clearing did not bump the version token, so a second conditional write
	// with the same token still lands.
	err = repo.ClearAutoTransitionTimer(ctx, order.ID, order.LastStatusChangeTime)
	require.NoError(t, err)
}

func TestMySQLOrderRepository_Integration_Settle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLOrderRepository(db)
	ctx := context.Background()

	timer := time.Now().UTC().Truncate(time.Microsecond)
	order := sampleOrder(domain.OrderStatusReadyForPickup, &timer)
	insertOrder(t, db, order)

	sessionID := uuid.New().String()
	changedAt := order.LastStatusChangeTime.Add(time.Minute)
	err := repo.Settle(ctx, order.ID, order.LastStatusChangeTime, dto.Settlement{
		StatusChange: dto.StatusChange{
			Status:    domain.OrderStatusDelivered,
			ChangedAt: changedAt,
		},
		PaymentMethod: domain.PaymentMethodCash,
		AmountPaid:    decimal.NewFromFloat(50.00),
		ChangeDue:     decimal.NewFromFloat(25.00),
		SessionID:     &sessionID,
	})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, found.Status)
	assert.Nil(t, found.NextAutoTransitionTime, "settlement disarms the timer")
	require.NotNil(t, found.PaymentMethod)
	assert.Equal(t, domain.PaymentMethodCash, *found.PaymentMethod)
	require.NotNil(t, found.AmountPaid)
	assert.True(t, found.AmountPaid.Equal(decimal.NewFromFloat(50.00)))
	require.NotNil(t, found.ChangeDue)
	assert.True(t, found.ChangeDue.Equal(decimal.NewFromFloat(25.00)))
	require.NotNil(t, found.CashRegisterSessionID)
	assert.Equal(t, sessionID, *found.CashRegisterSessionID)
}

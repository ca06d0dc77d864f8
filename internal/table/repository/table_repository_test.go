package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/errors"
	"github.com/cactus377/japede-cardapio/internal/testutil"
)

func TestNewMySQLTableRepository(t *testing.T) {
	repo := NewMySQLTableRepository(nil)
	assert.NotNil(t, repo)
}

func insertTable(t *testing.T, db *sql.DB, id, name, status string) {
	t.Helper()

	_, err := db.Exec(`INSERT INTO tables (id, name, capacity, status) VALUES (?, ?, 4, ?)`,
		id, name, status)
	require.NoError(t, err)
}

func TestMySQLTableRepository_Integration_OccupyAvailable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLTableRepository(db)
	ctx := context.Background()

	tableID := uuid.New().String()
	orderID := uuid.New().String()
	insertTable(t, db, tableID, "Mesa 1", domain.TableStatusAvailable)

	err := repo.Occupy(ctx, tableID, orderID)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, tableID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusOccupied, found.Status)
	require.NotNil(t, found.CurrentOrderID)
	assert.Equal(t, orderID, *found.CurrentOrderID)
}

func TestMySQLTableRepository_Integration_OccupyConsumesReservation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLTableRepository(db)
	ctx := context.Background()

	tableID := uuid.New().String()
	insertTable(t, db, tableID, "Mesa 2", domain.TableStatusAvailable)

	err := repo.Reserve(ctx, tableID, domain.ReservationDetails{
		CustomerName: "Beatriz",
		GuestCount:   4,
	})
	require.NoError(t, err)

	reserved, err := repo.FindByID(ctx, tableID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusReserved, reserved.Status)
	require.NotNil(t, reserved.ReservationDetails)
	assert.Equal(t, "Beatriz", reserved.ReservationDetails.CustomerName)

	err = repo.Occupy(ctx, tableID, uuid.New().String())
	require.NoError(t, err)

	occupied, err := repo.FindByID(ctx, tableID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusOccupied, occupied.Status)
	assert.Nil(t, occupied.ReservationDetails, "binding consumes the reservation")
}

func TestMySQLTableRepository_Integration_OccupyOccupied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLTableRepository(db)
	ctx := context.Background()

	tableID := uuid.New().String()
	insertTable(t, db, tableID, "Mesa 3", domain.TableStatusAvailable)

	require.NoError(t, repo.Occupy(ctx, tableID, uuid.New().String()))

	err := repo.Occupy(ctx, tableID, uuid.New().String())
	require.Error(t, err)
	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

func TestMySQLTableRepository_Integration_CleaningCycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLTableRepository(db)
	ctx := context.Background()

	tableID := uuid.New().String()
	insertTable(t, db, tableID, "Mesa 4", domain.TableStatusAvailable)
	require.NoError(t, repo.Occupy(ctx, tableID, uuid.New().String()))

	require.NoError(t, repo.ReleaseForCleaning(ctx, tableID))

	released, err := repo.FindByID(ctx, tableID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusNeedsCleaning, released.Status)
	assert.Nil(t, released.CurrentOrderID)

	require.NoError(t, repo.MarkClean(ctx, tableID))

	clean, err := repo.FindByID(ctx, tableID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusAvailable, clean.Status)
}

func TestMySQLTableRepository_Integration_MarkCleanWrongStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLTableRepository(db)
	ctx := context.Background()

	tableID := uuid.New().String()
	insertTable(t, db, tableID, "Mesa 5", domain.TableStatusAvailable)

	err := repo.MarkClean(ctx, tableID)
	require.Error(t, err)
	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

func TestMySQLTableRepository_Integration_CancelReservation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLTableRepository(db)
	ctx := context.Background()

	tableID := uuid.New().String()
	insertTable(t, db, tableID, "Mesa 6", domain.TableStatusAvailable)
	require.NoError(t, repo.Reserve(ctx, tableID, domain.ReservationDetails{CustomerName: "Flávia"}))

	require.NoError(t, repo.CancelReservation(ctx, tableID))

	found, err := repo.FindByID(ctx, tableID)
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusAvailable, found.Status)
	assert.Nil(t, found.ReservationDetails)
}

func TestMySQLTableRepository_Integration_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	testutil.SetupTestTables(t, db)

	repo := NewMySQLTableRepository(db)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New().String())
	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)

	err = repo.Occupy(ctx, uuid.New().String(), uuid.New().String())
	_, ok = errors.IsNotFoundError(err)
	assert.True(t, ok)
}

package inventoryrepo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenstock/internal/domain"
	"kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/logger"
)

func newMockRepo(t *testing.T) (*InventoryRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInventoryRepository(db, nil, time.Second, time.Minute, logger.NewNop()), mock
}

func itemRow(quantity float64, version int) *sqlmock.Rows {
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).AddRow(
		"item-1", "bp-1", "Leite", "Laticínios", quantity, "l", "3.50",
		nil, nil, nil, nil, "", version, "user-1", now, now,
	)
}

func TestUpdate_StaleVersionIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("UPDATE inventory_items").WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("item-1", "bp-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.Update(context.Background(), domain.InventoryItem{ID: "item-1", BusinessProfileID: "bp-1", Name: "Leite", Version: 2})

	require.Error(t, err)
	assert.IsType(t, &errors.ConflictError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MissingItemIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("UPDATE inventory_items").WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("item-1", "bp-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.Update(context.Background(), domain.InventoryItem{ID: "item-1", BusinessProfileID: "bp-1", Name: "Leite", Version: 2})

	require.Error(t, err)
	assert.IsType(t, &errors.NotFoundError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UnknownSupplierIsValidation(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("INSERT INTO inventory_items").WillReturnError(&pq.Error{Code: "23503"})

	supplier := "sup-x"
	_, err := repo.Create(context.Background(), domain.InventoryItem{ID: "item-1", BusinessProfileID: "bp-1", Name: "Leite", SupplierID: &supplier, CostPerUnit: decimal.Zero})

	require.Error(t, err)
	assert.IsType(t, &errors.ValidationError{}, err)
}

func TestAdjustQuantity_NegativeResultRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM inventory_items").WillReturnRows(itemRow(2, 4))
	mock.ExpectRollback()

	_, err := repo.AdjustQuantity(context.Background(), "bp-1", "item-1", -3)

	require.Error(t, err)
	assert.IsType(t, &errors.ValidationError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustQuantity_Commits(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM inventory_items").WillReturnRows(itemRow(2, 4))
	mock.ExpectQuery("UPDATE inventory_items").WillReturnRows(itemRow(5, 5))
	mock.ExpectCommit()

	updated, err := repo.AdjustQuantity(context.Background(), "bp-1", "item-1", 3)

	require.NoError(t, err)
	assert.Equal(t, 5.0, updated.Quantity)
	assert.Equal(t, 5, updated.Version)
	assert.True(t, decimal.RequireFromString("3.5").Equal(updated.CostPerUnit))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustQuantity_ConcurrentChangeIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM inventory_items").WillReturnRows(itemRow(2, 4))
	mock.ExpectQuery("UPDATE inventory_items").WillReturnRows(sqlmock.NewRows(columns))
	mock.ExpectRollback()

	_, err := repo.AdjustQuantity(context.Background(), "bp-1", "item-1", 1)

	require.Error(t, err)
	assert.IsType(t, &errors.ConflictError{}, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package inventoryservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kitchenstock/internal/domain"
	apperror "kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/logger"
	"kitchenstock/internal/service/inventoryservice"
)

// MockInventoryRepository é uma implementação mock da interface InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, businessProfileID, id string) (domain.InventoryItem, error) {
	args := m.Called(ctx, businessProfileID, id)
	return args.Get(0).(domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindAll(ctx context.Context, businessProfileID string, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, businessProfileID, filter)
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Update(ctx context.Context, item domain.InventoryItem) (domain.InventoryItem, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) AdjustQuantity(ctx context.Context, businessProfileID, id string, delta float64) (domain.InventoryItem, error) {
	args := m.Called(ctx, businessProfileID, id, delta)
	return args.Get(0).(domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, businessProfileID, id string) error {
	args := m.Called(ctx, businessProfileID, id)
	return args.Error(0)
}

var identity = domain.Identity{UserID: "user-1", BusinessProfileID: "bp-1", Role: domain.RoleUser}

func ptr(v float64) *float64 { return &v }

func newService() (*inventoryservice.Service, *MockInventoryRepository) {
	repo := new(MockInventoryRepository)
	return inventoryservice.NewService(repo, logger.NewNop()), repo
}

// --- Testes para CreateItem ---

func TestCreateItem_Success(t *testing.T) {
	svc, repo := newService()

	input := domain.InventoryItem{Name: "  Farinha ", Quantity: 3, Unit: "kg", CostPerUnit: decimal.NewFromFloat(4.5)}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(item domain.InventoryItem) bool {
		_, err := uuid.Parse(item.ID)
		return err == nil &&
			item.Name == "Farinha" &&
			item.BusinessProfileID == "bp-1" &&
			item.CreatedBy == "user-1" &&
			item.Version == 1 &&
			!item.CreatedAt.IsZero()
	})).Return(domain.InventoryItem{ID: uuid.New().String(), Name: "Farinha", Quantity: 3, Unit: "kg", Version: 1}, nil)

	result, err := svc.CreateItem(context.Background(), identity, input)

	require.NoError(t, err)
	assert.Equal(t, "Farinha", result.Name)
	assert.Equal(t, domain.StockLow, result.Stock.Status)
	assert.Equal(t, 5.0, result.Stock.ReorderLevel)
	repo.AssertExpectations(t)
}

func TestCreateItem_Fail_Validation(t *testing.T) {
	svc, repo := newService()

	_, err := svc.CreateItem(context.Background(), identity, domain.InventoryItem{Name: "Sal", Quantity: -1})

	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateItem_Fail_InvalidSupplierID(t *testing.T) {
	svc, repo := newService()
	supplier := "fornecedor-x"

	_, err := svc.CreateItem(context.Background(), identity, domain.InventoryItem{Name: "Sal", Quantity: 1, SupplierID: &supplier})

	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "Create")
}

func TestCreateItem_Fail_RepoError(t *testing.T) {
	svc, repo := newService()
	repo.On("Create", mock.Anything, mock.Anything).Return(domain.InventoryItem{}, errors.New("database connection failed"))

	_, err := svc.CreateItem(context.Background(), identity, domain.InventoryItem{Name: "Sal", Quantity: 1})

	assert.IsType(t, &apperror.InternalError{}, err)
	assert.Contains(t, err.Error(), "Falha interna ao criar item de estoque")
}

// --- Testes para GetItem ---

func TestGetItem_Success(t *testing.T) {
	svc, repo := newService()
	id := uuid.New().String()
	repo.On("FindByID", mock.Anything, "bp-1", id).Return(domain.InventoryItem{ID: id, Name: "Leite", Quantity: 0, MaxStock: ptr(20)}, nil)

	result, err := svc.GetItem(context.Background(), identity, id)

	require.NoError(t, err)
	assert.Equal(t, domain.StockOutOfStock, result.Stock.Status)
	assert.Equal(t, 0.0, result.Stock.FillPercentage)
	assert.Equal(t, 20.0, result.Stock.MaxStock)
}

func TestGetItem_Fail_InvalidID(t *testing.T) {
	svc, repo := newService()

	_, err := svc.GetItem(context.Background(), identity, "not-a-uuid")

	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "FindByID")
}

func TestGetItem_Fail_NotFoundPassesThrough(t *testing.T) {
	svc, repo := newService()
	id := uuid.New().String()
	repo.On("FindByID", mock.Anything, "bp-1", id).Return(domain.InventoryItem{}, apperror.NewNotFoundError("item"))

	_, err := svc.GetItem(context.Background(), identity, id)

	assert.True(t, apperror.IsNotFound(err))
}

// --- Testes para ListItems ---

func TestListItems_StatusFilterPaginatesInMemory(t *testing.T) {
	svc, repo := newService()
	stock := []domain.InventoryItem{
		{ID: "1", Name: "Arroz", Quantity: 0},
		{ID: "2", Name: "Azeite", Quantity: 2},
		{ID: "3", Name: "Feijão", Quantity: 50},
		{ID: "4", Name: "Sal", Quantity: 1},
		{ID: "5", Name: "Trigo", Quantity: 3},
	}
	// Com filtro de status o repositório é consultado sem paginação.
	repo.On("FindAll", mock.Anything, "bp-1", domain.InventoryFilter{Category: "secos"}).Return(stock, nil)

	result, err := svc.ListItems(context.Background(), identity, domain.InventoryFilter{
		Category: "secos",
		Status:   domain.StockLow,
		Page:     2,
		Limit:    2,
	})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "5", result[0].ID)
	repo.AssertExpectations(t)
}

func TestListItems_WithoutStatusDelegatesPagination(t *testing.T) {
	svc, repo := newService()
	filter := domain.InventoryFilter{Page: 1, Limit: 10, Name: "ar"}
	repo.On("FindAll", mock.Anything, "bp-1", filter).Return([]domain.InventoryItem{{ID: "1", Name: "Arroz", Quantity: 40}}, nil)

	result, err := svc.ListItems(context.Background(), identity, filter)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, domain.StockInStock, result[0].Stock.Status)
}

func TestListItems_Fail_InvalidStatus(t *testing.T) {
	svc, repo := newService()

	_, err := svc.ListItems(context.Background(), identity, domain.InventoryFilter{Status: "sobrando"})

	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "FindAll")
}

// --- Testes para UpdateItem ---

func TestUpdateItem_Success(t *testing.T) {
	svc, repo := newService()
	id := uuid.New().String()
	input := domain.InventoryItem{ID: id, Name: "Óleo", Quantity: 8, Version: 3, BusinessProfileID: "outro"}
	expected := input
	expected.BusinessProfileID = "bp-1"
	persisted := expected
	persisted.Version = 4

	repo.On("Update", mock.Anything, expected).Return(persisted, nil)

	result, err := svc.UpdateItem(context.Background(), identity, input)

	require.NoError(t, err)
	assert.Equal(t, 4, result.Version)
	repo.AssertExpectations(t)
}

func TestUpdateItem_Fail_MissingVersion(t *testing.T) {
	svc, repo := newService()

	_, err := svc.UpdateItem(context.Background(), identity, domain.InventoryItem{ID: uuid.New().String(), Name: "Óleo", Quantity: 1})

	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "Update")
}

func TestUpdateItem_Fail_Conflict(t *testing.T) {
	svc, repo := newService()
	repo.On("Update", mock.Anything, mock.Anything).Return(domain.InventoryItem{}, apperror.NewConflictError("versão desatualizada"))

	_, err := svc.UpdateItem(context.Background(), identity, domain.InventoryItem{ID: uuid.New().String(), Name: "Óleo", Quantity: 1, Version: 1})

	assert.True(t, apperror.IsConflict(err))
}

// --- Testes para AdjustQuantity ---

func TestAdjustQuantity_Success(t *testing.T) {
	svc, repo := newService()
	id := uuid.New().String()
	repo.On("AdjustQuantity", mock.Anything, "bp-1", id, -1.0).Return(domain.InventoryItem{ID: id, Name: "Ovos", Quantity: 11, Version: 2}, nil)

	result, err := svc.AdjustQuantity(context.Background(), identity, id, domain.QuantityAdjustment{Delta: -1})

	require.NoError(t, err)
	assert.Equal(t, 11.0, result.Quantity)
	repo.AssertExpectations(t)
}

func TestAdjustQuantity_Fail_ZeroDelta(t *testing.T) {
	svc, repo := newService()

	_, err := svc.AdjustQuantity(context.Background(), identity, uuid.New().String(), domain.QuantityAdjustment{})

	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "não pode ser zero")
	repo.AssertNotCalled(t, "AdjustQuantity")
}

func TestAdjustQuantity_Fail_NegativeResult(t *testing.T) {
	svc, repo := newService()
	id := uuid.New().String()
	repo.On("AdjustQuantity", mock.Anything, "bp-1", id, -5.0).
		Return(domain.InventoryItem{}, apperror.NewValidationError("Ajuste resultaria em quantidade de estoque negativa."))

	_, err := svc.AdjustQuantity(context.Background(), identity, id, domain.QuantityAdjustment{Delta: -5})

	assert.True(t, apperror.IsValidation(err))
}

// --- Testes para DeleteItem e Summary ---

func TestDeleteItem_Success(t *testing.T) {
	svc, repo := newService()
	id := uuid.New().String()
	repo.On("Delete", mock.Anything, "bp-1", id).Return(nil)

	assert.NoError(t, svc.DeleteItem(context.Background(), identity, id))
	repo.AssertExpectations(t)
}

func TestSummary(t *testing.T) {
	svc, repo := newService()
	repo.On("FindAll", mock.Anything, "bp-1", domain.InventoryFilter{}).Return([]domain.InventoryItem{
		{Name: "Arroz", Quantity: 0, CostPerUnit: decimal.NewFromInt(5)},
		{Name: "Feijão", Quantity: 2, CostPerUnit: decimal.NewFromFloat(7.5)},
		{Name: "Sal", Quantity: 30, CostPerUnit: decimal.NewFromFloat(1.2)},
	}, nil)

	summary, err := svc.Summary(context.Background(), identity)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 1, summary.OutOfStock)
	assert.Equal(t, 1, summary.LowStock)
	assert.Equal(t, 1, summary.InStock)
	assert.True(t, decimal.NewFromInt(51).Equal(summary.TotalValue))
}

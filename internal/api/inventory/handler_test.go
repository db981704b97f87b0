package inventory_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kitchenstock/internal/api/inventory"
	"kitchenstock/internal/domain"
	apperror "kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/logger"
	"kitchenstock/internal/pkg/middleware"
)

// MockInventoryService é uma implementação mock da interface InventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) CreateItem(ctx context.Context, identity domain.Identity, item domain.InventoryItem) (domain.InventoryItemView, error) {
	args := m.Called(ctx, identity, item)
	return args.Get(0).(domain.InventoryItemView), args.Error(1)
}

func (m *MockInventoryService) GetItem(ctx context.Context, identity domain.Identity, id string) (domain.InventoryItemView, error) {
	args := m.Called(ctx, identity, id)
	return args.Get(0).(domain.InventoryItemView), args.Error(1)
}

func (m *MockInventoryService) ListItems(ctx context.Context, identity domain.Identity, filter domain.InventoryFilter) ([]domain.InventoryItemView, error) {
	args := m.Called(ctx, identity, filter)
	return args.Get(0).([]domain.InventoryItemView), args.Error(1)
}

func (m *MockInventoryService) UpdateItem(ctx context.Context, identity domain.Identity, item domain.InventoryItem) (domain.InventoryItemView, error) {
	args := m.Called(ctx, identity, item)
	return args.Get(0).(domain.InventoryItemView), args.Error(1)
}

func (m *MockInventoryService) AdjustQuantity(ctx context.Context, identity domain.Identity, id string, adjustment domain.QuantityAdjustment) (domain.InventoryItemView, error) {
	args := m.Called(ctx, identity, id, adjustment)
	return args.Get(0).(domain.InventoryItemView), args.Error(1)
}

func (m *MockInventoryService) DeleteItem(ctx context.Context, identity domain.Identity, id string) error {
	args := m.Called(ctx, identity, id)
	return args.Error(0)
}

func (m *MockInventoryService) Summary(ctx context.Context, identity domain.Identity) (domain.InventorySummary, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(domain.InventorySummary), args.Error(1)
}

var identity = domain.Identity{UserID: "user-1", BusinessProfileID: "bp-1", Role: domain.RoleUser}

// newServer monta um roteador chi com a identidade já anexada, como faria o middleware de autenticação.
func newServer(svc *MockInventoryService) http.Handler {
	h := inventory.NewHandler(svc, logger.NewNop())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithIdentity(req.Context(), identity)))
		})
	})
	r.Get("/v1/inventory", h.ListItemsHandler)
	r.Post("/v1/inventory", h.CreateItemHandler)
	r.Get("/v1/inventory/{id}", h.GetItemHandler)
	r.Put("/v1/inventory/{id}", h.UpdateItemHandler)
	r.Delete("/v1/inventory/{id}", h.DeleteItemHandler)
	r.Post("/v1/inventory/{id}/adjust", h.AdjustQuantityHandler)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListItemsHandler_ParsesFilter(t *testing.T) {
	svc := new(MockInventoryService)
	expectedFilter := domain.InventoryFilter{Page: 2, Limit: 5, Category: "laticínios", Status: domain.StockLow}
	svc.On("ListItems", mock.Anything, identity, expectedFilter).Return([]domain.InventoryItemView{
		{InventoryItem: domain.InventoryItem{ID: "1", Name: "Leite"}, Stock: domain.StockReport{Status: domain.StockLow}},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/inventory?page=2&limit=5&category=latic%C3%ADnios&status=low_stock", nil)
	rec := httptest.NewRecorder()
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"low_stock"`)
	svc.AssertExpectations(t)
}

func TestListItemsHandler_InvalidPage(t *testing.T) {
	svc := new(MockInventoryService)

	req := httptest.NewRequest(http.MethodGet, "/v1/inventory?page=abc", nil)
	rec := httptest.NewRecorder()
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Category)
	svc.AssertNotCalled(t, "ListItems")
}

func TestCreateItemHandler_Created(t *testing.T) {
	svc := new(MockInventoryService)
	svc.On("CreateItem", mock.Anything, identity, mock.MatchedBy(func(item domain.InventoryItem) bool {
		return item.Name == "Farinha" && item.Quantity == 3 && item.CostPerUnit.String() == "4.5"
	})).Return(domain.InventoryItemView{InventoryItem: domain.InventoryItem{ID: uuid.New().String(), Name: "Farinha"}}, nil)

	body := `{"name":"Farinha","quantity":3,"unit":"kg","cost_per_unit":"4.5"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/inventory", strings.NewReader(body))
	rec := httptest.NewRecorder()
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateItemHandler_MalformedJSON(t *testing.T) {
	svc := new(MockInventoryService)

	req := httptest.NewRequest(http.MethodPost, "/v1/inventory", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateItem")
}

func TestGetItemHandler_NotFound(t *testing.T) {
	svc := new(MockInventoryService)
	id := uuid.New().String()
	svc.On("GetItem", mock.Anything, identity, id).Return(domain.InventoryItemView{}, apperror.NewNotFoundError("item"))

	req := httptest.NewRequest(http.MethodGet, "/v1/inventory/"+id, nil)
	rec := httptest.NewRecorder()
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, http.StatusNotFound, body.Code)
	assert.Equal(t, "NOT_FOUND", body.Category)
}

func TestUpdateItemHandler_UsesPathID(t *testing.T) {
	svc := new(MockInventoryService)
	id := uuid.New().String()
	svc.On("UpdateItem", mock.Anything, identity, mock.MatchedBy(func(item domain.InventoryItem) bool {
		return item.ID == id && item.Version == 2
	})).Return(domain.InventoryItemView{}, apperror.NewConflictError("versão desatualizada"))

	body := `{"id":"outro","name":"Óleo","quantity":2,"version":2}`
	req := httptest.NewRequest(http.MethodPut, "/v1/inventory/"+id, strings.NewReader(body))
	rec := httptest.NewRecorder()
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	svc.AssertExpectations(t)
}

func TestAdjustQuantityHandler(t *testing.T) {
	svc := new(MockInventoryService)
	id := uuid.New().String()
	svc.On("AdjustQuantity", mock.Anything, identity, id, domain.QuantityAdjustment{Delta: -1}).
		Return(domain.InventoryItemView{InventoryItem: domain.InventoryItem{ID: id, Quantity: 4}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/inventory/"+id+"/adjust", strings.NewReader(`{"delta":-1}`))
	rec := httptest.NewRecorder()
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":4`)
}

func TestDeleteItemHandler_NoContent(t *testing.T) {
	svc := new(MockInventoryService)
	id := uuid.New().String()
	svc.On("DeleteItem", mock.Anything, identity, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/inventory/"+id, nil)
	rec := httptest.NewRecorder()
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandler_RequiresIdentity(t *testing.T) {
	svc := new(MockInventoryService)
	h := inventory.NewHandler(svc, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/inventory/summary", nil)
	rec := httptest.NewRecorder()
	h.SummaryHandler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Summary")
}

package supplier_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"kitchenstock/internal/api/supplier"
	"kitchenstock/internal/domain"
	apperror "kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/logger"
	"kitchenstock/internal/pkg/middleware"
)

// MockSupplierService é uma implementação mock da interface SupplierService
type MockSupplierService struct {
	mock.Mock
}

func (m *MockSupplierService) CreateSupplier(ctx context.Context, identity domain.Identity, s domain.Supplier) (domain.Supplier, error) {
	args := m.Called(ctx, identity, s)
	return args.Get(0).(domain.Supplier), args.Error(1)
}

func (m *MockSupplierService) GetSupplierByID(ctx context.Context, identity domain.Identity, id string) (domain.Supplier, error) {
	args := m.Called(ctx, identity, id)
	return args.Get(0).(domain.Supplier), args.Error(1)
}

func (m *MockSupplierService) GetAllSuppliers(ctx context.Context, identity domain.Identity) ([]domain.Supplier, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]domain.Supplier), args.Error(1)
}

func (m *MockSupplierService) UpdateSupplier(ctx context.Context, identity domain.Identity, s domain.Supplier) (domain.Supplier, error) {
	args := m.Called(ctx, identity, s)
	return args.Get(0).(domain.Supplier), args.Error(1)
}

func (m *MockSupplierService) DeleteSupplier(ctx context.Context, identity domain.Identity, id string) error {
	args := m.Called(ctx, identity, id)
	return args.Error(0)
}

var identity = domain.Identity{UserID: "user-1", BusinessProfileID: "bp-1", Role: domain.RoleAdmin}

func newServer(svc *MockSupplierService) http.Handler {
	h := supplier.NewHandler(svc, logger.NewNop())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithIdentity(req.Context(), identity)))
		})
	})
	r.Get("/v1/suppliers", h.GetAllSuppliersHandler)
	r.Post("/v1/suppliers", h.CreateSupplierHandler)
	r.Get("/v1/suppliers/{id}", h.GetSupplierByIDHandler)
	r.Put("/v1/suppliers/{id}", h.UpdateSupplierHandler)
	r.Delete("/v1/suppliers/{id}", h.DeleteSupplierHandler)
	return r
}

func TestCreateSupplierHandler_Created(t *testing.T) {
	svc := new(MockSupplierService)
	svc.On("CreateSupplier", mock.Anything, identity, domain.Supplier{Name: "Hortifruti Central"}).
		Return(domain.Supplier{ID: uuid.New().String(), Name: "Hortifruti Central"}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/suppliers", strings.NewReader(`{"name":"Hortifruti Central"}`))
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateSupplierHandler_Validation(t *testing.T) {
	svc := new(MockSupplierService)
	svc.On("CreateSupplier", mock.Anything, identity, mock.Anything).
		Return(domain.Supplier{}, apperror.NewValidationError("O nome do fornecedor não pode ser vazio."))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/suppliers", strings.NewReader(`{"name":""}`))
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestGetAllSuppliersHandler(t *testing.T) {
	svc := new(MockSupplierService)
	svc.On("GetAllSuppliers", mock.Anything, identity).Return([]domain.Supplier{{ID: "1", Name: "Açougue"}}, nil)

	rec := httptest.NewRecorder()
	newServer(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/suppliers", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Açougue")
}

func TestUpdateSupplierHandler_NotFound(t *testing.T) {
	svc := new(MockSupplierService)
	id := uuid.New().String()
	svc.On("UpdateSupplier", mock.Anything, identity, domain.Supplier{ID: id, Name: "Peixaria"}).
		Return(domain.Supplier{}, apperror.NewNotFoundError("Fornecedor não encontrado"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/suppliers/"+id, strings.NewReader(`{"name":"Peixaria"}`))
	newServer(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSupplierHandler_NoContent(t *testing.T) {
	svc := new(MockSupplierService)
	id := uuid.New().String()
	svc.On("DeleteSupplier", mock.Anything, identity, id).Return(nil)

	rec := httptest.NewRecorder()
	newServer(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/suppliers/"+id, nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

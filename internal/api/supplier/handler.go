package supplier

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kitchenstock/internal/api/response"
	"kitchenstock/internal/domain"
	"kitchenstock/internal/pkg/logger"
)

// SupplierService define o contrato que o Handler espera da camada de Serviço.
type SupplierService interface {
	CreateSupplier(ctx context.Context, identity domain.Identity, supplier domain.Supplier) (domain.Supplier, error)
	GetSupplierByID(ctx context.Context, identity domain.Identity, id string) (domain.Supplier, error)
	GetAllSuppliers(ctx context.Context, identity domain.Identity) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, identity domain.Identity, supplier domain.Supplier) (domain.Supplier, error)
	DeleteSupplier(ctx context.Context, identity domain.Identity, id string) error
}

// Handler agrupa todos os métodos de Handler de fornecedores.
type Handler struct {
	Service SupplierService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SupplierService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// CreateSupplierHandler lida com a requisição POST /v1/suppliers.
// @Summary Cria um novo fornecedor
// @Tags suppliers
// @Accept json
// @Produce json
// @Param supplier body domain.Supplier true "Dados do fornecedor para criação"
// @Success 201 {object} domain.Supplier "Fornecedor criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /suppliers [post]
func (h *Handler) CreateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var supplier domain.Supplier
	if err := response.Decode(r, &supplier); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateSupplier(r.Context(), identity, supplier)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, created)
}

// GetSupplierByIDHandler lida com a requisição GET /v1/suppliers/{id}.
// @Summary Obtém um fornecedor por ID
// @Tags suppliers
// @Produce json
// @Param id path string true "ID do Fornecedor"
// @Success 200 {object} domain.Supplier "Fornecedor encontrado"
// @Failure 404 {object} domain.ErrorResponse "Fornecedor não encontrado"
// @Security ApiKeyAuth
// @Router /suppliers/{id} [get]
func (h *Handler) GetSupplierByIDHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	supplier, err := h.Service.GetSupplierByID(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, supplier)
}

// GetAllSuppliersHandler lida com a requisição GET /v1/suppliers.
// @Summary Lista todos os fornecedores
// @Tags suppliers
// @Produce json
// @Success 200 {array} domain.Supplier "Lista de fornecedores"
// @Security ApiKeyAuth
// @Router /suppliers [get]
func (h *Handler) GetAllSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	suppliers, err := h.Service.GetAllSuppliers(r.Context(), identity)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, suppliers)
}

// UpdateSupplierHandler lida com a requisição PUT /v1/suppliers/{id}.
// @Summary Atualiza um fornecedor
// @Tags suppliers
// @Accept json
// @Produce json
// @Param id path string true "ID do Fornecedor"
// @Param supplier body domain.Supplier true "Dados do fornecedor para atualização"
// @Success 200 {object} domain.Supplier "Fornecedor atualizado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 404 {object} domain.ErrorResponse "Fornecedor não encontrado"
// @Security ApiKeyAuth
// @Router /suppliers/{id} [put]
func (h *Handler) UpdateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var supplier domain.Supplier
	if err := response.Decode(r, &supplier); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	supplier.ID = chi.URLParam(r, "id")

	updated, err := h.Service.UpdateSupplier(r.Context(), identity, supplier)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, updated)
}

// DeleteSupplierHandler lida com a requisição DELETE /v1/suppliers/{id}.
// @Summary Deleta um fornecedor
// @Description Itens de estoque vinculados ficam sem fornecedor.
// @Tags suppliers
// @Param id path string true "ID do Fornecedor"
// @Success 204 "Fornecedor deletado com sucesso"
// @Failure 404 {object} domain.ErrorResponse "Fornecedor não encontrado"
// @Security ApiKeyAuth
// @Router /suppliers/{id} [delete]
func (h *Handler) DeleteSupplierHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	if err := h.Service.DeleteSupplier(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusNoContent, nil)
}

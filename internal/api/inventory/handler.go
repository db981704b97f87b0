package inventory

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kitchenstock/internal/api/response"
	"kitchenstock/internal/domain"
	apperror "kitchenstock/internal/errors"
	"kitchenstock/internal/pkg/logger"
)

// InventoryService define o contrato que o Handler espera da camada de Serviço.
type InventoryService interface {
	CreateItem(ctx context.Context, identity domain.Identity, item domain.InventoryItem) (domain.InventoryItemView, error)
	GetItem(ctx context.Context, identity domain.Identity, id string) (domain.InventoryItemView, error)
	ListItems(ctx context.Context, identity domain.Identity, filter domain.InventoryFilter) ([]domain.InventoryItemView, error)
	UpdateItem(ctx context.Context, identity domain.Identity, item domain.InventoryItem) (domain.InventoryItemView, error)
	AdjustQuantity(ctx context.Context, identity domain.Identity, id string, adjustment domain.QuantityAdjustment) (domain.InventoryItemView, error)
	DeleteItem(ctx context.Context, identity domain.Identity, id string) error
	Summary(ctx context.Context, identity domain.Identity) (domain.InventorySummary, error)
}

// Handler agrupa os endpoints de estoque.
type Handler struct {
	Service InventoryService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc InventoryService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ListItemsHandler lida com a requisição GET /v1/inventory.
// @Summary Lista o estoque
// @Description Lista os itens de estoque com status calculado. Filtros opcionais por nome, categoria, fornecedor e status.
// @Tags inventory
// @Produce json
// @Param page query int false "Página (a partir de 1)"
// @Param limit query int false "Itens por página (0 = todos)"
// @Param name query string false "Trecho do nome"
// @Param category query string false "Categoria"
// @Param supplier_id query string false "ID do fornecedor"
// @Param status query string false "out_of_stock, low_stock ou in_stock"
// @Success 200 {array} domain.InventoryItemView
// @Failure 400 {object} domain.ErrorResponse "Filtro inválido"
// @Failure 401 {object} domain.ErrorResponse "Não autenticado"
// @Security ApiKeyAuth
// @Router /inventory [get]
func (h *Handler) ListItemsHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	items, err := h.Service.ListItems(r.Context(), identity, filter)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, items)
}

// CreateItemHandler lida com a requisição POST /v1/inventory.
// @Summary Cadastra um item de estoque
// @Tags inventory
// @Accept json
// @Produce json
// @Param item body domain.InventoryItem true "Dados do item"
// @Success 201 {object} domain.InventoryItemView
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 403 {object} domain.ErrorResponse "Sem permissão"
// @Security ApiKeyAuth
// @Router /inventory [post]
func (h *Handler) CreateItemHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var item domain.InventoryItem
	if err := response.Decode(r, &item); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateItem(r.Context(), identity, item)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, created)
}

// SummaryHandler lida com a requisição GET /v1/inventory/summary.
// @Summary Resumo do estoque
// @Description Contagem por status e valor total em estoque.
// @Tags inventory
// @Produce json
// @Success 200 {object} domain.InventorySummary
// @Security ApiKeyAuth
// @Router /inventory/summary [get]
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	summary, err := h.Service.Summary(r.Context(), identity)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, summary)
}

// GetItemHandler lida com a requisição GET /v1/inventory/{id}.
// @Summary Obtém um item de estoque
// @Tags inventory
// @Produce json
// @Param id path string true "ID do item"
// @Success 200 {object} domain.InventoryItemView
// @Failure 404 {object} domain.ErrorResponse "Item não encontrado"
// @Security ApiKeyAuth
// @Router /inventory/{id} [get]
func (h *Handler) GetItemHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	item, err := h.Service.GetItem(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, item)
}

// UpdateItemHandler lida com a requisição PUT /v1/inventory/{id}.
// @Summary Atualiza um item de estoque
// @Description Exige a versão atual do item (controle de concorrência otimista).
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "ID do item"
// @Param item body domain.InventoryItem true "Dados do item, incluindo version"
// @Success 200 {object} domain.InventoryItemView
// @Failure 404 {object} domain.ErrorResponse "Item não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Versão desatualizada"
// @Security ApiKeyAuth
// @Router /inventory/{id} [put]
func (h *Handler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var item domain.InventoryItem
	if err := response.Decode(r, &item); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	item.ID = chi.URLParam(r, "id")

	updated, err := h.Service.UpdateItem(r.Context(), identity, item)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, updated)
}

// AdjustQuantityHandler lida com a requisição POST /v1/inventory/{id}/adjust.
// @Summary Ajuste rápido de quantidade
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "ID do item"
// @Param adjustment body domain.QuantityAdjustment true "Delta (+/-)"
// @Success 200 {object} domain.InventoryItemView
// @Failure 400 {object} domain.ErrorResponse "Delta inválido ou quantidade negativa"
// @Failure 409 {object} domain.ErrorResponse "Conflito de concorrência"
// @Security ApiKeyAuth
// @Router /inventory/{id}/adjust [post]
func (h *Handler) AdjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var adjustment domain.QuantityAdjustment
	if err := response.Decode(r, &adjustment); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	item, err := h.Service.AdjustQuantity(r.Context(), identity, chi.URLParam(r, "id"), adjustment)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, item)
}

// DeleteItemHandler lida com a requisição DELETE /v1/inventory/{id}.
// @Summary Remove um item de estoque
// @Tags inventory
// @Param id path string true "ID do item"
// @Success 204 "Removido"
// @Failure 404 {object} domain.ErrorResponse "Item não encontrado"
// @Security ApiKeyAuth
// @Router /inventory/{id} [delete]
func (h *Handler) DeleteItemHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	if err := h.Service.DeleteItem(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusNoContent, nil)
}

func parseFilter(r *http.Request) (domain.InventoryFilter, error) {
	q := r.URL.Query()
	filter := domain.InventoryFilter{
		Name:       q.Get("name"),
		Category:   q.Get("category"),
		SupplierID: q.Get("supplier_id"),
		Status:     domain.StockStatus(q.Get("status")),
	}

	var err error
	if filter.Page, err = queryInt(q.Get("page")); err != nil {
		return domain.InventoryFilter{}, apperror.NewValidationError("O parâmetro page deve ser um inteiro.")
	}
	if filter.Limit, err = queryInt(q.Get("limit")); err != nil {
		return domain.InventoryFilter{}, apperror.NewValidationError("O parâmetro limit deve ser um inteiro.")
	}
	return filter, nil
}

func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

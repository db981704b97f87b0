package shoppinglist

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kitchenstock/internal/api/response"
	"kitchenstock/internal/domain"
	"kitchenstock/internal/pkg/logger"
)

// ShoppingListService define o contrato que o Handler espera da camada de Serviço.
type ShoppingListService interface {
	GetList(ctx context.Context, identity domain.Identity) (domain.ShoppingList, error)
	AddItem(ctx context.Context, identity domain.Identity, item domain.ShoppingListItem) (domain.ShoppingListItem, error)
	UpdateItem(ctx context.Context, identity domain.Identity, item domain.ShoppingListItem) (domain.ShoppingListItem, error)
	DeleteItem(ctx context.Context, identity domain.Identity, id string) error
	TogglePurchased(ctx context.Context, identity domain.Identity, id string) (domain.ShoppingListItem, error)
	MarkAllPurchased(ctx context.Context, identity domain.Identity) (domain.ShoppingList, error)
	GenerateFromInventory(ctx context.Context, identity domain.Identity) ([]domain.ShoppingListItem, error)
	ClearPurchased(ctx context.Context, identity domain.Identity) (int64, error)
}

// Handler agrupa os endpoints da lista de compras.
type Handler struct {
	Service ShoppingListService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ShoppingListService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ClearResult é a resposta de DELETE /v1/shopping-list/purchased.
type ClearResult struct {
	Removed int64 `json:"removed"`
}

// GetListHandler lida com a requisição GET /v1/shopping-list.
// @Summary Lista de compras
// @Description Entradas pendentes primeiro (urgentes no topo), com resumo de progresso e custo.
// @Tags shopping-list
// @Produce json
// @Success 200 {object} domain.ShoppingList
// @Security ApiKeyAuth
// @Router /shopping-list [get]
func (h *Handler) GetListHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	list, err := h.Service.GetList(r.Context(), identity)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, list)
}

// AddItemHandler lida com a requisição POST /v1/shopping-list.
// @Summary Adiciona uma entrada manual
// @Tags shopping-list
// @Accept json
// @Produce json
// @Param item body domain.ShoppingListItem true "Entrada"
// @Success 201 {object} domain.ShoppingListItem
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Já existe entrada pendente para o item de estoque"
// @Security ApiKeyAuth
// @Router /shopping-list [post]
func (h *Handler) AddItemHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var item domain.ShoppingListItem
	if err := response.Decode(r, &item); err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.AddItem(r.Context(), identity, item)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, created)
}

// GenerateHandler lida com a requisição POST /v1/shopping-list/generate.
// @Summary Gera a lista a partir do estoque
// @Description Cria entradas para itens esgotados ou abaixo do nível de reposição. Retorna apenas as novas entradas.
// @Tags shopping-list
// @Produce json
// @Success 201 {array} domain.ShoppingListItem
// @Failure 400 {object} domain.ErrorResponse "Item de estoque inválido"
// @Security ApiKeyAuth
// @Router /shopping-list/generate [post]
func (h *Handler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.GenerateFromInventory(r.Context(), identity)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusCreated, created)
}

// PurchaseAllHandler lida com a requisição POST /v1/shopping-list/purchase-all.
// @Summary Marca todas as entradas como compradas
// @Tags shopping-list
// @Produce json
// @Success 200 {object} domain.ShoppingList
// @Security ApiKeyAuth
// @Router /shopping-list/purchase-all [post]
func (h *Handler) PurchaseAllHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	list, err := h.Service.MarkAllPurchased(r.Context(), identity)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, list)
}

// ClearPurchasedHandler lida com a requisição DELETE /v1/shopping-list/purchased.
// @Summary Remove as entradas compradas
// @Tags shopping-list
// @Produce json
// @Success 200 {object} ClearResult
// @Security ApiKeyAuth
// @Router /shopping-list/purchased [delete]
func (h *Handler) ClearPurchasedHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	removed, err := h.Service.ClearPurchased(r.Context(), identity)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, ClearResult{Removed: removed})
}

// UpdateItemHandler lida com a requisição PUT /v1/shopping-list/{id}.
// @Summary Atualiza uma entrada
// @Tags shopping-list
// @Accept json
// @Produce json
// @Param id path string true "ID da entrada"
// @Param item body domain.ShoppingListItem true "Entrada"
// @Success 200 {object} domain.ShoppingListItem
// @Failure 404 {object} domain.ErrorResponse "Entrada não encontrada"
// @Security ApiKeyAuth
// @Router /shopping-list/{id} [put]
func (h *Handler) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	var item domain.ShoppingListItem
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

// DeleteItemHandler lida com a requisição DELETE /v1/shopping-list/{id}.
// @Summary Remove uma entrada
// @Tags shopping-list
// @Param id path string true "ID da entrada"
// @Success 204 "Removida"
// @Failure 404 {object} domain.ErrorResponse "Entrada não encontrada"
// @Security ApiKeyAuth
// @Router /shopping-list/{id} [delete]
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

// ToggleHandler lida com a requisição POST /v1/shopping-list/{id}/toggle.
// @Summary Alterna o estado de compra
// @Tags shopping-list
// @Produce json
// @Param id path string true "ID da entrada"
// @Success 200 {object} domain.ShoppingListItem
// @Failure 404 {object} domain.ErrorResponse "Entrada não encontrada"
// @Security ApiKeyAuth
// @Router /shopping-list/{id}/toggle [post]
func (h *Handler) ToggleHandler(w http.ResponseWriter, r *http.Request) {
	identity, err := response.Identity(r)
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}

	item, err := h.Service.TogglePurchased(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, h.Logger, err)
		return
	}
	response.JSON(w, h.Logger, http.StatusOK, item)
}

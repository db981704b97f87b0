package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingListItem é uma entrada da lista de compras, manual ou gerada a partir do estoque.
// PurchasedAt está presente se, e somente se, IsPurchased for verdadeiro.
type ShoppingListItem struct {
	ID                string          `json:"id"`
	BusinessProfileID string          `json:"business_profile_id"`
	Name              string          `json:"name"`
	Quantity          float64         `json:"quantity"`
	Unit              string          `json:"unit"`
	Category          string          `json:"category"`
	Notes             string          `json:"notes,omitempty"`
	IsPurchased       bool            `json:"is_purchased"`
	IsAutoGenerated   bool            `json:"is_auto_generated"`
	IsUrgent          bool            `json:"is_urgent"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	InventoryItemID   *string         `json:"inventory_item_id,omitempty"` // Referência fraca, apenas para deduplicação
	SupplierID        *string         `json:"supplier_id,omitempty"`
	AddedAt           time.Time       `json:"added_at"`
	PurchasedAt       *time.Time      `json:"purchased_at,omitempty"`
	CreatedBy         string          `json:"created_by"`
}

// ShoppingListSummary contém os indicadores de progresso da lista.
type ShoppingListSummary struct {
	TotalItems           int             `json:"total_items"`
	PendingItems         int             `json:"pending_items"`
	PurchasedItems       int             `json:"purchased_items"`
	UrgentPending        int             `json:"urgent_pending"`
	CompletionPercentage int             `json:"completion_percentage"`
	PendingCost          decimal.Decimal `json:"pending_cost"`
	PurchasedCost        decimal.Decimal `json:"purchased_cost"`
}

// ShoppingList é a visão completa retornada à API.
type ShoppingList struct {
	Items   []ShoppingListItem  `json:"items"`
	Summary ShoppingListSummary `json:"summary"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa um insumo controlado no estoque do restaurante.
// Os limites (ReorderPoint, MinimumStockLevel, MaxStock) são opcionais;
// quando ausentes, o pacote restock calcula valores padrão.
type InventoryItem struct {
	ID                string          `json:"id"`
	BusinessProfileID string          `json:"business_profile_id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Quantity          float64         `json:"quantity"`
	Unit              string          `json:"unit"`
	CostPerUnit       decimal.Decimal `json:"cost_per_unit"`
	ReorderPoint      *float64        `json:"reorder_point,omitempty"`
	MinimumStockLevel *float64        `json:"minimum_stock_level,omitempty"`
	MaxStock          *float64        `json:"max_stock,omitempty"`
	SupplierID        *string         `json:"supplier_id,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Version           int             `json:"version"` // Para Controle de Concorrência Otimista (OCC)
	CreatedBy         string          `json:"created_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StockStatus é derivado do item a cada leitura e nunca é persistido.
type StockStatus string

const (
	StockOutOfStock StockStatus = "out_of_stock"
	StockLow        StockStatus = "low_stock"
	StockInStock    StockStatus = "in_stock"
)

// Valid informa se o status é um dos valores conhecidos.
func (s StockStatus) Valid() bool {
	switch s {
	case StockOutOfStock, StockLow, StockInStock:
		return true
	}
	return false
}

// StockReport agrega os valores derivados de um item de estoque.
type StockReport struct {
	Status         StockStatus `json:"status"`
	ReorderLevel   float64     `json:"reorder_level"`
	MaxStock       float64     `json:"max_stock"`
	FillPercentage float64     `json:"fill_percentage"`
}

// InventoryItemView é a resposta de leitura: o item persistido mais o relatório calculado.
type InventoryItemView struct {
	InventoryItem
	Stock StockReport `json:"stock"`
}

// InventorySummary resume o estoque de um estabelecimento.
type InventorySummary struct {
	TotalItems int             `json:"total_items"`
	OutOfStock int             `json:"out_of_stock"`
	LowStock   int             `json:"low_stock"`
	InStock    int             `json:"in_stock"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// InventoryFilter define os parâmetros de busca e paginação da listagem de estoque.
type InventoryFilter struct {
	Page       int
	Limit      int
	Name       string
	Category   string
	SupplierID string
	Status     StockStatus // Aplicado após o cálculo, pois o status não é persistido
}

// QuantityAdjustment é o payload esperado para ajustes rápidos de quantidade (+1/-1).
type QuantityAdjustment struct {
	Delta float64 `json:"delta"`
}

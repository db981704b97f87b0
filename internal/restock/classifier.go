package restock

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"kitchenstock/internal/domain"
	apperror "kitchenstock/internal/errors"
)

// Casas decimais armazenadas para valores monetários.
const (
	CostPerUnitScale   = 4
	EstimatedCostScale = 2
)

// Classify deriva o status de estoque do item.
// Quantidades <= 0 são sempre OutOfStock.
func Classify(item domain.InventoryItem) domain.StockStatus {
	switch {
	case item.Quantity <= 0:
		return domain.StockOutOfStock
	case item.Quantity <= EffectiveReorderLevel(item):
		return domain.StockLow
	default:
		return domain.StockInStock
	}
}

// FillPercentage normaliza a quantidade no intervalo [mínimo, máximo] do item.
// Com intervalo degenerado (máximo <= mínimo) o resultado é 0.
func FillPercentage(item domain.InventoryItem) float64 {
	lower := 0.0
	if item.MinimumStockLevel != nil {
		lower = *item.MinimumStockLevel
	}
	upper := EffectiveMaxStock(item)

	if !(upper > lower) || math.IsInf(upper-lower, 0) {
		return 0
	}

	q := math.Min(math.Max(item.Quantity, lower), upper)
	pct := (q - lower) / (upper - lower) * 100
	if math.IsNaN(pct) {
		return 0
	}
	return math.Min(math.Max(pct, 0), 100)
}

// Report calcula todos os valores derivados de um item.
func Report(item domain.InventoryItem) domain.StockReport {
	return domain.StockReport{
		Status:         Classify(item),
		ReorderLevel:   EffectiveReorderLevel(item),
		MaxStock:       EffectiveMaxStock(item),
		FillPercentage: FillPercentage(item),
	}
}

// ValidateItem rejeita itens que as regras de reposição não sabem interpretar.
// Deve ser chamada antes de persistir ou de gerar a lista de compras.
func ValidateItem(item domain.InventoryItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return apperror.NewValidationError("O nome do item não pode ser vazio.")
	}
	if !finite(item.Quantity) || item.Quantity < 0 {
		return apperror.NewValidationError(fmt.Sprintf("Quantidade inválida para %q: deve ser um número não negativo.", item.Name))
	}
	if item.CostPerUnit.IsNegative() {
		return apperror.NewValidationError(fmt.Sprintf("O custo unitário de %q não pode ser negativo.", item.Name))
	}
	if !fitsScale(item.CostPerUnit, CostPerUnitScale) {
		return apperror.NewValidationError(fmt.Sprintf("O custo unitário de %q aceita no máximo %d casas decimais.", item.Name, CostPerUnitScale))
	}
	thresholds := []struct {
		field string
		value *float64
	}{
		{"reorder_point", item.ReorderPoint},
		{"minimum_stock_level", item.MinimumStockLevel},
		{"max_stock", item.MaxStock},
	}
	for _, th := range thresholds {
		if th.value != nil && (!finite(*th.value) || *th.value < 0) {
			return apperror.NewValidationError(fmt.Sprintf("O campo %s de %q deve ser um número não negativo.", th.field, item.Name))
		}
	}
	return nil
}

// SummarizeInventory conta os itens por status e soma o valor em estoque.
func SummarizeInventory(items []domain.InventoryItem) domain.InventorySummary {
	summary := domain.InventorySummary{TotalItems: len(items), TotalValue: decimal.Zero}
	for _, item := range items {
		switch Classify(item) {
		case domain.StockOutOfStock:
			summary.OutOfStock++
		case domain.StockLow:
			summary.LowStock++
		default:
			summary.InStock++
		}
		if item.Quantity > 0 {
			summary.TotalValue = summary.TotalValue.Add(cost(item.Quantity, item.CostPerUnit))
		}
	}
	return summary
}

// cost calcula quantidade x preço unitário arredondado para centavos.
func cost(quantity float64, unitCost decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(quantity).Mul(unitCost).Round(2)
}

// fitsScale informa se o valor pode ser gravado com a escala informada sem arredondamento.
func fitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

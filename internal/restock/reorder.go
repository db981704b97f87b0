// Package restock concentra as regras de reposição de estoque: classificação
// do nível de estoque, cálculo do ponto de reposição, geração automática da
// lista de compras e acompanhamento de itens comprados.
//
// Todas as funções são puras: recebem um snapshot dos dados, nunca alteram
// a entrada e não fazem I/O. A persistência fica a cargo dos serviços.
package restock

import (
	"math"

	"kitchenstock/internal/domain"
)

const (
	// DefaultMaxStock é a capacidade assumida quando o item não define MaxStock.
	DefaultMaxStock = 25.0

	// MinDefaultReorderLevel é o piso do nível de reposição calculado.
	MinDefaultReorderLevel = 5.0

	// DefaultReorderRatio é a fração da capacidade usada como nível de reposição padrão.
	DefaultReorderRatio = 0.2
)

// explicitReorderLevel resolve os campos informados pelo usuário, em ordem de
// prioridade: ReorderPoint, depois MinimumStockLevel. Valores <= 0 contam como ausentes.
func explicitReorderLevel(item domain.InventoryItem) (float64, bool) {
	if positive(item.ReorderPoint) {
		return *item.ReorderPoint, true
	}
	if positive(item.MinimumStockLevel) {
		return *item.MinimumStockLevel, true
	}
	return 0, false
}

// EffectiveReorderLevel retorna a quantidade a partir da qual o item é considerado em falta.
func EffectiveReorderLevel(item domain.InventoryItem) float64 {
	if level, ok := explicitReorderLevel(item); ok {
		return level
	}
	return math.Max(MinDefaultReorderLevel, DefaultReorderRatio*EffectiveMaxStock(item))
}

// EffectiveMaxStock retorna a capacidade usada como alvo de reposição.
// Um MaxStock informado vale mesmo quando é 0; sem ele, usa DefaultMaxStock.
func EffectiveMaxStock(item domain.InventoryItem) float64 {
	if item.MaxStock != nil {
		return *item.MaxStock
	}
	return DefaultMaxStock
}

// TargetStockLevel é a quantidade que uma reposição deve atingir.
func TargetStockLevel(item domain.InventoryItem) float64 {
	return math.Max(EffectiveMaxStock(item), EffectiveReorderLevel(item)*2)
}

func positive(v *float64) bool {
	return v != nil && *v > 0 && !math.IsInf(*v, 1)
}

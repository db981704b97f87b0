package restock

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kitchenstock/internal/domain"
	apperror "kitchenstock/internal/errors"
)

// TogglePurchased alterna o estado de compra do item e retorna uma nova lista.
// Pendente -> comprado define PurchasedAt = now; comprado -> pendente limpa PurchasedAt.
func TogglePurchased(list []domain.ShoppingListItem, itemID string, now time.Time) ([]domain.ShoppingListItem, error) {
	idx := slices.IndexFunc(list, func(it domain.ShoppingListItem) bool { return it.ID == itemID })
	if idx < 0 {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Item %s não existe na lista de compras.", itemID))
	}

	updated := slices.Clone(list)
	updated[idx] = togglePurchased(updated[idx], now)
	return updated, nil
}

func togglePurchased(item domain.ShoppingListItem, now time.Time) domain.ShoppingListItem {
	if item.IsPurchased {
		item.IsPurchased = false
		item.PurchasedAt = nil
		return item
	}
	purchasedAt := now
	item.IsPurchased = true
	item.PurchasedAt = &purchasedAt
	return item
}

// MarkAllPurchased marca como comprados todos os itens pendentes.
// Itens já comprados mantêm o PurchasedAt original, então aplicar duas vezes equivale a uma.
func MarkAllPurchased(list []domain.ShoppingListItem, now time.Time) []domain.ShoppingListItem {
	updated := slices.Clone(list)
	for i := range updated {
		if !updated[i].IsPurchased {
			updated[i] = togglePurchased(updated[i], now)
		}
	}
	return updated
}

// CompletionPercentage retorna round(100 * comprados / total), ou 0 para lista vazia.
func CompletionPercentage(list []domain.ShoppingListItem) int {
	if len(list) == 0 {
		return 0
	}
	purchased := 0
	for _, it := range list {
		if it.IsPurchased {
			purchased++
		}
	}
	return int(math.Round(100 * float64(purchased) / float64(len(list))))
}

// Partition separa a lista em pendentes e comprados, preservando a ordem.
func Partition(list []domain.ShoppingListItem) (pending, purchased []domain.ShoppingListItem) {
	pending = []domain.ShoppingListItem{}
	purchased = []domain.ShoppingListItem{}
	for _, it := range list {
		if it.IsPurchased {
			purchased = append(purchased, it)
		} else {
			pending = append(pending, it)
		}
	}
	return pending, purchased
}

// SummarizeList calcula os indicadores de progresso e custo da lista.
func SummarizeList(list []domain.ShoppingListItem) domain.ShoppingListSummary {
	summary := domain.ShoppingListSummary{
		TotalItems:           len(list),
		CompletionPercentage: CompletionPercentage(list),
		PendingCost:          decimal.Zero,
		PurchasedCost:        decimal.Zero,
	}
	for _, it := range list {
		if it.IsPurchased {
			summary.PurchasedItems++
			summary.PurchasedCost = summary.PurchasedCost.Add(it.EstimatedCost)
			continue
		}
		summary.PendingItems++
		summary.PendingCost = summary.PendingCost.Add(it.EstimatedCost)
		if it.IsUrgent {
			summary.UrgentPending++
		}
	}
	return summary
}

// ValidateListItem valida uma entrada manual da lista de compras.
func ValidateListItem(item domain.ShoppingListItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return apperror.NewValidationError("O nome do item da lista não pode ser vazio.")
	}
	if !finite(item.Quantity) || item.Quantity <= 0 {
		return apperror.NewValidationError(fmt.Sprintf("Quantidade inválida para %q: deve ser maior que zero.", item.Name))
	}
	if item.EstimatedCost.IsNegative() {
		return apperror.NewValidationError(fmt.Sprintf("O custo estimado de %q não pode ser negativo.", item.Name))
	}
	if !fitsScale(item.EstimatedCost, EstimatedCostScale) {
		return apperror.NewValidationError(fmt.Sprintf("O custo estimado de %q aceita no máximo %d casas decimais.", item.Name, EstimatedCostScale))
	}
	return nil
}

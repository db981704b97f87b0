package restock

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"kitchenstock/internal/domain"
)

// Generate cria entradas automáticas na lista de compras para os itens em falta
// ou esgotados. Um item só recebe uma nova entrada se não houver, em existing,
// uma entrada pendente (não comprada) ligada ao mesmo InventoryItemID.
//
// Retorna apenas as entradas novas; a mesclagem com a lista persistida é
// responsabilidade de quem chama. Nenhuma das fatias de entrada é alterada.
// Um item inválido interrompe a geração sem resultado parcial.
func Generate(inventory []domain.InventoryItem, existing []domain.ShoppingListItem, now time.Time) ([]domain.ShoppingListItem, error) {
	for _, item := range inventory {
		if err := ValidateItem(item); err != nil {
			return nil, err
		}
	}

	pending := make(map[string]struct{}, len(existing))
	for _, entry := range existing {
		if entry.InventoryItemID != nil && !entry.IsPurchased {
			pending[*entry.InventoryItemID] = struct{}{}
		}
	}

	generated := []domain.ShoppingListItem{}
	for _, item := range inventory {
		status := Classify(item)
		if status == domain.StockInStock {
			continue
		}
		if item.ID != "" {
			if _, ok := pending[item.ID]; ok {
				continue
			}
			// Ids repetidos na mesma entrada geram uma única sugestão.
			pending[item.ID] = struct{}{}
		}
		generated = append(generated, newAutoEntry(item, status, now))
	}
	return generated, nil
}

// RestockQuantity é a diferença até o alvo de reposição, nunca menor que 1.
func RestockQuantity(item domain.InventoryItem) float64 {
	return math.Max(1, TargetStockLevel(item)-item.Quantity)
}

func newAutoEntry(item domain.InventoryItem, status domain.StockStatus, now time.Time) domain.ShoppingListItem {
	quantity := RestockQuantity(item)

	var inventoryID *string
	if item.ID != "" {
		id := item.ID
		inventoryID = &id
	}
	var supplierID *string
	if item.SupplierID != nil {
		sid := *item.SupplierID
		supplierID = &sid
	}

	return domain.ShoppingListItem{
		ID:                uuid.New().String(),
		BusinessProfileID: item.BusinessProfileID,
		Name:              item.Name,
		Quantity:          quantity,
		Unit:              item.Unit,
		Category:          item.Category,
		Notes:             autoEntryNote(item, status),
		IsPurchased:       false,
		IsAutoGenerated:   true,
		IsUrgent:          status == domain.StockOutOfStock,
		EstimatedCost:     cost(quantity, item.CostPerUnit),
		InventoryItemID:   inventoryID,
		SupplierID:        supplierID,
		AddedAt:           now,
	}
}

func autoEntryNote(item domain.InventoryItem, status domain.StockStatus) string {
	if status == domain.StockOutOfStock {
		return "Gerado automaticamente: item esgotado."
	}
	return fmt.Sprintf("Gerado automaticamente: restam %s (reposição em %s).",
		FormatQuantity(item.Quantity, item.Unit),
		FormatQuantity(EffectiveReorderLevel(item), item.Unit))
}

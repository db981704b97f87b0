package restock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kitchenstock/internal/domain"
	"kitchenstock/internal/restock"
)

func ptr(v float64) *float64 { return &v }

func TestEffectiveReorderLevel_Priority(t *testing.T) {
	cases := []struct {
		name string
		item domain.InventoryItem
		want float64
	}{
		{"reorder point wins", domain.InventoryItem{ReorderPoint: ptr(3), MinimumStockLevel: ptr(7)}, 3},
		{"minimum stock when reorder point is zero", domain.InventoryItem{ReorderPoint: ptr(0), MinimumStockLevel: ptr(7)}, 7},
		{"minimum stock when reorder point is absent", domain.InventoryItem{MinimumStockLevel: ptr(4)}, 4},
		{"default without any field", domain.InventoryItem{}, 5},
		{"default is 20 percent of max stock", domain.InventoryItem{MaxStock: ptr(100)}, 20},
		{"default never below five", domain.InventoryItem{MaxStock: ptr(10)}, 5},
		{"zero fields count as absent", domain.InventoryItem{ReorderPoint: ptr(0), MinimumStockLevel: ptr(0), MaxStock: ptr(50)}, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, restock.EffectiveReorderLevel(tc.item))
		})
	}
}

func TestEffectiveReorderLevel_Stable(t *testing.T) {
	item := domain.InventoryItem{MaxStock: ptr(60)}
	first := restock.EffectiveReorderLevel(item)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, restock.EffectiveReorderLevel(item))
	}
}

func TestEffectiveReorderLevel_MonotonicInReorderPoint(t *testing.T) {
	previous := 0.0
	for rp := 0.5; rp <= 200; rp *= 1.7 {
		level := restock.EffectiveReorderLevel(domain.InventoryItem{ReorderPoint: ptr(rp), MaxStock: ptr(40)})
		assert.Greater(t, level, previous, "reorder point %v", rp)
		previous = level
	}
}

func TestEffectiveMaxStock(t *testing.T) {
	assert.Equal(t, 40.0, restock.EffectiveMaxStock(domain.InventoryItem{MaxStock: ptr(40), ReorderPoint: ptr(5)}))
	// Sem MaxStock o nível de reposição não altera a capacidade.
	assert.Equal(t, restock.DefaultMaxStock, restock.EffectiveMaxStock(domain.InventoryItem{ReorderPoint: ptr(5)}))
	assert.Equal(t, restock.DefaultMaxStock, restock.EffectiveMaxStock(domain.InventoryItem{ReorderPoint: ptr(50)}))
	assert.Equal(t, restock.DefaultMaxStock, restock.EffectiveMaxStock(domain.InventoryItem{MinimumStockLevel: ptr(4)}))
	assert.Equal(t, restock.DefaultMaxStock, restock.EffectiveMaxStock(domain.InventoryItem{}))
	// MaxStock informado como 0 é respeitado.
	assert.Equal(t, 0.0, restock.EffectiveMaxStock(domain.InventoryItem{MaxStock: ptr(0)}))
}

func TestTargetStockLevel(t *testing.T) {
	// max(25, 2*5)
	assert.Equal(t, 25.0, restock.TargetStockLevel(domain.InventoryItem{ReorderPoint: ptr(5), MaxStock: ptr(25)}))
	// max(20, 2*15)
	assert.Equal(t, 30.0, restock.TargetStockLevel(domain.InventoryItem{ReorderPoint: ptr(15), MaxStock: ptr(20)}))
	// max(25, 2*50)
	assert.Equal(t, 100.0, restock.TargetStockLevel(domain.InventoryItem{ReorderPoint: ptr(50)}))
	// max(0, 2*max(5, 0.2*0))
	assert.Equal(t, 10.0, restock.TargetStockLevel(domain.InventoryItem{MaxStock: ptr(0)}))
}

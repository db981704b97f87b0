package restock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kitchenstock/internal/restock"
)

func TestFormatQuantity(t *testing.T) {
	cases := []struct {
		quantity float64
		unit     string
		want     string
	}{
		{1, "box", "1 box"},
		{3, "box", "3 boxes"},
		{0, "bottle", "0 bottles"},
		{2, "bunch", "2 bunches"},
		{4, "berry", "4 berries"},
		{2, "tray", "2 trays"},
		{5, "glass", "5 glasses"},
		{6, "cans", "6 cans"},
		{2.5, "kg", "2.5 kg"},
		{12, "L", "12 L"},
		{7, "", "7"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, restock.FormatQuantity(tc.quantity, tc.unit))
		})
	}
}

package documents

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeItemsOrderIndependent(t *testing.T) {
	a := []map[string]any{
		{"type": "Door", "model": "Alfa", "finish": "oak", "color": "white", "width": 800, "height": 2000, "qty": 2, "price": 150.5},
		{"type": "door", "model": "Beta", "finish": "ash", "color": "grey", "width": 900, "height": 2100, "qty": 1, "price": 210},
	}
	b := []map[string]any{a[1], a[0]}

	assert.Equal(t, NormalizeItems(a), NormalizeItems(b))
}

func TestNormalizeItemDefaults(t *testing.T) {
	out := NormalizeItems([]map[string]any{{"name": "  Alfa  "}})
	require.Len(t, out, 1)

	item := out[0]
	assert.Equal(t, "door", item.Type)
	assert.Equal(t, "alfa", item.Model)
	assert.Equal(t, 0, item.Width)
	assert.Equal(t, 0, item.Height)
	assert.Equal(t, 1, item.Quantity)
	assert.True(t, item.UnitPrice.IsZero())
}

func TestNormalizeItemKeyFallbacks(t *testing.T) {
	out := NormalizeItems([]map[string]any{{
		"type":     "door",
		"name":     "Gamma",
		"quantity": 3,
		"price":    99.9,
		"sku":      "D-99",
	}})
	require.Len(t, out, 1)
	assert.Equal(t, "gamma", out[0].Model)
	assert.Equal(t, 3, out[0].Quantity)
	assert.True(t, out[0].UnitPrice.Equal(decimal.NewFromFloat(99.9)))
	assert.Equal(t, "D-99", out[0].SKU)

	preferred := NormalizeItems([]map[string]any{{
		"type": "door", "model": "Delta", "name": "ignored",
		"qty": 2, "quantity": 7,
		"unitPrice": 10, "price": 99,
		"sku_1c": "1C-1", "sku": "ignored",
	}})
	require.Len(t, preferred, 1)
	assert.Equal(t, "delta", preferred[0].Model)
	assert.Equal(t, 2, preferred[0].Quantity)
	assert.True(t, preferred[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "1C-1", preferred[0].SKU)
}

func TestNormalizeHandleReduction(t *testing.T) {
	out := NormalizeItems([]map[string]any{{
		"type":     "handle",
		"handleId": "H-15",
		"model":    "Ignored door context",
		"finish":   "chrome",
		"width":    40,
		"qty":      4,
		"price":    25,
	}})
	require.Len(t, out, 1)

	item := out[0]
	assert.True(t, item.IsHandle())
	assert.Equal(t, "H-15", item.HandleID)
	assert.Equal(t, 4, item.Quantity)
	assert.Empty(t, item.Model)
	assert.Empty(t, item.Finish)
	assert.Zero(t, item.Width)
}

func TestNormalizeHandleIDImpliesHandle(t *testing.T) {
	out := NormalizeItems([]map[string]any{{
		"type":     "door",
		"handleId": "H-2",
		"qty":      1,
		"price":    12,
	}})
	require.Len(t, out, 1)
	assert.True(t, out[0].IsHandle())
}

func TestGenerateCartSessionIDDeterministic(t *testing.T) {
	items := []map[string]any{{"type": "door", "model": "Alfa", "qty": 1, "price": 100}}
	total := decimal.NewFromInt(100)

	first := GenerateCartSessionID("client-1", items, total)
	second := GenerateCartSessionID("client-1", items, total)
	assert.Equal(t, first, second)
	assert.Len(t, first, len("cart_")+20)
	assert.Contains(t, first, "cart_")

	other := GenerateCartSessionID("client-2", items, total)
	assert.NotEqual(t, first, other)
}

package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundleItem(unitPrice string, buy, free int, bundlePrice string) Item {
	return Item{
		UnitPrice:          decimal.RequireFromString(unitPrice),
		HasBundleOffer:     true,
		BundleBuyQuantity:  buy,
		BundleFreeQuantity: free,
		BundlePrice:        decimal.RequireFromString(bundlePrice),
	}
}

func plainItem(unitPrice string) Item {
	return Item{UnitPrice: decimal.RequireFromString(unitPrice)}
}

func TestChargedTotal(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		quantity int
		want     string
	}{
		{"no offer single unit", plainItem("10"), 1, "10"},
		{"no offer many units", plainItem("12.50"), 7, "87.50"},
		{"below threshold no discount", bundleItem("10", 3, 1, "27"), 3, "30"},
		{"exactly one bundle", bundleItem("10", 3, 1, "27"), 4, "27"},
		{"one bundle plus remainder", bundleItem("10", 3, 1, "27"), 7, "57"},
		{"two full bundles", bundleItem("10", 3, 1, "27"), 8, "54"},
		{"buy 2 get 2 at threshold", bundleItem("5", 2, 2, "9"), 4, "9"},
		{"fractional prices", bundleItem("4.99", 2, 1, "9.49"), 5, "19.47"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChargedTotal(tt.item, tt.quantity)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestFreeUnits(t *testing.T) {
	tests := []struct {
		name     string
		item     Item
		quantity int
		want     int
	}{
		{"no offer", plainItem("10"), 10, 0},
		{"below threshold", bundleItem("10", 3, 1, "27"), 3, 0},
		{"one bundle", bundleItem("10", 3, 1, "27"), 4, 1},
		{"one bundle plus remainder", bundleItem("10", 3, 1, "27"), 7, 1},
		{"two bundles", bundleItem("10", 3, 1, "27"), 8, 2},
		{"buy 2 get 2", bundleItem("5", 2, 2, "9"), 9, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FreeUnits(tt.item, tt.quantity))
		})
	}
}

// An item flagged as a bundle offer with a missing or non-positive bundle
// field is charged linearly and grants no free units.
func TestMalformedBundleFallsBackToLinear(t *testing.T) {
	malformed := []Item{
		{UnitPrice: decimal.NewFromInt(10), HasBundleOffer: true},
		{UnitPrice: decimal.NewFromInt(10), HasBundleOffer: true, BundleBuyQuantity: 3},
		{UnitPrice: decimal.NewFromInt(10), HasBundleOffer: true, BundleBuyQuantity: 3, BundleFreeQuantity: 1},
		{UnitPrice: decimal.NewFromInt(10), HasBundleOffer: true, BundleBuyQuantity: -3, BundleFreeQuantity: 1, BundlePrice: decimal.NewFromInt(27)},
		{UnitPrice: decimal.NewFromInt(10), HasBundleOffer: true, BundleBuyQuantity: 3, BundleFreeQuantity: 0, BundlePrice: decimal.NewFromInt(27)},
	}

	for _, item := range malformed {
		for q := 1; q <= 10; q++ {
			linear := item.UnitPrice.Mul(decimal.NewFromInt(int64(q)))
			assert.True(t, ChargedTotal(item, q).Equal(linear))
			assert.Zero(t, FreeUnits(item, q))
		}
	}
}

// As long as the bundle price undercuts the linear price of a full group,
// the charged total never exceeds the plain per-unit total.
func TestChargedTotalNeverExceedsLinear(t *testing.T) {
	items := []Item{
		plainItem("10"),
		bundleItem("10", 3, 1, "27"),
		bundleItem("5", 2, 2, "9"),
		bundleItem("4.99", 4, 1, "19.96"),
	}

	for _, item := range items {
		for q := 1; q <= 50; q++ {
			linear := item.UnitPrice.Mul(decimal.NewFromInt(int64(q)))
			got := ChargedTotal(item, q)
			require.True(t, got.LessThanOrEqual(linear),
				"charged %s exceeds linear %s at quantity %d", got, linear, q)
		}
	}
}

func TestFreeUnitsAgreesWithChargedTotal(t *testing.T) {
	item := bundleItem("10", 3, 1, "27")

	// Whenever free units are granted, the charged total must reflect at
	// least one full bundle at the bundle price.
	for q := 1; q <= 40; q++ {
		free := FreeUnits(item, q)
		if free == 0 {
			assert.True(t, ChargedTotal(item, q).Equal(decimal.NewFromInt(int64(10*q))))
			continue
		}
		bundles := int64(free / item.BundleFreeQuantity)
		remainder := int64(q - int(bundles)*item.UnitSize())
		want := decimal.NewFromInt(27 * bundles).Add(decimal.NewFromInt(10 * remainder))
		assert.True(t, ChargedTotal(item, q).Equal(want), "quantity %d", q)
	}
}

func TestCartTotal(t *testing.T) {
	lines := []Line{
		{Item: bundleItem("10", 3, 1, "27"), Quantity: 4},
		{Item: plainItem("2.50"), Quantity: 2},
		{Item: bundleItem("10", 3, 1, "27"), Quantity: 3},
	}

	// 27 + 5 + 30; the two bundle lines are not pooled into 7 units.
	assert.True(t, CartTotal(lines).Equal(decimal.RequireFromString("62")))

	// Recomputing over the same snapshot yields the same total.
	assert.True(t, CartTotal(lines).Equal(CartTotal(lines)))

	assert.True(t, CartTotal(nil).Equal(decimal.Zero))
}

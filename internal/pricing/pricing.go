// Package pricing computes charged totals and free-unit counts for cart and
// order lines. An item may carry a bundle offer ("buy N get M free"): every
// complete group of N+M units is charged one flat bundle price, and the
// remainder is charged per unit. The package is pure; the same functions back
// the cart view, the added-to-cart summary, and the order summary so the
// displayed numbers can never drift apart.
package pricing

import "github.com/shopspring/decimal"

// Item is the pricing-relevant slice of a catalog product.
type Item struct {
	UnitPrice          decimal.Decimal
	HasBundleOffer     bool
	BundleBuyQuantity  int
	BundleFreeQuantity int
	BundlePrice        decimal.Decimal
}

// Line is one cart or order entry.
type Line struct {
	Item     Item
	Quantity int
}

// UnitSize returns the quantity threshold at which one bundle group is
// completed.
func (it Item) UnitSize() int {
	return it.BundleBuyQuantity + it.BundleFreeQuantity
}

// bundleComplete reports whether the item carries a well-formed bundle offer
// and the quantity covers at least one full bundle group. An item flagged as
// a bundle offer but missing any of the three bundle fields is priced
// linearly: bad promo data must never block checkout.
func bundleComplete(it Item, quantity int) bool {
	if !it.HasBundleOffer {
		return false
	}
	if it.BundleBuyQuantity <= 0 || it.BundleFreeQuantity <= 0 || !it.BundlePrice.IsPositive() {
		return false
	}
	return quantity >= it.UnitSize()
}

// ChargedTotal returns the amount to charge for quantity units of item.
// Below the bundle threshold the offer does not apply at all, not even
// partially.
func ChargedTotal(item Item, quantity int) decimal.Decimal {
	if !bundleComplete(item, quantity) {
		return item.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	}

	unitSize := item.UnitSize()
	bundles := int64(quantity / unitSize)
	remainder := int64(quantity % unitSize)

	return item.BundlePrice.Mul(decimal.NewFromInt(bundles)).
		Add(item.UnitPrice.Mul(decimal.NewFromInt(remainder)))
}

// FreeUnits returns how many of the quantity units are free under the item's
// bundle offer. It shares the bundle-count computation with ChargedTotal, so
// the two can never disagree for the same line.
func FreeUnits(item Item, quantity int) int {
	if !bundleComplete(item, quantity) {
		return 0
	}
	return (quantity / item.UnitSize()) * item.BundleFreeQuantity
}

// CartTotal sums the charged totals over all lines. Bundle thresholds are
// evaluated strictly per line; quantities of the same item are never pooled
// across lines.
func CartTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(ChargedTotal(line.Item, line.Quantity))
	}
	return total
}

package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Product is the catalog metadata carried by a cart entry. The store treats it as opaque.
type Product struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

// CartEntry is one product in the cart together with the requested amount.
// The entry is identified by the embedded product's ID.
type CartEntry struct {
	Product
	Amount int `json:"amount"`
}

// Subtotal returns price * amount
func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Amount)))
}

// Cart keeps entries in the order products were first added.
type Cart []CartEntry

// Find returns the entry for productID and its index, or -1 when absent.
func (c Cart) Find(productID int64) (CartEntry, int) {
	for i, entry := range c {
		if entry.ID == productID {
			return entry, i
		}
	}
	return CartEntry{}, -1
}

func (c Cart) Contains(productID int64) bool {
	_, i := c.Find(productID)
	return i >= 0
}

// Len is the number of distinct products in the cart.
func (c Cart) Len() int {
	return len(c)
}

// AmountByProduct maps product id to the amount in the cart.
func (c Cart) AmountByProduct() map[int64]int {
	amounts := make(map[int64]int, len(c))
	for _, entry := range c {
		amounts[entry.ID] = entry.Amount
	}
	return amounts
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, entry := range c {
		total = total.Add(entry.Subtotal())
	}
	return total
}

// Clone returns a copy that shares no backing array with c.
func (c Cart) Clone() Cart {
	if c == nil {
		return Cart{}
	}
	return slices.Clone(c)
}

// StockInfo is the catalog's current stock level for a product.
type StockInfo struct {
	ProductID int64 `json:"id"`
	Amount    int   `json:"amount"`
}

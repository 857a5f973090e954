package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fjod/go_cart/cart-store/internal/domain"
	"github.com/shopspring/decimal"
)

// CartView is the JSON shape printed by --format json.
type CartView struct {
	Items []CartItemView  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

type CartItemView struct {
	domain.CartEntry
	Subtotal decimal.Decimal `json:"subtotal"`
}

func newCartView(cart domain.Cart) CartView {
	view := CartView{Items: make([]CartItemView, 0, len(cart)), Total: cart.Total()}
	for _, entry := range cart {
		view.Items = append(view.Items, CartItemView{CartEntry: entry, Subtotal: entry.Subtotal()})
	}
	return view
}

func printCart(w io.Writer, format string, cart domain.Cart) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(newCartView(cart))
	}

	if len(cart) == 0 {
		_, err := fmt.Fprintln(w, "Cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tAMOUNT\tPRICE\tSUBTOTAL")
	for _, entry := range cart {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			entry.ID, entry.Title, entry.Amount, entry.Price.StringFixed(2), entry.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(tw, "\t\t\tTOTAL\t%s\n", cart.Total().StringFixed(2))
	return tw.Flush()
}

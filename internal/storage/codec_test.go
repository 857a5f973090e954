package storage

import (
	"testing"

	"github.com/fjod/go_cart/cart-store/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCart() domain.Cart {
	return domain.Cart{
		{
			Product: domain.Product{
				ID:    7,
				Title: "Lightweight Walking Sneaker",
				Price: decimal.RequireFromString("179.9"),
				Image: "https://example.com/tenis1.jpg",
			},
			Amount: 2,
		},
		{
			Product: domain.Product{
				ID:    3,
				Title: "Duramo Lite 2.0",
				Price: decimal.RequireFromString("219.9"),
				Image: "https://example.com/tenis3.jpg",
			},
			Amount: 1,
		},
	}
}

func assertSameCart(t *testing.T, expected, actual domain.Cart) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.Equal(t, expected[i].ID, actual[i].ID)
		assert.Equal(t, expected[i].Title, actual[i].Title)
		assert.Equal(t, expected[i].Image, actual[i].Image)
		assert.Equal(t, expected[i].Amount, actual[i].Amount)
		assert.True(t, expected[i].Price.Equal(actual[i].Price), "price of %d", expected[i].ID)
	}
}

func TestEncode_Shape(t *testing.T) {
	data, err := Encode(testCart()[:1])
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":7,"title":"Lightweight Walking Sneaker","price":"179.9","image":"https://example.com/tenis1.jpg","amount":2}]`,
		string(data))
}

func TestEncode_NilCartIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecode_RoundTrip(t *testing.T) {
	data, err := Encode(testCart())
	require.NoError(t, err)

	cart, err := Decode(data)
	require.NoError(t, err)
	assertSameCart(t, testCart(), cart)
}

func TestDecode_AcceptsNumericPrice(t *testing.T) {
	cart, err := Decode([]byte(`[{"id":1,"title":"x","price":139.9,"image":"","amount":3}]`))
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.True(t, decimal.RequireFromString("139.9").Equal(cart[0].Price))
}

func TestDecode_Null(t *testing.T) {
	cart, err := Decode([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"truncated":    `[{"id":1,"amo`,
		"not an array": `{"id":1}`,
		"zero amount":  `[{"id":1,"amount":0}]`,
		"bad id":       `[{"id":0,"amount":1}]`,
		"duplicate":    `[{"id":1,"amount":1},{"id":1,"amount":2}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

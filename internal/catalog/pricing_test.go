package catalog_test

import (
	"testing"

	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalPrice(t *testing.T) {
	cases := []struct {
		price, pct float64
		want       string
	}{
		{100, 10, "90"},
		{100, 0, "100"},
		{100, 100, "0"},
		{19.99, 15, "16.9915"},
		{9.99, 15, "8.4915"},
		{0, 50, "0"},
	}
	for _, c := range cases {
		got := catalog.FinalPrice(c.price, c.pct)
		assert.True(t, decimal.RequireFromString(c.want).Equal(got), "FinalPrice(%v,%v)=%s", c.price, c.pct, got)
	}
}

func TestFinalPriceIsNotRounded(t *testing.T) {
	got := catalog.FinalPrice(9.99, 15)
	want := decimal.NewFromFloat(9.99).Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(0.15)))
	assert.True(t, want.Equal(got), "got %s, want %s", got, want)
	assert.Equal(t, "8.49", got.StringFixed(2))

	v := catalog.Variant{Size: "1l", Price: 33.33, DiscountPercent: 33}
	assert.Equal(t, "22.3311", v.FinalPrice().String())
}

func TestVariantFinalPriceFollowsFields(t *testing.T) {
	v := catalog.Variant{Size: "500ml", Price: 100, DiscountPercent: 10}
	assert.Equal(t, "90.00", v.FinalPrice().StringFixed(2))

	v.DiscountPercent = 25
	assert.Equal(t, "75.00", v.FinalPrice().StringFixed(2))

	v.Price = 200
	assert.Equal(t, "150.00", v.FinalPrice().StringFixed(2))
}

func TestOldPrice(t *testing.T) {
	got, err := catalog.OldPrice(90, 10)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.StringFixed(2))

	got, err = catalog.OldPrice(90, 0)
	require.NoError(t, err)
	assert.Equal(t, "90.00", got.StringFixed(2))

	_, err = catalog.OldPrice(90, 100)
	assert.Error(t, err)
	_, err = catalog.OldPrice(90, -1)
	assert.Error(t, err)
}

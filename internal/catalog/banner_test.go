package catalog_test

import (
	"testing"

	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBannerTypeAliases(t *testing.T) {
	aliases := map[string]catalog.BannerType{
		"homebanner":   catalog.BannerSlider,
		"Home":         catalog.BannerSlider,
		"top-selling":  catalog.BannerSide,
		"special":      catalog.BannerProductType,
		"product-type": catalog.BannerProductType,
		"category":     catalog.BannerCategory,
		" offer ":      catalog.BannerOffer,
	}
	for in, want := range aliases {
		got, err := catalog.ParseBannerType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := catalog.ParseBannerType("all")
	assert.Error(t, err)
}

func TestLinkedProducts(t *testing.T) {
	products := []catalog.Product{{ID: "a", Title: "Oil"}, {ID: "b", Title: "Tea"}, {ID: "c", Title: "Soap"}}
	banners := []catalog.Banner{
		{Type: catalog.BannerSide, ProductID: "c"},
		{Type: catalog.BannerProductType, ProductID: "a"},
		{Type: catalog.BannerProductType, ProductID: "a"},
		{Type: catalog.BannerCategory, ProductID: "b"},
	}

	linked := catalog.LinkedProducts(banners, products)
	require.Len(t, linked, 2)
	assert.Equal(t, "a", linked[0].ID)
	assert.Equal(t, "c", linked[1].ID)
}

func TestProductHelpers(t *testing.T) {
	p := catalog.Product{Title: "Sample Oil"}
	assert.True(t, p.MatchesTitle("sample"))
	assert.True(t, p.MatchesTitle("OIL"))
	assert.True(t, p.MatchesTitle(""))
	assert.False(t, p.MatchesTitle("tea"))

	assert.Equal(t, []string{"oil", "cold pressed"}, catalog.SplitKeywords(" oil, ,cold pressed,"))
	assert.Equal(t, []string{"Health", "Beverages"}, catalog.ProductTypes([]catalog.Product{
		{ProductType: "Health"}, {ProductType: ""}, {ProductType: "Beverages"}, {ProductType: "Health"},
	}))
}

func TestCategoriesIgnoreCase(t *testing.T) {
	assert.Equal(t, []string{"Beverages", "oils"}, catalog.Categories([]catalog.Product{
		{Category: "Beverages"}, {Category: " oils "}, {Category: "beverages"}, {},
	}))
}

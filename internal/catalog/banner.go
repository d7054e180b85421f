package catalog

import (
	"fmt"
	"strings"
)

// BannerType discriminates the banner families.
type BannerType string

const (
	BannerSlider      BannerType = "slider"
	BannerSide        BannerType = "side"
	BannerOffer       BannerType = "offer"
	BannerCategory    BannerType = "category"
	BannerProductType BannerType = "product-type"
)

// BannerTypes lists every banner type in display order.
var BannerTypes = []BannerType{BannerSlider, BannerSide, BannerOffer, BannerCategory, BannerProductType}

// ParseBannerType accepts the canonical names plus the legacy aliases
// ("home", "homebanner", "top-selling", "special").
func ParseBannerType(s string) (BannerType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "slider", "home", "homebanner":
		return BannerSlider, nil
	case "side", "top-selling":
		return BannerSide, nil
	case "offer":
		return BannerOffer, nil
	case "category":
		return BannerCategory, nil
	case "product-type", "special":
		return BannerProductType, nil
	}
	return "", fmt.Errorf("unknown banner type %q", s)
}

// ProductLinked reports whether banners of this type are copied from a product variant.
func (t BannerType) ProductLinked() bool {
	return t == BannerSide || t == BannerProductType
}

// Slot is the fixed placement of an offer banner.
type Slot string

const (
	SlotLeft  Slot = "left"
	SlotRight Slot = "right"
)

// ParseSlot validates an offer banner slot.
func ParseSlot(s string) (Slot, error) {
	switch Slot(strings.ToLower(strings.TrimSpace(s))) {
	case SlotLeft:
		return SlotLeft, nil
	case SlotRight:
		return SlotRight, nil
	}
	return "", fmt.Errorf("unknown slot %q (want left or right)", s)
}

// Banner is a promotional image unit. Product-linked banners carry a snapshot
// of the product and variant taken at upload time.
type Banner struct {
	ID       string     `json:"_id"`
	Type     BannerType `json:"type"`
	ImageURL string     `json:"imageUrl,omitempty"`
	Title    string     `json:"title,omitempty"`
	Hash     string     `json:"hash,omitempty"`

	Slot       Slot    `json:"slot,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`

	// CategoryType is the product type a category banner links to.
	CategoryType string `json:"categoryType,omitempty"`

	ProductID            string  `json:"productId,omitempty"`
	SelectedVariantIndex int     `json:"selectedVariantIndex,omitempty"`
	ProductImageURL      string  `json:"productImageUrl,omitempty"`
	Price                float64 `json:"price,omitempty"`
	OldPrice             float64 `json:"oldPrice,omitempty"`
	DiscountPercent      float64 `json:"discountPercent,omitempty"`
	Weight               *Size   `json:"weight,omitempty"`
}

// DisplayImage returns the image to render for the banner.
func (b Banner) DisplayImage() string {
	if b.ImageURL != "" {
		return b.ImageURL
	}
	return b.ProductImageURL
}

// FilterBanners returns the banners of type t.
func FilterBanners(banners []Banner, t BannerType) []Banner {
	var out []Banner
	for _, b := range banners {
		if b.Type == t {
			out = append(out, b)
		}
	}
	return out
}

// LinkedProducts returns the products referenced by product-linked banners,
// in product list order.
func LinkedProducts(banners []Banner, products []Product) []Product {
	ids := make(map[string]struct{})
	for _, b := range banners {
		if b.Type.ProductLinked() && b.ProductID != "" {
			ids[b.ProductID] = struct{}{}
		}
	}
	var out []Product
	for _, p := range products {
		if _, ok := ids[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}

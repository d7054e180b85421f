package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Image is a stored image reference: the public URL plus the storage identifier
// the backend needs to keep or delete it.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// ProductImages holds the thumbnail and the remaining gallery images.
type ProductImages struct {
	Thumbnail *Image  `json:"thumbnail,omitempty"`
	Others    []Image `json:"others"`
}

// All returns the thumbnail (when set) followed by the other images.
func (pi ProductImages) All() []Image {
	images := make([]Image, 0, len(pi.Others)+1)
	if pi.Thumbnail != nil && pi.Thumbnail.URL != "" {
		images = append(images, *pi.Thumbnail)
	}
	return append(images, pi.Others...)
}

// Primary returns the URL used when a product is shown as a single picture.
func (pi ProductImages) Primary() string {
	if len(pi.Others) > 0 {
		return pi.Others[0].URL
	}
	if pi.Thumbnail != nil {
		return pi.Thumbnail.URL
	}
	return ""
}

// Variant is a purchasable size/price configuration of a Product.
type Variant struct {
	Size            string  `json:"size"`
	Color           string  `json:"color,omitempty"`
	SKU             string  `json:"sku,omitempty"`
	Price           float64 `json:"price"`
	DiscountPercent float64 `json:"discountPercent"`
	Stock           int     `json:"stock"`
	OutOfStock      bool    `json:"isOutOfStock,omitempty"`
	Images          []Image `json:"images,omitempty"`
}

// FinalPrice is the discounted price. It is derived from Price and
// DiscountPercent on every call and never cached.
func (v Variant) FinalPrice() decimal.Decimal {
	return FinalPrice(v.Price, v.DiscountPercent)
}

// ParsedSize splits the variant size into value and unit.
func (v Variant) ParsedSize() (Size, error) {
	return ParseSize(v.Size)
}

// Product mirrors the backend product document.
type Product struct {
	ID          string        `json:"_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	ProductType string        `json:"productType"`
	Category    string        `json:"category,omitempty"`
	SubCategory string        `json:"subCategory,omitempty"`
	Brand       string        `json:"brand,omitempty"`
	Variants    []Variant     `json:"variants"`
	Images      ProductImages `json:"images"`
	Keywords    []string      `json:"keywords"`
	Featured    bool          `json:"isFeatured"`
	NewArrival  bool          `json:"isNewArrival"`
	BestSeller  bool          `json:"isBestSeller"`
	OutOfStock  bool          `json:"isOutOfStock"`
}

// Variant returns the variant at index i, or false when the index is out of range.
func (p Product) Variant(i int) (Variant, bool) {
	if i < 0 || i >= len(p.Variants) {
		return Variant{}, false
	}
	return p.Variants[i], true
}

// MatchesTitle reports whether the title contains term, ignoring case.
// An empty term matches every product.
func (p Product) MatchesTitle(term string) bool {
	return strings.Contains(strings.ToLower(p.Title), strings.ToLower(strings.TrimSpace(term)))
}

// ProductTypes returns the distinct, non-empty product types in first-seen order.
func ProductTypes(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	var types []string
	for _, p := range products {
		t := strings.TrimSpace(p.ProductType)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}
	return types
}

// Categories returns the distinct, non-empty categories in first-seen order.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	var out []string
	for _, p := range products {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[strings.ToLower(c)]; ok {
			continue
		}
		seen[strings.ToLower(c)] = struct{}{}
		out = append(out, c)
	}
	return out
}

// SplitKeywords turns a comma separated keyword line into a clean list.
func SplitKeywords(line string) []string {
	var keywords []string
	for _, k := range strings.Split(line, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

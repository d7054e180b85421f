package draft

import (
	"fmt"
	"strings"

	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Product is the editable state of the product form.
type Product struct {
	ID          string
	Title       string
	Description string
	ProductType string
	Category    string
	SubCategory string
	Brand       string
	Variants    []catalog.Variant
	Keywords    string // comma separated, as typed
	Featured    bool
	NewArrival  bool
	BestSeller  bool
	OutOfStock  bool

	// ExistingImages are images already stored for the product being edited.
	ExistingImages []catalog.Image

	// transient: never sent as-is
	NewImages  []string
	SearchText string

	// zeroPriced[i] records that a price of 0 was entered or loaded for
	// variant i, so that a free variant is told apart from a missing price.
	zeroPriced []bool
}

var _ Draft = (*Product)(nil)

// NewProduct returns the empty baseline: one blank variant.
func NewProduct() *Product {
	p := &Product{}
	p.Reset()
	return p
}

func (p *Product) Reset() {
	*p = Product{Variants: []catalog.Variant{{}}}
}

func (p *Product) Editing() bool {
	return p.ID != ""
}

// LoadFrom fills the draft from an existing product for edit mode. Only
// images with a storage identifier are kept, since only those can be referenced.
func (p *Product) LoadFrom(src catalog.Product) {
	p.Reset()
	p.ID = src.ID
	p.Title = src.Title
	p.Description = src.Description
	p.ProductType = src.ProductType
	p.Category = src.Category
	p.SubCategory = src.SubCategory
	p.Brand = src.Brand
	if len(src.Variants) > 0 {
		p.Variants = append([]catalog.Variant(nil), src.Variants...)
	}
	p.zeroPriced = make([]bool, len(p.Variants))
	for i, v := range p.Variants {
		p.zeroPriced[i] = v.Price == 0
	}
	p.Keywords = strings.Join(src.Keywords, ", ")
	p.Featured = src.Featured
	p.NewArrival = src.NewArrival
	p.BestSeller = src.BestSeller
	p.OutOfStock = src.OutOfStock
	for _, img := range src.Images.All() {
		if img.URL != "" && img.PublicID != "" {
			p.ExistingImages = append(p.ExistingImages, img)
		}
	}
}

// SetField assigns one top-level field by its form name.
func (p *Product) SetField(name string, value any) error {
	var err error
	switch name {
	case "title":
		p.Title, err = cast.ToStringE(value)
	case "description":
		p.Description, err = cast.ToStringE(value)
	case "productType":
		p.ProductType, err = cast.ToStringE(value)
	case "category":
		p.Category, err = cast.ToStringE(value)
	case "subCategory":
		p.SubCategory, err = cast.ToStringE(value)
	case "brand":
		p.Brand, err = cast.ToStringE(value)
	case "keywords":
		p.Keywords, err = cast.ToStringE(value)
	case "isFeatured":
		p.Featured, err = cast.ToBoolE(value)
	case "isNewArrival":
		p.NewArrival, err = cast.ToBoolE(value)
	case "isBestSeller":
		p.BestSeller, err = cast.ToBoolE(value)
	case "isOutOfStock":
		p.OutOfStock, err = cast.ToBoolE(value)
	case "search":
		p.SearchText, err = cast.ToStringE(value)
	default:
		return &UnknownFieldError{Draft: "product", Field: name}
	}
	if err != nil {
		return fmt.Errorf("product field %s: %w", name, err)
	}
	return nil
}

// AddVariant appends a blank variant and returns its index.
func (p *Product) AddVariant() int {
	p.syncPriced()
	p.Variants = append(p.Variants, catalog.Variant{})
	p.zeroPriced = append(p.zeroPriced, false)
	return len(p.Variants) - 1
}

// ResetVariants replaces all variants with a single blank one.
func (p *Product) ResetVariants() {
	p.Variants = []catalog.Variant{{}}
	p.zeroPriced = []bool{false}
}

// HasPrice reports whether variant i has a price. A non-zero price always
// counts; zero counts only when it was entered or loaded.
func (p *Product) HasPrice(i int) bool {
	if i < 0 || i >= len(p.Variants) {
		return false
	}
	if p.Variants[i].Price != 0 {
		return true
	}
	return i < len(p.zeroPriced) && p.zeroPriced[i]
}

// syncPriced aligns zeroPriced with Variants after direct edits of the slice.
func (p *Product) syncPriced() {
	switch {
	case len(p.zeroPriced) > len(p.Variants):
		p.zeroPriced = p.zeroPriced[:len(p.Variants)]
	case len(p.zeroPriced) < len(p.Variants):
		p.zeroPriced = append(p.zeroPriced, make([]bool, len(p.Variants)-len(p.zeroPriced))...)
	}
}

// RemoveVariant drops variant i. The last remaining variant cannot be removed.
func (p *Product) RemoveVariant(i int) error {
	if i < 0 || i >= len(p.Variants) {
		return fmt.Errorf("variant %d does not exist", i)
	}
	if len(p.Variants) == 1 {
		return fmt.Errorf("a product needs at least one variant")
	}
	p.syncPriced()
	p.Variants = append(p.Variants[:i], p.Variants[i+1:]...)
	p.zeroPriced = append(p.zeroPriced[:i], p.zeroPriced[i+1:]...)
	return nil
}

// SetVariantField assigns one field of variant i by its form name.
func (p *Product) SetVariantField(i int, name string, value any) error {
	if i < 0 || i >= len(p.Variants) {
		return fmt.Errorf("variant %d does not exist", i)
	}
	v := &p.Variants[i]
	var err error
	switch name {
	case "size":
		v.Size, err = cast.ToStringE(value)
	case "color":
		v.Color, err = cast.ToStringE(value)
	case "sku":
		v.SKU, err = cast.ToStringE(value)
	case "price":
		if v.Price, err = cast.ToFloat64E(value); err == nil {
			p.syncPriced()
			p.zeroPriced[i] = v.Price == 0
		}
	case "discountPercent":
		v.DiscountPercent, err = cast.ToFloat64E(value)
	case "stock":
		v.Stock, err = cast.ToIntE(value)
	case "isOutOfStock":
		v.OutOfStock, err = cast.ToBoolE(value)
	default:
		return &UnknownFieldError{Draft: "variant", Field: name}
	}
	if err != nil {
		return fmt.Errorf("variant %d field %s: %w", i, name, err)
	}
	return nil
}

// SelectFiles replaces the selected local image files.
func (p *Product) SelectFiles(paths ...string) {
	p.NewImages = append([]string(nil), paths...)
}

// RemoveExistingImage drops a stored image from the kept set.
func (p *Product) RemoveExistingImage(publicID string) bool {
	for i, img := range p.ExistingImages {
		if img.PublicID == publicID {
			p.ExistingImages = append(p.ExistingImages[:i], p.ExistingImages[i+1:]...)
			return true
		}
	}
	return false
}

// KeywordList is the parsed keyword line.
func (p *Product) KeywordList() []string {
	return catalog.SplitKeywords(p.Keywords)
}

// FinalPricePreview computes the discounted price of each variant from its
// current fields.
func (p *Product) FinalPricePreview() []decimal.Decimal {
	out := make([]decimal.Decimal, len(p.Variants))
	for i, v := range p.Variants {
		out[i] = v.FinalPrice()
	}
	return out
}

package draft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/spf13/cast"
)

// ErrTypeLocked is returned when changing the type of a banner being edited.
var ErrTypeLocked = errors.New("banner type cannot change while editing")

// Banner is the editable state of a banner form. The type is the form's
// kind and survives Reset.
type Banner struct {
	ID           string
	Type         catalog.BannerType
	Title        string
	Slot         catalog.Slot
	Percentage   float64
	CategoryType string
	ProductID    string
	VariantIndex int

	// ProductIDs are the targets when one banner kind is applied to several
	// products at once.
	ProductIDs []string

	// transient
	Image      string
	SearchText string
}

var _ Draft = (*Banner)(nil)

func NewBanner(t catalog.BannerType) *Banner {
	return &Banner{Type: t}
}

func (b *Banner) Reset() {
	*b = Banner{Type: b.Type}
}

func (b *Banner) Editing() bool {
	return b.ID != ""
}

// LoadFrom fills the draft from an existing banner for edit mode. The image
// selection starts empty; the stored image stays unless a new one is chosen.
func (b *Banner) LoadFrom(src catalog.Banner) {
	*b = Banner{
		ID:           src.ID,
		Type:         src.Type,
		Title:        src.Title,
		Slot:         src.Slot,
		Percentage:   src.Percentage,
		CategoryType: src.CategoryType,
		ProductID:    src.ProductID,
		VariantIndex: src.SelectedVariantIndex,
	}
}

// SetField assigns one field by its form name.
func (b *Banner) SetField(name string, value any) error {
	var err error
	switch name {
	case "type":
		var s string
		if s, err = cast.ToStringE(value); err == nil {
			var t catalog.BannerType
			if t, err = catalog.ParseBannerType(s); err == nil {
				if b.Editing() && t != b.Type {
					return ErrTypeLocked
				}
				b.Type = t
			}
		}
	case "title":
		b.Title, err = cast.ToStringE(value)
	case "slot":
		var s string
		if s, err = cast.ToStringE(value); err == nil {
			b.Slot, err = catalog.ParseSlot(s)
		}
	case "percentage":
		b.Percentage, err = cast.ToFloat64E(value)
	case "categoryType":
		var s string
		if s, err = cast.ToStringE(value); err == nil {
			b.CategoryType = strings.TrimSpace(s)
		}
	case "productId":
		b.ProductID, err = cast.ToStringE(value)
	case "variantIndex":
		b.VariantIndex, err = cast.ToIntE(value)
	case "productIds":
		var ids []string
		if ids, err = cast.ToStringSliceE(value); err == nil {
			b.ProductIDs = nil
			for _, id := range ids {
				if id = strings.TrimSpace(id); id != "" {
					b.ProductIDs = append(b.ProductIDs, id)
				}
			}
		}
	case "image":
		b.Image, err = cast.ToStringE(value)
	case "search":
		b.SearchText, err = cast.ToStringE(value)
	default:
		return &UnknownFieldError{Draft: "banner", Field: name}
	}
	if err != nil {
		return fmt.Errorf("banner field %s: %w", name, err)
	}
	return nil
}

// SelectFile sets the local image to upload.
func (b *Banner) SelectFile(path string) {
	b.Image = path
}

// Targets returns the products the draft applies to: the batch list when
// set, otherwise the single product.
func (b *Banner) Targets() []string {
	if len(b.ProductIDs) > 0 {
		return append([]string(nil), b.ProductIDs...)
	}
	if b.ProductID != "" {
		return []string{b.ProductID}
	}
	return nil
}

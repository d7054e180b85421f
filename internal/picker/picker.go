// Package picker is a filterable product selection bounded to N entries.
package picker

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nkaewam/catalogctl/internal/catalog"
)

// DefaultMax is the selection bound when none is configured.
const DefaultMax = 6

var (
	// ErrSelectionFull is returned when adding would exceed the bound.
	ErrSelectionFull  = errors.New("selection is full")
	ErrUnknownProduct = errors.New("product is not in the list")
)

// Notice is a message for the admin about the last action.
type Notice string

// Picker holds the working selection. It never talks to the backend.
type Picker struct {
	products []catalog.Product
	max      int
	filter   string
	initial  []string
	selected []string
}

// New starts a picker over products with the given preselection. Extra
// preselected ids beyond limit are dropped.
func New(products []catalog.Product, limit int, preselected ...string) *Picker {
	if limit <= 0 {
		limit = DefaultMax
	}
	p := &Picker{products: products, max: limit}
	for _, id := range preselected {
		if len(p.selected) == limit {
			break
		}
		if !slices.Contains(p.selected, id) {
			p.selected = append(p.selected, id)
		}
	}
	p.initial = slices.Clone(p.selected)
	return p
}

func (p *Picker) Max() int {
	return p.max
}

// SetFilter narrows Visible to titles containing text, ignoring case.
func (p *Picker) SetFilter(text string) {
	p.filter = text
}

// Visible returns the products matching the current filter in list order.
func (p *Picker) Visible() []catalog.Product {
	var out []catalog.Product
	for _, prod := range p.products {
		if prod.MatchesTitle(p.filter) {
			out = append(out, prod)
		}
	}
	return out
}

func (p *Picker) IsSelected(id string) bool {
	return slices.Contains(p.selected, id)
}

// Toggle removes id when selected and adds it otherwise. Adding past the
// bound leaves the selection unchanged and returns ErrSelectionFull.
func (p *Picker) Toggle(id string) (Notice, error) {
	if i := slices.Index(p.selected, id); i >= 0 {
		p.selected = slices.Delete(p.selected, i, i+1)
		return "", nil
	}
	if !slices.ContainsFunc(p.products, func(prod catalog.Product) bool { return prod.ID == id }) {
		return "", fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	if len(p.selected) >= p.max {
		return Notice(fmt.Sprintf("You can select maximum %d products.", p.max)), ErrSelectionFull
	}
	p.selected = append(p.selected, id)
	return "", nil
}

// Selected returns the selected products in selection order.
func (p *Picker) Selected() []catalog.Product {
	out := make([]catalog.Product, 0, len(p.selected))
	for _, id := range p.selected {
		for _, prod := range p.products {
			if prod.ID == id {
				out = append(out, prod)
				break
			}
		}
	}
	return out
}

// Confirm returns the selected ids.
func (p *Picker) Confirm() []string {
	return slices.Clone(p.selected)
}

// Cancel discards the changes and returns the selection the picker started with.
func (p *Picker) Cancel() []string {
	p.selected = slices.Clone(p.initial)
	return slices.Clone(p.initial)
}

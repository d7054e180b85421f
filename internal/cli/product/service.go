package product

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/nkaewam/catalogctl/internal/draft"
	"github.com/nkaewam/catalogctl/internal/session"
	"github.com/nkaewam/catalogctl/internal/submit"
	"go.uber.org/zap"
)

// Service handles product listing, upload and maintenance
type Service interface {
	// List prints the product collection, optionally filtered
	List(ctx context.Context, opts ListOptions) ([]catalog.Product, error)
	// Show prints one product with its variants and images
	Show(ctx context.Context, id string) (*catalog.Product, error)
	// Create uploads a new product
	Create(ctx context.Context, in Input) error
	// Edit loads an existing product, applies in and submits the update
	Edit(ctx context.Context, id string, in Input) error
	// Delete removes a product after confirmation unless force is set
	Delete(ctx context.Context, id string, force bool) error
	// ToggleStock flips the product-level out-of-stock flag
	ToggleStock(ctx context.Context, id string) error
	// ToggleVariantStock flips one variant's out-of-stock flag
	ToggleVariantStock(ctx context.Context, id string, variant int) error
}

// ListOptions narrows the product list.
type ListOptions struct {
	Search      string
	ProductType string
}

// Input is what a create or edit command changes on the draft.
type Input struct {
	// Fields maps draft field names (title, productType, isFeatured, ...) to values.
	Fields map[string]any
	// Variants replace all variants when set, one "key=value,..." spec each.
	Variants     []string
	Images       []string
	RemoveImages []string
}

// API is the part of the backend client the product commands call directly.
type API interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ToggleStock(ctx context.Context, id string) error
	ToggleVariantStock(ctx context.Context, id string, variantIndex int) error
}

// Submitter sends drafts.
type Submitter interface {
	Submit(ctx context.Context, d draft.Draft, mode submit.Mode) (submit.Result, error)
}

// service implements Service interface
type service struct {
	gate     *session.Gate
	api      API
	sets     submit.Collections
	pipeline Submitter
	ui       ui.Service
	log      *zap.Logger
}

// ProvideProductService creates a new product service
// @Provider
func ProvideProductService(gate *session.Gate, client *apiclient.Client, sets submit.Collections, pipeline *submit.Pipeline, uiService ui.Service, log *zap.Logger) Service {
	return NewService(gate, client, sets, pipeline, uiService, log)
}

func NewService(gate *session.Gate, api API, sets submit.Collections, pipeline Submitter, uiService ui.Service, log *zap.Logger) Service {
	return &service{gate: gate, api: api, sets: sets, pipeline: pipeline, ui: uiService, log: log.Named("product")}
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]catalog.Product, error) {
	if err := s.gate.Require(); err != nil {
		return nil, err
	}
	stop := s.ui.ShowSpinner("Loading products...")
	items, err := s.sets.Products.Refresh(ctx)
	if err != nil {
		stop("Loading products failed")
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to load products."))
		return nil, err
	}
	stop(fmt.Sprintf("Loaded %d products", len(items)))

	var shown []catalog.Product
	for _, p := range items {
		if !p.MatchesTitle(opts.Search) {
			continue
		}
		if opts.ProductType != "" && !strings.EqualFold(p.ProductType, opts.ProductType) {
			continue
		}
		shown = append(shown, p)
	}

	rows := make([][]string, 0, len(shown))
	for _, p := range shown {
		rows = append(rows, []string{p.ID, p.Title, p.ProductType, variantSummary(p.Variants), stockLabel(p.OutOfStock)})
	}
	s.ui.Table([]string{"ID", "TITLE", "TYPE", "VARIANTS", "STOCK"}, rows)
	return shown, nil
}

func (s *service) Show(ctx context.Context, id string) (*catalog.Product, error) {
	if err := s.gate.Require(); err != nil {
		return nil, err
	}
	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to load product."))
		return nil, err
	}

	s.ui.Table([]string{"FIELD", "VALUE"}, [][]string{
		{"id", p.ID},
		{"title", p.Title},
		{"productType", p.ProductType},
		{"category", p.Category},
		{"subCategory", p.SubCategory},
		{"brand", p.Brand},
		{"keywords", strings.Join(p.Keywords, ", ")},
		{"flags", flags(*p)},
		{"stock", stockLabel(p.OutOfStock)},
	})
	rows := make([][]string, 0, len(p.Variants))
	for i, v := range p.Variants {
		rows = append(rows, []string{
			strconv.Itoa(i), v.Size, v.Color, v.SKU,
			fmt.Sprintf("%.2f", v.Price), fmt.Sprintf("%g%%", v.DiscountPercent),
			v.FinalPrice().StringFixed(2), strconv.Itoa(v.Stock), stockLabel(v.OutOfStock),
		})
	}
	s.ui.Table([]string{"#", "SIZE", "COLOR", "SKU", "PRICE", "DISCOUNT", "FINAL", "QTY", "STOCK"}, rows)
	for _, img := range p.Images.All() {
		s.ui.Info("%s  %s", img.PublicID, img.URL)
	}
	return p, nil
}

func (s *service) Create(ctx context.Context, in Input) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	d := draft.NewProduct()
	if err := Apply(d, in); err != nil {
		return err
	}
	if strings.TrimSpace(d.ProductType) == "" {
		if err := s.askProductType(ctx, d); err != nil {
			return err
		}
	}
	return s.submit(ctx, d, submit.ModeCreate)
}

// askProductType offers the product types already in use.
func (s *service) askProductType(ctx context.Context, d *draft.Product) error {
	items, err := s.sets.Products.Refresh(ctx)
	if err != nil {
		s.log.Warn("loading product types failed", zap.Error(err))
	}
	label := "Product type"
	if types := catalog.ProductTypes(items); len(types) > 0 {
		label = fmt.Sprintf("Product type (%s)", strings.Join(types, ", "))
	}
	answer, err := s.ui.Prompt(label, "")
	if err != nil {
		return err
	}
	return d.SetField("productType", answer)
}

func (s *service) Edit(ctx context.Context, id string, in Input) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to load product."))
		return err
	}
	d := draft.NewProduct()
	d.LoadFrom(*p)
	if err := Apply(d, in); err != nil {
		return err
	}
	return s.submit(ctx, d, submit.ModeUpdate)
}

func (s *service) submit(ctx context.Context, d *draft.Product, mode submit.Mode) error {
	for i, price := range d.FinalPricePreview() {
		s.ui.Info("Variant %d (%s): final price %s", i, d.Variants[i].Size, price.StringFixed(2))
	}
	stop := s.ui.ShowSpinner("Saving product...")
	res, err := s.pipeline.Submit(ctx, d, mode)
	stop("Done")
	return ui.ReportSubmit(s.ui, "Product", res, err)
}

func (s *service) Delete(ctx context.Context, id string, force bool) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	if !force {
		ok, err := s.ui.Confirm(fmt.Sprintf("Delete product %s?", id))
		if err != nil {
			return err
		}
		if !ok {
			s.ui.Info("Cancelled")
			return nil
		}
	}
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to delete product."))
		return err
	}
	s.ui.Success("Deleted product %s", id)
	s.sync(ctx)
	return nil
}

func (s *service) ToggleStock(ctx context.Context, id string) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	if err := s.api.ToggleStock(ctx, id); err != nil {
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to update stock."))
		return err
	}
	s.sync(ctx)
	if p, ok := s.find(id); ok {
		s.ui.Success("%s is now %s", p.Title, stockLabel(p.OutOfStock))
	} else {
		s.ui.Success("Stock updated")
	}
	return nil
}

func (s *service) ToggleVariantStock(ctx context.Context, id string, variant int) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	if err := s.api.ToggleVariantStock(ctx, id, variant); err != nil {
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to update variant stock."))
		return err
	}
	s.sync(ctx)
	if p, ok := s.find(id); ok {
		if v, ok := p.Variant(variant); ok {
			s.ui.Success("%s %s is now %s", p.Title, v.Size, stockLabel(v.OutOfStock))
			return nil
		}
	}
	s.ui.Success("Variant stock updated")
	return nil
}

// sync refreshes the product list after a mutation. A failed refresh is
// reported but does not undo the mutation's success.
func (s *service) sync(ctx context.Context) {
	if err := s.sets.Products.Sync(ctx); err != nil {
		s.ui.Info("Saved, but the product list could not be refreshed: %s", apiclient.UserMessage(err, err.Error()))
	}
}

func (s *service) find(id string) (catalog.Product, bool) {
	for _, p := range s.sets.Products.Items() {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// Apply writes in onto the draft. Fields are applied in name order.
func Apply(d *draft.Product, in Input) error {
	names := make([]string, 0, len(in.Fields))
	for name := range in.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := d.SetField(name, in.Fields[name]); err != nil {
			return err
		}
	}

	if len(in.Variants) > 0 {
		d.ResetVariants()
		for i, spec := range in.Variants {
			if i > 0 {
				d.AddVariant()
			}
			if err := ApplyVariantSpec(d, i, spec); err != nil {
				return err
			}
		}
	}

	for _, id := range in.RemoveImages {
		if !d.RemoveExistingImage(id) {
			return fmt.Errorf("product has no stored image %q", id)
		}
	}
	if len(in.Images) > 0 {
		d.SelectFiles(in.Images...)
	}
	return nil
}

var variantKeys = map[string]string{
	"discount": "discountPercent",
	"qty":      "stock",
	"oos":      "isOutOfStock",
}

// ApplyVariantSpec sets variant i from "size=500ml,price=100,discount=10".
func ApplyVariantSpec(d *draft.Product, i int, spec string) error {
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("variant %d: %q is not key=value", i, pair)
		}
		key = strings.TrimSpace(key)
		if alias, ok := variantKeys[key]; ok {
			key = alias
		}
		if err := d.SetVariantField(i, key, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

func variantSummary(variants []catalog.Variant) string {
	parts := make([]string, 0, len(variants))
	for _, v := range variants {
		if v.DiscountPercent > 0 {
			parts = append(parts, fmt.Sprintf("%s %.2f→%s", v.Size, v.Price, v.FinalPrice().StringFixed(2)))
		} else {
			parts = append(parts, fmt.Sprintf("%s %.2f", v.Size, v.Price))
		}
	}
	return strings.Join(parts, "; ")
}

func stockLabel(outOfStock bool) string {
	if outOfStock {
		return "out of stock"
	}
	return "in stock"
}

func flags(p catalog.Product) string {
	var out []string
	if p.Featured {
		out = append(out, "featured")
	}
	if p.NewArrival {
		out = append(out, "new arrival")
	}
	if p.BestSeller {
		out = append(out, "best seller")
	}
	return strings.Join(out, ", ")
}

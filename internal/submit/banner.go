package submit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/draft"
	"github.com/nkaewam/catalogctl/internal/fingerprint"
	"go.uber.org/zap"
)

// skippedError marks a batch item left out because its variant size is
// malformed. It keeps the validation error that caused the skip.
type skippedError struct {
	cause *ValidationError
}

func (e *skippedError) Error() string {
	return "skipped: " + e.cause.Error()
}

func (e *skippedError) Unwrap() error {
	return e.cause
}

func (p *Pipeline) submitBanner(ctx context.Context, d *draft.Banner, mode Mode) (Result, error) {
	desc, err := Lookup(KindOf(d.Type))
	if err != nil {
		return Result{}, invalid("type", "%v", err)
	}
	if mode == ModeUpdate && !desc.Updatable() {
		return Result{}, invalid("type", "%s cannot be edited; delete it and upload a new one", desc.Label)
	}
	if err := requireFields(desc, d); err != nil {
		return Result{}, err
	}

	base := &BannerRequest{
		Type:       d.Type,
		Title:      strings.TrimSpace(d.Title),
		Slot:       d.Slot,
		Percentage: d.Percentage,
	}
	if desc.Unique == UniqueCategoryTitle {
		base.CategoryType = d.CategoryType
	}
	if d.Image != "" {
		if err := requireImage("image", d.Image); err != nil {
			return Result{}, err
		}
		base.Image = d.Image
	} else if desc.NeedsImage && mode == ModeCreate {
		return Result{}, invalid("image", "is required")
	}
	if err := p.checkUnique(desc, d); err != nil {
		return Result{}, err
	}
	if desc.Fingerprint && base.Image != "" {
		hash, err := fingerprint.File(base.Image)
		if err != nil {
			return Result{}, invalid("image", "cannot fingerprint %s: %v", base.Image, err)
		}
		base.Hash = hash
	}

	if !desc.NeedsProduct {
		if err := check(p.validate, base); err != nil {
			return Result{}, err
		}
		res := Result{Kind: desc.Kind, Mode: mode, Total: 1}
		if err := p.dispatch(ctx, desc, mode, d.ID, base.Form(desc)); err != nil {
			res.Failures = append(res.Failures, Failure{Target: string(desc.Kind), Err: err})
			return res, err
		}
		res.Succeeded = 1
		p.afterSuccess(ctx, desc, d, &res)
		return res, nil
	}

	targets := d.Targets()
	if mode == ModeUpdate && len(targets) > 1 {
		return Result{}, invalid("productIds", "an update applies to one banner only")
	}
	if len(targets) > 1 {
		return p.submitBatch(ctx, desc, d, base, targets), nil
	}

	// single product: any snapshot problem blocks the submission
	req, err := p.snapshot(base, targets[0], d.VariantIndex)
	if err != nil {
		return Result{}, err
	}
	if err := check(p.validate, req); err != nil {
		return Result{}, err
	}
	res := Result{Kind: desc.Kind, Mode: mode, Total: 1}
	if err := p.dispatch(ctx, desc, mode, d.ID, req.Form(desc)); err != nil {
		res.Failures = append(res.Failures, Failure{Target: req.Title, Err: err})
		return res, err
	}
	res.Succeeded = 1
	p.afterSuccess(ctx, desc, d, &res)
	return res, nil
}

// submitBatch sends one create per product. Items whose variant size is
// malformed are skipped with a warning; other per-item errors are counted
// as failures and the rest of the batch carries on.
func (p *Pipeline) submitBatch(ctx context.Context, desc Descriptor, d *draft.Banner, base *BannerRequest, targets []string) Result {
	res := Result{Kind: desc.Kind, Mode: ModeCreate, Total: len(targets)}
	outcomes := make([]error, len(targets))
	labels := append([]string(nil), targets...)

	for i, id := range targets {
		if prod, ok := p.findProduct(id); ok {
			labels[i] = prod.Title
		}
	}

	p.runBatch(len(targets), func(i int) {
		req, err := p.snapshot(base, targets[i], d.VariantIndex)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) && verr.Field == "size" {
				outcomes[i] = &skippedError{cause: verr}
				return
			}
			outcomes[i] = err
			return
		}
		if err := check(p.validate, req); err != nil {
			outcomes[i] = err
			return
		}
		outcomes[i] = p.dispatch(ctx, desc, ModeCreate, "", req.Form(desc))
	})

	for i, err := range outcomes {
		var skipped *skippedError
		switch {
		case err == nil:
			res.Succeeded++
		case errors.As(err, &skipped):
			res.Skipped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s skipped: %v", labels[i], skipped.cause))
			p.log.Warn("batch item skipped", zap.String("product", targets[i]), zap.Error(skipped.cause))
		default:
			res.Failures = append(res.Failures, Failure{Target: labels[i], Err: err})
		}
	}
	if res.Succeeded > 0 {
		p.afterSuccess(ctx, desc, d, &res)
	}
	return res
}

// snapshot copies the product and variant fields a linked banner renders.
func (p *Pipeline) snapshot(base *BannerRequest, productID string, variantIndex int) (*BannerRequest, error) {
	product, ok := p.findProduct(productID)
	if !ok {
		return nil, invalid("productId", "%q is not in the product list", productID)
	}
	variant, ok := product.Variant(variantIndex)
	if !ok {
		return nil, invalid("selectedVariantIndex", "%d is out of range for %q (%d variants)", variantIndex, product.Title, len(product.Variants))
	}
	size, err := catalog.ParseSize(strings.TrimSpace(variant.Size))
	if err != nil {
		return nil, invalid("size", "of %q: %v", product.Title, err)
	}
	if !catalog.ValidDiscount(variant.DiscountPercent) || variant.DiscountPercent == 100 {
		return nil, invalid("discountPercent", "of %q must be below 100", product.Title)
	}

	req := *base
	req.ProductID = product.ID
	req.SelectedVariantIndex = variantIndex
	req.ProductImageURL = product.Images.Primary()
	req.Title = product.Title
	req.Price = variant.Price
	req.DiscountPercent = variant.DiscountPercent
	req.Weight = &size
	req.OldPrice = ""
	if variant.DiscountPercent > 0 {
		old, err := catalog.OldPrice(variant.Price, variant.DiscountPercent)
		if err != nil {
			return nil, invalid("discountPercent", "%v", err)
		}
		req.OldPrice = old.StringFixed(2)
	}
	return &req, nil
}

func (p *Pipeline) findProduct(id string) (catalog.Product, bool) {
	for _, prod := range p.sets.Products.Items() {
		if prod.ID == id {
			return prod, true
		}
	}
	return catalog.Product{}, false
}

func requireFields(desc Descriptor, d *draft.Banner) error {
	for _, name := range desc.Required {
		var empty bool
		switch name {
		case "title":
			empty = strings.TrimSpace(d.Title) == ""
		case "slot":
			empty = d.Slot == ""
		case "categoryType":
			empty = strings.TrimSpace(d.CategoryType) == ""
		case "productId":
			empty = len(d.Targets()) == 0
		}
		if empty {
			return invalid(name, "is required for a %s", desc.Label)
		}
	}
	return nil
}

// checkUnique applies the advisory uniqueness rules against the fetched
// collections. The banner being edited does not conflict with itself.
func (p *Pipeline) checkUnique(desc Descriptor, d *draft.Banner) error {
	switch desc.Unique {
	case UniqueCategoryTitle:
		title := strings.TrimSpace(d.Title)
		if categories := catalog.Categories(p.sets.Products.Items()); len(categories) > 0 && !containsFold(categories, title) {
			return invalid("title", "%q is not a product category (have: %s)", title, strings.Join(categories, ", "))
		}
		for _, b := range catalog.FilterBanners(p.sets.Banners.Items(), catalog.BannerCategory) {
			if b.ID != d.ID && strings.EqualFold(strings.TrimSpace(b.Title), title) {
				return invalid("title", "a category banner for %q already exists", b.Title)
			}
		}
		if types := catalog.ProductTypes(p.sets.Products.Items()); len(types) > 0 && !containsFold(types, d.CategoryType) {
			return invalid("categoryType", "%q is not a product type in use (have: %s)", d.CategoryType, strings.Join(types, ", "))
		}
	case UniqueOfferSlot:
		for _, b := range p.sets.Offers.Items() {
			if b.ID != d.ID && b.Slot == d.Slot {
				return invalid("slot", "%s already has an offer banner", d.Slot)
			}
		}
	}
	return nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

package banner

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/cli/selection"
	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/nkaewam/catalogctl/internal/draft"
	"github.com/nkaewam/catalogctl/internal/session"
	"github.com/nkaewam/catalogctl/internal/submit"
	"go.uber.org/zap"
)

// Service handles banner and offer banner uploads and maintenance
type Service interface {
	// List prints banners, all kinds when t is empty
	List(ctx context.Context, t string) ([]catalog.Banner, error)
	// Upload creates a banner, or one per selected product for linked kinds
	Upload(ctx context.Context, in Input) error
	// Update edits an existing banner; its type cannot change
	Update(ctx context.Context, id string, in Input) error
	// Delete removes one banner or offer banner
	Delete(ctx context.Context, id string, force bool) error
	// DeleteType removes every banner of one kind
	DeleteType(ctx context.Context, t string, force bool) error
	// Linked lists the products referenced by product-type and side banners
	Linked(ctx context.Context) ([]catalog.Product, error)
}

// Input is what an upload or update command sets on the draft.
type Input struct {
	Type string
	// Fields maps draft field names (title, slot, percentage, productId, ...) to values.
	Fields map[string]any
	Image  string
	// Pick opens the product picker for linked kinds.
	Pick bool
}

// API is the part of the backend client the banner commands call directly.
type API interface {
	DeleteBanner(ctx context.Context, id string) error
	DeleteBannersByType(ctx context.Context, t catalog.BannerType) error
	DeleteOfferBanner(ctx context.Context, id string) error
}

// Submitter sends drafts.
type Submitter interface {
	Submit(ctx context.Context, d draft.Draft, mode submit.Mode) (submit.Result, error)
}

// service implements Service interface
type service struct {
	gate      *session.Gate
	api       API
	sets      submit.Collections
	pipeline  Submitter
	selection selection.Service
	ui        ui.Service
	log       *zap.Logger
}

// ProvideBannerService creates a new banner service
// @Provider
func ProvideBannerService(gate *session.Gate, client *apiclient.Client, sets submit.Collections, pipeline *submit.Pipeline, selectionService selection.Service, uiService ui.Service, log *zap.Logger) Service {
	return NewService(gate, client, sets, pipeline, selectionService, uiService, log)
}

func NewService(gate *session.Gate, api API, sets submit.Collections, pipeline Submitter, selectionService selection.Service, uiService ui.Service, log *zap.Logger) Service {
	return &service{
		gate:      gate,
		api:       api,
		sets:      sets,
		pipeline:  pipeline,
		selection: selectionService,
		ui:        uiService,
		log:       log.Named("banner"),
	}
}

func (s *service) List(ctx context.Context, t string) ([]catalog.Banner, error) {
	if err := s.gate.Require(); err != nil {
		return nil, err
	}

	var (
		items []catalog.Banner
		err   error
	)
	stop := s.ui.ShowSpinner("Loading banners...")
	switch {
	case t == "":
		items, err = s.sets.Banners.Refresh(ctx)
		if err == nil {
			var offers []catalog.Banner
			offers, err = s.sets.Offers.Refresh(ctx)
			items = append(items, offers...)
		}
	default:
		var bt catalog.BannerType
		if bt, err = catalog.ParseBannerType(t); err != nil {
			stop("Loading banners failed")
			return nil, err
		}
		if bt == catalog.BannerOffer {
			items, err = s.sets.Offers.Refresh(ctx)
		} else {
			items, err = s.sets.Banners.Refresh(ctx)
			items = catalog.FilterBanners(items, bt)
		}
	}
	if err != nil {
		stop("Loading banners failed")
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to load banners."))
		return nil, err
	}
	stop(fmt.Sprintf("Loaded %d banners", len(items)))

	rows := make([][]string, 0, len(items))
	for _, b := range items {
		rows = append(rows, []string{b.ID, string(b.Type), b.Title, detail(b), b.DisplayImage()})
	}
	s.ui.Table([]string{"ID", "TYPE", "TITLE", "DETAIL", "IMAGE"}, rows)
	return items, nil
}

func (s *service) Upload(ctx context.Context, in Input) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	d := draft.NewBanner("")
	if err := d.SetField("type", in.Type); err != nil {
		return err
	}
	s.load(ctx, d.Type)
	if err := s.apply(ctx, d, in); err != nil {
		return err
	}
	if d.Type == catalog.BannerCategory && d.CategoryType == "" {
		if err := s.askCategoryType(d); err != nil {
			return err
		}
	}
	return s.submit(ctx, d, submit.ModeCreate)
}

func (s *service) Update(ctx context.Context, id string, in Input) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	s.load(ctx, "")
	existing, ok := s.find(id)
	if !ok {
		err := fmt.Errorf("banner %s not found", id)
		s.ui.Fail("%s", err.Error())
		return err
	}
	d := draft.NewBanner(existing.Type)
	d.LoadFrom(existing)
	if in.Type != "" {
		if err := d.SetField("type", in.Type); err != nil {
			return err
		}
	}
	if err := s.apply(ctx, d, in); err != nil {
		return err
	}
	return s.submit(ctx, d, submit.ModeUpdate)
}

// askCategoryType offers the product types a category banner can link to.
func (s *service) askCategoryType(d *draft.Banner) error {
	label := "Category type"
	if types := catalog.ProductTypes(s.sets.Products.Items()); len(types) > 0 {
		label = fmt.Sprintf("Category type (%s)", strings.Join(types, ", "))
	}
	answer, err := s.ui.Prompt(label, "")
	if err != nil {
		return err
	}
	return d.SetField("categoryType", answer)
}

// load fetches what the pipeline checks a banner against. Failures are
// reported; the checks then run against whatever was loaded before.
func (s *service) load(ctx context.Context, t catalog.BannerType) {
	refresh := []func(context.Context) error{s.sets.Banners.Sync, s.sets.Offers.Sync}
	if t == "" || t.ProductLinked() || t == catalog.BannerCategory {
		refresh = append(refresh, s.sets.Products.Sync)
	}
	for _, sync := range refresh {
		if err := sync(ctx); err != nil {
			s.ui.Info("%s", apiclient.UserMessage(err, err.Error()))
		}
	}
}

func (s *service) apply(ctx context.Context, d *draft.Banner, in Input) error {
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
	if in.Image != "" {
		d.SelectFile(in.Image)
	}

	if in.Pick && d.Type.ProductLinked() {
		ids, err := s.selection.Pick(ctx, s.sets.Products.Items(), d.Targets())
		if err != nil {
			return err
		}
		if d.Editing() {
			if len(ids) > 0 {
				d.ProductID = ids[0]
			}
			return nil
		}
		return d.SetField("productIds", ids)
	}
	return nil
}

func (s *service) submit(ctx context.Context, d *draft.Banner, mode submit.Mode) error {
	stop := s.ui.ShowSpinner("Saving banner...")
	res, err := s.pipeline.Submit(ctx, d, mode)
	stop("Done")
	return ui.ReportSubmit(s.ui, "Banner", res, err)
}

func (s *service) Delete(ctx context.Context, id string, force bool) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	if !force {
		ok, err := s.ui.Confirm(fmt.Sprintf("Delete banner %s?", id))
		if err != nil || !ok {
			if err == nil {
				s.ui.Info("Cancelled")
			}
			return err
		}
	}

	if err := s.sets.Offers.Sync(ctx); err != nil {
		s.log.Warn("loading offer banners failed", zap.Error(err))
	}
	del, coll := s.api.DeleteBanner, s.sets.Banners.Sync
	for _, o := range s.sets.Offers.Items() {
		if o.ID == id {
			del, coll = s.api.DeleteOfferBanner, s.sets.Offers.Sync
			break
		}
	}
	if err := del(ctx, id); err != nil {
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to delete banner."))
		return err
	}
	s.ui.Success("Deleted banner %s", id)
	if err := coll(ctx); err != nil {
		s.ui.Info("Deleted, but the banner list could not be refreshed")
	}
	return nil
}

func (s *service) DeleteType(ctx context.Context, t string, force bool) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	bt, err := catalog.ParseBannerType(t)
	if err != nil {
		return err
	}
	if bt == catalog.BannerOffer {
		return fmt.Errorf("offer banners are deleted one at a time")
	}
	if !force {
		ok, err := s.ui.Confirm(fmt.Sprintf("Delete ALL %s banners?", bt))
		if err != nil || !ok {
			if err == nil {
				s.ui.Info("Cancelled")
			}
			return err
		}
	}
	if err := s.api.DeleteBannersByType(ctx, bt); err != nil {
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to delete banners."))
		return err
	}
	s.ui.Success("Deleted all %s banners", bt)
	if err := s.sets.Banners.Sync(ctx); err != nil {
		s.ui.Info("Deleted, but the banner list could not be refreshed")
	}
	return nil
}

func (s *service) Linked(ctx context.Context) ([]catalog.Product, error) {
	if err := s.gate.Require(); err != nil {
		return nil, err
	}
	banners, err := s.sets.Banners.Refresh(ctx)
	if err != nil {
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to load banners."))
		return nil, err
	}
	products, err := s.sets.Products.Refresh(ctx)
	if err != nil {
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to load products."))
		return nil, err
	}

	linked := catalog.LinkedProducts(banners, products)
	rows := make([][]string, 0, len(linked))
	for _, p := range linked {
		rows = append(rows, []string{p.ID, p.Title, p.ProductType})
	}
	s.ui.Table([]string{"ID", "TITLE", "TYPE"}, rows)
	return linked, nil
}

func (s *service) find(id string) (catalog.Banner, bool) {
	for _, list := range [][]catalog.Banner{s.sets.Banners.Items(), s.sets.Offers.Items()} {
		for _, b := range list {
			if b.ID == id {
				return b, true
			}
		}
	}
	return catalog.Banner{}, false
}

func detail(b catalog.Banner) string {
	switch {
	case b.Type == catalog.BannerOffer:
		return fmt.Sprintf("%s %g%%", b.Slot, b.Percentage)
	case b.Type == catalog.BannerCategory:
		return b.CategoryType
	case b.Type.ProductLinked():
		out := b.ProductID + " #" + strconv.Itoa(b.SelectedVariantIndex)
		if b.Weight != nil {
			out += " " + b.Weight.String()
		}
		return out
	}
	return ""
}

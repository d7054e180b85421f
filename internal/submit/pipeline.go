// Package submit turns drafts into backend mutations: validate, derive,
// package, dispatch, then refresh the affected collection and reset the draft.
package submit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/config"
	"github.com/nkaewam/catalogctl/internal/draft"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Mode selects between creating a new entity and updating the loaded one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

func (m Mode) String() string {
	if m == ModeUpdate {
		return "update"
	}
	return "create"
}

// ModeFor picks update for drafts loaded from an existing entity.
func ModeFor(d draft.Draft) Mode {
	if d.Editing() {
		return ModeUpdate
	}
	return ModeCreate
}

// Sender dispatches one packaged form.
type Sender interface {
	SendForm(ctx context.Context, method, path string, form *apiclient.Form, out any) error
}

var _ Sender = (*apiclient.Client)(nil)

// Result is the resolved outcome of one Submit call.
type Result struct {
	Kind      Kind
	Mode      Mode
	Total     int
	Succeeded int
	Skipped   int
	Failures  []Failure
	Warnings  []string
}

func (r Result) Failed() int {
	return len(r.Failures)
}

// Err returns the batch failures as one error, nil when everything went through.
func (r Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &BatchError{Failures: r.Failures, Total: r.Total}
}

// Pipeline submits drafts. One pipeline allows one submission at a time.
type Pipeline struct {
	sender      Sender
	sets        Collections
	validate    *validator.Validate
	log         *zap.Logger
	concurrency int

	busy sync.Mutex
}

type Option func(*Pipeline)

// WithBatchConcurrency lets batch items run n at a time. n <= 1 keeps them sequential.
func WithBatchConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

func New(sender Sender, sets Collections, log *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		sender:      sender,
		sets:        sets,
		validate:    newValidator(),
		log:         log.Named("submit"),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProvidePipeline creates the submission pipeline
// @Provider
func ProvidePipeline(cfg *config.Config, client *apiclient.Client, sets Collections, log *zap.Logger) *Pipeline {
	return New(client, sets, log, WithBatchConcurrency(cfg.Submit.BatchConcurrency))
}

// Submit validates the draft and sends it. Validation failures return a
// *ValidationError and never reach the network. A call made while another
// is still running returns ErrSubmitInFlight.
func (p *Pipeline) Submit(ctx context.Context, d draft.Draft, mode Mode) (Result, error) {
	if !p.busy.TryLock() {
		return Result{}, ErrSubmitInFlight
	}
	defer p.busy.Unlock()

	if mode == ModeUpdate && !d.Editing() {
		return Result{}, invalid("id", "is required to update; load an existing entity first")
	}

	switch d := d.(type) {
	case *draft.Product:
		return p.submitProduct(ctx, d, mode)
	case *draft.Banner:
		return p.submitBanner(ctx, d, mode)
	}
	return Result{}, fmt.Errorf("unsupported draft %T", d)
}

func (p *Pipeline) submitProduct(ctx context.Context, d *draft.Product, mode Mode) (Result, error) {
	desc, err := Lookup(KindProduct)
	if err != nil {
		return Result{}, err
	}
	req := productRequest(d)
	if err := check(p.validate, req); err != nil {
		return Result{}, err
	}
	for i := range d.Variants {
		if !d.HasPrice(i) {
			return Result{}, invalid(fmt.Sprintf("variants[%d].price", i), "is required")
		}
	}
	switch {
	case mode == ModeCreate && len(req.Images) == 0:
		return Result{}, invalid("images", "needs at least one new image")
	case mode == ModeUpdate && len(req.Images)+len(req.ExistingImagePublicIDs) == 0:
		return Result{}, invalid("images", "cannot all be removed; keep one or add a new image")
	}
	for _, path := range req.Images {
		if err := requireImage("images", path); err != nil {
			return Result{}, err
		}
	}

	form, err := req.Form(desc.FileField)
	if err != nil {
		return Result{}, err
	}
	res := Result{Kind: KindProduct, Mode: mode, Total: 1}
	if err := p.dispatch(ctx, desc, mode, d.ID, form); err != nil {
		res.Failures = append(res.Failures, Failure{Target: req.Title, Err: err})
		return res, err
	}
	res.Succeeded = 1
	p.afterSuccess(ctx, desc, d, &res)
	return res, nil
}

func productRequest(d *draft.Product) *ProductRequest {
	req := &ProductRequest{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		ProductType: strings.TrimSpace(d.ProductType),
		Category:    strings.TrimSpace(d.Category),
		SubCategory: strings.TrimSpace(d.SubCategory),
		Brand:       strings.TrimSpace(d.Brand),
		Keywords:    d.KeywordList(),
		Featured:    d.Featured,
		NewArrival:  d.NewArrival,
		BestSeller:  d.BestSeller,
		OutOfStock:  d.OutOfStock,
		Images:      append([]string(nil), d.NewImages...),
	}
	for _, v := range d.Variants {
		req.Variants = append(req.Variants, VariantRequest{
			Size:            strings.TrimSpace(v.Size),
			Color:           v.Color,
			SKU:             v.SKU,
			Price:           v.Price,
			DiscountPercent: v.DiscountPercent,
			Stock:           v.Stock,
			OutOfStock:      v.OutOfStock,
		})
	}
	for _, img := range d.ExistingImages {
		req.ExistingImagePublicIDs = append(req.ExistingImagePublicIDs, img.PublicID)
	}
	return req
}

// requireImage sniffs the file content; the extension is not trusted.
func requireImage(field, path string) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return invalid(field, "cannot read %s: %v", path, err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return invalid(field, "%s is not an image (%s)", path, mtype.String())
	}
	return nil
}

func (p *Pipeline) dispatch(ctx context.Context, desc Descriptor, mode Mode, id string, form *apiclient.Form) error {
	method, path := http.MethodPost, desc.CreatePath
	if mode == ModeUpdate {
		method, path = http.MethodPut, desc.UpdatePath(id)
	}
	if err := p.sender.SendForm(ctx, method, path, form, nil); err != nil {
		p.log.Warn("submission rejected", zap.String("kind", string(desc.Kind)), zap.Stringer("mode", mode), zap.Error(err))
		return err
	}
	p.log.Info("submitted", zap.String("kind", string(desc.Kind)), zap.Stringer("mode", mode))
	return nil
}

// afterSuccess refreshes the collection the kind lives in and resets the
// draft. A failed refresh does not undo the submission; it becomes a warning.
func (p *Pipeline) afterSuccess(ctx context.Context, desc Descriptor, d draft.Draft, res *Result) {
	if s := p.sets.syncer(desc.target); s != nil {
		if err := s.Sync(ctx); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("saved, but the list could not be refreshed: %v", err))
		}
	}
	if len(res.Failures) == 0 {
		d.Reset()
	}
}

// runBatch runs fn for each of n items, sequentially or on a bounded pool.
func (p *Pipeline) runBatch(n int, fn func(i int)) {
	if p.concurrency <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	pool, err := ants.NewPool(min(p.concurrency, n))
	if err != nil {
		p.log.Warn("batch pool unavailable, running sequentially", zap.Error(err))
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		i := i
		if err := pool.Submit(func() {
			defer wg.Done()
			fn(i)
		}); err != nil {
			wg.Done()
			fn(i)
		}
	}
	wg.Wait()
}

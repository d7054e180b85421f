package product_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/cli/product"
	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/nkaewam/catalogctl/internal/devserver/devservertest"
	"github.com/nkaewam/catalogctl/internal/draft"
	"github.com/nkaewam/catalogctl/internal/session"
	"github.com/nkaewam/catalogctl/internal/submit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

type fixture struct {
	svc     product.Service
	backend *devservertest.Backend
	sets    submit.Collections
	out     *bytes.Buffer
}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()
	backend := devservertest.Start(t)
	client, store := backend.Client(t)
	sets := submit.NewCollections(client, zap.NewNop())
	var out bytes.Buffer
	svc := product.NewService(
		session.NewGate(store, zap.NewNop()),
		client,
		sets,
		submit.New(client, sets, zap.NewNop()),
		ui.NewService(strings.NewReader(input), &out),
		zap.NewNop(),
	)
	return &fixture{svc: svc, backend: backend, sets: sets, out: &out}
}

func imageFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "oil.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))
	return path
}

func sampleOil(t *testing.T) product.Input {
	return product.Input{
		Fields: map[string]any{
			"title":       "Sample Oil",
			"description": "Cold pressed",
			"productType": "Oils",
			"isFeatured":  "true",
		},
		Variants: []string{"size=500ml,price=100,discount=10"},
		Images:   []string{imageFile(t)},
	}
}

func TestApplyVariantSpecs(t *testing.T) {
	d := draft.NewProduct()
	err := product.Apply(d, product.Input{
		Fields:   map[string]any{"title": "Tea", "keywords": "green, loose"},
		Variants: []string{"size=100g,price=5", "size=250g, price=11.5 ,discount=10,qty=3,sku=T-250"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tea", d.Title)
	assert.Equal(t, []string{"green", "loose"}, d.KeywordList())
	require.Len(t, d.Variants, 2)
	assert.Equal(t, catalog.Variant{Size: "250g", Price: 11.5, DiscountPercent: 10, Stock: 3, SKU: "T-250"}, d.Variants[1])

	assert.Error(t, product.Apply(draft.NewProduct(), product.Input{Variants: []string{"size"}}))
	assert.Error(t, product.Apply(draft.NewProduct(), product.Input{Variants: []string{"weight=1"}}))
	assert.Error(t, product.Apply(draft.NewProduct(), product.Input{Fields: map[string]any{"colour": "red"}}))
	assert.Error(t, product.Apply(draft.NewProduct(), product.Input{RemoveImages: []string{"missing"}}))
}

func TestCreateListEditDelete(t *testing.T) {
	f := newFixture(t, "y\n")
	ctx := context.Background()

	require.NoError(t, f.svc.Create(ctx, sampleOil(t)))
	assert.Contains(t, f.out.String(), "final price 90.00")
	assert.Contains(t, f.out.String(), "Product created")

	listed, err := f.svc.List(ctx, product.ListOptions{Search: "oil"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	id := listed[0].ID
	assert.True(t, listed[0].Featured)
	assert.Contains(t, f.out.String(), "500ml 100.00→90.00")

	none, err := f.svc.List(ctx, product.ListOptions{ProductType: "Tea"})
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, f.svc.Edit(ctx, id, product.Input{Fields: map[string]any{"title": "Sample Oil Gold"}}))
	got, err := f.svc.Show(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Sample Oil Gold", got.Title)
	assert.NotEmpty(t, got.Images.All(), "kept images survive an edit without new files")

	require.NoError(t, f.svc.Delete(ctx, id, false))
	assert.Empty(t, f.sets.Products.Items())
}

func TestCreateRejectsMalformedSize(t *testing.T) {
	f := newFixture(t, "")
	in := sampleOil(t)
	in.Variants = []string{"size=large,price=100"}

	err := f.svc.Create(context.Background(), in)
	var verr *submit.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "variants[0].size", verr.Field)
	assert.Zero(t, f.backend.Mutations())
}

func TestCreateRequiresVariantPrice(t *testing.T) {
	f := newFixture(t, "")
	in := sampleOil(t)
	in.Variants = []string{"size=500ml"}

	err := f.svc.Create(context.Background(), in)
	var verr *submit.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "variants[0].price", verr.Field)
	assert.Zero(t, f.backend.Mutations())
}

func TestCreatePromptsForProductType(t *testing.T) {
	f := newFixture(t, "Oils\n")
	in := sampleOil(t)
	delete(in.Fields, "productType")

	require.NoError(t, f.svc.Create(context.Background(), in))
	require.Len(t, f.sets.Products.Items(), 1)
	assert.Equal(t, "Oils", f.sets.Products.Items()[0].ProductType)
}

func TestDeleteDeclined(t *testing.T) {
	f := newFixture(t, "n\n")
	ctx := context.Background()
	created := f.backend.Seed(catalog.Product{Title: "Tea", ProductType: "Beverages", Variants: []catalog.Variant{{Size: "100g", Price: 5}}})

	require.NoError(t, f.svc.Delete(ctx, created[0].ID, false))
	assert.Contains(t, f.out.String(), "Cancelled")
	assert.Zero(t, f.backend.Mutations())
}

func TestToggleStock(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	created := f.backend.Seed(catalog.Product{
		Title: "Tea", ProductType: "Beverages",
		Variants: []catalog.Variant{{Size: "100g", Price: 5}, {Size: "250g", Price: 11}},
	})
	id := created[0].ID

	require.NoError(t, f.svc.ToggleStock(ctx, id))
	assert.Contains(t, f.out.String(), "Tea is now out of stock")

	require.NoError(t, f.svc.ToggleVariantStock(ctx, id, 1))
	assert.Contains(t, f.out.String(), "Tea 250g is now out of stock")
}

func TestCommandsNeedLogin(t *testing.T) {
	backend := devservertest.Start(t)
	client, store := backend.Client(t)
	require.NoError(t, store.ClearToken())
	sets := submit.NewCollections(client, zap.NewNop())
	svc := product.NewService(session.NewGate(store, zap.NewNop()), client, sets,
		submit.New(client, sets, zap.NewNop()), ui.NewService(strings.NewReader(""), &bytes.Buffer{}), zap.NewNop())

	_, err := svc.List(context.Background(), product.ListOptions{})
	assert.ErrorIs(t, err, session.ErrLoginRequired)
	assert.ErrorIs(t, svc.ToggleStock(context.Background(), "x"), session.ErrLoginRequired)
}

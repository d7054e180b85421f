package submit_test

import (
	"context"
	"testing"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/devserver/devservertest"
	"github.com/nkaewam/catalogctl/internal/draft"
	"github.com/nkaewam/catalogctl/internal/session"
	"github.com/nkaewam/catalogctl/internal/submit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func backendPipeline(t *testing.T) (*devservertest.Backend, *submit.Pipeline, submit.Collections) {
	t.Helper()
	backend := devservertest.Start(t)
	store := session.NewMemoryStore("")
	client, err := apiclient.New(backend.URL, nil, store, zap.NewNop())
	require.NoError(t, err)
	resp, err := client.Login(context.Background(), apiclient.Credentials{
		Email:    devservertest.AdminEmail,
		Password: devservertest.AdminPassword,
	})
	require.NoError(t, err)
	require.NoError(t, store.SetToken(resp.Token))

	sets := submit.NewCollections(client, zap.NewNop())
	return backend, submit.New(client, sets, zap.NewNop()), sets
}

func TestSampleOilAgainstBackend(t *testing.T) {
	backend, p, sets := backendPipeline(t)
	ctx := context.Background()
	_, err := sets.Products.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, sets.Products.Items())

	d := sampleOilDraft(t)
	assert.Equal(t, "90.00", d.FinalPricePreview()[0].StringFixed(2))

	res, err := p.Submit(ctx, d, submit.ModeCreate)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, backend.Mutations())

	items := sets.Products.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Sample Oil", items[0].Title)
	require.Len(t, items[0].Variants, 1)
	assert.Equal(t, "500ml", items[0].Variants[0].Size)
	assert.Equal(t, "90.00", items[0].Variants[0].FinalPrice().StringFixed(2))

	assert.Equal(t, draft.NewProduct(), d, "draft back to baseline")
}

func TestLinkedBannerAgainstBackend(t *testing.T) {
	backend, p, sets := backendPipeline(t)
	ctx := context.Background()
	seeded := backend.Seed(catalog.Product{
		Title: "Sample Oil", Description: "d", ProductType: "Oils", Category: "Pantry",
		Variants: []catalog.Variant{{Size: "500ml", Price: 90, DiscountPercent: 10}},
	})
	_, err := sets.Products.Refresh(ctx)
	require.NoError(t, err)

	d := draft.NewBanner(catalog.BannerSide)
	require.NoError(t, d.SetField("productId", seeded[0].ID))
	_, err = p.Submit(ctx, d, submit.ModeCreate)
	require.NoError(t, err)

	banners := sets.Banners.Items()
	require.Len(t, banners, 1)
	b := banners[0]
	assert.Equal(t, "Sample Oil", b.Title)
	assert.Equal(t, 100.0, b.OldPrice)
	require.NotNil(t, b.Weight)
	assert.Equal(t, "500ml", b.Weight.String())

	linked := catalog.LinkedProducts(banners, sets.Products.Items())
	require.Len(t, linked, 1)
	assert.Equal(t, seeded[0].ID, linked[0].ID)
}

package devserver_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/devserver"
	"github.com/nkaewam/catalogctl/internal/devserver/devservertest"
	"github.com/nkaewam/catalogctl/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func image(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func loggedIn(t *testing.T) (*devservertest.Backend, *apiclient.Client) {
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
	return backend, client
}

func productForm(title string, img string) *apiclient.Form {
	f := apiclient.NewForm().
		Set("title", title).
		Set("description", "desc").
		Set("productType", "Oils").
		Set("category", "Pantry").
		Set("variants", `[{"size":"500ml","price":100,"discountPercent":10,"stock":3}]`).
		Set("keywords", `["oil"]`)
	if img != "" {
		f.AttachFile("images", img)
	}
	return f
}

func TestMutationsNeedToken(t *testing.T) {
	srv := devserver.New(devserver.Options{AdminEmail: "a@b.c", AdminPassword: "x", JWTSecret: "s"}, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/api/products/delete/abc", nil)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/api/products/delete/abc", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/products/all-products", nil)
	resp, err = srv.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, srv.Mutations())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	backend := devservertest.Start(t)
	client, err := apiclient.New(backend.URL, nil, session.NewMemoryStore(""), zap.NewNop())
	require.NoError(t, err)

	_, err = client.Login(context.Background(), apiclient.Credentials{Email: devservertest.AdminEmail, Password: "nope"})
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
}

func TestProductLifecycle(t *testing.T) {
	backend, client := loggedIn(t)
	ctx := context.Background()

	err := client.SendForm(ctx, http.MethodPost, apiclient.PathProductCreate, productForm("Sample Oil", ""), nil)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "At least one image is required", apiErr.Message)

	img := image(t, "oil.png", pngHeader)
	require.NoError(t, client.SendForm(ctx, http.MethodPost, apiclient.PathProductCreate, productForm("Sample Oil", img), nil))

	products, err := client.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	p := products[0]
	assert.Equal(t, "Sample Oil", p.Title)
	require.NotNil(t, p.Images.Thumbnail)
	assert.NotEmpty(t, p.Images.Thumbnail.PublicID)
	assert.Equal(t, "90.00", p.Variants[0].FinalPrice().StringFixed(2))

	require.NoError(t, client.ToggleStock(ctx, p.ID))
	require.NoError(t, client.ToggleVariantStock(ctx, p.ID, 0))
	got, err := client.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.OutOfStock)
	assert.True(t, got.Variants[0].OutOfStock)
	assert.Error(t, client.ToggleVariantStock(ctx, p.ID, 4))

	// update drops every image not listed as kept
	update := productForm("Sample Oil 1L", image(t, "new.png", pngHeader)).Set("existingImagePublicIds", `[]`)
	require.NoError(t, client.SendForm(ctx, http.MethodPut, apiclient.ProductUpdatePath(p.ID), update, nil))
	got, err = client.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sample Oil 1L", got.Title)
	require.Len(t, got.Images.All(), 1)
	assert.NotEqual(t, p.Images.Thumbnail.PublicID, got.Images.All()[0].PublicID)

	require.NoError(t, client.DeleteProduct(ctx, p.ID))
	_, err = client.GetProduct(ctx, p.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, 5, backend.Mutations())
}

func TestBannerRules(t *testing.T) {
	_, client := loggedIn(t)
	ctx := context.Background()
	img := image(t, "banner.png", pngHeader)

	slider := func(hash string) *apiclient.Form {
		return apiclient.NewForm().Set("type", "homebanner").Set("hash", hash).AttachFile("image", img)
	}
	require.NoError(t, client.SendForm(ctx, http.MethodPost, apiclient.PathBannerUpload, slider("aaaa"), nil))

	var apiErr *apiclient.APIError
	err := client.SendForm(ctx, http.MethodPost, apiclient.PathBannerUpload, slider("aaaa"), nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	category := func() *apiclient.Form {
		return apiclient.NewForm().Set("type", "category").Set("title", "Beverages").Set("categoryType", "Tea").AttachFile("image", img)
	}
	err = client.SendForm(ctx, http.MethodPost, apiclient.PathBannerUpload,
		apiclient.NewForm().Set("type", "category").Set("title", "Beverages").AttachFile("image", img), nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.NoError(t, client.SendForm(ctx, http.MethodPost, apiclient.PathBannerUpload, category(), nil))
	err = client.SendForm(ctx, http.MethodPost, apiclient.PathBannerUpload, category(), nil)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "A category banner for Beverages already exists", apiErr.Message)

	sliders, err := client.ListBanners(ctx, catalog.BannerSlider)
	require.NoError(t, err)
	require.Len(t, sliders, 1)
	assert.Equal(t, catalog.BannerSlider, sliders[0].Type)

	require.NoError(t, client.DeleteBannersByType(ctx, catalog.BannerSlider))
	all, err := client.ListBanners(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, catalog.BannerCategory, all[0].Type)
	assert.Equal(t, "Tea", all[0].CategoryType)

	require.NoError(t, client.DeleteBanner(ctx, all[0].ID))
	assert.Error(t, client.DeleteBanner(ctx, all[0].ID))
}

func TestOfferBannerSlots(t *testing.T) {
	_, client := loggedIn(t)
	ctx := context.Background()
	img := image(t, "offer.png", pngHeader)

	offer := func(slot string) *apiclient.Form {
		return apiclient.NewForm().Set("slot", slot).SetFloat("percentage", 25).AttachFile("image", img)
	}
	require.NoError(t, client.SendForm(ctx, http.MethodPost, apiclient.PathOfferBannerUpload, offer("left"), nil))
	err := client.SendForm(ctx, http.MethodPost, apiclient.PathOfferBannerUpload, offer("left"), nil)
	assert.Error(t, err)

	offers, err := client.ListOfferBanners(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, catalog.SlotLeft, offers[0].Slot)
	assert.Equal(t, 25.0, offers[0].Percentage)

	require.NoError(t, client.DeleteOfferBanner(ctx, offers[0].ID))
}

func TestContactMessages(t *testing.T) {
	backend, client := loggedIn(t)
	ctx := context.Background()
	m := backend.SeedContact(catalog.ContactMessage{Name: "Asha", Email: "asha@example.com", Message: "Where is my order?"})

	msgs, err := client.ListContactMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.False(t, msgs[0].Responded)

	require.NoError(t, client.MarkResponded(ctx, m.ID))
	msgs, err = client.ListContactMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, catalog.Unresponded(msgs))

	err = client.MarkResponded(ctx, "missing")
	var apiErr *apiclient.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

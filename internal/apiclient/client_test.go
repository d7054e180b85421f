package apiclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newClient(t *testing.T, h http.HandlerFunc, token string) (*apiclient.Client, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	store := session.NewMemoryStore(token)
	c, err := apiclient.New(srv.URL, srv.Client(), store, zap.NewNop())
	require.NoError(t, err)
	return c, store
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := apiclient.New("/api", nil, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestListProductsAcceptsBareArrayAndEnvelope(t *testing.T) {
	bodies := []string{
		`[{"_id":"p1","title":"Sample Oil","variants":[{"size":"500ml","price":100,"discountPercent":10}]}]`,
		`{"success":true,"products":[{"_id":"p1","title":"Sample Oil","variants":[{"size":"500ml","price":100,"discountPercent":10}]}]}`,
	}
	for _, body := range bodies {
		c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, apiclient.PathProducts, r.URL.Path)
			_, _ = io.WriteString(w, body)
		}, "")

		products, err := c.ListProducts(context.Background())
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Sample Oil", products[0].Title)
		assert.Equal(t, "90.00", products[0].Variants[0].FinalPrice().StringFixed(2))
	}
}

func TestRequestsCarryTokenAndRequestID(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "category", r.URL.Query().Get("type"))
		_, _ = io.WriteString(w, `{"banners":[{"_id":"b1","type":"category","title":"Beverages"}]}`)
	}, "tok")

	banners, err := c.ListBanners(context.Background(), catalog.BannerCategory)
	require.NoError(t, err)
	require.Len(t, banners, 1)
	assert.Equal(t, "Beverages", banners[0].Title)
}

func TestLegacyBannerTypesAreNormalized(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"_id":"b1","type":"homebanner"},
			{"_id":"b2","type":"Special","productId":"p1"},
			{"_id":"b3","type":"top-selling","productId":"p2"},
			{"_id":"b4","type":"category","title":"Beverages"},
			{"_id":"b5","type":"carousel"}
		]`)
	}, "tok")

	banners, err := c.ListBanners(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, banners, 5)
	assert.Equal(t, catalog.BannerSlider, banners[0].Type)
	assert.Equal(t, catalog.BannerProductType, banners[1].Type)
	assert.Equal(t, catalog.BannerSide, banners[2].Type)
	assert.Equal(t, catalog.BannerCategory, banners[3].Type)
	assert.Equal(t, catalog.BannerType("carousel"), banners[4].Type)
}

func TestBackendMessageIsKeptVerbatim(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"message":"Banner for this slot already exists"}`)
	}, "tok")

	err := c.DeleteBanner(context.Background(), "b1")
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "Banner for this slot already exists", apiclient.UserMessage(err, "Upload failed"))

	assert.Equal(t, "Upload failed", apiclient.UserMessage(assert.AnError, "Upload failed"))
}

func TestUnauthorizedClearsToken(t *testing.T) {
	c, store := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"jwt expired"}`)
	}, "stale")

	err := c.DeleteProduct(context.Background(), "p1")
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestSendFormPackagesFieldsAndFiles(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "slide.png")
	require.NoError(t, os.WriteFile(img, pngHeader, 0o644))

	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "slider", r.FormValue("type"))
		assert.Equal(t, `["oil","tea"]`, r.FormValue("keywords"))

		f, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "slide.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"_id":"b9"}`)
	}, "tok")

	form := apiclient.NewForm().Set("type", "slider").AttachFile("image", img)
	require.NoError(t, form.SetJSON("keywords", []string{"oil", "tea"}))

	var out catalog.Banner
	require.NoError(t, c.SendForm(context.Background(), http.MethodPost, apiclient.PathBannerUpload, form, &out))
	assert.Equal(t, "b9", out.ID)
}

func TestLogin(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiclient.PathLogin, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = io.WriteString(w, `{"token":"abc","admin":{"email":"admin@example.com"}}`)
	}, "")

	resp, err := c.Login(context.Background(), apiclient.Credentials{Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)
	assert.Equal(t, "admin@example.com", resp.Admin.Email)
}

func TestContactMessagesEnvelope(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"messages":[{"_id":"m1","name":"Ann","email":"ann@example.com","message":"hi","createdAt":"2026-01-02T03:04:05Z"}]}`)
	}, "")

	msgs, err := c.ListContactMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Ann", msgs[0].Name)
	assert.False(t, msgs[0].Responded)
}

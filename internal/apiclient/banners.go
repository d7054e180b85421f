package apiclient

import (
	"context"
	"fmt"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/nkaewam/catalogctl/internal/catalog"
)

const (
	PathBanners           = "/api/banners"
	PathBannerUpload      = "/api/banners/upload"
	PathOfferBanners      = "/api/offer-banners"
	PathOfferBannerUpload = "/api/offer-banners/upload"

	// bulk deletes address the collection with a type filter
	bulkBannerID = "all"
)

// BannerPath addresses one banner for PUT and DELETE.
func BannerPath(id string) string {
	return PathBanners + "/" + url.PathEscape(id)
}

// ListBanners fetches banners; an empty type returns every banner.
func (c *Client) ListBanners(ctx context.Context, t catalog.BannerType) ([]catalog.Banner, error) {
	var query url.Values
	if t != "" {
		query = url.Values{"type": {string(t)}}
	}
	var raw jsoniter.RawMessage
	if err := c.get(ctx, PathBanners, query, &raw); err != nil {
		return nil, err
	}
	banners, err := decodeList[catalog.Banner](raw, "banners", "data")
	if err != nil {
		return nil, fmt.Errorf("decode banner list: %w", err)
	}
	normalizeTypes(banners, "")
	return banners, nil
}

// normalizeTypes maps legacy type names ("homebanner", "special", ...) onto
// the canonical ones. Unknown types are left as sent; an empty type becomes
// fallback.
func normalizeTypes(banners []catalog.Banner, fallback catalog.BannerType) {
	for i := range banners {
		if banners[i].Type == "" {
			banners[i].Type = fallback
			continue
		}
		if t, err := catalog.ParseBannerType(string(banners[i].Type)); err == nil {
			banners[i].Type = t
		}
	}
}

func (c *Client) DeleteBanner(ctx context.Context, id string) error {
	return c.delete(ctx, BannerPath(id), nil)
}

// DeleteBannersByType removes every banner of type t.
func (c *Client) DeleteBannersByType(ctx context.Context, t catalog.BannerType) error {
	return c.delete(ctx, BannerPath(bulkBannerID), url.Values{"type": {string(t)}})
}

func (c *Client) ListOfferBanners(ctx context.Context) ([]catalog.Banner, error) {
	var raw jsoniter.RawMessage
	if err := c.get(ctx, PathOfferBanners, nil, &raw); err != nil {
		return nil, err
	}
	banners, err := decodeList[catalog.Banner](raw, "banners", "data")
	if err != nil {
		return nil, fmt.Errorf("decode offer banner list: %w", err)
	}
	normalizeTypes(banners, catalog.BannerOffer)
	return banners, nil
}

func (c *Client) DeleteOfferBanner(ctx context.Context, id string) error {
	return c.delete(ctx, PathOfferBanners+"/"+url.PathEscape(id), nil)
}

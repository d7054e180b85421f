package submit

import (
	"context"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/collection"
	"go.uber.org/zap"
)

// Source lists the collections a form works against.
type Source interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	ListBanners(ctx context.Context, t catalog.BannerType) ([]catalog.Banner, error)
	ListOfferBanners(ctx context.Context) ([]catalog.Banner, error)
}

var _ Source = (*apiclient.Client)(nil)

// Collections are the cached lists the pipeline checks drafts against and
// refreshes after a successful mutation.
type Collections struct {
	Products *collection.Collection[catalog.Product]
	Banners  *collection.Collection[catalog.Banner]
	Offers   *collection.Collection[catalog.Banner]
}

func NewCollections(src Source, log *zap.Logger) Collections {
	return Collections{
		Products: collection.New("products", src.ListProducts, log),
		Banners: collection.New("banners", func(ctx context.Context) ([]catalog.Banner, error) {
			return src.ListBanners(ctx, "")
		}, log),
		Offers: collection.New("offer-banners", src.ListOfferBanners, log),
	}
}

// ProvideCollections builds the collections on top of the API client.
// @Provider
func ProvideCollections(client *apiclient.Client, log *zap.Logger) Collections {
	return NewCollections(client, log)
}

func (c Collections) syncer(t target) collection.Syncer {
	switch t {
	case targetOffers:
		return c.Offers
	case targetBanners:
		return c.Banners
	default:
		return c.Products
	}
}

package submit

import (
	"fmt"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/catalog"
)

// Kind names one form workflow: products plus each banner family.
type Kind string

const (
	KindProduct Kind = "product"
)

// KindOf maps a banner type to its workflow.
func KindOf(t catalog.BannerType) Kind {
	return Kind(t)
}

// UniqueKey names the advisory uniqueness rule of a kind.
type UniqueKey int

const (
	UniqueNone UniqueKey = iota
	// UniqueCategoryTitle allows one category banner per category name and
	// links it to a product type in use.
	UniqueCategoryTitle
	// UniqueOfferSlot allows one offer banner per slot.
	UniqueOfferSlot
)

type target int

const (
	targetProducts target = iota
	targetBanners
	targetOffers
)

// Descriptor declares everything the pipeline varies per kind.
type Descriptor struct {
	Kind  Kind
	Label string

	Required     []string // draft fields that must be non-empty
	NeedsImage   bool     // a newly selected image is required on create
	NeedsProduct bool     // banner is copied from a product variant
	Fingerprint  bool     // send the content hash of the selected image
	Unique       UniqueKey

	CreatePath string
	UpdatePath func(id string) string // nil when the backend cannot update the kind
	FileField  string

	target target
}

// Updatable reports whether an existing entity of this kind can be edited.
func (d Descriptor) Updatable() bool {
	return d.UpdatePath != nil
}

var descriptors = map[Kind]Descriptor{
	KindProduct: {
		Kind:       KindProduct,
		Label:      "product",
		Required:   []string{"title", "description", "productType"},
		CreatePath: apiclient.PathProductCreate,
		UpdatePath: apiclient.ProductUpdatePath,
		FileField:  "images",
		target:     targetProducts,
	},
	KindOf(catalog.BannerSlider): {
		Kind:        KindOf(catalog.BannerSlider),
		Label:       "home slider banner",
		NeedsImage:  true,
		Fingerprint: true,
		CreatePath:  apiclient.PathBannerUpload,
		UpdatePath:  apiclient.BannerPath,
		FileField:   "image",
		target:      targetBanners,
	},
	KindOf(catalog.BannerCategory): {
		Kind:        KindOf(catalog.BannerCategory),
		Label:       "category banner",
		Required:    []string{"title", "categoryType"},
		NeedsImage:  true,
		Fingerprint: true,
		Unique:      UniqueCategoryTitle,
		CreatePath:  apiclient.PathBannerUpload,
		UpdatePath:  apiclient.BannerPath,
		FileField:   "image",
		target:      targetBanners,
	},
	KindOf(catalog.BannerOffer): {
		Kind:        KindOf(catalog.BannerOffer),
		Label:       "offer banner",
		Required:    []string{"slot"},
		NeedsImage:  true,
		Fingerprint: true,
		Unique:      UniqueOfferSlot,
		CreatePath:  apiclient.PathOfferBannerUpload,
		FileField:   "image",
		target:      targetOffers,
	},
	KindOf(catalog.BannerSide): {
		Kind:         KindOf(catalog.BannerSide),
		Label:        "top selling banner",
		Required:     []string{"productId"},
		NeedsProduct: true,
		CreatePath:   apiclient.PathBannerUpload,
		UpdatePath:   apiclient.BannerPath,
		FileField:    "image",
		target:       targetBanners,
	},
	KindOf(catalog.BannerProductType): {
		Kind:         KindOf(catalog.BannerProductType),
		Label:        "special product banner",
		Required:     []string{"productId"},
		NeedsProduct: true,
		CreatePath:   apiclient.PathBannerUpload,
		UpdatePath:   apiclient.BannerPath,
		FileField:    "image",
		target:       targetBanners,
	},
}

// Lookup returns the descriptor for kind.
func Lookup(kind Kind) (Descriptor, error) {
	d, ok := descriptors[kind]
	if !ok {
		return Descriptor{}, fmt.Errorf("no submission workflow for %q", kind)
	}
	return d, nil
}

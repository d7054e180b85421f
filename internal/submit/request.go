package submit

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/catalog"
)

// ProductRequest is the validated create/update payload of a product.
type ProductRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description" validate:"required"`
	ProductType string           `json:"productType" validate:"required"`
	Category    string           `json:"category"`
	SubCategory string           `json:"subCategory"`
	Brand       string           `json:"brand"`
	Variants    []VariantRequest `json:"variants" validate:"required,min=1,dive"`
	Keywords    []string         `json:"keywords"`
	Featured    bool             `json:"isFeatured"`
	NewArrival  bool             `json:"isNewArrival"`
	BestSeller  bool             `json:"isBestSeller"`
	OutOfStock  bool             `json:"isOutOfStock"`

	Images                 []string `json:"images" validate:"dive,required"`
	ExistingImagePublicIDs []string `json:"existingImagePublicIds"`
}

type VariantRequest struct {
	Size            string  `json:"size" validate:"required,size"`
	Color           string  `json:"color"`
	SKU             string  `json:"sku"`
	Price           float64 `json:"price" validate:"gte=0"`
	DiscountPercent float64 `json:"discountPercent" validate:"gte=0,lte=100"`
	Stock           int     `json:"stock" validate:"gte=0"`
	OutOfStock      bool    `json:"isOutOfStock"`
}

// Form packages the request: scalars as text parts, variants, keywords and
// kept image ids as JSON parts, new images as file parts.
func (r *ProductRequest) Form(fileField string) (*apiclient.Form, error) {
	f := apiclient.NewForm().
		Set("title", r.Title).
		Set("description", r.Description).
		Set("productType", r.ProductType).
		Set("category", r.Category).
		Set("subCategory", r.SubCategory).
		Set("brand", r.Brand).
		SetBool("isFeatured", r.Featured).
		SetBool("isNewArrival", r.NewArrival).
		SetBool("isBestSeller", r.BestSeller).
		SetBool("isOutOfStock", r.OutOfStock)

	keywords := r.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	existing := r.ExistingImagePublicIDs
	if existing == nil {
		existing = []string{}
	}
	if err := f.SetJSON("variants", r.Variants); err != nil {
		return nil, err
	}
	if err := f.SetJSON("keywords", keywords); err != nil {
		return nil, err
	}
	if err := f.SetJSON("existingImagePublicIds", existing); err != nil {
		return nil, err
	}
	for _, path := range r.Images {
		f.AttachFile(fileField, path)
	}
	return f, nil
}

// BannerRequest is the validated payload of any banner kind. Product fields
// are a snapshot of the product and variant taken when the request is built.
type BannerRequest struct {
	Type       catalog.BannerType `json:"type" validate:"required"`
	Title      string             `json:"title"`
	Image      string             `json:"image"`
	Hash       string             `json:"hash" validate:"omitempty,len=32,hexadecimal"`
	Slot       catalog.Slot       `json:"slot" validate:"omitempty,oneof=left right"`
	Percentage float64            `json:"percentage" validate:"gte=0,lte=100"`

	CategoryType string `json:"categoryType"`

	ProductID            string        `json:"productId"`
	SelectedVariantIndex int           `json:"selectedVariantIndex" validate:"gte=0"`
	ProductImageURL      string        `json:"productImageUrl"`
	Price                float64       `json:"price" validate:"gte=0"`
	OldPrice             string        `json:"oldPrice"`
	DiscountPercent      float64       `json:"discountPercent" validate:"gte=0,lt=100"`
	Weight               *catalog.Size `json:"weight"`
}

// Form packages the banner. Only the fields that apply to the kind are sent.
func (r *BannerRequest) Form(d Descriptor) *apiclient.Form {
	f := apiclient.NewForm().Set("type", string(r.Type))
	if r.Title != "" {
		f.Set("title", r.Title)
	}
	switch r.Type {
	case catalog.BannerOffer:
		f.Set("slot", string(r.Slot)).SetFloat("percentage", r.Percentage)
	case catalog.BannerCategory:
		f.Set("categoryType", r.CategoryType)
	}
	if d.NeedsProduct {
		f.Set("productId", r.ProductID).
			SetInt("selectedVariantIndex", r.SelectedVariantIndex).
			Set("productImageUrl", r.ProductImageURL).
			SetFloat("price", r.Price).
			SetFloat("discountPercent", r.DiscountPercent)
		if r.OldPrice != "" {
			f.Set("oldPrice", r.OldPrice)
		}
		if r.Weight != nil {
			f.Set("weightValue", r.Weight.Value).Set("weightUnit", r.Weight.Unit)
		}
	}
	if r.Image != "" {
		f.AttachFile(d.FileField, r.Image)
		if r.Hash != "" {
			f.Set("hash", r.Hash)
		}
	}
	return f
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("size", func(fl validator.FieldLevel) bool {
		_, err := catalog.ParseSize(fl.Field().String())
		return err == nil
	})
	return v
}

// check runs struct validation and reports the first failing field.
func check(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate request: %w", err)
	}
	fe := fieldErrs[0]
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	return &ValidationError{Field: field, Message: messageFor(fe)}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("needs at least %s entry", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "size":
		return fmt.Sprintf("%q must be a number followed by a unit, e.g. 500ml", fe.Value())
	case "len", "hexadecimal":
		return "is not a valid content hash"
	}
	return fmt.Sprintf("failed the %s rule", fe.Tag())
}

package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/nkaewam/catalogctl/internal/catalog"
)

const (
	PathProducts           = "/api/products/all-products"
	PathProductCreate      = "/api/products/upload-product"
	pathProductPrefix      = "/api/products/"
	pathProductUpdate      = "/api/products/update/"
	pathProductDelete      = "/api/products/delete/"
	pathToggleStock        = "/api/products/toggle-stock/"
	pathToggleVariantStock = "/api/products/toggle-variant-stock/"
)

// ProductUpdatePath is the PUT target for product id.
func ProductUpdatePath(id string) string {
	return pathProductUpdate + url.PathEscape(id)
}

func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var raw jsoniter.RawMessage
	if err := c.get(ctx, PathProducts, nil, &raw); err != nil {
		return nil, err
	}
	products, err := decodeList[catalog.Product](raw, "products", "data")
	if err != nil {
		return nil, fmt.Errorf("decode product list: %w", err)
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*catalog.Product, error) {
	var raw jsoniter.RawMessage
	if err := c.get(ctx, pathProductPrefix+url.PathEscape(id), nil, &raw); err != nil {
		return nil, err
	}
	p, err := decodeOne[catalog.Product](raw, "product", "data")
	if err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("product %s: empty response", id)
	}
	return p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.delete(ctx, pathProductDelete+url.PathEscape(id), nil)
}

// ToggleStock flips the product level out-of-stock flag.
func (c *Client) ToggleStock(ctx context.Context, id string) error {
	return c.SendForm(ctx, http.MethodPut, pathToggleStock+url.PathEscape(id), NewForm(), nil)
}

// ToggleVariantStock flips the out-of-stock flag of one variant.
func (c *Client) ToggleVariantStock(ctx context.Context, id string, variantIndex int) error {
	form := NewForm().SetInt("variantIndex", variantIndex)
	return c.SendForm(ctx, http.MethodPut, pathToggleVariantStock+url.PathEscape(id), form, nil)
}

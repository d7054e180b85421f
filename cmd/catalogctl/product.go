package main

import (
	"context"

	"github.com/nkaewam/catalogctl/internal/cli"
	"github.com/nkaewam/catalogctl/internal/cli/product"
	"github.com/spf13/cobra"
)

var productCmd = &cobra.Command{
	Use:     "product",
	Aliases: []string{"products"},
	Short:   "List, upload and maintain products",
}

var (
	productSearch   string
	productType     string
	productForce    bool
	productVariant  int
	productVariants []string
	productImages   []string
	productRemove   []string
)

// productFields maps flags to draft field names.
var productFields = map[string]string{
	"title":        "title",
	"description":  "description",
	"type":         "productType",
	"category":     "category",
	"sub-category": "subCategory",
	"brand":        "brand",
	"keywords":     "keywords",
	"featured":     "isFeatured",
	"new-arrival":  "isNewArrival",
	"best-seller":  "isBestSeller",
	"out-of-stock": "isOutOfStock",
}

func addProductFormFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("title", "", "Product title")
	f.String("description", "", "Product description")
	f.String("type", "", "Product type, e.g. Oils")
	f.String("category", "", "Category")
	f.String("sub-category", "", "Sub category")
	f.String("brand", "", "Brand")
	f.String("keywords", "", "Comma separated keywords")
	f.Bool("featured", false, "Show as featured")
	f.Bool("new-arrival", false, "Show as new arrival")
	f.Bool("best-seller", false, "Show as best seller")
	f.Bool("out-of-stock", false, "Mark the product out of stock")
	f.StringArrayVar(&productVariants, "variant", nil, `Variant spec, repeatable: "size=500ml,price=100,discount=10,stock=5,color=,sku="`)
	f.StringSliceVar(&productImages, "image", nil, "Image file to upload, repeatable")
}

// productInput collects only the flags the admin actually set.
func productInput(cmd *cobra.Command) product.Input {
	in := product.Input{Fields: map[string]any{}, Variants: productVariants, Images: productImages, RemoveImages: productRemove}
	for flag, field := range productFields {
		if cmd.Flags().Changed(flag) {
			in.Fields[field] = cmd.Flags().Lookup(flag).Value.String()
		}
	}
	return in
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			_, err := c.Product.List(ctx, product.ListOptions{Search: productSearch, ProductType: productType})
			return err
		})
	},
}

var productShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one product with its variants and images",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			_, err := c.Product.Show(ctx, args[0])
			return err
		})
	},
}

var productCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Upload a new product",
	Example: `  catalogctl product create --title "Sample Oil" --description "Cold pressed" --type Oils \
    --variant "size=500ml,price=100,discount=10" --image oil.png`,
	Run: func(cmd *cobra.Command, args []string) {
		in := productInput(cmd)
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Product.Create(ctx, in)
		})
	},
}

var productEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change an existing product; unset flags keep their value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := productInput(cmd)
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Product.Edit(ctx, args[0], in)
		})
	},
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Product.Delete(ctx, args[0], productForce)
		})
	},
}

var productToggleStockCmd = &cobra.Command{
	Use:   "toggle-stock <id>",
	Short: "Flip a product between in stock and out of stock",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			if cmd.Flags().Changed("variant") {
				return c.Product.ToggleVariantStock(ctx, args[0], productVariant)
			}
			return c.Product.ToggleStock(ctx, args[0])
		})
	},
}

func init() {
	productListCmd.Flags().StringVar(&productSearch, "search", "", "Only titles containing this text")
	productListCmd.Flags().StringVar(&productType, "type", "", "Only this product type")

	addProductFormFlags(productCreateCmd)
	addProductFormFlags(productEditCmd)
	productEditCmd.Flags().StringSliceVar(&productRemove, "remove-image", nil, "Public id of a stored image to drop, repeatable")

	productDeleteCmd.Flags().BoolVarP(&productForce, "force", "f", false, "Do not ask for confirmation")
	productToggleStockCmd.Flags().IntVar(&productVariant, "variant", 0, "Toggle only this variant (index from 'product show')")

	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productShowCmd)
	productCmd.AddCommand(productCreateCmd)
	productCmd.AddCommand(productEditCmd)
	productCmd.AddCommand(productDeleteCmd)
	productCmd.AddCommand(productToggleStockCmd)
}

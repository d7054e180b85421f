package main

import (
	"context"

	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/cli"
	"github.com/nkaewam/catalogctl/internal/cli/banner"
	"github.com/spf13/cobra"
)

var bannerCmd = &cobra.Command{
	Use:     "banner",
	Aliases: []string{"banners"},
	Short:   "Manage home, side, category and product-type banners",
}

var offerCmd = &cobra.Command{
	Use:     "offer",
	Aliases: []string{"offers"},
	Short:   "Manage the left and right offer banners",
}

var (
	bannerType     string
	bannerImage    string
	bannerPick     bool
	bannerForce    bool
	bannerProducts []string
)

func addBannerFormFlags(cmd *cobra.Command, withType bool) {
	f := cmd.Flags()
	if withType {
		f.StringVar(&bannerType, "type", "", "Banner type: slider, side, category, product-type")
	}
	f.String("title", "", "Banner title; for category banners the category name")
	f.String("category-type", "", "Product type a category banner links to")
	f.String("product", "", "Linked product id")
	f.Int("variant-index", 0, "Variant of the linked product to show")
	f.StringSliceVar(&bannerProducts, "products", nil, "Create one banner per product id")
	f.StringVar(&bannerImage, "image", "", "Image file to upload")
	f.BoolVar(&bannerPick, "pick", false, "Choose the linked products interactively")
}

// bannerFields maps flags to draft field names.
var bannerFields = map[string]string{
	"title":         "title",
	"slot":          "slot",
	"percentage":    "percentage",
	"category-type": "categoryType",
	"product":       "productId",
	"variant-index": "variantIndex",
}

func bannerInput(cmd *cobra.Command, t string) banner.Input {
	in := banner.Input{Type: t, Fields: map[string]any{}, Image: bannerImage, Pick: bannerPick}
	for flag, field := range bannerFields {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			in.Fields[field] = f.Value.String()
		}
	}
	if cmd.Flags().Changed("products") {
		in.Fields["productIds"] = bannerProducts
	}
	return in
}

var bannerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List banners, all types unless --type is given",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			_, err := c.Banner.List(ctx, bannerType)
			return err
		})
	},
}

var bannerUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a new banner",
	Example: `  catalogctl banner upload --type slider --image hero.png
  catalogctl banner upload --type category --title Pantry --category-type Oils --image pantry.png
  catalogctl banner upload --type product-type --pick`,
	Run: func(cmd *cobra.Command, args []string) {
		in := bannerInput(cmd, bannerType)
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Banner.Upload(ctx, in)
		})
	},
}

var bannerUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change an existing banner; its type cannot change",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := bannerInput(cmd, bannerType)
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Banner.Update(ctx, args[0], in)
		})
	},
}

var bannerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one banner",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Banner.Delete(ctx, args[0], bannerForce)
		})
	},
}

var bannerDeleteTypeCmd = &cobra.Command{
	Use:   "delete-type <type>",
	Short: "Delete every banner of one type",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Banner.DeleteType(ctx, args[0], bannerForce)
		})
	},
}

var bannerLinkedCmd = &cobra.Command{
	Use:   "linked",
	Short: "List products that already have a product-type banner",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			_, err := c.Banner.Linked(ctx)
			return err
		})
	},
}

var offerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List offer banners",
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			_, err := c.Banner.List(ctx, string(catalog.BannerOffer))
			return err
		})
	},
}

var offerUploadCmd = &cobra.Command{
	Use:     "upload",
	Short:   "Upload an offer banner into a free slot",
	Example: `  catalogctl offer upload --slot left --percentage 20 --title "Summer sale" --image sale.png`,
	Run: func(cmd *cobra.Command, args []string) {
		in := bannerInput(cmd, string(catalog.BannerOffer))
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Banner.Upload(ctx, in)
		})
	},
}

var offerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an offer banner",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func(ctx context.Context, c *cli.Container) error {
			return c.Banner.Delete(ctx, args[0], bannerForce)
		})
	},
}

func init() {
	bannerListCmd.Flags().StringVar(&bannerType, "type", "", "Only this banner type")
	addBannerFormFlags(bannerUploadCmd, true)
	addBannerFormFlags(bannerUpdateCmd, false)
	for _, cmd := range []*cobra.Command{bannerDeleteCmd, bannerDeleteTypeCmd, offerDeleteCmd} {
		cmd.Flags().BoolVarP(&bannerForce, "force", "f", false, "Do not ask for confirmation")
	}

	offerUploadCmd.Flags().String("title", "", "Offer title")
	offerUploadCmd.Flags().String("slot", "", "Placement: left or right")
	offerUploadCmd.Flags().Float64("percentage", 0, "Advertised discount percentage")
	offerUploadCmd.Flags().StringVar(&bannerImage, "image", "", "Image file to upload")

	bannerCmd.AddCommand(bannerListCmd)
	bannerCmd.AddCommand(bannerUploadCmd)
	bannerCmd.AddCommand(bannerUpdateCmd)
	bannerCmd.AddCommand(bannerDeleteCmd)
	bannerCmd.AddCommand(bannerDeleteTypeCmd)
	bannerCmd.AddCommand(bannerLinkedCmd)

	offerCmd.AddCommand(offerListCmd)
	offerCmd.AddCommand(offerUploadCmd)
	offerCmd.AddCommand(offerDeleteCmd)
}

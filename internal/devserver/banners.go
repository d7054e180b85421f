package devserver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/spf13/cast"
)

var errDuplicateImage = errors.New("This image has already been uploaded")

func (s *Server) listBanners(c *fiber.Ctx) error {
	var t catalog.BannerType
	if q := c.Query("type"); q != "" {
		var err error
		if t, err = catalog.ParseBannerType(q); err != nil {
			return badRequest(c, err.Error())
		}
	}
	return c.JSON(s.store.listBanners(false, t))
}

func (s *Server) listOfferBanners(c *fiber.Ctx) error {
	return c.JSON(s.store.listBanners(true, ""))
}

// readBanner applies the submitted fields to b. Missing fields keep their value.
func (s *Server) readBanner(c *fiber.Ctx, b *catalog.Banner) error {
	if v := c.FormValue("title"); v != "" {
		b.Title = strings.TrimSpace(v)
	}
	if v := c.FormValue("hash"); v != "" {
		b.Hash = v
	}
	if v := c.FormValue("categoryType"); v != "" {
		b.CategoryType = strings.TrimSpace(v)
	}
	if files := uploadedFiles(c, "image"); len(files) > 0 {
		b.ImageURL = storedImages(files[:1])[0].URL
	}
	if !b.Type.ProductLinked() {
		return nil
	}

	if v := c.FormValue("productId"); v != "" {
		if _, ok := s.store.product(v); !ok {
			return fmt.Errorf("Product %s not found", v)
		}
		b.ProductID = v
	}
	if b.ProductID == "" {
		return errors.New("productId is required")
	}
	b.SelectedVariantIndex = cast.ToInt(c.FormValue("selectedVariantIndex"))
	b.ProductImageURL = c.FormValue("productImageUrl")
	b.Price = cast.ToFloat64(c.FormValue("price"))
	b.OldPrice = cast.ToFloat64(c.FormValue("oldPrice"))
	b.DiscountPercent = cast.ToFloat64(c.FormValue("discountPercent"))
	b.Weight = nil
	if v, u := c.FormValue("weightValue"), c.FormValue("weightUnit"); v != "" && u != "" {
		b.Weight = &catalog.Size{Value: v, Unit: u}
	}
	return nil
}

// bannerConflict enforces hash de-duplication and one category banner per title.
func bannerConflict(b catalog.Banner) func(catalog.Banner) error {
	return func(existing catalog.Banner) error {
		if existing.ID == b.ID {
			return nil
		}
		if b.Hash != "" && existing.Hash == b.Hash {
			return errDuplicateImage
		}
		if b.Type == catalog.BannerCategory && existing.Type == catalog.BannerCategory &&
			strings.EqualFold(existing.Title, b.Title) {
			return fmt.Errorf("A category banner for %s already exists", b.Title)
		}
		return nil
	}
}

func (s *Server) createBanner(c *fiber.Ctx) error {
	t, err := catalog.ParseBannerType(c.FormValue("type"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	if t == catalog.BannerOffer {
		return s.createOfferBanner(c)
	}
	b := catalog.Banner{Type: t}
	if err := s.readBanner(c, &b); err != nil {
		return badRequest(c, err.Error())
	}
	switch {
	case !t.ProductLinked() && b.ImageURL == "":
		return badRequest(c, "Image is required")
	case t == catalog.BannerCategory && b.Title == "":
		return badRequest(c, "Title is required for category banners")
	case t == catalog.BannerCategory && b.CategoryType == "":
		return badRequest(c, "Category type is required for category banners")
	}

	b, err = s.store.addBanner(false, b, bannerConflict(b))
	if err != nil {
		return conflict(c, err.Error())
	}
	s.mutated()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "banner": b})
}

func (s *Server) updateBanner(c *fiber.Ctx) error {
	b, ok := s.store.banner(c.Params("id"))
	if !ok {
		return notFound(c, "Banner")
	}
	if err := s.readBanner(c, &b); err != nil {
		return badRequest(c, err.Error())
	}
	b, found, err := s.store.replaceBanner(b, bannerConflict(b))
	switch {
	case !found:
		return notFound(c, "Banner")
	case err != nil:
		return conflict(c, err.Error())
	}
	s.mutated()
	return c.JSON(fiber.Map{"success": true, "banner": b})
}

func (s *Server) deleteBanner(c *fiber.Ctx) error {
	if !s.store.deleteBanner(false, c.Params("id")) {
		return notFound(c, "Banner")
	}
	s.mutated()
	return c.JSON(fiber.Map{"success": true, "message": "Banner deleted"})
}

func (s *Server) deleteBannersByType(c *fiber.Ctx) error {
	t, err := catalog.ParseBannerType(c.Query("type"))
	if err != nil {
		return badRequest(c, "type query parameter is required")
	}
	n := s.store.deleteBannersByType(t)
	s.mutated()
	return c.JSON(fiber.Map{"success": true, "deleted": n})
}

func (s *Server) createOfferBanner(c *fiber.Ctx) error {
	slot, err := catalog.ParseSlot(c.FormValue("slot"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	b := catalog.Banner{
		Type:       catalog.BannerOffer,
		Slot:       slot,
		Percentage: cast.ToFloat64(c.FormValue("percentage")),
	}
	if err := s.readBanner(c, &b); err != nil {
		return badRequest(c, err.Error())
	}
	if b.ImageURL == "" {
		return badRequest(c, "Image is required")
	}

	b, err = s.store.addBanner(true, b, func(existing catalog.Banner) error {
		if existing.Slot == slot {
			return fmt.Errorf("The %s slot already has an offer banner", slot)
		}
		if b.Hash != "" && existing.Hash == b.Hash {
			return errDuplicateImage
		}
		return nil
	})
	if err != nil {
		return conflict(c, err.Error())
	}
	s.mutated()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "banner": b})
}

func (s *Server) deleteOfferBanner(c *fiber.Ctx) error {
	if !s.store.deleteBanner(true, c.Params("id")) {
		return notFound(c, "Offer banner")
	}
	s.mutated()
	return c.JSON(fiber.Map{"success": true, "message": "Offer banner deleted"})
}

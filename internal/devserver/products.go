package devserver

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/spf13/cast"
)

var errNoVariant = errors.New("variant index out of range")

func (s *Server) listProducts(c *fiber.Ctx) error {
	return c.JSON(s.store.listProducts())
}

func (s *Server) getProduct(c *fiber.Ctx) error {
	p, ok := s.store.product(c.Params("id"))
	if !ok {
		return notFound(c, "Product")
	}
	return c.JSON(p)
}

// storedImages turns uploaded files into image references. Bytes are not kept.
func storedImages(files []*multipart.FileHeader) []catalog.Image {
	images := make([]catalog.Image, 0, len(files))
	for _, fh := range files {
		id := newID()
		images = append(images, catalog.Image{
			URL:      "/uploads/" + id + strings.ToLower(filepath.Ext(fh.Filename)),
			PublicID: id,
		})
	}
	return images
}

// readProduct fills the scalar and JSON fields of p from the multipart form.
func readProduct(c *fiber.Ctx, p *catalog.Product) error {
	p.Title = strings.TrimSpace(c.FormValue("title"))
	p.Description = strings.TrimSpace(c.FormValue("description"))
	p.ProductType = strings.TrimSpace(c.FormValue("productType"))
	p.Category = c.FormValue("category")
	p.SubCategory = c.FormValue("subCategory")
	p.Brand = c.FormValue("brand")
	p.Featured = cast.ToBool(c.FormValue("isFeatured"))
	p.NewArrival = cast.ToBool(c.FormValue("isNewArrival"))
	p.BestSeller = cast.ToBool(c.FormValue("isBestSeller"))
	p.OutOfStock = cast.ToBool(c.FormValue("isOutOfStock"))

	p.Variants = nil
	if err := json.UnmarshalFromString(c.FormValue("variants", "[]"), &p.Variants); err != nil {
		return errors.New("variants must be a JSON array")
	}
	p.Keywords = []string{}
	if err := json.UnmarshalFromString(c.FormValue("keywords", "[]"), &p.Keywords); err != nil {
		return errors.New("keywords must be a JSON array")
	}
	if p.Title == "" || p.Description == "" || p.ProductType == "" || len(p.Variants) == 0 {
		return errors.New("Title, description, product type and at least one variant are required")
	}
	return nil
}

func uploadedFiles(c *fiber.Ctx, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File[field]
}

func (s *Server) createProduct(c *fiber.Ctx) error {
	var p catalog.Product
	if err := readProduct(c, &p); err != nil {
		return badRequest(c, err.Error())
	}
	images := storedImages(uploadedFiles(c, "images"))
	if len(images) == 0 {
		return badRequest(c, "At least one image is required")
	}
	p.Images = catalog.ProductImages{Thumbnail: &images[0], Others: images[1:]}

	p = s.store.addProduct(p)
	s.mutated()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Product uploaded successfully",
		"product": p,
	})
}

func (s *Server) updateProduct(c *fiber.Ctx) error {
	var kept []string
	if err := json.UnmarshalFromString(c.FormValue("existingImagePublicIds", "[]"), &kept); err != nil {
		return badRequest(c, "existingImagePublicIds must be a JSON array")
	}
	added := storedImages(uploadedFiles(c, "images"))

	p, found, err := s.store.updateProduct(c.Params("id"), func(p *catalog.Product) error {
		if err := readProduct(c, p); err != nil {
			return err
		}
		var images []catalog.Image
		for _, img := range p.Images.All() {
			if slices.Contains(kept, img.PublicID) {
				images = append(images, img)
			}
		}
		images = append(images, added...)
		if len(images) == 0 {
			return errors.New("A product needs at least one image")
		}
		p.Images = catalog.ProductImages{Thumbnail: &images[0], Others: images[1:]}
		return nil
	})
	switch {
	case !found:
		return notFound(c, "Product")
	case err != nil:
		return badRequest(c, err.Error())
	}
	s.mutated()
	return c.JSON(fiber.Map{"success": true, "message": "Product updated successfully", "product": p})
}

func (s *Server) deleteProduct(c *fiber.Ctx) error {
	if !s.store.deleteProduct(c.Params("id")) {
		return notFound(c, "Product")
	}
	s.mutated()
	return c.JSON(fiber.Map{"success": true, "message": "Product deleted"})
}

func (s *Server) toggleStock(c *fiber.Ctx) error {
	p, found, _ := s.store.updateProduct(c.Params("id"), func(p *catalog.Product) error {
		p.OutOfStock = !p.OutOfStock
		return nil
	})
	if !found {
		return notFound(c, "Product")
	}
	s.mutated()
	return c.JSON(fiber.Map{"success": true, "product": p})
}

func (s *Server) toggleVariantStock(c *fiber.Ctx) error {
	idx, err := cast.ToIntE(c.FormValue("variantIndex"))
	if err != nil {
		return badRequest(c, "variantIndex must be a number")
	}
	p, found, err := s.store.updateProduct(c.Params("id"), func(p *catalog.Product) error {
		if idx < 0 || idx >= len(p.Variants) {
			return errNoVariant
		}
		p.Variants = slices.Clone(p.Variants)
		p.Variants[idx].OutOfStock = !p.Variants[idx].OutOfStock
		return nil
	})
	switch {
	case !found:
		return notFound(c, "Product")
	case err != nil:
		return badRequest(c, err.Error())
	}
	s.mutated()
	return c.JSON(fiber.Map{"success": true, "product": p})
}

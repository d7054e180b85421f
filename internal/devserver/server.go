// Package devserver is an in-memory stand-in for the catalog backend. It
// serves the same endpoints the admin client uses so that workflows can be
// run locally and in tests without the real service.
package devserver

import (
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/config"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Options configures the admin account and token signing.
type Options struct {
	AdminEmail    string
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration
}

// Server wires the fiber app to the in-memory store.
type Server struct {
	app       *fiber.App
	store     *store
	opts      Options
	log       *zap.Logger
	mutations atomic.Int64
}

func New(opts Options, log *zap.Logger) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	s := &Server{
		store: &store{},
		opts:  opts,
		log:   log.Named("devserver"),
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "catalog dev backend",
		DisableStartupMessage: true,
		Immutable:             true,
		BodyLimit:             32 << 20,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"message": err.Error(),
			})
		},
	})
	s.routes()
	return s
}

// ProvideServer creates the dev backend from the dev_server config section
// @Provider
func ProvideServer(cfg *config.Config, log *zap.Logger) *Server {
	return New(Options{
		AdminEmail:    cfg.DevServer.AdminEmail,
		AdminPassword: cfg.DevServer.AdminPassword,
		JWTSecret:     cfg.DevServer.JWTSecret,
	}, log)
}

func (s *Server) routes() {
	s.app.Use(s.requestLogger)

	api := s.app.Group("/api")
	api.Post("/admin/login", s.login)

	products := api.Group("/products")
	products.Get("/all-products", s.listProducts)
	products.Post("/upload-product", s.requireAdmin, s.createProduct)
	products.Put("/update/:id", s.requireAdmin, s.updateProduct)
	products.Delete("/delete/:id", s.requireAdmin, s.deleteProduct)
	products.Put("/toggle-stock/:id", s.requireAdmin, s.toggleStock)
	products.Put("/toggle-variant-stock/:id", s.requireAdmin, s.toggleVariantStock)
	products.Get("/:id", s.getProduct)

	banners := api.Group("/banners")
	banners.Get("/", s.listBanners)
	banners.Post("/upload", s.requireAdmin, s.createBanner)
	banners.Delete("/all", s.requireAdmin, s.deleteBannersByType)
	banners.Put("/:id", s.requireAdmin, s.updateBanner)
	banners.Delete("/:id", s.requireAdmin, s.deleteBanner)

	offers := api.Group("/offer-banners")
	offers.Get("/", s.listOfferBanners)
	offers.Post("/upload", s.requireAdmin, s.createOfferBanner)
	offers.Delete("/:id", s.requireAdmin, s.deleteOfferBanner)

	contact := api.Group("/contact")
	contact.Get("/", s.listContacts)
	contact.Post("/", s.createContact)
	contact.Put("/respond/:id", s.requireAdmin, s.respondContact)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.String("request_id", c.Get("X-Request-ID")),
		zap.Duration("took", time.Since(start)),
	)
	return err
}

// App exposes the fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.log.Info("dev backend listening", zap.String("addr", addr), zap.String("admin", s.opts.AdminEmail))
	return s.app.Listen(addr)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Mutations counts the create, update, delete and toggle requests that
// changed state.
func (s *Server) Mutations() int {
	return int(s.mutations.Load())
}

func (s *Server) mutated() {
	s.mutations.Add(1)
}

// Seed preloads products, e.g. for demos.
func (s *Server) Seed(products ...catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		out = append(out, s.store.addProduct(p))
	}
	return out
}

// SeedContact preloads a contact message.
func (s *Server) SeedContact(m catalog.ContactMessage) catalog.ContactMessage {
	return s.store.addContact(m)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msg})
}

func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": what + " not found"})
}

func conflict(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": msg})
}

// SeedDemo loads a small catalog and one customer message for trying the CLI.
func (s *Server) SeedDemo() {
	s.Seed(
		catalog.Product{
			Title: "Sample Oil", Description: "Cold pressed", ProductType: "Oils", Category: "Pantry",
			Variants: []catalog.Variant{{Size: "500ml", Price: 100, DiscountPercent: 10, Stock: 20}, {Size: "1l", Price: 180, Stock: 5}},
			Keywords: []string{"oil", "cold pressed"},
		},
		catalog.Product{
			Title: "Green Tea", Description: "Loose leaf", ProductType: "Beverages", Category: "Beverages",
			Variants: []catalog.Variant{{Size: "100g", Price: 5, Stock: 40}},
		},
		catalog.Product{
			Title: "Herbal Soap", Description: "Hand made", ProductType: "Health", Category: "Personal care",
			Variants: []catalog.Variant{{Size: "125g", Price: 3.5, DiscountPercent: 20, Stock: 12}},
		},
	)
	s.SeedContact(catalog.ContactMessage{Name: "Ann", Email: "ann@example.com", Message: "Do you ship to the islands?"})
}

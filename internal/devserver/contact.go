package devserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nkaewam/catalogctl/internal/catalog"
)

func (s *Server) listContacts(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "messages": s.store.listContacts()})
}

type contactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

func (s *Server) createContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "Name, email and message are required")
	}
	m := s.store.addContact(catalog.ContactMessage{Name: req.Name, Email: req.Email, Message: req.Message})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Message received", "data": m})
}

func (s *Server) respondContact(c *fiber.Ctx) error {
	m, ok := s.store.markResponded(c.Params("id"))
	if !ok {
		return notFound(c, "Message")
	}
	s.mutated()
	return c.JSON(fiber.Map{"success": true, "data": m})
}

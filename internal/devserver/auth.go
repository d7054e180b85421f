package devserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/nkaewam/catalogctl/internal/catalog"
)

const adminID = "admin"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if !strings.EqualFold(strings.TrimSpace(req.Email), s.opts.AdminEmail) || req.Password != s.opts.AdminPassword {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
	}

	token, err := s.issueToken(time.Now())
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	return c.JSON(fiber.Map{
		"token": token,
		"admin": catalog.AdminIdentity{ID: adminID, Name: "Admin", Email: s.opts.AdminEmail},
	})
}

func (s *Server) issueToken(now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   adminID,
		"email": s.opts.AdminEmail,
		"iat":   now.Unix(),
		"exp":   now.Add(s.opts.TokenTTL).Unix(),
	})
	return token.SignedString([]byte(s.opts.JWTSecret))
}

// requireAdmin rejects requests without a valid bearer token.
func (s *Server) requireAdmin(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Not authorized, token missing"})
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authorization header format must be 'Bearer <token>'"})
	}

	_, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.opts.JWTSecret), nil
	})
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid or expired token"})
	}
	return c.Next()
}

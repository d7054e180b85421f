package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/nkaewam/catalogctl/internal/catalog"
)

const PathLogin = "/api/admin/login"

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is what the backend returns on a successful login.
type LoginResponse struct {
	Token string                `json:"token"`
	Admin catalog.AdminIdentity `json:"admin"`
}

// Login exchanges credentials for a bearer token. It does not store it.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.sendJSON(ctx, http.MethodPost, PathLogin, creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return &resp, nil
}

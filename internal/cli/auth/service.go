package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/nkaewam/catalogctl/internal/session"
	"go.uber.org/zap"
)

// Service handles the admin session: login, logout and status
type Service interface {
	// Login asks for missing credentials, exchanges them for a token and stores it
	Login(ctx context.Context, email, password string) (*catalog.AdminIdentity, error)
	// Logout forgets the stored token
	Logout() error
	// Status reports whether a usable session exists
	Status() (Status, error)
}

// Status is the current session as seen from the local store.
type Status struct {
	Authenticated bool
	Admin         *catalog.AdminIdentity
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, creds apiclient.Credentials) (*apiclient.LoginResponse, error)
}

// Credentials is where the token and identity are kept between commands.
type Credentials interface {
	session.TokenStore
	session.IdentityStore
}

// service implements Service interface
type service struct {
	api   Authenticator
	store Credentials
	gate  *session.Gate
	ui    ui.Service
	log   *zap.Logger
}

// ProvideAuthService creates a new auth service
// @Provider
func ProvideAuthService(client *apiclient.Client, store *session.Store, gate *session.Gate, uiService ui.Service, log *zap.Logger) Service {
	return NewService(client, store, gate, uiService, log)
}

func NewService(api Authenticator, store Credentials, gate *session.Gate, uiService ui.Service, log *zap.Logger) Service {
	return &service{api: api, store: store, gate: gate, ui: uiService, log: log.Named("auth")}
}

func (s *service) Login(ctx context.Context, email, password string) (*catalog.AdminIdentity, error) {
	var err error
	if strings.TrimSpace(email) == "" {
		if email, err = s.ui.Prompt("Email", ""); err != nil {
			return nil, err
		}
	}
	if password == "" {
		if password, err = s.ui.Prompt("Password", ""); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	stop := s.ui.ShowSpinner("Signing in...")
	resp, err := s.api.Login(ctx, apiclient.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		stop("Sign in failed")
		s.log.Warn("login failed", zap.String("email", email), zap.Error(err))
		s.ui.Fail("%s", apiclient.UserMessage(err, "Login failed. Please try again."))
		return nil, err
	}

	if err := s.store.SetToken(resp.Token); err != nil {
		stop("Sign in failed")
		return nil, fmt.Errorf("failed to store session token: %w", err)
	}
	if err := s.store.SetIdentity(resp.Admin); err != nil {
		s.log.Warn("storing admin identity failed", zap.Error(err))
	}
	stop("Signed in")

	name := resp.Admin.Name
	if name == "" {
		name = resp.Admin.Email
	}
	s.ui.Success("Logged in as %s", name)
	return &resp.Admin, nil
}

func (s *service) Logout() error {
	if err := s.store.ClearToken(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.ui.Success("Logged out")
	return nil
}

func (s *service) Status() (Status, error) {
	st := Status{Authenticated: s.gate.IsAuthenticated()}
	if !st.Authenticated {
		s.ui.Info("Not logged in")
		return st, nil
	}
	admin, err := s.store.Identity()
	if err != nil {
		return st, fmt.Errorf("failed to read admin identity: %w", err)
	}
	st.Admin = admin
	if admin != nil && admin.Email != "" {
		s.ui.Success("Logged in as %s", admin.Email)
	} else {
		s.ui.Success("Logged in")
	}
	return st, nil
}

// Package devservertest starts the dev backend on a loopback port for tests.
package devservertest

import (
	"context"
	"net"
	"testing"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/devserver"
	"github.com/nkaewam/catalogctl/internal/session"
	"go.uber.org/zap"
)

const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "secret"
)

// Backend is a running dev server.
type Backend struct {
	*devserver.Server
	URL string
}

// Start serves a fresh backend until the test ends.
func Start(t testing.TB) *Backend {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := devserver.New(devserver.Options{
		AdminEmail:    AdminEmail,
		AdminPassword: AdminPassword,
		JWTSecret:     "test-secret",
	}, zap.NewNop())

	go func() {
		_ = srv.Serve(ln)
	}()
	t.Cleanup(func() {
		_ = srv.Shutdown()
	})
	return &Backend{Server: srv, URL: "http://" + ln.Addr().String()}
}

// Client returns an API client for the backend with an admin session
// already stored in store.
func (b *Backend) Client(t testing.TB) (*apiclient.Client, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore("")
	client, err := apiclient.New(b.URL, nil, store, zap.NewNop())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	resp, err := client.Login(context.Background(), apiclient.Credentials{Email: AdminEmail, Password: AdminPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := store.SetToken(resp.Token); err != nil {
		t.Fatalf("store token: %v", err)
	}
	return client, store
}

package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrLoginRequired is returned by the gate when no usable admin session exists.
var ErrLoginRequired = errors.New("not logged in: run `catalogctl login` first")

// Gate guards commands that need an admin session. It never touches the network.
type Gate struct {
	store TokenStore
	log   *zap.Logger
	now   func() time.Time
}

func NewGate(store TokenStore, log *zap.Logger) *Gate {
	return &Gate{store: store, log: log, now: time.Now}
}

// ProvideGate creates the auth gate over the session store
// @Provider
func ProvideGate(store *Store, log *zap.Logger) *Gate {
	return NewGate(store, log)
}

// IsAuthenticated reports whether a token is stored and, if it is a JWT with
// an expiry, whether it is still valid. Opaque tokens count as valid.
func (g *Gate) IsAuthenticated() bool {
	token, err := g.store.Token()
	if err != nil {
		g.log.Warn("reading session token failed", zap.Error(err))
		return false
	}
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	if !g.now().Before(exp.Time) {
		g.log.Info("stored session token expired", zap.Time("expired_at", exp.Time))
		return false
	}
	return true
}

// RedirectToLogin is what a guarded command does when IsAuthenticated is false.
func (g *Gate) RedirectToLogin() error {
	return ErrLoginRequired
}

// Require combines the check and the redirect.
func (g *Gate) Require() error {
	if !g.IsAuthenticated() {
		return g.RedirectToLogin()
	}
	return nil
}

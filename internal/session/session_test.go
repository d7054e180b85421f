package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetToken("tok-1"))
	require.NoError(t, s.SetIdentity(catalog.AdminIdentity{Email: "admin@example.com", Name: "Admin"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	token, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	admin, err := s.Identity()
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, "admin@example.com", admin.Email)

	require.NoError(t, s.ClearToken())
	token, err = s.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
	admin, err = s.Identity()
	require.NoError(t, err)
	assert.Nil(t, admin)

	assert.Error(t, s.SetToken(""))
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestGate(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore("")
	gate := NewGate(store, zap.NewNop())
	gate.now = func() time.Time { return now }

	assert.False(t, gate.IsAuthenticated())
	assert.ErrorIs(t, gate.Require(), ErrLoginRequired)

	require.NoError(t, store.SetToken("opaque-token"))
	assert.True(t, gate.IsAuthenticated())

	require.NoError(t, store.SetToken(signed(t, now.Add(time.Hour))))
	assert.True(t, gate.IsAuthenticated())
	assert.NoError(t, gate.Require())

	require.NoError(t, store.SetToken(signed(t, now.Add(-time.Minute))))
	assert.False(t, gate.IsAuthenticated())
}

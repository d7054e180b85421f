package auth_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/cli/auth"
	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/nkaewam/catalogctl/internal/devserver/devservertest"
	"github.com/nkaewam/catalogctl/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, input string) (auth.Service, *session.MemoryStore, *bytes.Buffer) {
	t.Helper()
	backend := devservertest.Start(t)
	store := session.NewMemoryStore("")
	client, err := apiclient.New(backend.URL, nil, store, zap.NewNop())
	require.NoError(t, err)

	var out bytes.Buffer
	svc := auth.NewService(client, store, session.NewGate(store, zap.NewNop()),
		ui.NewService(strings.NewReader(input), &out), zap.NewNop())
	return svc, store, &out
}

func TestLoginPromptsAndStoresSession(t *testing.T) {
	svc, store, out := newService(t, devservertest.AdminEmail+"\n"+devservertest.AdminPassword+"\n")

	admin, err := svc.Login(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, devservertest.AdminEmail, admin.Email)

	token, _ := store.Token()
	assert.NotEmpty(t, token)
	stored, _ := store.Identity()
	require.NotNil(t, stored)
	assert.Equal(t, "Admin", stored.Name)
	assert.Contains(t, out.String(), "Logged in as Admin")

	st, err := svc.Status()
	require.NoError(t, err)
	assert.True(t, st.Authenticated)

	require.NoError(t, svc.Logout())
	st, err = svc.Status()
	require.NoError(t, err)
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.Admin)
}

func TestLoginShowsBackendMessage(t *testing.T) {
	svc, store, out := newService(t, "")

	_, err := svc.Login(context.Background(), devservertest.AdminEmail, "wrong")
	require.Error(t, err)
	assert.Contains(t, out.String(), "Invalid email or password")

	token, _ := store.Token()
	assert.Empty(t, token)
}

func TestLoginWithoutInput(t *testing.T) {
	svc, _, _ := newService(t, "")
	_, err := svc.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ui.ErrNoInput)
}

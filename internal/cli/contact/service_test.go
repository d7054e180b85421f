package contact_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/cli/contact"
	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/nkaewam/catalogctl/internal/devserver/devservertest"
	"github.com/nkaewam/catalogctl/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListAndRespond(t *testing.T) {
	backend := devservertest.Start(t)
	first := backend.SeedContact(catalog.ContactMessage{
		Name: "Ann", Email: "ann@example.com", CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Message: "Do you ship\nto the islands? " + strings.Repeat("Thanks! ", 10),
	})
	backend.SeedContact(catalog.ContactMessage{Name: "Bo", Email: "bo@example.com", Message: "Refund", Responded: true})

	client, store := backend.Client(t)
	var out bytes.Buffer
	svc := contact.NewService(session.NewGate(store, zap.NewNop()), client,
		ui.NewService(strings.NewReader(""), &out), zap.NewNop())
	ctx := context.Background()

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, out.String(), "Do you ship to the islands?")
	assert.Contains(t, out.String(), "...")

	open, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, first.ID, open[0].ID)

	require.NoError(t, svc.Respond(ctx, first.ID))
	open, err = svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, open)

	assert.Error(t, svc.Respond(ctx, "missing"))
}

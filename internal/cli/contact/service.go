package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/catalog"
	"github.com/nkaewam/catalogctl/internal/cli/ui"
	"github.com/nkaewam/catalogctl/internal/collection"
	"github.com/nkaewam/catalogctl/internal/session"
	"go.uber.org/zap"
)

// Service handles customer contact messages
type Service interface {
	List(ctx context.Context, unrespondedOnly bool) ([]catalog.ContactMessage, error)
	Respond(ctx context.Context, id string) error
}

// API is the part of the backend client the contact commands use.
type API interface {
	ListContactMessages(ctx context.Context) ([]catalog.ContactMessage, error)
	MarkResponded(ctx context.Context, id string) error
}

// service implements Service interface
type service struct {
	gate     *session.Gate
	api      API
	messages *collection.Collection[catalog.ContactMessage]
	ui       ui.Service
}

// ProvideContactService creates a new contact service
// @Provider
func ProvideContactService(gate *session.Gate, client *apiclient.Client, uiService ui.Service, log *zap.Logger) Service {
	return NewService(gate, client, uiService, log)
}

func NewService(gate *session.Gate, api API, uiService ui.Service, log *zap.Logger) Service {
	return &service{
		gate:     gate,
		api:      api,
		messages: collection.New("contact-messages", api.ListContactMessages, log),
		ui:       uiService,
	}
}

func (s *service) List(ctx context.Context, unrespondedOnly bool) ([]catalog.ContactMessage, error) {
	if err := s.gate.Require(); err != nil {
		return nil, err
	}
	stop := s.ui.ShowSpinner("Loading messages...")
	msgs, err := s.messages.Refresh(ctx)
	if err != nil {
		stop("Loading messages failed")
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to load messages."))
		return nil, err
	}
	stop(fmt.Sprintf("Loaded %d messages", len(msgs)))

	if unrespondedOnly {
		msgs = catalog.Unresponded(msgs)
	}
	rows := make([][]string, 0, len(msgs))
	for _, m := range msgs {
		status := "open"
		if m.Responded {
			status = "responded"
		}
		rows = append(rows, []string{m.ID, m.CreatedAt.Format("2006-01-02 15:04"), m.Name, m.Email, status, preview(m.Message)})
	}
	s.ui.Table([]string{"ID", "RECEIVED", "NAME", "EMAIL", "STATUS", "MESSAGE"}, rows)
	return msgs, nil
}

func (s *service) Respond(ctx context.Context, id string) error {
	if err := s.gate.Require(); err != nil {
		return err
	}
	if err := s.api.MarkResponded(ctx, id); err != nil {
		s.ui.Fail("%s", apiclient.UserMessage(err, "Failed to update message."))
		return err
	}
	s.ui.Success("Marked message %s as responded", id)
	if err := s.messages.Sync(ctx); err != nil {
		s.ui.Info("Saved, but the message list could not be refreshed")
	}
	return nil
}

func preview(msg string) string {
	msg = strings.Join(strings.Fields(msg), " ")
	if r := []rune(msg); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return msg
}

package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/nkaewam/catalogctl/internal/catalog"
)

const (
	PathContact        = "/api/contact"
	pathContactRespond = "/api/contact/respond/"
)

func (c *Client) ListContactMessages(ctx context.Context) ([]catalog.ContactMessage, error) {
	var raw jsoniter.RawMessage
	if err := c.get(ctx, PathContact, nil, &raw); err != nil {
		return nil, err
	}
	msgs, err := decodeList[catalog.ContactMessage](raw, "messages", "data")
	if err != nil {
		return nil, fmt.Errorf("decode contact messages: %w", err)
	}
	return msgs, nil
}

// MarkResponded flags a contact message as answered.
func (c *Client) MarkResponded(ctx context.Context, id string) error {
	return c.SendForm(ctx, http.MethodPut, pathContactRespond+url.PathEscape(id), NewForm().SetBool("responded", true), nil)
}

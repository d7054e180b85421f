// Package apiclient talks to the catalog backend REST API.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/nkaewam/catalogctl/internal/config"
	"github.com/nkaewam/catalogctl/internal/session"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxErrorBody = 64 << 10

// Client is a typed wrapper around the backend endpoints. Every request
// carries the stored bearer token (when there is one) and an X-Request-ID.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  session.TokenStore
	log     *zap.Logger
}

// New builds a client for baseURL. httpClient may be nil.
func New(baseURL string, httpClient *http.Client, tokens session.TokenStore, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host are required", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: u, http: httpClient, tokens: tokens, log: log}, nil
}

// ProvideClient builds the client from config; api.timeout bounds every call.
// @Provider
func ProvideClient(cfg *config.Config, store *session.Store, log *zap.Logger) (*Client, error) {
	return New(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout}, store, log)
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), r.body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("read session token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := c.log.With(zap.String("method", r.method), zap.String("path", r.path), zap.String("request_id", requestID))
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()
	log.Debug("response", zap.Int("status", resp.StatusCode), zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Method: r.method, Path: r.path, Status: resp.StatusCode, Message: errorMessage(resp.Body)}
		if errors.Is(apiErr, ErrUnauthorized) && c.tokens != nil {
			if err := c.tokens.ClearToken(); err != nil {
				log.Error("clearing rejected token failed", zap.Error(err))
			}
		}
		log.Warn("backend rejected request", zap.Int("status", apiErr.Status), zap.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", r.method, r.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode body: %w", r.method, r.path, err)
	}
	return nil
}

// errorMessage pulls "message" (or "error") out of an error body.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) delete(ctx context.Context, path string, query url.Values) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path, query: query}, nil)
}

// SendForm issues a multipart request. It is the single entry point the
// submission pipeline uses for create and update.
func (c *Client) SendForm(ctx context.Context, method, path string, form *Form, out any) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return err
	}
	return c.do(ctx, request{method: method, path: path, body: body, contentType: contentType}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s body: %w", path, err)
	}
	return c.do(ctx, request{method: method, path: path, body: bytes.NewReader(raw), contentType: "application/json"}, out)
}

// decodeList accepts either a bare JSON array or an object wrapping the
// array under one of keys.
func decodeList[T any](raw jsoniter.RawMessage, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope map[string]jsoniter.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, err
	}
	for _, k := range keys {
		if inner, ok := envelope[k]; ok {
			return decodeList[T](inner)
		}
	}
	return nil, errors.New("response holds no list")
}

// decodeOne accepts a bare object or one wrapped under one of keys.
func decodeOne[T any](raw jsoniter.RawMessage, keys ...string) (*T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var envelope map[string]jsoniter.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err == nil {
		for _, k := range keys {
			if inner, ok := envelope[k]; ok {
				return decodeOne[T](inner)
			}
		}
	}
	var item T
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

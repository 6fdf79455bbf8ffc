// Package directoryapi calls the remote user directory REST API.
package directoryapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/userdirectory/internal/platform/timeouts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/louisbranch/userdirectory/internal/services/web/integration/directoryapi"

	// maxErrorBody bounds how much of a failed response body is read.
	maxErrorBody = 64 << 10
)

// Client talks to the directory API rooted at a base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	apiKey  string
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithAPIKey sends key in the x-api-key header on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// New builds a client for baseURL, which must be an absolute http(s) URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("api base url %q has no host", baseURL)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")

	c := &Client{
		baseURL: parsed,
		http:    &http.Client{Timeout: timeouts.UpstreamRequest},
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, creds Credentials) (Token, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}
	var resp loginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/api/login", "", creds, &resp); err != nil {
		return "", err
	}
	token := strings.TrimSpace(resp.Token)
	if token == "" {
		return "", ErrEmptyToken
	}
	return Token(token), nil
}

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, token Token, page int) (Page, error) {
	if page < 1 {
		return Page{}, ErrInvalidPage
	}
	var resp Page
	path := "/api/users?page=" + strconv.Itoa(page)
	if err := c.do(ctx, "list_users", http.MethodGet, path, token, nil, &resp); err != nil {
		return Page{}, err
	}
	if resp.TotalPages < 0 {
		resp.TotalPages = 0
	}
	return resp, nil
}

// UpdateUser sends user as the new record for user.ID. The returned record
// may be partial.
func (c *Client) UpdateUser(ctx context.Context, token Token, user User) (User, error) {
	if user.ID < 1 {
		return User{}, ErrInvalidUserID
	}
	var resp User
	path := "/api/users/" + strconv.Itoa(user.ID)
	if err := c.do(ctx, "update_user", http.MethodPut, path, token, user, &resp); err != nil {
		return User{}, err
	}
	if resp.ID == 0 {
		resp.ID = user.ID
	}
	return resp, nil
}

// DeleteUser removes the user with id.
func (c *Client) DeleteUser(ctx context.Context, token Token, id int) error {
	if id < 1 {
		return ErrInvalidUserID
	}
	return c.do(ctx, "delete_user", http.MethodDelete, "/api/users/"+strconv.Itoa(id), token, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, token Token, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "directoryapi."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	target, err := c.baseURL.Parse(c.baseURL.Path + path)
	if err != nil {
		return fmt.Errorf("directoryapi %s: build url: %w", op, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("directoryapi %s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("directoryapi %s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+string(token))
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("directoryapi %s: %w", op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(op, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("directoryapi %s: decode response: %w", op, err)
	}
	return nil
}

func statusError(op string, resp *http.Response) *StatusError {
	statusErr := &StatusError{Op: op, StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return statusErr
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		statusErr.Message = strings.TrimSpace(payload.Error)
	}
	return statusErr
}

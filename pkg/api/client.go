// Package api implements the REST client for the server's auth and admin
// endpoints.
//
// Every call is a single round trip: no retries, no caching and no timeout
// beyond the caller's context. Transport failures come back wrapped;
// non-2xx responses come back as *StatusError carrying the raw body.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LunovVladyslav/ws-tutorial/pkg/model"
)

// DefaultLoginError is shown when a failed login carries no server message.
const DefaultLoginError = "Invalid username or password"

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("api: %s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// BodyText returns the response body as the operator should see it.
func BodyText(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		if se.Body != "" {
			return se.Body
		}
		return http.StatusText(se.StatusCode)
	}
	return err.Error()
}

// TokenSource supplies the bearer token for admin requests.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token returns the token.
func (s StaticToken) Token() string { return string(s) }

// Client talks to one server.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	userAgent string
	metrics   *Metrics
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the token source used for admin requests.
func WithToken(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: server url %q must be http or https", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		tokens:  StaticToken(""),
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithSessionToken returns a copy of c that authorises as token.
func (c *Client) WithSessionToken(token string) *Client {
	cp := *c
	cp.tokens = StaticToken(token)
	return &cp
}

// Metrics returns the traffic counters, shared with every copy of c.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// BaseURL returns the server address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ---- Auth ----

// Login exchanges credentials for a token. A non-2xx answer becomes an error
// whose text is the server's message, or DefaultLoginError.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, creds, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out model.AuthResponse
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.FailedLogins.Add(1)
		_ = json.NewDecoder(resp.Body).Decode(&out)
		if msg := out.Reason(); msg != "" {
			return nil, errors.New(msg)
		}
		return nil, errors.New(DefaultLoginError)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("api: decode login response: %w", err)
	}
	c.metrics.Logins.Add(1)
	return &out, nil
}

// ---- Users ----

// ListUsers returns every account.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.getJSON(ctx, "/api/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an account.
func (c *Client) CreateUser(ctx context.Context, req model.NewUser) error {
	return c.send(ctx, http.MethodPost, "/api/admin/users", nil, req)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, "/api/admin/users/"+strconv.FormatInt(id, 10), nil, nil)
}

// BanUser bans an account for hours (model.PermanentBan for good).
func (c *Client) BanUser(ctx context.Context, id int64, hours model.BanHours) error {
	q := url.Values{"hours": {strconv.Itoa(int(hours))}}
	return c.send(ctx, http.MethodPost, "/api/admin/users/"+strconv.FormatInt(id, 10)+"/ban", q, nil)
}

// UnbanUser lifts a ban.
func (c *Client) UnbanUser(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodPost, "/api/admin/users/"+strconv.FormatInt(id, 10)+"/unban", nil, nil)
}

// ---- Peers ----

// ListPeers returns live connections keyed by connection id.
func (c *Client) ListPeers(ctx context.Context) (map[string]model.Peer, error) {
	peers := map[string]model.Peer{}
	if err := c.getJSON(ctx, "/api/admin/peers", &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

// ---- Reports ----

// ListReports returns every report, newest first as the server orders them.
func (c *Client) ListReports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	if err := c.getJSON(ctx, "/api/admin/reports", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// ResolveReport marks a report resolved.
func (c *Client) ResolveReport(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodPut, "/api/admin/reports/"+strconv.FormatInt(id, 10)+"/resolve", nil, nil)
}

// ---- Logs ----

// Logs returns the server log tail as opaque text.
func (c *Client) Logs(ctx context.Context) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/admin/logs", nil, nil, true)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("api: read logs: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Method: http.MethodGet, Path: "/api/admin/logs", StatusCode: resp.StatusCode, Body: string(body)}
	}
	return string(body), nil
}

// ---- plumbing ----

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, http.MethodGet, path); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) error {
	resp, err := c.do(ctx, method, path, query, body, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, method, path); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, auth bool) (*http.Response, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.tokens.Token())
	}

	c.metrics.Requests.Add(1)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.TransportErrors.Add(1)
		slog.Error("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	c.metrics.observe(time.Since(start))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ErrorResponses.Add(1)
	}
	slog.Debug("request done", "method", method, "path", path, "request_id", reqID, "status", resp.StatusCode)
	return resp, nil
}

func checkStatus(resp *http.Response, method, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

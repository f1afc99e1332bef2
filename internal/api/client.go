// Package api is the single point of outbound HTTP communication with the
// teamboard backend. It attaches bearer-token authorization, encodes JSON and
// form bodies, and normalizes every failure into *RequestError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teamboard/client/internal/credstore"
	"github.com/teamboard/client/internal/logging"
	"github.com/teamboard/client/internal/models"
)

// DefaultBaseURL points at the production server. It is used when neither a
// persisted override nor a configured value is present.
const DefaultBaseURL = "https://api.teamboard.dev"

const (
	requestTimeout = 15 * time.Second

	loginPath    = "/api/v1/users/login"
	registerPath = "/api/v1/users/register-with-qq"
	mePath       = "/api/v1/users/me"
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
	contentTypeForm   = "application/x-www-form-urlencoded"
)

// Client talks to the backend. It holds the in-memory copy of the auth token;
// the credential store holds the durable copy, and every token-producing or
// token-consuming call updates the store so callers stay thin orchestrators.
type Client struct {
	baseURL string
	http    *http.Client
	store   credstore.Repository
	log     logging.Logger

	mu    sync.RWMutex
	token string
}

// New constructs a Client. The base URL is resolved in priority order:
// a persisted override in the store, then configuredURL, then DefaultBaseURL.
func New(ctx context.Context, configuredURL string, store credstore.Repository, log logging.Logger) *Client {
	base := configuredURL
	if base == "" {
		base = DefaultBaseURL
	}

	if v, err := store.Get(ctx, credstore.KeyBaseURL); err != nil {
		log.Warn(ctx, "failed to read base url override", "error", err)
	} else if len(v) > 0 {
		base = string(v)
	}

	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		store:   store,
		log:     log,
	}
}

// BaseURL returns the resolved backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken replaces the in-memory bearer token. An empty string disables
// the Authorization header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the in-memory bearer token, if any.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Request performs an HTTP call and returns the response body normalized to
// JSON bytes (an empty body becomes "{}"). Non-2xx responses and transport
// failures are returned as *RequestError; the body is nil in those cases.
//
// body is JSON-encoded for POST/PUT/PATCH unless the headers override the
// Content-Type to form encoding, in which case body must be url.Values.
func (c *Client) Request(ctx context.Context, method, path string, body any, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	contentType := contentTypeJSON
	if override, ok := headers[contentTypeHeader]; ok {
		contentType = override
	}

	if body != nil && (method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch) {
		switch {
		case strings.HasPrefix(contentType, contentTypeForm):
			form, ok := body.(url.Values)
			if !ok {
				return nil, fmt.Errorf("form body must be url.Values, got %T", body)
			}
			reader = strings.NewReader(form.Encode())
		default:
			data, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}
			reader = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set(contentTypeHeader, contentType)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "transport failure", "method", method, "path", path, "error", err)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	raw = normalizeBody(resp.Header.Get(contentTypeHeader), raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{Status: resp.StatusCode, Message: errorMessage(raw)}
		c.log.Debug(ctx, "server rejected request", "method", method, "path", path, "status", resp.StatusCode)
		return nil, reqErr
	}

	return raw, nil
}

// normalizeBody coerces a response body into JSON bytes: declared-JSON bodies
// pass through, anything else is kept only if it parses as JSON, and an empty
// body becomes an empty object.
func normalizeBody(contentType string, raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []byte("{}")
	}
	if strings.Contains(contentType, contentTypeJSON) || json.Valid(trimmed) {
		return trimmed
	}
	return []byte("{}")
}

// errorMessage extracts a user-displayable message from an error body,
// preferring "detail" (FastAPI convention) over "message".
func errorMessage(raw []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)
	if body.Detail != "" {
		return body.Detail
	}
	if body.Message != "" {
		return body.Message
	}
	return "request failed"
}

// do performs a request and decodes the response into out when out is non-nil.
// A response that cannot be decoded is rejected as *RequestError rather than
// letting half-filled values propagate deeper.
func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	raw, err := c.Request(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestError{Status: http.StatusOK, Message: fmt.Sprintf("malformed server response: %v", err)}
	}
	return nil
}

// Get issues a GET and decodes the response into out (may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, out)
}

// Post issues a JSON POST and decodes the response into out (may be nil).
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, nil, out)
}

// Put issues a JSON PUT and decodes the response into out (may be nil).
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, body, nil, out)
}

// Delete issues a DELETE and decodes the response into out (may be nil).
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// PostForm issues a form-encoded POST and decodes the response into out.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	return c.do(ctx, http.MethodPost, path, form, map[string]string{contentTypeHeader: contentTypeForm}, out)
}

// Login posts form-encoded credentials. On success the returned token is
// stored both in memory and in the credential store, and the user profile is
// fetched and cached right away.
func (c *Client) Login(ctx context.Context, username, password string) (*models.TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok models.TokenResponse
	if err := c.PostForm(ctx, loginPath, form, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, &RequestError{Status: http.StatusOK, Message: "malformed server response: missing access_token"}
	}

	c.SetToken(tok.AccessToken)
	if err := c.store.Set(ctx, credstore.KeyAuthToken, []byte(tok.AccessToken)); err != nil {
		c.log.Error(ctx, "failed to persist auth token", "error", err)
	}

	if _, err := c.FetchUserInfo(ctx); err != nil {
		c.log.Warn(ctx, "profile fetch after login failed", "error", err)
	}

	return &tok, nil
}

// Register posts form-encoded registration fields and returns the created
// user. It does not authenticate; callers log in afterwards.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	form := url.Values{}
	form.Set("username", req.Username)
	form.Set("password", req.Password)
	form.Set("qq", req.QQ)

	var user models.UserProfile
	if err := c.PostForm(ctx, registerPath, form, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FetchUserInfo gets the current user and caches the result in the credential
// store. It returns (nil, nil) when the server answered successfully with an
// empty profile, and *RequestError for actual HTTP failures. A non-empty
// profile missing its identity fields is rejected as malformed.
func (c *Client) FetchUserInfo(ctx context.Context) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := c.Get(ctx, mePath, &user); err != nil {
		return nil, err
	}

	if user.ID == 0 && user.Username == "" {
		return nil, nil
	}
	if user.ID == 0 || user.Username == "" {
		return nil, &RequestError{Status: http.StatusOK, Message: "malformed server response: incomplete user profile"}
	}

	c.cacheProfile(ctx, &user)
	return &user, nil
}

// UpdateUser sends partial profile fields (notably the avatar) and caches the
// updated profile the backend returns.
func (c *Client) UpdateUser(ctx context.Context, upd models.UserUpdate) (*models.UserProfile, error) {
	var user models.UserProfile
	if err := c.Put(ctx, mePath, upd, &user); err != nil {
		return nil, err
	}
	c.cacheProfile(ctx, &user)
	return &user, nil
}

func (c *Client) cacheProfile(ctx context.Context, user *models.UserProfile) {
	data, err := json.Marshal(user)
	if err != nil {
		c.log.Error(ctx, "failed to encode user profile", "error", err)
		return
	}
	if err := c.store.Set(ctx, credstore.KeyUserInfo, data); err != nil {
		c.log.Error(ctx, "failed to cache user profile", "error", err)
	}
}

// Logout clears the in-memory token and deletes both the token and the cached
// profile from the credential store. Logout is purely local; no server
// endpoint is called.
func (c *Client) Logout(ctx context.Context) error {
	c.SetToken("")

	var firstErr error
	for _, key := range []string{credstore.KeyAuthToken, credstore.KeyUserInfo} {
		if err := c.store.Delete(ctx, key); err != nil {
			c.log.Error(ctx, "failed to delete stored credential", "key", key, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

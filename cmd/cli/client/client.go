// Package client talks to the blog API the way a browser would: it keeps the
// session and CSRF cookies in a state file and echoes the CSRF token on writes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/crucial707/blog-api/cmd/cli/config"
)

const (
	sessionCookie = "sessionid"
	csrfCookie    = "csrftoken"
	csrfHeader    = "X-CSRFToken"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("API error: %d %s", e.Status, e.Message)
}

// State is what the CLI remembers between runs.
type State struct {
	BaseURL string            `json:"base_url"`
	Cookies map[string]string `json:"cookies"`
}

// Client is a cookie-keeping HTTP client for one API base URL.
type Client struct {
	BaseURL   string
	StatePath string
	HTTP      *http.Client

	state State
}

// New loads the state file at statePath. A missing file, or one saved for a
// different base URL, starts from empty cookies.
func New(baseURL, statePath string) (*Client, error) {
	c := &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		StatePath: statePath,
		HTTP:      &http.Client{Timeout: 30 * time.Second},
	}
	c.state = State{BaseURL: c.BaseURL, Cookies: map[string]string{}}

	data, err := os.ReadFile(statePath)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	var saved State
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", statePath, err)
	}
	if saved.BaseURL == c.BaseURL && saved.Cookies != nil {
		c.state.Cookies = saved.Cookies
	}
	return c, nil
}

// SignedIn reports whether a session cookie is held.
func (c *Client) SignedIn() bool {
	return c.state.Cookies[sessionCookie] != ""
}

// Forget drops every cookie and saves the empty state.
func (c *Client) Forget() error {
	c.state.Cookies = map[string]string{}
	return c.save()
}

// Do sends in as JSON and decodes a JSON answer into out (when both are non-nil).
// Writes fetch a CSRF token first when none is held, and retry once with a
// fresh token when the server rejects the held one.
func (c *Client) Do(ctx context.Context, method, path string, in, out interface{}) error {
	unsafe := method != http.MethodGet && method != http.MethodHead
	if unsafe && c.state.Cookies[csrfCookie] == "" {
		if err := c.FetchToken(ctx); err != nil {
			return err
		}
	}

	err := c.send(ctx, method, path, in, out)
	var apiErr *APIError
	if unsafe && errors.As(err, &apiErr) && apiErr.Code == "csrf_rejected" {
		if err := c.FetchToken(ctx); err != nil {
			return err
		}
		err = c.send(ctx, method, path, in, out)
	}
	return err
}

// FetchToken asks the API for a new CSRF token.
func (c *Client) FetchToken(ctx context.Context) error {
	return c.send(ctx, http.MethodGet, "/token", nil, nil)
}

func (c *Client) send(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for name, value := range c.state.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if tok := c.state.Cookies[csrfCookie]; tok != "" {
		req.Header.Set(csrfHeader, tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if c.absorbCookies(resp) {
		if err := c.save(); err != nil {
			return err
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Message, apiErr.Code = payload.Error, payload.Code
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// absorbCookies applies Set-Cookie headers and reports whether anything changed.
func (c *Client) absorbCookies(resp *http.Response) bool {
	changed := false
	for _, ck := range resp.Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			if _, ok := c.state.Cookies[ck.Name]; ok {
				delete(c.state.Cookies, ck.Name)
				changed = true
			}
			continue
		}
		if c.state.Cookies[ck.Name] != ck.Value {
			c.state.Cookies[ck.Name] = ck.Value
			changed = true
		}
	}
	return changed
}

func (c *Client) save() error {
	data, err := json.MarshalIndent(c.state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.StatePath, data, 0600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Default returns a client for config.APIURL using config.StatePath.
func Default() (*Client, error) {
	return New(config.APIURL(), config.StatePath())
}

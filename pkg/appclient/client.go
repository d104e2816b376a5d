// Package appclient is the Go client of the fast-food API. It keeps the
// session tokens of one signed-in user and exposes the state containers a UI
// layer drives: the session bridge and the menu query.
package appclient

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
	"sync"
	"time"
)

// GenericMessage is shown when a failure carries no usable message.
const GenericMessage = "Something went wrong."

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// UserMessage returns the text to show for err: the backend message when
// there is one, the generic message otherwise.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return GenericMessage
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type Tokens struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
	Calories    int     `json:"calories"`
	Protein     int     `json:"protein"`
	Rating      float64 `json:"rating"`
	Type        string  `json:"type"`
	CategoryID  string  `json:"category_id"`
}

// MenuParams are the menu filters. Zero values mean no filter and the server
// default limit.
type MenuParams struct {
	Category string `json:"category,omitempty"`
	Query    string `json:"query,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

func (p MenuParams) values() url.Values {
	v := url.Values{}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.Query != "" {
		v.Set("query", p.Query)
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type session struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// Client talks to the API rooted at BaseURL, e.g. http://localhost:8080/api.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu     sync.RWMutex
	tokens Tokens
}

func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: hc}
}

// Tokens returns the current token pair.
func (c *Client) Tokens() Tokens {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens
}

func (c *Client) setTokens(t Tokens) {
	c.mu.Lock()
	c.tokens = t
	c.mu.Unlock()
}

func (c *Client) SignUp(ctx context.Context, name, email, password string) (*User, error) {
	var s session
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/sign-up", body, &s); err != nil {
		return nil, err
	}
	c.setTokens(s.Tokens)
	return &s.User, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*User, error) {
	var s session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/sign-in", body, &s); err != nil {
		return nil, err
	}
	c.setTokens(s.Tokens)
	return &s.User, nil
}

// Refresh rotates the token pair.
func (c *Client) Refresh(ctx context.Context) error {
	var t Tokens
	body := map[string]string{"refresh_token": c.Tokens().RefreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", body, &t); err != nil {
		return err
	}
	c.setTokens(t)
	return nil
}

// CurrentUser fetches the signed-in account.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/account", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SignOut deletes the server session and forgets the tokens.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/account/session", nil, nil); err != nil {
		return err
	}
	c.setTokens(Tokens{})
	return nil
}

func (c *Client) Menu(ctx context.Context, p MenuParams) ([]MenuItem, error) {
	path := "/menu"
	if q := p.values().Encode(); q != "" {
		path += "?" + q
	}
	var items []MenuItem
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Tokens().AccessToken; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

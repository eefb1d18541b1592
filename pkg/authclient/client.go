// Package authclient is a small HTTP client for the store API. It keeps the
// signed-in session in a SessionStore and replays the token on every request,
// the way the web client mirrors its stored auth state into request headers.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore
	session    Session
}

// NewClient builds a Client against baseURL and hydrates the session from
// store. A store error leaves the client signed out.
func NewClient(baseURL string, store SessionStore) (*Client, error) {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		store: store,
	}

	session, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	c.session = session
	return c, nil
}

// Session returns the current session state.
func (c *Client) Session() Session {
	return c.session
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

// Login authenticates and persists the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}

	var result authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("login rejected: %s", result.Message)
	}

	c.session = Session{User: result.User, Token: result.Token}
	if err := c.store.Save(c.session); err != nil {
		return nil, err
	}
	return result.User, nil
}

// RegisterRequest carries the fields of a registration.
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	SecurityAnswer string `json:"answer"`
}

// Register creates an account. It does not sign in; callers follow up with
// Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var result authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", req, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("registration rejected: %s", result.Message)
	}
	return result.User, nil
}

// Logout drops the session in memory and in the store.
func (c *Client) Logout() error {
	c.session = Session{}
	return c.store.Clear()
}

// Orders fetches the caller's orders. The server responds with a bare array.
func (c *Client) Orders(ctx context.Context) ([]json.RawMessage, error) {
	var orders []json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CheckAuth asks the server whether the stored token still passes the
// sign-in gate.
func (c *Client) CheckAuth(ctx context.Context) (bool, error) {
	var result struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/user-auth", nil, &result); err != nil {
		return false, err
	}
	return result.OK, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.Token != "" {
		req.Header.Set("Authorization", c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

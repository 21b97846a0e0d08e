// Package identsdk is a typed HTTP client for the identity service API.
package identsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to an identity service instance.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a sensible default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new user account and returns its public view.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	var resp UserResponse
	if err := c.postJSON(ctx, "/api/v1/users/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates by email and password and returns the public view of
// the user on success.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*UserInfo, error) {
	var resp UserResponse
	if err := c.postJSON(ctx, "/api/v1/users/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout acknowledges a logout for the given email.
func (c *Client) Logout(ctx context.Context, email string) error {
	var resp MessageResponse
	return c.postJSON(ctx, "/api/v1/users/logout", LogoutRequest{Email: email}, &resp)
}

// Livez returns the liveness status of the service.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/livez", nil)
	if err != nil {
		return nil, err
	}
	var resp HealthResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("identsdk: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Message == "" {
			errResp.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("identsdk: decode response: %w", err)
	}
	return nil
}

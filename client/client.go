// Package client is a Go client for the ownkv HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ownkv/ownkv-go/identity"
)

// HTTPDoer issues HTTP requests. It allows tests to mock the transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to an ownkv server.
type Client struct {
	// BaseURL is the server root, e.g. "http://127.0.0.1:8080".
	BaseURL string

	// HTTPClient issues the requests; nil means http.DefaultClient.
	HTTPClient HTTPDoer
}

// New creates a Client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// entryURL builds the request URL for (owner, path), escaping the path
// segments.
func (c *Client) entryURL(owner identity.PublicKey, path string) string {
	u := url.URL{Path: "/" + owner.Encode() + "/" + path}
	return c.BaseURL + u.EscapedPath()
}

// Put stores data at (owner, path). Writes are unauthenticated in the
// current protocol; the server accepts any write under a decodable key.
func (c *Client) Put(ctx context.Context, owner identity.PublicKey, path string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		c.entryURL(owner, path), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.doer().Do(req)
	if err != nil {
		return fmt.Errorf("client: put: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return statusError(resp)
	}
	return nil
}

// Get fetches the payload at (owner, path). A missing entry yields
// ErrNotFound.
func (c *Client) Get(ctx context.Context, owner identity.PublicKey, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.entryURL(owner, path), nil)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}

	resp, err := c.doer().Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: get: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("client: read response: %w", err)
		}
		return data, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, statusError(resp)
	}
}

// Delete removes the entry at (owner, path). A missing entry yields
// ErrNotFound.
func (c *Client) Delete(ctx context.Context, owner identity.PublicKey, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.entryURL(owner, path), nil)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}

	resp, err := c.doer().Do(req)
	if err != nil {
		return fmt.Errorf("client: delete: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return statusError(resp)
	}
}

// listResponse mirrors the server's listing payload.
type listResponse struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// List returns owner's paths starting with prefix. The server treats a
// trailing slash as the listing marker, so prefix must be empty or end
// with "/".
func (c *Client) List(ctx context.Context, owner identity.PublicKey, prefix string) ([]string, error) {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		return nil, ErrInvalidPrefix
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.entryURL(owner, prefix), nil)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}

	resp, err := c.doer().Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("client: decode listing: %w", err)
	}
	return body.Keys, nil
}

// apiError is the server's JSON error shape.
type apiError struct {
	Error string `json:"error"`
}

// statusError converts an unexpected response into an error, pulling the
// server's JSON error message when one is present.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var e apiError
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("%w: %s: %s", ErrRequestFailed, resp.Status, e.Error)
	}
	return fmt.Errorf("%w: %s", ErrRequestFailed, resp.Status)
}

package jenkins

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"buildbridge/internal/logger"
	"buildbridge/internal/params"
)

// Client issues authenticated requests against one Jenkins server. It is
// built per call from the extracted connection parameters and holds no state
// beyond the in-flight request.
type Client struct {
	base  string
	user  string
	token string

	client *http.Client
	// noRedirect returns redirect responses as-is instead of following them;
	// doDelete answers with a 302 that must be inspected, not chased.
	noRedirect *http.Client
}

// NewClient creates a client for the given connection.
func NewClient(conn *params.Connection, timeout time.Duration) *Client {
	return &Client{
		base:   conn.URL,
		user:   conn.User,
		token:  conn.Token,
		client: &http.Client{Timeout: timeout},
		noRedirect: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// response is a completed HTTP exchange with the body drained.
type response struct {
	status int
	header http.Header
	body   []byte
}

// success reports whether the status is 2xx.
func (r *response) success() bool {
	return r.status >= 200 && r.status < 300
}

// redirect reports whether the status is one of the redirect codes accepted
// as a positive outcome (doDelete answers 302 on success).
func (r *response) redirect() bool {
	switch r.status {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	}
	return false
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path, contentType string, body io.Reader) (*response, error) {
	fullURL := c.base + path

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// Jenkins API uses Basic Authentication with username:token
	auth := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", c.user, c.token)))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := hc.Do(req)
	if err != nil {
		logger.Debug("Jenkins request failed", "method", method, "url", fullURL, "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.Debug("Jenkins request completed", "method", method, "url", fullURL, "status", resp.StatusCode)
	return &response{
		status: resp.StatusCode,
		header: resp.Header,
		body:   respBody,
	}, nil
}

// get issues a GET request and returns the exchange without interpreting the
// status; classification belongs to the caller.
func (c *Client) get(ctx context.Context, path string) (*response, error) {
	return c.do(ctx, c.client, http.MethodGet, path, "", nil)
}

// post issues a POST request, following redirects.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*response, error) {
	return c.do(ctx, c.client, http.MethodPost, path, contentType, body)
}

// postNoRedirect issues a POST request and surfaces redirect responses to the
// caller.
func (c *Client) postNoRedirect(ctx context.Context, path string) (*response, error) {
	return c.do(ctx, c.noRedirect, http.MethodPost, path, "", nil)
}

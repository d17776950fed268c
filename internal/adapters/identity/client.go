// Package identity resolves the email address that owns a bearer token.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/magicpin/internal/ports"
)

const defaultEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo?alt=json"

const maxResponseBytes = 1 << 16

type Client struct {
	Endpoint       string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.IdentityClient = (*Client)(nil)

type userinfoResponse struct {
	Email string `json:"email"`
}

func (c *Client) ResolveEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.New("bearer token is required")
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("request userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var payload userinfoResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode userinfo response: %w", err)
	}
	if strings.TrimSpace(payload.Email) == "" {
		return "", errors.New("userinfo response missing email")
	}

	return payload.Email, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

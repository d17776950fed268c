// Package gmail is the narrow client over the upstream mail API: recent
// message IDs and single-header metadata lookups, nothing more.
package gmail

import (
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

	"github.com/bnema/magicpin/internal/ports"
)

const defaultBaseURL = "https://www.googleapis.com/gmail/v1"

const maxResponseBytes = 1 << 20

type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.MailClient = (*Client)(nil)

type messageListResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type messageMetadataResponse struct {
	Payload struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
	} `json:"payload"`
}

func (c *Client) ListRecentMessageIDs(ctx context.Context, token string, max int) ([]string, error) {
	if token == "" {
		return nil, errors.New("bearer token is required")
	}
	if max <= 0 {
		return nil, errors.New("max results must be positive")
	}

	endpoint := c.baseURL() + "/users/me/messages?maxResults=" + strconv.Itoa(max)

	var payload messageListResponse
	if err := c.getJSON(ctx, endpoint, token, &payload); err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}

	ids := make([]string, 0, len(payload.Messages))
	for _, message := range payload.Messages {
		ids = append(ids, message.ID)
	}

	return ids, nil
}

// Subject fetches only the Subject header of one message to keep the
// payload minimal. A message without the header yields an empty string.
func (c *Client) Subject(ctx context.Context, token string, messageID string) (string, error) {
	if token == "" {
		return "", errors.New("bearer token is required")
	}
	if messageID == "" {
		return "", errors.New("message id is required")
	}

	endpoint := fmt.Sprintf("%s/users/me/messages/%s?format=metadata&metadataHeaders=Subject",
		c.baseURL(), url.PathEscape(messageID))

	var payload messageMetadataResponse
	if err := c.getJSON(ctx, endpoint, token, &payload); err != nil {
		return "", fmt.Errorf("fetch message metadata: %w", err)
	}

	for _, header := range payload.Payload.Headers {
		if strings.EqualFold(header.Name, "Subject") {
			return header.Value, nil
		}
	}

	return "", nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, token string, out any) error {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return defaultBaseURL
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

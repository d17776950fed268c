// Package model bridges prompts to the hosted inference proxy. One blocking
// request per prompt: no retry, no streaming, whole response or failure.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/magicpin/internal/domain"
	"github.com/bnema/magicpin/internal/ports"
)

const maxResponseBytes = 4 << 20

// GenerationConfig carries the fixed sampling parameters sent with every
// prompt.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
}

// Config identifies the upstream model behind the proxy. It is injected, not
// hard-coded; defaults live in the wiring layer.
type Config struct {
	URL              string
	Project          string
	Region           string
	Publisher        string
	Model            string
	RPC              string
	GenerationConfig GenerationConfig
}

type Client struct {
	Config         Config
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.ModelClient = (*Client)(nil)

type converseRequest struct {
	Project          string           `json:"project"`
	Region           string           `json:"region"`
	Publisher        string           `json:"publisher"`
	Model            string           `json:"model"`
	RPC              string           `json:"rpc"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
	Prompt           string           `json:"prompt"`
}

type converseResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Converse sends one prompt and returns the generated text. A non-success
// status, a transport failure, and an error field in a 200 body all surface
// uniformly as *domain.ModelError carrying the upstream message.
func (c *Client) Converse(ctx context.Context, prompt string) (string, error) {
	if c.Config.URL == "" {
		return "", errors.New("proxy url is required")
	}

	body, err := json.Marshal(converseRequest{
		Project:          c.Config.Project,
		Region:           c.Config.Region,
		Publisher:        c.Config.Publisher,
		Model:            c.Config.Model,
		RPC:              c.Config.RPC,
		GenerationConfig: c.Config.GenerationConfig,
		Prompt:           prompt,
	})
	if err != nil {
		return "", fmt.Errorf("encode converse request: %w", err)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.Config.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create converse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", &domain.ModelError{Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &domain.ModelError{Message: err.Error()}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		message := strings.TrimSpace(string(raw))
		var payload converseResponse
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			message = payload.Error
		}
		if message == "" {
			message = fmt.Sprintf("proxy returned status %d", resp.StatusCode)
		}
		return "", &domain.ModelError{Message: message}
	}

	var payload converseResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", &domain.ModelError{Message: "decode proxy response: " + err.Error()}
	}
	if payload.Error != "" {
		return "", &domain.ModelError{Message: payload.Error}
	}

	return payload.Text, nil
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
		requestTimeout = 60 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

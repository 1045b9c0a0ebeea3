// Copyright 2026 QuakeWatch
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package openrouter generates narrative seismic analyses through the
// OpenRouter chat completions API. Model availability varies, so every
// request walks a fallback chain of models until one answers.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultEndpoint is the OpenRouter chat completions URL.
const DefaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"

// Analysis is a completed narrative plus the model that produced it.
type Analysis struct {
	Text  string `json:"analysis"`
	Model string `json:"model"`
}

// APIError is a failure from one model attempt.
type APIError struct {
	Model      string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("openrouter: model %s: status %d: %s", e.Model, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("openrouter: model %s: %s", e.Model, e.Message)
}

// ExhaustedError reports that every model in the chain failed.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("openrouter: all %d models failed, last error: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Client calls the chat completions API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	chain    []string
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the API URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithModel puts model at the front of the fallback chain.
func WithModel(model string) Option {
	return func(c *Client) { c.chain = FallbackChain(model) }
}

// NewClient creates a client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 60 * time.Second},
		chain:    FallbackChain(DefaultModel),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze sends prompt through the fallback chain and returns the first
// successful completion.
func (c *Client) Analyze(ctx context.Context, prompt string) (*Analysis, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openrouter: API key not configured")
	}

	var lastErr error
	for _, model := range c.chain {
		text, err := c.complete(ctx, model, prompt)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		return &Analysis{Text: text, Model: model}, nil
	}
	return nil, &ExhaustedError{Attempts: len(c.chain), Last: lastErr}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) complete(ctx context.Context, model, prompt string) (string, error) {
	cfg, ok := Lookup(model)
	if !ok {
		cfg, _ = Lookup(DefaultModel)
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(model)},
			{Role: "user", Content: prompt},
		},
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openrouter: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openrouter: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &APIError{Model: model, Message: err.Error()}
	}
	defer resp.Body.Close()

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", &APIError{Model: model, StatusCode: resp.StatusCode, Message: "malformed response"}
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if cr.Error != nil {
			msg = cr.Error.Message
		}
		return "", &APIError{Model: model, StatusCode: resp.StatusCode, Message: msg}
	}
	if cr.Error != nil {
		return "", &APIError{Model: model, Message: cr.Error.Message}
	}
	if len(cr.Choices) == 0 {
		return "", &APIError{Model: model, Message: "no choices in response"}
	}
	return cr.Choices[0].Message.Content, nil
}

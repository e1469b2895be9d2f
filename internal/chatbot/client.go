// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatbot implements the client side of the Shizuha chatbot
// streaming API.
//
// The backend accepts a message plus session ID and answers with a
// Server-Sent Events stream of incremental turn events (text deltas, tool
// activity, a terminal done or error event). This package owns the
// transport and the Accumulator that folds the event stream into a
// display-ready assistant message; it does not own any session state.
package chatbot

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTimeout bounds the initial connection; streaming itself is
	// bounded by the caller's context.
	DefaultTimeout = 30 * time.Second

	// MaxErrorBodySize caps how much of an error response is read.
	MaxErrorBodySize = 64 * 1024
)

// Shared HTTP client for streaming requests. No overall timeout: a turn
// streams for as long as the backend keeps producing events, and the
// session manager cancels through the request context.
var sharedStreamingClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotConfigured indicates the client has no base URL.
var ErrNotConfigured = errors.New("chatbot: client not configured")

// APIError is a non-success HTTP response from the chatbot backend.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("chatbot: backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("chatbot: backend returned %d", e.Status)
}

// =============================================================================
// CLIENT
// =============================================================================

// TokenFunc supplies the bearer token per request. The widget wires this to
// the auth mirror so a token refresh by the identity service is picked up
// without re-creating the client.
type TokenFunc func() string

// Client talks to the chatbot backend.
type Client struct {
	baseURL       string
	sourceService string
	tokenFunc     TokenFunc
	httpClient    *http.Client

	// limiter paces outbound requests; a runaway caller must not hammer
	// the backend.
	limiter *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSourceService sets the source-service identifier sent with each
// request.
func WithSourceService(service string) Option {
	return func(c *Client) { c.sourceService = service }
}

// NewClient creates a chatbot client for the given API base URL.
func NewClient(baseURL string, tokenFunc TokenFunc, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokenFunc:  tokenFunc,
		httpClient: sharedStreamingClient,
		limiter:    rate.NewLimiter(rate.Every(time.Second/2), 3),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsConfigured reports whether the client can make requests.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// =============================================================================
// CHAT REQUEST
// =============================================================================

// chatRequest is the JSON body of a chat call.
type chatRequest struct {
	Message       string `json:"message"`
	SessionID     string `json:"session_id"`
	SourceService string `json:"source_service,omitempty"`
}

// StreamChat sends one user message and feeds every stream event to fn in
// arrival order. It returns once the stream reaches its terminal event,
// the connection drops, or ctx is cancelled. Backend-signalled failures
// arrive as an EventError before return; transport failures are returned
// as an error.
func (c *Client) StreamChat(ctx context.Context, sessionID, message string, fn EventFunc) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	body, err := json.Marshal(chatRequest{
		Message:       message,
		SessionID:     sessionID,
		SourceService: c.sourceService,
	})
	if err != nil {
		return fmt.Errorf("chatbot: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("chatbot: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if c.tokenFunc != nil {
		if token := c.tokenFunc(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chatbot: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorFromResponse(resp)
	}

	return processStream(ctx, resp.Body, fn)
}

// errorFromResponse builds an APIError from a non-200 response, pulling the
// message out of a JSON error body when there is one.
func (c *Client) errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))

	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	message := ""
	if err := json.Unmarshal(body, &parsed); err == nil {
		message = parsed.Error.Message
		if message == "" {
			message = parsed.Message
		}
	}

	return &APIError{Status: resp.StatusCode, Message: message}
}

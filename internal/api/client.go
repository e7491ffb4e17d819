// Copyright (c) 2025 MoodChat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the MoodChat server.
//
// It covers the authentication endpoints (/login, /signup), the identity
// check (/me), the message history (/messages), the mood poll (/mood) and
// the summary generation endpoint (/summary). All authenticated calls carry
// the bearer credential in the Authorization header; the credential never
// appears in a URL here (the websocket handshake in package realtime is the
// single sanctioned exception).
package api

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

	"github.com/moodchat/moodchat-tui/internal/model"
)

// Configuration constants for the MoodChat API.
const (
	// DefaultTimeout bounds every REST call. There is no retry; a failed
	// call is reported to the caller once.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// sharedHTTPClient is used for all REST requests.
// Connection pooling avoids a TCP handshake per mood poll tick.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	Timeout: DefaultTimeout,
}

// Error variables for common API failures.
var (
	// ErrUnauthorized indicates the credential was rejected (HTTP 401/403).
	// Callers treat this as session-invalidating on the identity check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadResponse indicates the server answered with a body the client
	// could not decode.
	ErrBadResponse = errors.New("malformed server response")
)

// APIError is a non-2xx answer from the server, carrying the HTTP status
// and the human-readable detail the server put in the body.
type APIError struct {
	Status int
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Detail)
}

// Is lets errors.Is(err, ErrUnauthorized) match credential rejections.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// errorDetailBody is the error payload shape used by every endpoint.
type errorDetailBody struct {
	Detail string `json:"detail"`
}

// credentials is the request body for /login and /signup.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse is the /login success payload.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// summaryResponse is the /summary success payload.
type summaryResponse struct {
	Summary string `json:"summary"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a MoodChat API client bound to one server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL (scheme://host[:port]).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: sharedHTTPClient,
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login exchanges a username and password for a bearer credential.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var tok tokenResponse
	err := c.postJSON(ctx, "/login", credentials{Username: username, Password: password}, &tok)
	if err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: login response missing access_token", ErrBadResponse)
	}
	return tok.AccessToken, nil
}

// Signup registers a new account. Success carries no credential; the user
// logs in afterwards.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	return c.postJSON(ctx, "/signup", credentials{Username: username, Password: password}, nil)
}

// Me fetches the identity bound to the credential. A failure here means the
// session is invalid and must be torn down by the caller.
func (c *Client) Me(ctx context.Context, token string) (model.Identity, error) {
	var ident model.Identity
	err := c.getJSON(ctx, "/me", token, &ident)
	return ident, err
}

// =============================================================================
// DATA ENDPOINTS
// =============================================================================

// Messages fetches the message history, oldest first, exactly as the server
// orders it.
func (c *Client) Messages(ctx context.Context, token string) ([]model.Message, error) {
	var msgs []model.Message
	err := c.getJSON(ctx, "/messages", token, &msgs)
	return msgs, err
}

// Mood fetches the current aggregate room mood.
func (c *Client) Mood(ctx context.Context, token string) (model.MoodSnapshot, error) {
	var snap model.MoodSnapshot
	err := c.getJSON(ctx, "/mood", token, &snap)
	return snap, err
}

// Summary requests a generated conversation summary.
func (c *Client) Summary(ctx context.Context, token string) (string, error) {
	var resp summaryResponse
	if err := c.getJSON(ctx, "/summary", token, &resp); err != nil {
		return "", err
	}
	return resp.Summary, nil
}

// =============================================================================
// TRANSPORT HELPERS
// =============================================================================

// postJSON posts a JSON body and decodes a JSON answer into out (out may be
// nil when the success body is irrelevant, as for /signup).
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// getJSON performs an authenticated GET and decodes the answer into out.
func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req, out)
}

// do executes the request, maps non-2xx answers to *APIError and decodes
// success bodies. Bodies are capped at MaxResponseSize.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Detail: extractDetail(body)}
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// extractDetail pulls the "detail" field from an error body, falling back
// to a generic message when the body is not the expected shape.
func extractDetail(body []byte) string {
	var parsed errorDetailBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return "request failed"
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the LineAdmin user-management API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the LineAdmin API client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeUnauthorized
	ErrTypeRejected
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable  = &ClientError{Type: ErrTypeConnection, Message: "server unreachable"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "not authorized"}
)

// RejectedError builds a ClientError carrying a server-provided rejection
// message (success=false responses).
func RejectedError(message string) *ClientError {
	if message == "" {
		message = "request rejected by server"
	}
	return &ClientError{Type: ErrTypeRejected, Message: message}
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the API client.
type ClientConfig struct {
	// BaseURL is the API base URL (default: http://127.0.0.1:8990)
	BaseURL string

	// Timeout for requests (default: 15s)
	Timeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:8990",
		Timeout: 15 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the LineAdmin user-management API.
// The zero token means unauthenticated; SetToken installs the bearer token
// attached to every subsequent request.
//
// The Client is safe for the single-writer discipline of the UI loop: the
// token is written only by the auth manager in response to discrete events.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	token      string
}

// NewClient creates a new API client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new API client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8990"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// SetToken installs the bearer token used for authenticated endpoints.
// An empty string clears it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// AUTH
// =============================================================================

// Login exchanges credentials for a session token.
//
// A reachable server that rejects the credentials is NOT an error: the
// returned LoginResponse carries Success=false and a displayable message.
// Transport failures return a *ClientError.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	// 401 still carries a JSON body with the rejection message.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
		return nil, &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "unexpected status from login: " + resp.Status,
		}
	}

	var result LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode login response", Cause: err}
	}
	return &result, nil
}

// =============================================================================
// USER DIRECTORY
// =============================================================================

// ListUsers retrieves every user account.
func (c *Client) ListUsers(ctx context.Context) ([]UserRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/users", nil)
	if err != nil {
		return nil, err
	}

	var result ListUsersResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, RejectedError(result.Message)
	}
	return result.Users, nil
}

// CreateUser creates a new user account.
func (c *Client) CreateUser(ctx context.Context, r CreateUserRequest) (*UserRecord, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/users", r)
	if err != nil {
		return nil, err
	}

	var result MutationResponse
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, RejectedError(result.Message)
	}
	return result.User, nil
}

// UpdateUser updates the role and optionally the password of an account.
func (c *Client) UpdateUser(ctx context.Context, id string, r UpdateUserRequest) error {
	req, err := c.newRequest(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), r)
	if err != nil {
		return err
	}

	var result MutationResponse
	if err := c.do(req, &result); err != nil {
		return err
	}
	if !result.Success {
		return RejectedError(result.Message)
	}
	return nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}

	var result MutationResponse
	if err := c.do(req, &result); err != nil {
		return err
	}
	if !result.Success {
		return RejectedError(result.Message)
	}
	return nil
}

// =============================================================================
// INTERNALS
// =============================================================================

// newRequest builds an authenticated JSON request against the base URL.
func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do executes the request and decodes the JSON response into out.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode >= http.StatusInternalServerError:
		return &ClientError{
			Type:    ErrTypeConnection,
			Message: "server error: " + resp.Status,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: fmt.Sprintf("failed to decode response (%s)", resp.Status),
			Cause:   err,
		}
	}
	return nil
}

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
	mePath       = "/api/auth/me"
)

// DefaultRequestTimeout bounds every remote call when the config does not
// provide one. A hung backend otherwise leaves the session loading forever.
var DefaultRequestTimeout = 15 * time.Second

// Client is the HTTP client for the remote astro-site API. It owns transport
// concerns only; session state lives in the Manager.
type Client struct {
	baseURL string
	http    *http.Client
	logger  Logger
}

var _ APIClient = (*Client)(nil)

// NewClient returns a Client for the API at cfg.GetBaseURL().
func NewClient(cfg Config) *Client {
	timeout := DefaultRequestTimeout
	if cfg.GetRequestTimeout() > 0 {
		timeout = time.Duration(cfg.GetRequestTimeout()) * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.GetBaseURL(), "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  defLogger{},
	}
}

func (c *Client) WithLogger(logger Logger) *Client {
	c.logger = logger
	return c
}

// WithHTTPClient overrides the underlying transport (useful for tests).
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.http = client
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

type messageResponse struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Login exchanges credentials for a bearer token. The backend expects the
// OAuth2 password-flow form encoding.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build login request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Login transport error", "error", err)
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, MsgLoginFailed)
	}
	defer resp.Body.Close()

	if !successStatus(resp.StatusCode) {
		return "", c.apiError(resp, MsgLoginFailed)
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Error("Login malformed response", "error", err)
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, MsgLoginFailed)
	}

	if payload.AccessToken == "" {
		return "", goerrors.New(MsgLoginFailed, goerrors.CategoryOperation)
	}

	return payload.AccessToken, nil
}

// Register creates an account. It never authenticates; the backend requires a
// separate email verification step. Returns the server message when present.
func (c *Client) Register(ctx context.Context, payload RegisterPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode registration payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+registerPath, bytes.NewReader(body))
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build registration request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Register transport error", "error", err)
		return "", goerrors.Wrap(err, goerrors.CategoryOperation, MsgRegisterFailed)
	}
	defer resp.Body.Close()

	if !successStatus(resp.StatusCode) {
		return "", c.apiError(resp, MsgRegisterFailed)
	}

	var result messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && err != io.EOF {
		// A 2xx with an unreadable body is still a successful registration.
		c.logger.Warn("Register response decode error", "error", err)
	}

	return result.Message, nil
}

// Me resolves a bearer token to the full user profile.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+mePath, nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build profile request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Me transport error", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "profile fetch failed")
	}
	defer resp.Body.Close()

	if !successStatus(resp.StatusCode) {
		return nil, c.apiError(resp, "profile fetch failed")
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		c.logger.Error("Me malformed response", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "malformed profile payload")
	}

	return &user, nil
}

func successStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

// apiError converts a non-2xx response into a rich error whose message is the
// server-provided detail when present, falling back to the generic message.
func (c *Client) apiError(resp *http.Response, fallback string) error {
	var serverMsg string

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var payload messageResponse
		if err := json.Unmarshal(body, &payload); err == nil {
			if payload.Detail != "" {
				serverMsg = payload.Detail
			} else if payload.Message != "" {
				serverMsg = payload.Message
			}
		}
	}

	msg := serverMsg
	if msg == "" {
		msg = fallback
	}

	var richErr *goerrors.Error
	switch status := resp.StatusCode; {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		richErr = goerrors.New(msg, goerrors.CategoryAuth).WithCode(goerrors.CodeUnauthorized)
	case status == http.StatusConflict:
		richErr = goerrors.New(msg, goerrors.CategoryConflict).WithCode(goerrors.CodeConflict)
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		richErr = goerrors.New(msg, goerrors.CategoryValidation).WithCode(goerrors.CodeBadRequest)
	default:
		richErr = goerrors.New(msg, goerrors.CategoryOperation).WithCode(goerrors.CodeInternal)
	}

	richErr = richErr.WithMetadata(map[string]any{
		"status": resp.StatusCode,
		"path":   resp.Request.URL.Path,
	})

	c.logger.Debug("API error response", "status", resp.StatusCode, "message", msg)

	return richErr
}

// ErrorMessage extracts the user-facing message from any error produced by
// this package, preferring the rich error message when available.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}

	if fallback != "" {
		return fallback
	}

	return fmt.Sprintf("%v", err)
}

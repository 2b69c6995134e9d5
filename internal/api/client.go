package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/existflow/inkwell/internal/apperr"
	"github.com/existflow/inkwell/internal/model"
)

// DefaultBaseURL is used when no base URL is configured
const DefaultBaseURL = "http://localhost:8080/api/v1"

// AuthResponse is returned by login and register
type AuthResponse struct {
	User          model.User `json:"user"`
	Token         string     `json:"token"`
	SessionExpiry string     `json:"sessionExpiry,omitempty"` // RFC 3339, may be empty
}

// Client talks to the blogging platform's REST API. TokenFunc supplies
// the bearer credential for authenticated requests; a nil TokenFunc or
// an empty token sends the request unauthenticated.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	TokenFunc  func() string
}

// NewClient creates an API client for the given base URL
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterParams holds the fields for account creation
type RegisterParams struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Register creates an account. The server logs the new user in and
// returns token and expiry like Login does.
func (c *Client) Register(ctx context.Context, params RegisterParams) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON issues a JSON request and decodes a JSON response into out.
// A nil body sends no payload; a nil out discards the response body.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// do sends the request with auth attached and maps the response
func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	if c.TokenFunc != nil {
		if token := c.TokenFunc(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindNetwork, "failed to reach server", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindNetwork, "failed to decode server response", err)
	}
	return nil
}

// responseError maps a non-2xx response to a classified error,
// preferring the server's message when one is present.
func responseError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)

	message := body.Message
	if message == "" {
		message = body.Error
	}

	var kind apperr.Kind
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = apperr.KindValidation
		if message == "" {
			message = "invalid request"
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = apperr.KindAuth
		if message == "" {
			message = "not authorized"
		}
	case http.StatusNotFound:
		kind = apperr.KindNotFound
		if message == "" {
			message = "not found"
		}
	default:
		kind = apperr.KindNetwork
		if message == "" {
			message = fmt.Sprintf("server returned status %d", resp.StatusCode)
		}
	}

	return apperr.New(kind, message)
}

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrInvalidCredential indicates the login attempt was missing an email
	// or password. No backend call is made in that case.
	ErrInvalidCredential = errors.New("missing email or password")

	// ErrAuthenticationRejected indicates the backend refused the credentials
	ErrAuthenticationRejected = errors.New("authentication rejected by backend")

	// ErrMalformedResponse indicates the backend accepted the credentials but
	// returned no usable user object
	ErrMalformedResponse = errors.New("backend response missing user object")
)

// accessTokenCookie is the cookie name used by the backend when it issues the
// token via a Set-Cookie header
const accessTokenCookie = "accessToken"

// Client represents an HTTP client for the backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new backend API client
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// Identity is the authenticated user record assembled from a successful
// backend login, with the issued bearer token attached verbatim
type Identity struct {
	ID          string
	Name        string
	Email       string
	Role        string
	Phone       string
	IsApproved  bool
	AccessToken string
}

// loginRequest represents the backend login request body
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginEnvelope represents the backend login response. The access token may
// appear in any of three JSON locations depending on the backend build.
type loginEnvelope struct {
	Data struct {
		User *struct {
			ID         string `json:"_id"`
			Name       string `json:"name"`
			Email      string `json:"email"`
			Role       string `json:"role"`
			Phone      string `json:"phone"`
			IsApproved bool   `json:"isApproved"`
		} `json:"user"`
		AccessToken string `json:"accessToken"`
	} `json:"data"`
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`
}

// Login authenticates against the backend and returns the user identity with
// the issued access token attached
func (c *Client) Login(ctx context.Context, email, password string) (*Identity, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredential
	}

	jsonData, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/auth/login", c.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w (status %d)", ErrAuthenticationRejected, resp.StatusCode)
	}

	var envelope loginEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	user := envelope.Data.User
	if user == nil {
		return nil, ErrMalformedResponse
	}

	return &Identity{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		Phone:       user.Phone,
		IsApproved:  user.IsApproved,
		AccessToken: extractAccessToken(resp, &envelope),
	}, nil
}

// extractAccessToken resolves the issued token from its possible sources in
// priority order: Set-Cookie header, data.accessToken, top-level accessToken,
// token. The first non-empty candidate wins.
func extractAccessToken(resp *http.Response, envelope *loginEnvelope) string {
	extractors := []func() string{
		func() string { return accessTokenFromCookies(resp) },
		func() string { return envelope.Data.AccessToken },
		func() string { return envelope.AccessToken },
		func() string { return envelope.Token },
	}
	for _, extract := range extractors {
		if token := extract(); token != "" {
			return token
		}
	}
	return ""
}

// accessTokenFromCookies reads the access token from the response Set-Cookie
// headers, if the backend issued one that way
func accessTokenFromCookies(resp *http.Response) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name != accessTokenCookie {
			continue
		}
		if value, err := url.QueryUnescape(cookie.Value); err == nil {
			return value
		}
		return cookie.Value
	}
	return ""
}

// Do performs an authenticated JSON request against the backend and returns
// the upstream status code and body. When a token is supplied it is attached
// on two channels, an Authorization header and an accessToken cookie, because
// the backend contract is ambiguous about which one it checks. An empty
// upstream body is normalized to an empty JSON object so callers can always
// relay the payload as JSON.
func (c *Client) Do(ctx context.Context, method, path, token string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		req.Header.Set("Cookie", fmt.Sprintf("%s=%s", accessTokenCookie, token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	return resp.StatusCode, payload, nil
}

// Package nas implements the client for the Notakey Authentication
// Server REST API: scoped OAuth2 client-credential token acquisition
// with caching, and the service, user, device, and authentication
// request operations built on top of it.
package nas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 30 * time.Second

// TokenStore persists one bearer token per scope string. An absent
// entry is reported as an empty token, not an error. The store is the
// durable copy; the client keeps only an in-process shadow.
type TokenStore interface {
	FetchToken(ctx context.Context, scope string) (string, error)
	StoreToken(ctx context.Context, scope, token string) error
	ClearToken(ctx context.Context, scope string) error
}

// ClientConfig holds dependencies for constructing a Client.
type ClientConfig struct {
	// BaseURL is the NAS root, e.g. https://mfa.example.com.
	BaseURL      string
	ClientID     string
	ClientSecret string
	ServiceID    string

	// ServiceDomain is the public domain announced in onboarding QR
	// payloads. When empty the BaseURL is announced instead.
	ServiceDomain string

	Store  TokenStore
	Logger *slog.Logger

	// HTTPClient overrides the transport. Nil gets a client with a
	// 30 second timeout.
	HTTPClient *http.Client
}

// Client talks to the NAS REST API. All calls are synchronous and
// issue at most two physical HTTP attempts: one, plus one retry with a
// fresh token after an authorization rejection.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	clientID      string
	clientSecret  string
	serviceID     string
	serviceDomain string
	store         TokenStore
	logger        *slog.Logger

	mu     sync.Mutex
	tokens map[string]string
}

// NewClient creates a NAS API client. A nil Store gets an in-memory
// token store; a nil Logger gets slog.Default().
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	store := cfg.Store
	if store == nil {
		store = NewMemoryTokenStore()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient:    httpClient,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		clientID:      cfg.ClientID,
		clientSecret:  cfg.ClientSecret,
		serviceID:     cfg.ServiceID,
		serviceDomain: cfg.ServiceDomain,
		store:         store,
		logger:        logger,
		tokens:        make(map[string]string),
	}
}

func (c *Client) apiURL(path string) string {
	return c.baseURL + "/api/" + path
}

func (c *Client) servicePath(sub string) string {
	return c.apiURL("v3/services/" + url.PathEscape(c.serviceID) + sub)
}

// bearerToken returns the bearer token for a scope: in-process cache
// first, then the token store, then a fresh client-credentials grant.
// Grant results are cached and persisted; a store write failure only
// costs a re-grant after restart, so it is logged rather than fatal.
func (c *Client) bearerToken(ctx context.Context, scope string) (string, error) {
	c.mu.Lock()
	token := c.tokens[scope]
	c.mu.Unlock()

	if token != "" {
		return token, nil
	}

	stored, err := c.store.FetchToken(ctx, scope)
	if err != nil {
		// A broken store is recoverable: fall through to the grant.
		c.logger.Warn("token store fetch failed",
			slog.String("scope", scope),
			slog.String("error", err.Error()),
		)
	}

	if stored != "" {
		c.mu.Lock()
		c.tokens[scope] = stored
		c.mu.Unlock()

		return stored, nil
	}

	granted, err := c.grantToken(ctx, scope)
	if err != nil {
		return "", err
	}

	if granted == "" {
		return "", ErrNoToken
	}

	c.mu.Lock()
	c.tokens[scope] = granted
	c.mu.Unlock()

	if err := c.store.StoreToken(ctx, scope, granted); err != nil {
		c.logger.Warn("failed to persist bearer token",
			slog.String("scope", scope),
			slog.String("error", err.Error()),
		)
	}

	return granted, nil
}

// grantToken performs the OAuth2 client-credentials grant.
func (c *Client) grantToken(ctx context.Context, scope string) (string, error) {
	payload, err := json.Marshal(tokenGrantRequest{
		GrantType:    "client_credentials",
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Scope:        scope,
	})
	if err != nil {
		return "", fmt.Errorf("marshalling token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL("token"), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &TokenAcquisitionError{Scope: scope, Status: resp.StatusCode}
	}

	var grant tokenGrantResponse
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}

	c.logger.Debug("acquired bearer token", slog.String("scope", scope))

	return grant.AccessToken, nil
}

// do executes one authenticated request against an absolute NAS URL
// and returns the status and body verbatim. A 401 or 403 on the first
// attempt invalidates the cached and stored token for the scope and
// retries exactly once; a second rejection is returned as-is for the
// caller's success policy to judge.
func (c *Client) do(ctx context.Context, method, rawURL string, body any, scope string) (int, []byte, error) {
	return c.attempt(ctx, method, rawURL, body, scope, 0)
}

func (c *Client) attempt(ctx context.Context, method, rawURL string, body any, scope string, attempt int) (int, []byte, error) {
	token, err := c.bearerToken(ctx, scope)
	if err != nil {
		return 0, nil, err
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshalling request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("sending request to %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response from %s: %w", rawURL, err)
	}

	if attempt == 0 && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		c.invalidate(ctx, scope)

		return c.attempt(ctx, method, rawURL, body, scope, 1)
	}

	return resp.StatusCode, respBody, nil
}

// invalidate drops the in-process and persisted token for a scope.
func (c *Client) invalidate(ctx context.Context, scope string) {
	c.mu.Lock()
	delete(c.tokens, scope)
	c.mu.Unlock()

	if err := c.store.ClearToken(ctx, scope); err != nil {
		c.logger.Warn("failed to clear stored token",
			slog.String("scope", scope),
			slog.String("error", err.Error()),
		)
	}

	c.logger.Debug("bearer token rejected, refreshing", slog.String("scope", scope))
}

// CreateAuthRequest creates a push authentication request and returns
// the server's view of it, including the request UUID.
func (c *Client) CreateAuthRequest(ctx context.Context, in AuthRequestInput) (*AuthRequest, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.servicePath("/auth"), in, ScopeAuth)
	if err != nil {
		return nil, err
	}

	if status >= 400 {
		return nil, apiError("create auth request", status, body)
	}

	var ar AuthRequest
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, fmt.Errorf("decoding auth request response: %w", err)
	}

	return &ar, nil
}

// AuthRequestStatus fetches the current state of an authentication
// request by UUID.
func (c *Client) AuthRequestStatus(ctx context.Context, uuid string) (*AuthRequest, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.servicePath("/auth/"+url.PathEscape(uuid)), nil, ScopeAuth)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, apiError("auth status request", status, body)
	}

	var ar AuthRequest
	if err := json.Unmarshal(body, &ar); err != nil {
		return nil, fmt.Errorf("decoding auth status response: %w", err)
	}

	return &ar, nil
}

// Service fetches the service descriptor, including its onboarding
// requirements.
func (c *Client) Service(ctx context.Context) (*Service, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.servicePath(""), nil, ScopeAuth)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, apiError("service request", status, body)
	}

	var svc Service
	if err := json.Unmarshal(body, &svc); err != nil {
		return nil, fmt.Errorf("decoding service response: %w", err)
	}

	return &svc, nil
}

// GetUser fetches a service user by username. An absent user is a
// valid outcome and returns (nil, nil).
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.servicePath("/user/"+url.PathEscape(username)), nil, ScopeUser)
	if err != nil {
		return nil, err
	}

	if status == http.StatusNotFound {
		return nil, nil
	}

	if status != http.StatusOK {
		return nil, apiError("user request", status, body)
	}

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decoding user response: %w", err)
	}

	return &u, nil
}

// UserExists reports whether a service user with the username exists.
func (c *Client) UserExists(ctx context.Context, username string) (bool, error) {
	u, err := c.GetUser(ctx, username)
	if err != nil {
		return false, err
	}

	return u != nil, nil
}

// CreateUser creates a service user.
func (c *Client) CreateUser(ctx context.Context, data UserData) (*User, error) {
	status, body, err := c.do(ctx, http.MethodPost, c.servicePath("/users"), data, ScopeUserManager)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, apiError("user create request", status, body)
	}

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decoding user create response: %w", err)
	}

	return &u, nil
}

// UpdateUser updates a service user addressed by keyname.
func (c *Client) UpdateUser(ctx context.Context, keyname string, data UserData) (*User, error) {
	status, body, err := c.do(ctx, http.MethodPut, c.servicePath("/users/"+url.PathEscape(keyname)), data, ScopeUserManager)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, apiError("user update request", status, body)
	}

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decoding user update response: %w", err)
	}

	return &u, nil
}

// SyncUser is the get-or-create convenience: an existing user is
// updated in place, a missing one is created.
func (c *Client) SyncUser(ctx context.Context, username string, data UserData) (*User, error) {
	u, err := c.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if u != nil {
		return c.UpdateUser(ctx, u.Keyname, data)
	}

	return c.CreateUser(ctx, data)
}

// DeleteUserByKeyname removes a service user addressed by keyname.
func (c *Client) DeleteUserByKeyname(ctx context.Context, keyname string) error {
	status, body, err := c.do(ctx, http.MethodDelete, c.servicePath("/users/"+url.PathEscape(keyname)), nil, ScopeUserManager)
	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return apiError("user delete request", status, body)
	}

	return nil
}

// DeleteUser looks a user up by username and removes it. Reports false
// without error when the user does not exist remotely.
func (c *Client) DeleteUser(ctx context.Context, username string) (bool, error) {
	u, err := c.GetUser(ctx, username)
	if err != nil {
		return false, err
	}

	if u == nil {
		return false, nil
	}

	if err := c.DeleteUserByKeyname(ctx, u.Keyname); err != nil {
		return false, err
	}

	return true, nil
}

// UserDevices lists the enrolled devices of a user addressed by keyname.
func (c *Client) UserDevices(ctx context.Context, keyname string) ([]Device, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.servicePath("/users/"+url.PathEscape(keyname)+"/devices"), nil, ScopeUser)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, apiError("device list request", status, body)
	}

	var devices []Device
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("decoding device list response: %w", err)
	}

	return devices, nil
}

// DeleteDevice removes one enrolled device.
func (c *Client) DeleteDevice(ctx context.Context, userKeyname, deviceKeyname string) error {
	path := c.servicePath("/users/" + url.PathEscape(userKeyname) + "/devices/" + url.PathEscape(deviceKeyname))

	status, body, err := c.do(ctx, http.MethodDelete, path, nil, ScopeDeviceManager)
	if err != nil {
		return err
	}

	if status != http.StatusNoContent {
		return apiError("device delete request", status, body)
	}

	return nil
}

// ResetUserDevices removes every enrolled device of a user. A user
// that does not exist remotely is an idempotent no-op and reports true.
func (c *Client) ResetUserDevices(ctx context.Context, username string) (bool, error) {
	u, err := c.GetUser(ctx, username)
	if err != nil {
		return false, err
	}

	if u == nil {
		return true, nil
	}

	devices, err := c.UserDevices(ctx, u.Keyname)
	if err != nil {
		return false, err
	}

	for _, d := range devices {
		if err := c.DeleteDevice(ctx, u.Keyname, d.Keyname); err != nil {
			return false, err
		}
	}

	return true, nil
}

// CanBeOnboarded reports whether a user has a free device seat. A
// max device count of zero means unlimited seats. A user that does not
// exist remotely has no seats.
func (c *Client) CanBeOnboarded(ctx context.Context, username string) (bool, error) {
	u, err := c.GetUser(ctx, username)
	if err != nil {
		return false, err
	}

	if u == nil {
		return false, nil
	}

	devices, err := c.UserDevices(ctx, u.Keyname)
	if err != nil {
		return false, err
	}

	return u.MaxUserDeviceCount == 0 || u.MaxUserDeviceCount > len(devices), nil
}

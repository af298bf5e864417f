package api

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/luminalabs/lumina-cli/internal/auth"
	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
	"github.com/luminalabs/lumina-cli/internal/logging"
)

// Navigator reacts to rejected credentials. The TUI root model implements
// it; command-line entry points may leave it unset, in which case a 401
// still clears the credential but navigation is skipped.
type Navigator interface {
	// OnAuthSurface reports whether the user is already somewhere that
	// handles credentials itself (the login or registration surface).
	OnAuthSurface() bool
	// NavigateToLogin switches the UI to the login surface.
	NavigateToLogin()
}

// LuminaClient is the gateway every service call passes through. It
// attaches the bearer credential, stamps request ids, and reacts to
// credential rejections in one place.
type LuminaClient struct {
	http   *resty.Client
	creds  *auth.Credentials
	store  *auth.Store
	logger *zap.Logger

	mu        sync.RWMutex
	navigator Navigator
}

// ClientOption is a function that configures the client
type ClientOption func(*LuminaClient)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *LuminaClient) {
		c.http.SetTimeout(timeout)
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *LuminaClient) {
		c.logger = logger
	}
}

// WithNavigator sets the navigator consulted on credential rejections
func WithNavigator(nav Navigator) ClientOption {
	return func(c *LuminaClient) {
		c.navigator = nav
	}
}

// NewClient creates a new LuminaClient. creds is the shared credential
// handle requests read from; store, when non-nil, is the persisted copy
// a rejection wipes alongside it.
func NewClient(baseURL string, creds *auth.Credentials, store *auth.Store, opts ...ClientOption) (*LuminaClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if creds == nil {
		return nil, fmt.Errorf("credentials handle is required")
	}

	client := &LuminaClient{
		http:   resty.New(),
		creds:  creds,
		store:  store,
		logger: logging.Nop(),
	}

	client.http.
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(60 * time.Second).
		SetHeader("User-Agent", "lumina-cli").
		OnBeforeRequest(client.attachCredentials).
		OnAfterResponse(client.interceptAuthFailure)

	// Apply options
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// SetNavigator installs the navigator after construction. The TUI builds
// its root model around an existing client, so this is set late.
func (c *LuminaClient) SetNavigator(nav Navigator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.navigator = nav
}

func (c *LuminaClient) getNavigator() Navigator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.navigator
}

// BaseURL returns the configured service root
func (c *LuminaClient) BaseURL() string {
	return c.http.BaseURL
}

// attachCredentials runs before every request: bearer header when a
// credential is held, plus a correlation id for log matching.
func (c *LuminaClient) attachCredentials(_ *resty.Client, req *resty.Request) error {
	req.SetHeader("X-Request-ID", uuid.NewString())

	if token, ok := c.creds.Token(); ok {
		req.SetHeader("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("url", req.URL),
		zap.String("request_id", req.Header.Get("X-Request-ID")))

	return nil
}

// interceptAuthFailure runs after every response. A 401 outside the
// login/register endpoints means the session credential is dead: wipe it
// everywhere and send the user to the login surface. On the auth surfaces
// the failure flows back to the form untouched.
func (c *LuminaClient) interceptAuthFailure(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}

	endpoint := resp.Request.URL
	if raw := resp.Request.RawRequest; raw != nil && raw.URL != nil {
		endpoint = raw.URL.Path
	}
	if authExemptPaths[endpoint] {
		return nil
	}

	nav := c.getNavigator()
	if nav != nil && nav.OnAuthSurface() {
		c.logger.Debug("401 on auth surface, passing through",
			zap.String("endpoint", endpoint))
		return nil
	}

	c.logger.Info("credential rejected, clearing session",
		zap.String("endpoint", endpoint))

	c.creds.Clear()
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			c.logger.Warn("failed to clear stored token", zap.Error(err))
		}
	}
	if nav != nil {
		nav.NavigateToLogin()
	}

	return nil
}

// apiError converts a non-2xx response into the typed error for its
// status, capturing a bounded slice of the body for diagnostics.
func (c *LuminaClient) apiError(resp *resty.Response, endpoint string) error {
	body := resp.String()
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}

	if resp.StatusCode() == http.StatusUnprocessableEntity {
		if fields := extractFieldErrors(body); len(fields) > 0 {
			return apierrors.NewValidationError(endpoint, fields)
		}
	}

	err := apierrors.FromStatus(resp.StatusCode(), endpoint, extractDetail(body), body)

	c.logger.Warn("api error",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.Error(err))

	return err
}

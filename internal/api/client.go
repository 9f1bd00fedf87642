// Package api is the HTTP client for the career-matching backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Polqt/aica-bot-sub001/internal/apperr"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

// Endpoint paths, relative to the base URL.
const (
	PathSignup           = "/auth/signup"
	PathLogin            = "/auth/login"
	PathLogout           = "/auth/logout"
	PathUploadResume     = "/auth/upload-resume"
	PathProcessingStatus = "/auth/processing-status"
	PathProfile          = "/auth/profile"
	PathSkills           = "/auth/skills"
	PathSavedJobs        = "/jobs/saved-jobs"
)

// DefaultUserAgent is sent with every request.
const DefaultUserAgent = "aica-cli/0.1"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// RequestIDHeader carries a per-request id the backend can log.
const RequestIDHeader = "X-Request-ID"

// Client talks to the backend. Requests may run concurrently; SetToken must
// not race with them.
type Client struct {
	baseURL   string
	http      *http.Client
	token     string
	userAgent string
	log       logrus.FieldLogger
}

// Option configures a Client
type Option func(*Client)

// WithToken sets the bearer token for authenticated endpoints.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets the request logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client for baseURL. A nil httpClient gets a 30 second timeout.
func New(baseURL string, httpClient *http.Client, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		userAgent: DefaultUserAgent,
		log:       discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

// HasToken reports whether authenticated calls can be made.
func (c *Client) HasToken() bool {
	return c.token != ""
}

var errNoToken = apperr.New(apperr.KindAuth, "You are not logged in. Run 'aica auth login' first.")

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	auth        bool
}

// do sends req and decodes a 2xx JSON body into out (when out is non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	if req.auth && c.token == "" {
		return errNoToken
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, req.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(RequestIDHeader, requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.auth {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := c.log.WithFields(logrus.Fields{"method": req.method, "path": req.path, "request_id": requestID})
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.WithError(err).Debug("request failed")
		return apperr.Classify(fmt.Errorf("%s %s: %w", req.method, req.path, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperr.Classify(fmt.Errorf("read %s response: %w", req.path, err))
	}
	log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)}).Debug("response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, body)
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Wrap(apperr.KindServer, "The server sent a response we could not read.",
			fmt.Errorf("decode %s response: %w", req.path, err))
	}
	return nil
}

func statusError(code int, body []byte) error {
	var errBody models.ErrorResponse
	detail := ""
	if err := json.Unmarshal(body, &errBody); err == nil {
		detail = errBody.Text()
	}
	return apperr.FromStatus(code, detail)
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// IsUnauthorized reports whether err means the session is no longer valid.
func IsUnauthorized(err error) bool {
	var appErr *apperr.Error
	return errors.As(err, &appErr) && appErr.Kind == apperr.KindAuth
}

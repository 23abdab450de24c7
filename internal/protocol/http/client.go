package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/artpar/restui/internal/core"
	"github.com/goccy/go-json"
)

// DefaultTimeout applies when no timeout option is given.
const DefaultTimeout = 30 * time.Second

// Client executes saved request definitions over HTTP.
type Client struct {
	httpClient *http.Client
	config     Config
}

// Config holds HTTP client configuration.
type Config struct {
	Timeout        time.Duration
	FollowRedirect bool
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a new HTTP client with the given options.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		config: Config{
			Timeout:        DefaultTimeout,
			FollowRedirect: true,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// WithTimeout sets the request timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.config.Timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

// WithTransport sets a custom round tripper.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = transport
	}
}

// WithNoRedirects disables automatic redirect following.
func WithNoRedirects() Option {
	return WithFollowRedirects(false)
}

// WithFollowRedirects toggles automatic redirect following.
func WithFollowRedirects(follow bool) Option {
	return func(c *Client) {
		c.config.FollowRedirect = follow
		if follow {
			c.httpClient.CheckRedirect = nil
			return
		}
		c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
}

// Config returns the effective configuration.
func (c *Client) Config() Config {
	return c.config
}

// Response is the result of executing a request.
type Response struct {
	StatusCode int
	StatusText string
	Headers    []core.KeyValue
	Body       string
	Duration   time.Duration
	Size       int
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Status returns "200 OK".
func (r *Response) Status() string {
	if r.StatusText == "" {
		return fmt.Sprintf("%d", r.StatusCode)
	}
	return fmt.Sprintf("%d %s", r.StatusCode, r.StatusText)
}

// PrettyBody returns the body indented when it is JSON, unchanged otherwise.
func (r *Response) PrettyBody() string {
	trimmed := strings.TrimSpace(r.Body)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return r.Body
	}
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(trimmed), "", "  "); err != nil {
		return r.Body
	}
	return out.String()
}

// Header returns the first value for key, case-insensitively.
func (r *Response) Header(key string) string {
	for _, h := range r.Headers {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}

// Execute sends req and reads the whole response.
func (c *Client) Execute(ctx context.Context, req *core.RequestDefinition) (*Response, error) {
	httpReq, err := BuildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	elapsed := time.Since(start)

	return fromHTTPResponse(httpResp, body, elapsed), nil
}

// BuildRequest converts a request definition into an *http.Request. Only
// enabled rows with a key are sent; auth is applied last.
func BuildRequest(ctx context.Context, req *core.RequestDefinition) (*http.Request, error) {
	if strings.TrimSpace(req.URL()) == "" {
		return nil, fmt.Errorf("request %q has no URL", req.Name())
	}

	u, err := url.Parse(req.URL())
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", req.URL(), err)
	}
	query := u.Query()
	for _, p := range req.QueryParams() {
		if p.Enabled && p.Key != "" {
			query.Add(p.Key, p.Value)
		}
	}

	auth := req.Auth()
	if auth.InQuery() && auth.APIKeyName != "" {
		query.Set(auth.APIKeyName, auth.APIKeyValue)
	}
	u.RawQuery = query.Encode()

	var body io.Reader
	if HasBody(req.Method()) && req.Body() != "" {
		body = strings.NewReader(req.Body())
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.Method()), u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for _, h := range req.Headers() {
		if h.Enabled && h.Key != "" {
			httpReq.Header.Add(h.Key, h.Value)
		}
	}

	switch auth.Type {
	case core.AuthBearer:
		if auth.BearerToken != "" {
			httpReq.Header.Set("Authorization", "Bearer "+auth.BearerToken)
		}
	case core.AuthBasic:
		if auth.BasicUsername != "" {
			creds := auth.BasicUsername + ":" + auth.BasicPassword
			httpReq.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(creds)))
		}
	case core.AuthAPIKey:
		if auth.APIKeyName != "" && !auth.InQuery() {
			httpReq.Header.Set(auth.APIKeyName, auth.APIKeyValue)
		}
	}

	return httpReq, nil
}

// HasBody reports whether requests with method m carry a body.
func HasBody(m core.HTTPMethod) bool {
	switch m {
	case core.MethodPost, core.MethodPut, core.MethodPatch:
		return true
	default:
		return false
	}
}

func fromHTTPResponse(httpResp *http.Response, body []byte, elapsed time.Duration) *Response {
	headers := make([]core.KeyValue, 0, len(httpResp.Header))
	for key, values := range httpResp.Header {
		for _, value := range values {
			headers = append(headers, core.NewKeyValue(key, value))
		}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		StatusText: http.StatusText(httpResp.StatusCode),
		Headers:    headers,
		Body:       string(body),
		Duration:   elapsed,
		Size:       len(body),
	}
}

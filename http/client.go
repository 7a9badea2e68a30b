package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Response is a completed remote call with a 2xx status.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body into v.
// An empty body (e.g., 204 No Content) leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client provides verb-oriented JSON requests against one remote service.
// It is safe for concurrent use.
type Client struct {
	client      *http.Client
	baseURL     string
	serviceName string

	// beforeRequest is called before each request (for auth headers, etc.)
	beforeRequest func(req *http.Request)
}

// ClientConfig holds configuration for Client.
type ClientConfig struct {
	Client      *http.Client
	BaseURL     string
	ServiceName string

	// Timeout applies when Client is nil. Defaults to DefaultTimeout.
	Timeout time.Duration

	BeforeRequest func(req *http.Request)
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfg ClientConfig) *Client {
	c := &Client{
		client:        cfg.Client,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		serviceName:   cfg.ServiceName,
		beforeRequest: cfg.BeforeRequest,
	}

	if c.client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	}
	if c.serviceName == "" {
		c.serviceName = "http"
	}

	return c
}

// ServiceName returns the name used in errors.
func (c *Client) ServiceName() string {
	return c.serviceName
}

// Get performs a GET request with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Do executes a request exactly once. Transport failures return
// *TransportError; non-2xx statuses return *APIError carrying the remote's
// own message. Callers decide whether to retry using IsRetryable.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	resp, err := c.once(ctx, method, path, data)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.parseError(resp, path)
	}
	return resp, nil
}

func (c *Client) once(ctx context.Context, method, path string, data []byte) (*Response, error) {
	var bodyReader io.Reader
	if data != nil {
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	// Apply auth headers via callback
	if c.beforeRequest != nil {
		c.beforeRequest(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Service: c.serviceName, Method: method, Endpoint: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Service: c.serviceName, Method: method, Endpoint: path, Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// parseError builds an APIError from a non-2xx response.
func (c *Client) parseError(resp *Response, path string) error {
	apiErr := &APIError{
		Service:    c.serviceName,
		StatusCode: resp.StatusCode,
		Endpoint:   path,
		RequestID:  resp.Header.Get("X-Request-Id"),
		Body:       resp.Body,
	}

	apiErr.Message = remoteMessage(resp.Body)
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

// remoteMessage extracts the service's own message from an error body.
// It understands the generic {"message"} / {"error"} shapes and Jira's
// {"errorMessages": [...], "errors": {...}}.
func remoteMessage(body []byte) string {
	var errResp struct {
		Message       string            `json:"message"`
		Error         string            `json:"error"`
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}
	if json.Unmarshal(body, &errResp) != nil {
		return strings.TrimSpace(string(truncate(body, 200)))
	}

	var parts []string
	parts = append(parts, errResp.ErrorMessages...)
	for _, field := range slices.Sorted(maps.Keys(errResp.Errors)) {
		parts = append(parts, field+": "+errResp.Errors[field])
	}
	if len(parts) > 0 {
		return strings.Join(parts, "; ")
	}
	if errResp.Message != "" {
		return errResp.Message
	}
	return errResp.Error
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

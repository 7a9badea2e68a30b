package jira

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	devhttp "github.com/randalmurphal/issueflow/http"
)

// Search limits enforced by the tracker.
const (
	DefaultMaxResults = 10
	MaxSearchResults  = 100
)

// Client provides access to the Jira REST API.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	cfg        *Config
	baseURL    string
	apiVersion APIVersion
	httpClient *http.Client
	api        *devhttp.Client
	logger     *slog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Jira client.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}

	c := &Client{
		cfg:        cfg,
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiVersion: cfg.GetAPIVersion(),
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	c.api = devhttp.NewClient(devhttp.ClientConfig{
		Client:        c.httpClient,
		BaseURL:       c.baseURL,
		ServiceName:   "jira",
		Timeout:       cfg.Timeout,
		BeforeRequest: c.setAuth,
	})

	return c, nil
}

// BrowseURL returns the web URL for an issue.
func (c *Client) BrowseURL(key string) string {
	return c.baseURL + "/browse/" + key
}

// GetIssue retrieves an issue by key with the selected fields.
func (c *Client) GetIssue(ctx context.Context, key string, fields FieldSet) (*Issue, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}
	if len(fields) == 0 {
		fields = IssuePreset
	}

	query := url.Values{"fields": {fields.Param()}}
	resp, respErr := c.api.Get(ctx, c.apiPath("/issue/"+key), query)
	if respErr != nil {
		if devhttp.IsNotFound(respErr) {
			return nil, fmt.Errorf("%s: %w", key, ErrIssueNotFound)
		}
		return nil, respErr
	}

	var raw rawIssue
	if decodeErr := resp.Decode(&raw); decodeErr != nil {
		return nil, fmt.Errorf("decode issue: %w", decodeErr)
	}

	return toIssue(raw, fields), nil
}

// SearchOptions configures issue search.
type SearchOptions struct {
	JQL        string
	MaxResults int
	PageToken  string
	Fields     FieldSet
}

// Search runs a JQL query and returns one page of results.
// Malformed queries fail with ErrInvalidQuery.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (*SearchResult, error) {
	if strings.TrimSpace(opts.JQL) == "" {
		return nil, fmt.Errorf("%w: query is empty", ErrInvalidQuery)
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}
	if len(opts.Fields) == 0 {
		opts.Fields = ListPreset
	}

	body := searchRequest{
		JQL:           opts.JQL,
		MaxResults:    opts.MaxResults,
		Fields:        opts.Fields.Strings(),
		NextPageToken: opts.PageToken,
	}

	resp, respErr := c.api.Post(ctx, c.apiPath("/search/jql"), body)
	if respErr != nil {
		var apiErr *devhttp.APIError
		if errors.As(respErr, &apiErr) && apiErr.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, apiErr.Message)
		}
		return nil, respErr
	}

	var result searchResponse
	if decodeErr := resp.Decode(&result); decodeErr != nil {
		return nil, fmt.Errorf("decode search results: %w", decodeErr)
	}

	out := &SearchResult{
		Issues:        make([]*Issue, 0, len(result.Issues)),
		IsLast:        result.IsLast || result.NextPageToken == "",
		NextPageToken: result.NextPageToken,
	}
	for _, raw := range result.Issues {
		out.Issues = append(out.Issues, toIssue(raw, opts.Fields))
	}

	c.logger.Debug("jira search", "jql", opts.JQL, "count", len(out.Issues), "is_last", out.IsLast)
	return out, nil
}

// SearchAll iterates every page of a query.
func (c *Client) SearchAll(jql string, fields FieldSet, pageSize int) *devhttp.TokenIterator[*Issue] {
	return devhttp.NewTokenIterator(func(ctx context.Context, token string) ([]*Issue, string, error) {
		page, err := c.Search(ctx, SearchOptions{
			JQL:        jql,
			MaxResults: pageSize,
			PageToken:  token,
			Fields:     fields,
		})
		if err != nil {
			return nil, "", err
		}
		if page.IsLast {
			return page.Issues, "", nil
		}
		return page.Issues, page.NextPageToken, nil
	})
}

// GetTransitions gets available transitions for an issue.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]Transition, error) {
	if !ValidateIssueKey(key) {
		return nil, ErrIssueKeyInvalid
	}

	resp, respErr := c.api.Get(ctx, c.apiPath("/issue/"+key+"/transitions"), nil)
	if respErr != nil {
		if devhttp.IsNotFound(respErr) {
			return nil, fmt.Errorf("%s: %w", key, ErrIssueNotFound)
		}
		return nil, respErr
	}

	var result transitionsResponse
	if decodeErr := resp.Decode(&result); decodeErr != nil {
		return nil, fmt.Errorf("decode transitions: %w", decodeErr)
	}

	return result.Transitions, nil
}

// TransitionIssue applies a transition, attaching comment in the same
// request when it is non-empty.
func (c *Client) TransitionIssue(ctx context.Context, key, transitionID, comment string) error {
	if !ValidateIssueKey(key) {
		return ErrIssueKeyInvalid
	}
	if transitionID == "" {
		return ErrTransitionIDRequired
	}

	body := transitionRequest{
		Transition: transitionRef{ID: transitionID},
	}
	if strings.TrimSpace(comment) != "" {
		body.Update = map[string]any{
			"comment": []map[string]any{
				{"add": map[string]any{"body": c.commentBody(comment)}},
			},
		}
	}

	// Jira answers 204 No Content on success.
	_, respErr := c.api.Post(ctx, c.apiPath("/issue/"+key+"/transitions"), body)
	if respErr != nil {
		if devhttp.IsNotFound(respErr) {
			return fmt.Errorf("%s: %w", key, ErrIssueNotFound)
		}
		return respErr
	}

	return nil
}

// TransitionTo resolves target against the issue's currently available
// transitions and applies the match. No match returns a
// *TransitionNotFoundError listing what is available.
func (c *Client) TransitionTo(ctx context.Context, key, target, comment string) (*Transition, error) {
	transitions, getErr := c.GetTransitions(ctx, key)
	if getErr != nil {
		return nil, getErr
	}

	match, ok := FindTransition(transitions, target)
	if !ok {
		return nil, &TransitionNotFoundError{
			Key:       key,
			Requested: target,
			Available: AvailableTargets(transitions),
		}
	}

	if applyErr := c.TransitionIssue(ctx, key, match.ID, comment); applyErr != nil {
		return nil, applyErr
	}

	c.logger.Info("jira issue transitioned", "issue", key, "transition", match.Name, "to", match.TargetName())
	return &match, nil
}

// commentBody renders comment text for the configured API version.
func (c *Client) commentBody(comment string) any {
	if c.apiVersion == APIVersionV2 {
		return comment
	}
	return CommentDocument(comment)
}

// apiPath returns the full API path for the given endpoint.
func (c *Client) apiPath(endpoint string) string {
	return fmt.Sprintf("/rest/api/%s%s", strings.TrimPrefix(string(c.apiVersion), "v"), endpoint)
}

// setAuth sets the authentication header based on config.
func (c *Client) setAuth(req *http.Request) {
	switch c.cfg.Auth.Type {
	case AuthAPIToken:
		// Cloud: email:api_token base64 encoded
		credentials := c.cfg.Auth.Email + ":" + c.cfg.Auth.Token
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(credentials)))
	case AuthBasic:
		credentials := c.cfg.Auth.Username + ":" + c.cfg.Auth.Password
		req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(credentials)))
	case AuthPAT:
		req.Header.Set("Authorization", "Bearer "+c.cfg.Auth.Token)
	}
}

package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/flickly-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://www.googleapis.com"
	defaultEndpoint             = "/youtube/v3/search"
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

var (
	errAPIKeyRequired = errors.New("youtube api key is required")
)

// Client wraps the YouTube Data API search endpoint used for trailer lookup.
type Client struct {
	httpClient *http.Client
	baseURL    string
	endpoint   string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithEndpoint overrides the search path.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(endpoint)
		if trimmed != "" {
			c.endpoint = trimmed
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the YouTube client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// FindTrailer returns the first video id matching "<title> trailer", or an
// empty string when the search has no results.
func (c *Client) FindTrailer(ctx context.Context, title string) (string, error) {
	if c == nil {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "youtube client not configured")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(title), nil)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build youtube search request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute youtube search request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "youtube search request failed")
	}

	var apiResp struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode youtube search response")
	}

	for _, item := range apiResp.Items {
		if id := strings.TrimSpace(item.ID.VideoID); id != "" {
			return id, nil
		}
	}
	return "", nil
}

func (c *Client) searchURL(title string) string {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", title+" trailer")
	q.Set("type", "video")
	q.Set("maxResults", "1")
	q.Set("key", c.apiKey)

	base := strings.TrimRight(c.baseURL, "/")
	path := "/" + strings.TrimLeft(c.endpoint, "/")
	return base + path + "?" + q.Encode()
}

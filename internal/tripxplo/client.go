package tripxplo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.tripxplo.com/v1/api"

	defaultTimeout = 10 * time.Second
	defaultLimit   = 100
)

// Client calls the TripXplo package API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// NewClient creates a client authenticating through tokens.
func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		logger:  logger,
	}
}

// Packages lists packages matching search.
func (c *Client) Packages(ctx context.Context, search string, limit, offset int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	if search != "" {
		q.Set("search", search)
	}

	var result struct {
		Docs []map[string]any `json:"docs"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/package", q, nil, &result); err != nil {
		return nil, err
	}
	c.logger.Info("fetched packages", zap.Int("count", len(result.Docs)), zap.String("search", search))
	return result.Docs, nil
}

// Package fetches the full record of one package.
func (c *Client) Package(ctx context.Context, id string) (map[string]any, error) {
	var result map[string]any
	if err := c.do(ctx, http.MethodGet, "/admin/package/"+url.PathEscape(id), nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Pricing quotes a package for the given parameters.
func (c *Client) Pricing(ctx context.Context, id string, params map[string]any) (map[string]any, error) {
	var result map[string]any
	if err := c.do(ctx, http.MethodPost, "/admin/package/"+url.PathEscape(id)+"/pricing", nil, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Hotels(ctx context.Context, id string) ([]any, error) {
	return c.packageList(ctx, id, "hotel")
}

func (c *Client) Vehicles(ctx context.Context, id string) ([]any, error) {
	return c.packageList(ctx, id, "availableVehicle")
}

func (c *Client) Activities(ctx context.Context, id string) ([]any, error) {
	return c.packageList(ctx, id, "activity")
}

// Interests lists the interest tags packages are grouped by.
func (c *Client) Interests(ctx context.Context) ([]any, error) {
	var result []any
	if err := c.do(ctx, http.MethodGet, "/admin/package/interest/get", nil, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchDestinations finds destinations by name.
func (c *Client) SearchDestinations(ctx context.Context, search string) ([]any, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	var result []any
	if err := c.do(ctx, http.MethodGet, "/admin/package/destination/search", q, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) packageList(ctx context.Context, id, key string) ([]any, error) {
	pkg, err := c.Package(ctx, id)
	if err != nil {
		return nil, err
	}
	items, _ := pkg[key].([]any)
	if items == nil {
		items = []any{}
	}
	return items, nil
}

// do sends an authenticated request and decodes the "result" field of the
// envelope into out. A 401 invalidates the token and retries once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("obtaining token: %w", err)
		}

		resp, err := c.send(ctx, method, path, query, payload, token)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusUnauthorized {
			resp.Body.Close()
			if err := c.tokens.Invalidate(ctx); err != nil {
				c.logger.Warn("invalidating token failed", zap.Error(err))
			}
			if attempt == 0 {
				c.logger.Info("token rejected, logging in again", zap.String("path", path))
				continue
			}
			return fmt.Errorf("%w: %s %s", ErrUnauthorized, method, path)
		}

		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg)))
		}

		var envelope struct {
			Result json.RawMessage `json:"result"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return fmt.Errorf("decoding %s response: %w", path, err)
		}
		if len(envelope.Result) == 0 || string(envelope.Result) == "null" {
			return nil
		}
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decoding %s result: %w", path, err)
		}
		return nil
	}
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

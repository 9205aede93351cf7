package orbis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"youbuidl/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("orbis: api key is required")

const defaultTimeout = 15 * time.Second

// Options configures the content-store client.
type Options struct {
	BaseURL        string
	APIKey         string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the decentralized content store. It is
// a thin typed wrapper: the store owns all persisted records, this service
// only creates child entries and queries them.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *infra.Logger
}

// Content is the author-controlled part of a post.
type Content struct {
	Body    string          `json:"body"`
	Context string          `json:"context,omitempty"`
	Master  string          `json:"master,omitempty"`
	ReplyTo string          `json:"reply_to,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Post is a stored entry as returned by the store's query endpoint.
type Post struct {
	StreamID  string  `json:"stream_id"`
	Creator   string  `json:"creator"`
	Content   Content `json:"content"`
	Timestamp int64   `json:"timestamp"`
}

// NewPost is the payload for creating an entry. Master scopes the entry as a
// child of an existing post; Data carries structured application records.
type NewPost struct {
	Context string `json:"context"`
	Body    string `json:"body"`
	Master  string `json:"master,omitempty"`
	ReplyTo string `json:"reply_to,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// PostsQuery selects entries under a context or master post.
type PostsQuery struct {
	Context    string
	Master     string
	OnlyMaster bool
	Page       int
}

// Profile is a user profile document owned by the store.
type Profile struct {
	DID      string          `json:"did"`
	Username string          `json:"username,omitempty"`
	Points   int64           `json:"points,omitempty"`
	Details  json.RawMessage `json:"details,omitempty"`
}

type createResponse struct {
	StreamID string `json:"stream_id"`
	Status   int    `json:"status"`
	Error    string `json:"error"`
}

type postsResponse struct {
	Data   []Post `json:"data"`
	Status int    `json:"status"`
	Error  string `json:"error"`
}

type profileResponse struct {
	Data   Profile `json:"data"`
	Status int     `json:"status"`
	Error  string  `json:"error"`
}

type errorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.orbis.club/v1"
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// CreatePost writes an entry and returns its stream id.
func (c *Client) CreatePost(ctx context.Context, post NewPost) (string, error) {
	body, err := json.Marshal(post)
	if err != nil {
		return "", fmt.Errorf("orbis: encode post: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("orbis: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("orbis: create post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.asError("create post", resp)
	}
	var decoded createResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("orbis: decode create response: %w", err)
	}
	if decoded.StreamID == "" {
		return "", fmt.Errorf("orbis: create post: empty stream id in response")
	}
	if c.logger != nil {
		c.logger.Debug().Str("stream_id", decoded.StreamID).Msg("orbis post created")
	}
	return decoded.StreamID, nil
}

// GetPosts returns the entries matching the query in store order.
func (c *Client) GetPosts(ctx context.Context, q PostsQuery) ([]Post, error) {
	params := url.Values{}
	if q.Context != "" {
		params.Set("context", q.Context)
	}
	if q.Master != "" {
		params.Set("master", q.Master)
	}
	params.Set("only_master", strconv.FormatBool(q.OnlyMaster))
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/posts?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("orbis: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("orbis: get posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.asError("get posts", resp)
	}
	var decoded postsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("orbis: decode posts response: %w", err)
	}
	return decoded.Data, nil
}

// GetProfile fetches a user profile by DID.
func (c *Client) GetProfile(ctx context.Context, did string) (Profile, error) {
	if strings.TrimSpace(did) == "" {
		return Profile{}, fmt.Errorf("orbis: did is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/profiles/"+url.PathEscape(did), nil)
	if err != nil {
		return Profile{}, fmt.Errorf("orbis: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("orbis: get profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Profile{}, c.asError("get profile", resp)
	}
	var decoded profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Profile{}, fmt.Errorf("orbis: decode profile response: %w", err)
	}
	if decoded.Data.DID == "" {
		decoded.Data.DID = did
	}
	return decoded.Data, nil
}

// UpdateProfile replaces a user profile document.
func (c *Client) UpdateProfile(ctx context.Context, profile Profile) error {
	if strings.TrimSpace(profile.DID) == "" {
		return fmt.Errorf("orbis: did is required")
	}
	body, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("orbis: encode profile: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/profiles/"+url.PathEscape(profile.DID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("orbis: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("orbis: update profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.asError("update profile", resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) asError(op string, resp *http.Response) error {
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var decoded errorResponse
	if err := json.Unmarshal(payload, &decoded); err == nil && decoded.Error != "" {
		return fmt.Errorf("orbis: %s: %s (status %d)", op, decoded.Error, resp.StatusCode)
	}
	return fmt.Errorf("orbis: %s: unexpected status %d", op, resp.StatusCode)
}

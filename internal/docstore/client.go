package docstore

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

	"github.com/five82/cadre/internal/program"
)

// Ensure Client implements program.Gateway at compile time.
var _ program.Gateway = (*Client)(nil)

const (
	defaultCollection = "programs"
	defaultTimeout    = 10 * time.Second
	maxErrorBody      = 64 << 10
)

// Version is reported in the user agent.
var Version = "dev"

// ErrNoBaseURL is returned by NewClient when no base URL is configured.
var ErrNoBaseURL = errors.New("docstore base url is required")

// APIError is a non-validation failure reported by the server.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("docstore %s returned status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("docstore %s returned status %d", e.Op, e.Status)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Collection string
	APIKey     string
	Timeout    time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the document database REST API.
type Client struct {
	baseURL    *url.URL
	collection string
	apiKey     string
	http       *http.Client
	userAgent  string
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	collection := strings.Trim(strings.TrimSpace(opts.Collection), "/")
	if collection == "" {
		collection = defaultCollection
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    base,
		collection: collection,
		apiKey:     strings.TrimSpace(opts.APIKey),
		http:       httpClient,
		userAgent:  "cadre/" + Version,
	}, nil
}

// Collection returns the collection the client reads and writes.
func (c *Client) Collection() string {
	return c.collection
}

// GetAll lists every document in the collection.
func (c *Client) GetAll(ctx context.Context) ([]program.Snapshot, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload ListResponse
	if err := c.do(ctx, "list", http.MethodGet, nil, &payload); err != nil {
		return nil, err
	}
	snaps := make([]program.Snapshot, 0, len(payload.Documents))
	for _, doc := range payload.Documents {
		snaps = append(snaps, doc.Snapshot())
	}
	return snaps, nil
}

// Create validates draft and stores it, returning the assigned id.
func (c *Client) Create(ctx context.Context, draft program.Draft) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if err := program.Validate(draft); err != nil {
		return "", err
	}
	var payload CreateResponse
	if err := c.do(ctx, "create", http.MethodPost, newCreateRequest(draft), &payload); err != nil {
		return "", err
	}
	if payload.ID == "" {
		return "", fmt.Errorf("docstore create: response has no id")
	}
	return payload.ID, nil
}

func (c *Client) documentsURL() string {
	return c.baseURL.JoinPath("v1", "collections", c.collection, "documents").String()
}

func (c *Client) do(ctx context.Context, op, method string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.documentsURL(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute %s request: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return responseError(op, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func responseError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{Op: op, Status: resp.StatusCode}
	body, ok := decodeErrorBody(raw)
	if !ok {
		return apiErr
	}
	if resp.StatusCode == http.StatusBadRequest {
		if verr, ok := body.validationError(); ok {
			return verr
		}
	}
	apiErr.Message = body.Message
	return apiErr
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrNoBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse docstore_url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse docstore_url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

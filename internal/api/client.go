// Package api is the client for the remote content API. The API is an
// external collaborator: this package only shuttles JSON, it never renders.
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
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/roamweb/internal/logger"
)

// ErrNotFound reports a node that does not exist on the server.
var ErrNotFound = errors.New("node not found")

// Error is a non-2xx response from the content API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
}

func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Node is a document in the note graph.
type Node struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Format    string    `json:"format"` // "org" or "markdown"
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NodeDraft is the payload for creating or updating a node.
type NodeDraft struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Format  string   `json:"format"`
	Tags    []string `json:"tags,omitempty"`
}

// NodeRef is a lightweight reference used by link queries.
type NodeRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// Tag is one entry of the tag index.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Client talks to one content API. It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
	log  *logger.Logger
}

// New builds a client for the API at baseURL.
func New(baseURL string, timeout time.Duration, log *logger.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

// ListNodes returns all nodes, newest first per the API's ordering.
func (c *Client) ListNodes(ctx context.Context) ([]Node, error) {
	var nodes []Node
	if err := c.do(ctx, http.MethodGet, "/api/nodes", nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// GetNode fetches a single node by id.
func (c *Client) GetNode(ctx context.Context, id uuid.UUID) (*Node, error) {
	var node Node
	if err := c.do(ctx, http.MethodGet, "/api/nodes/"+id.String(), nil, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// CreateNode creates a node and returns the server's copy.
func (c *Client) CreateNode(ctx context.Context, draft NodeDraft) (*Node, error) {
	var node Node
	if err := c.do(ctx, http.MethodPost, "/api/nodes", draft, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// UpdateNode replaces a node's content and metadata.
func (c *Client) UpdateNode(ctx context.Context, id uuid.UUID, draft NodeDraft) (*Node, error) {
	var node Node
	if err := c.do(ctx, http.MethodPut, "/api/nodes/"+id.String(), draft, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// DeleteNode removes a node.
func (c *Client) DeleteNode(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/nodes/"+id.String(), nil, nil)
}

// Search runs a full-text query over the note graph.
func (c *Client) Search(ctx context.Context, query string) ([]Node, error) {
	var nodes []Node
	path := "/api/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// Tags returns the tag index.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Backlinks lists the nodes linking to id.
func (c *Client) Backlinks(ctx context.Context, id uuid.UUID) ([]NodeRef, error) {
	var refs []NodeRef
	if err := c.do(ctx, http.MethodGet, "/api/nodes/"+id.String()+"/backlinks", nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// ForwardLinks lists the nodes id links to.
func (c *Client) ForwardLinks(ctx context.Context, id uuid.UUID) ([]NodeRef, error) {
	var refs []NodeRef
	if err := c.do(ctx, http.MethodGet, "/api/nodes/"+id.String()+"/links", nil, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// do issues one request and decodes the JSON response into out (when out is
// non-nil). Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid request path %s: %w", path, err)
	}
	endpoint := c.base.ResolveReference(ref).String()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.RequestFailed(method, path, err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		c.log.RequestFailed(method, path, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// readErrorMessage pulls a message out of an error response, accepting
// either {"error": "..."} bodies or plain text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "request failed"
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return string(bytes.TrimSpace(data))
}

// Package api is a typed client for the blog REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/minimal-blog/internal/config"
	"github.com/debemdeboas/minimal-blog/internal/model"
)

var apiLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	apiLogger = l
}

// Client talks to the collection resource at BaseURL + CollectionPath:
//
//	GET    /api/blogs       list
//	POST   /api/blogs       create
//	PUT    /api/blogs/{id}  update
//	DELETE /api/blogs/{id}  delete
type Client struct {
	collection string
	client     *http.Client
}

// NewClient validates baseURL and builds a client. A zero timeout disables the
// client-side deadline; the caller's context still applies.
func NewClient(baseURL, collectionPath string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid backend URL %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("backend URL %q must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("backend URL %q has no host", baseURL)
	}

	collection := strings.TrimRight(u.String(), "/") + "/" + strings.Trim(collectionPath, "/")

	return &Client{
		collection: collection,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// WithHTTPClient replaces the underlying *http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

func (c *Client) CollectionURL() string {
	return c.collection
}

func (c *Client) itemURL(id model.PostID) string {
	return c.collection + "/" + url.PathEscape(string(id))
}

// ListPosts returns the whole collection in server order.
func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := c.do(ctx, http.MethodGet, c.collection, nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

// CreatePost sends draft to the collection. The returned post is nil when the
// backend answers 2xx without a decodable body.
func (c *Client) CreatePost(ctx context.Context, draft model.Draft) (*model.Post, error) {
	return c.send(ctx, http.MethodPost, c.collection, draft)
}

// UpdatePost replaces the fields of post id with draft.
func (c *Client) UpdatePost(ctx context.Context, id model.PostID, draft model.Draft) (*model.Post, error) {
	if id == "" {
		return nil, errors.New("update requires a post id")
	}
	return c.send(ctx, http.MethodPut, c.itemURL(id), draft)
}

func (c *Client) DeletePost(ctx context.Context, id model.PostID) error {
	if id == "" {
		return errors.New("delete requires a post id")
	}
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) send(ctx context.Context, method, target string, draft model.Draft) (*model.Post, error) {
	var post model.Post
	var raw json.RawMessage
	if err := c.do(ctx, method, target, draft, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	// Success is decided by the status alone; an odd body is only worth a debug line.
	if err := json.Unmarshal(raw, &post); err != nil {
		apiLogger.Debug().Err(err).Str("method", method).Str("url", target).Msg("Ignoring undecodable response body")
		return nil, nil
	}
	return &post, nil
}

func (c *Client) do(ctx context.Context, method, target string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "can't encode %s %s body", method, target)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrapf(err, "can't create an http request for %s %s", method, target)
	}
	req.Header.Set("Accept", config.CTypeJSON)
	if body != nil {
		req.Header.Set(config.HCType, config.CTypeJSON)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.WithStack(&TransportError{Method: method, URL: target, Err: err})
	}
	defer func() { _ = resp.Body.Close() }()

	apiLogger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return errors.WithStack(&ResponseError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithStack(&TransportError{Method: method, URL: target, Err: err})
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = bytes.TrimSpace(data)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "can't decode %s %s response", method, target)
	}
	return nil
}

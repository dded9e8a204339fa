// Package client talks to a running ideastore API and keeps a local view of its entries.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/ideastore/internal/entry"
	"github.com/hpungsan/ideastore/internal/errors"
	"github.com/hpungsan/ideastore/internal/ops"
)

// DefaultTimeout applies when New is given a nil *http.Client.
const DefaultTimeout = 30 * time.Second

// Client is an HTTP client for the entry API. Requests are never retried.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the API at baseURL.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Save posts a new entry. A non-empty title is sent URL-encoded in X-Entry-Title.
func (c *Client) Save(ctx context.Context, text, title string) (*ops.WriteOutput, error) {
	header := http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}}
	if title != "" {
		header.Set("X-Entry-Title", url.QueryEscape(title))
	}

	var out ops.WriteOutput
	if err := c.doJSON(ctx, http.MethodPost, "/save", strings.NewReader(text), header, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every entry, newest first.
func (c *Client) List(ctx context.Context) ([]entry.Entry, error) {
	var out []entry.Entry
	if err := c.doJSON(ctx, http.MethodGet, "/entries", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one entry's metadata.
func (c *Client) Get(ctx context.Context, id int64) (*entry.Entry, error) {
	var out entry.Entry
	if err := c.doJSON(ctx, http.MethodGet, "/entries/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Content returns an entry's text by id, or by exact title when id is zero.
func (c *Client) Content(ctx context.Context, id int64, title string) (string, error) {
	q := url.Values{}
	if id != 0 {
		q.Set("id", strconv.FormatInt(id, 10))
	}
	if title != "" {
		q.Set("title", title)
	}
	return c.doText(ctx, "/content?"+q.Encode())
}

// Load returns the text stored under blobID.
func (c *Client) Load(ctx context.Context, blobID string) (string, error) {
	return c.doText(ctx, "/load/"+url.PathEscape(blobID))
}

// Update replaces an entry's content.
func (c *Client) Update(ctx context.Context, id int64, text string) (*ops.WriteOutput, error) {
	header := http.Header{"Content-Type": []string{"text/plain; charset=utf-8"}}

	var out ops.WriteOutput
	if err := c.doJSON(ctx, http.MethodPut, "/update/"+strconv.FormatInt(id, 10), strings.NewReader(text), header, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an entry.
func (c *Client) Delete(ctx context.Context, id int64) (*ops.DeleteOutput, error) {
	var out ops.DeleteOutput
	if err := c.doJSON(ctx, http.MethodDelete, "/delete/"+strconv.FormatInt(id, 10), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.New(errors.KindTransport, "Failed to build request", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.New(errors.KindTransport, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.KindTransport, "Failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp.StatusCode, data)
	}
	return data, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, header http.Header, out any) error {
	data, err := c.do(ctx, method, path, body, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.New(errors.KindBadResponse, "Response is not valid JSON", err)
	}
	return nil
}

func (c *Client) doText(ctx context.Context, path string) (string, error) {
	data, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// responseError converts a non-2xx response into an *errors.Error.
// The server's code wins; otherwise the kind follows the status.
func responseError(status int, data []byte) error {
	var body struct {
		Error string      `json:"error"`
		Code  errors.Kind `json:"code"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		return errors.New(errors.KindBadResponse, fmt.Sprintf("Unexpected response (status %d)", status), err)
	}

	kind := body.Code
	if kind == "" {
		kind = kindForStatus(status)
	}
	return errors.New(kind, body.Error, nil)
}

func kindForStatus(status int) errors.Kind {
	switch status {
	case http.StatusBadRequest:
		return errors.KindValidation
	case http.StatusNotFound:
		return errors.KindNotFound
	default:
		return errors.KindInternal
	}
}

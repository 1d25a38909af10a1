// Package api is the HTTP client of a notebook server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Paintersrp/nnt/internal/note"
)

const defaultTimeout = 30 * time.Second

// Client talks to the api/ endpoints below a notebook URL.
type Client struct {
	base   *url.URL
	http   *http.Client
	token  string
	logger *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New returns a client for the notebook at notebookURL. The URL is treated
// as a directory; a missing trailing slash is added.
func New(notebookURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(notebookURL))
	if err != nil {
		return nil, fmt.Errorf("invalid notebook url %q: %w", notebookURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid notebook url %q: scheme must be http or https", notebookURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: defaultTimeout},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.token != "" {
		if exp, ok := TokenExpiry(c.token); ok && exp.Before(time.Now()) {
			c.logger.Warn("notebook token has expired", "expired_at", exp)
		}
	}
	return c, nil
}

// BaseURL returns the normalised notebook URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Tags returns every tag used in the notebook.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var resp struct {
		Tags []string `json:"tags"`
	}
	if err := c.getJSON(ctx, "api/gettags", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp.Tags, nil
}

// NotesQuery narrows a notes listing.
type NotesQuery struct {
	// Tags limits the listing to notes carrying any of them.
	Tags []string
	// Source includes note sources in the listing.
	Source bool
}

// Notes lists notes with rendered bodies and open todos.
func (c *Client) Notes(ctx context.Context, q NotesQuery) ([]*note.Record, error) {
	params := url.Values{}
	params.Set("html", "1")
	params.Set("todos", "1")
	if q.Source {
		params.Set("src", "1")
	}
	if len(q.Tags) > 0 {
		params.Set("tags", strings.Join(q.Tags, ","))
	}

	var resp struct {
		Notes []*note.Record `json:"notes"`
	}
	if err := c.getJSON(ctx, "api/getnotes", params, &resp); err != nil {
		return nil, err
	}
	return resp.Notes, nil
}

// NoteSource fetches the markdown source of one note and the offsets of
// its checkbox state characters.
func (c *Client) NoteSource(ctx context.Context, id note.ID) (string, []int, error) {
	params := url.Values{}
	params.Set("fullname", string(id))
	params.Set("src", "1")

	body, err := c.get(ctx, "api/getnote", params)
	if err != nil {
		return "", nil, err
	}

	n := gjson.GetBytes(body, "note")
	if !n.Exists() || !n.Get("src").Exists() {
		return "", nil, fmt.Errorf("getnote %s: response has no note source", id)
	}

	var offsets []int
	if raw := n.Get("check_offsets"); raw.Exists() {
		offsets = []int{}
		for _, v := range raw.Array() {
			offsets = append(offsets, int(v.Int()))
		}
	}
	return n.Get("src").String(), offsets, nil
}

// SaveNotes stores a batch of payloads in order.
func (c *Client) SaveNotes(ctx context.Context, batch []note.Payload) error {
	if batch == nil {
		batch = []note.Payload{}
	}
	_, err := c.postJSON(ctx, "api/savenotes", batch)
	return err
}

// Preview asks the server to render src without storing it.
func (c *Client) Preview(ctx context.Context, src string) (*note.Preview, error) {
	body, err := c.postJSON(ctx, "api/previewnote", map[string]string{"src": src})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Note *note.Preview `json:"note"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode preview: %w", err)
	}
	if resp.Note == nil {
		return nil, fmt.Errorf("preview response has no note")
	}
	return resp.Note, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, params), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: path})
	if params != nil {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", req.Method, "url", req.URL.Path, "err", err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.logger.Debug("request done",
		"method", req.Method,
		"url", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Message: string(body)}
	}
	return body, nil
}

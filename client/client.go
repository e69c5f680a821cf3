// Package client fetches articles, categories and authors from a pressroom
// server and flattens the nested envelope into display records.
package client

import (
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

	"github.com/eringen/pressroom/logging"
	"github.com/eringen/pressroom/wire"
)

const (
	DefaultBaseURL  = "http://localhost:1337"
	DefaultTimeout  = 10 * time.Second
	DefaultPage     = 1
	DefaultPageSize = 25
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.URL, e.StatusCode)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client talks to one pressroom server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for baseURL. An empty baseURL means DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchOptions selects the page and filters of FetchArticles.
type FetchOptions struct {
	Page          int
	PageSize      int
	Category      string
	Slug          string
	IncludeDrafts bool
}

// FetchResult is either a single article (Slug was set) or a page of
// articles with its metadata.
type FetchResult struct {
	Single   bool
	Article  *DisplayArticle
	Articles []DisplayArticle
	Meta     wire.Meta
}

// Query returns the query string parameters FetchArticles sends for o.
func (o FetchOptions) Query() url.Values {
	page := o.Page
	if page < 1 {
		page = DefaultPage
	}
	size := o.PageSize
	if size < 1 {
		size = DefaultPageSize
	}

	q := url.Values{}
	q.Set("populate[image]", "*")
	q.Set("populate[author][populate][avatar]", "*")
	q.Set("populate[category]", "*")
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(size))
	if o.IncludeDrafts {
		q.Set("publicationState", "preview")
	} else {
		q.Set("filters[publishedAt][$notNull]", "true")
	}
	if o.Category != "" {
		q.Set("filters[category][$eq]", o.Category)
	}
	if o.Slug != "" {
		q.Set("filters[slug][$eq]", o.Slug)
	}
	return q
}

// FetchArticles requests the article collection. When opts.Slug is set the
// result is single-valued: Article holds the first match or nil.
func (c *Client) FetchArticles(ctx context.Context, opts FetchOptions) (*FetchResult, error) {
	var body wire.ListResponse[wire.ArticleAttributes]
	if err := c.get(ctx, "/api/articles", opts.Query(), &body); err != nil {
		logging.Error(ctx).Err(err).Msg("error fetching articles")
		return nil, err
	}

	if opts.Slug != "" {
		res := &FetchResult{Single: true}
		if len(body.Data) > 0 {
			a := TransformArticle(body.Data[0])
			res.Article = &a
		}
		return res, nil
	}

	return &FetchResult{
		Articles: TransformArticles(body.Data),
		Meta:     body.Meta,
	}, nil
}

// FetchArticle looks up one article by ID or slug. The server counts this
// as a view.
func (c *Client) FetchArticle(ctx context.Context, idOrSlug string) (*DisplayArticle, error) {
	var body wire.Response[wire.ArticleAttributes]
	if err := c.get(ctx, "/api/articles/"+url.PathEscape(idOrSlug), nil, &body); err != nil {
		if !IsNotFound(err) {
			logging.Error(ctx).Err(err).Str("article", idOrSlug).Msg("error fetching article")
		}
		return nil, err
	}
	if body.Data == nil {
		return nil, fmt.Errorf("article %q: empty response", idOrSlug)
	}
	a := TransformArticle(*body.Data)
	return &a, nil
}

// FetchMostPopular returns up to limit published articles ranked by views.
// A limit below 1 leaves the choice to the server.
func (c *Client) FetchMostPopular(ctx context.Context, limit int) ([]DisplayArticle, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var body wire.ListResponse[wire.ArticleAttributes]
	if err := c.get(ctx, "/api/articles/most-popular", q, &body); err != nil {
		logging.Error(ctx).Err(err).Msg("error fetching most popular articles")
		return nil, err
	}
	return TransformArticles(body.Data), nil
}

// FetchCodeBlocks returns the rendered code blocks of an article without
// counting a view.
func (c *Client) FetchCodeBlocks(ctx context.Context, idOrSlug string) (string, error) {
	u := c.baseURL + "/api/articles/" + url.PathEscape(idOrSlug) + "/code-blocks"
	resp, err := c.do(ctx, u, "text/html")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", u, err)
	}
	return string(b), nil
}

func (c *Client) FetchCategories(ctx context.Context) ([]DisplayCategory, error) {
	q := url.Values{}
	q.Set("populate[image]", "*")
	var body wire.ListResponse[wire.CategoryAttributes]
	if err := c.get(ctx, "/api/categories", q, &body); err != nil {
		logging.Error(ctx).Err(err).Msg("error fetching categories")
		return nil, err
	}
	out := make([]DisplayCategory, 0, len(body.Data))
	for _, e := range body.Data {
		out = append(out, TransformCategory(e))
	}
	return out, nil
}

func (c *Client) FetchAuthors(ctx context.Context) ([]DisplayAuthor, error) {
	q := url.Values{}
	q.Set("populate[avatar]", "*")
	var body wire.ListResponse[wire.AuthorAttributes]
	if err := c.get(ctx, "/api/authors", q, &body); err != nil {
		logging.Error(ctx).Err(err).Msg("error fetching authors")
		return nil, err
	}
	out := make([]DisplayAuthor, 0, len(body.Data))
	for _, e := range body.Data {
		out = append(out, TransformAuthor(e))
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dst any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	resp, err := c.do(ctx, u, "application/json")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

// do performs a GET and returns the response when the status is 2xx.
func (c *Client) do(ctx context.Context, u, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer func() { _ = resp.Body.Close() }()
		se := &StatusError{StatusCode: resp.StatusCode, URL: u}
		var body wire.ErrorResponse
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body) == nil {
			se.Message = body.Error
		}
		return nil, se
	}
	return resp, nil
}

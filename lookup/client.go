// Package lookup queries HAL search and referential API and resolves
// external references (journals, structures) to HAL identifiers.
package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"halc/common"
)

const (
	// DefaultBaseURL is HAL API root.
	DefaultBaseURL = "https://api.archives-ouvertes.fr/"
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit is requests per second.
	DefaultRateLimit = 5.0
	DefaultRows      = 50
)

// Term is single key/value of search query.
type Term struct {
	Key   string
	Value string
}

// Query is ordered list of terms combined with AND.
type Query []Term

// ParseQuery builds query from "key=value" arguments.
func ParseQuery(args []string) (Query, error) {
	q := make(Query, 0, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || len(strings.TrimSpace(k)) == 0 {
			return nil, fmt.Errorf("query term %q is not in key=value form", a)
		}
		q = append(q, Term{Key: strings.TrimSpace(k), Value: strings.TrimSpace(v)})
	}
	return q, nil
}

// Client is rate limited HAL API client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	rows       int
	log        *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if len(u) > 0 {
			c.baseURL = u
		}
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit sets requests per second, non positive value disables
// limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func WithRows(rows int) ClientOption {
	return func(c *Client) {
		if rows > 0 {
			c.rows = rows
		}
	}
}

func NewClient(log *zap.Logger, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    DefaultBaseURL,
		rows:       DefaultRows,
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !strings.HasSuffix(c.baseURL, "/") {
		c.baseURL += "/"
	}
	return c
}

// Request is a fully described search.
type Request struct {
	Resource string
	Query    Query
	Fields   []string
	Format   common.ResultFormat
	// Rows overrides client default when positive.
	Rows int
}

// params validates request against descriptor table, problems are reported
// and replaced with resource defaults.
func (c *Client) params(r *Resource, req *Request) (url.Values, common.ResultFormat) {
	params := url.Values{}

	var terms []string
	for _, t := range req.Query {
		tmpl, ok := r.Queries[t.Key]
		if !ok {
			c.log.Warn("Unknown query key, using default", zap.String("resource", r.Name), zap.String("key", t.Key), zap.String("default", r.DefaultQuery), zap.Strings("allowed", r.QueryKeys()))
			tmpl = r.Queries[r.DefaultQuery]
		}
		if r.Direct {
			params.Set(tmpl, t.Value)
			continue
		}
		terms = append(terms, expand(tmpl, t.Value))
	}
	if !r.Direct {
		q := "*:*"
		if len(terms) > 0 {
			q = strings.Join(terms, " AND ")
		}
		params.Set("q", q)
	}

	if len(r.Fields) > 0 {
		var fields []string
		for _, f := range req.Fields {
			if r.hasField(f) {
				fields = append(fields, f)
				continue
			}
			c.log.Warn("Unknown return field, ignoring", zap.String("resource", r.Name), zap.String("field", f))
		}
		if len(fields) == 0 {
			fields = r.DefaultFields
		}
		params.Set("fl", strings.Join(fields, ","))
	}

	format := req.Format
	if !r.hasFormat(format) {
		c.log.Warn("Unsupported result format, using default", zap.String("resource", r.Name), zap.Stringer("format", format), zap.Stringer("default", r.DefaultFormat))
		format = r.DefaultFormat
	}
	params.Set("wt", format.WireName())

	rows := c.rows
	if req.Rows > 0 {
		rows = req.Rows
	}
	params.Set("rows", strconv.Itoa(rows))
	return params, format
}

// Search runs request and decodes response according to its format.
func (c *Client) Search(ctx context.Context, req Request) (*Result, error) {
	r, ok := Resources[req.Resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownResource, req.Resource, strings.Join(ResourceNames(), ", "))
	}
	params, format := c.params(r, &req)

	u := c.baseURL + r.Path + "?" + params.Encode()
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	res, err := decode(format, body)
	if err != nil {
		return nil, err
	}
	c.log.Debug("Search completed", zap.String("url", u), zap.Int("found", res.Found), zap.Int("docs", len(res.Docs)))
	return res, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return body, nil
}

// Ordered returns requested fields of resource in descriptor order, used to
// lay out tabular output.
func (r *Resource) Ordered(fields []string) []string {
	if len(fields) == 0 {
		return slices.Clone(r.DefaultFields)
	}
	var res []string
	for _, f := range r.Fields {
		if slices.Contains(fields, f) {
			res = append(res, f)
		}
	}
	return res
}

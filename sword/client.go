package sword

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"halc/common"
)

const (
	PreprodURL     = "https://api-preprod.archives-ouvertes.fr/sword/hal/"
	ProdURL        = "https://api.archives-ouvertes.fr/sword/hal/"
	DefaultTimeout = 5 * time.Minute
)

// ServerURL returns SWORD endpoint for server.
func ServerURL(s common.Server) string {
	if s == common.ServerProd {
		return ProdURL
	}
	return PreprodURL
}

// Receipt is parsed deposit receipt.
type Receipt struct {
	StatusCode int
	ID         string
	Version    string
	Password   string
	Link       string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	login      string
	password   string
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

func WithCredentials(login, password string) ClientOption {
	return func(c *Client) {
		c.login, c.password = login, password
	}
}

func NewClient(server common.Server, log *zap.Logger, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    ServerURL(server),
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

// Deposit sends payload. Empty halID creates new deposit, otherwise existing
// one is updated.
func (c *Client) Deposit(ctx context.Context, p *Payload, halID string) (*Receipt, error) {
	body, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to read payload: %w", err)
	}

	method, u := http.MethodPost, c.baseURL
	if len(halID) > 0 {
		method, u = http.MethodPut, c.baseURL+halID
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	for k, v := range p.Header {
		req.Header[k] = v
	}
	if len(c.login) > 0 {
		req.SetBasicAuth(c.login, c.password)
	}

	c.log.Info("Sending deposit", zap.String("method", method), zap.String("url", u), zap.String("file", p.Path), zap.Int("size", len(body)))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDepositFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read response: %w", ErrDepositFailed, err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		r := parseReceipt(data, c.log)
		r.StatusCode = resp.StatusCode
		return r, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	default:
		return nil, parseError(resp.StatusCode, data)
	}
}

func parseReceipt(data []byte, log *zap.Logger) *Receipt {
	r := &Receipt{}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil || doc.Root() == nil {
		log.Warn("Unable to parse deposit receipt", zap.Error(err))
		return r
	}
	text := func(path string) string {
		if el := doc.FindElement(path); el != nil {
			return strings.TrimSpace(el.Text())
		}
		return ""
	}
	r.ID = text("//id")
	r.Version = text("//version")
	r.Password = text("//password")
	if el := doc.FindElement("//link[@rel='alternate']"); el != nil {
		r.Link = el.SelectAttrValue("href", "")
	}
	return r
}

func parseError(status int, data []byte) error {
	e := &DepositError{StatusCode: status}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil || doc.Root() == nil {
		e.Summary = strings.TrimSpace(string(data))
		return e
	}
	if el := doc.FindElement("//summary"); el != nil {
		e.Summary = strings.TrimSpace(el.Text())
	}
	if el := doc.FindElement("//verboseDescription"); el != nil {
		e.Description = strings.TrimSpace(el.Text())
	}
	return e
}

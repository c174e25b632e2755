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
	"strings"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/logging"
)

// DefaultBaseURL is used when no API origin is configured.
const DefaultBaseURL = "http://localhost:8000"

type Options struct {
	// Timeout bounds each call including a refresh and retry. 0 disables it.
	Timeout time.Duration

	Breaker BreakerConfig

	// Transport performs the network I/O. Defaults to a clone of
	// http.DefaultTransport.
	Transport http.RoundTripper

	Logger logging.Logger
}

// Client talks to the HexSocial REST API. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	authed  *http.Client
	public  *http.Client
	breaker *BreakerTransport
	log     logging.Logger
}

// New builds a client for baseURL. tokens supplies and receives the
// session's token pair.
func New(baseURL string, tokens TokenStore, opts Options) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Breaker.Name == "" {
		opts.Breaker = DefaultBreakerConfig("hexsocial-api")
	}
	network := opts.Transport
	if network == nil {
		network = http.DefaultTransport.(*http.Transport).Clone()
	}

	c := &Client{baseURL: u, log: opts.Logger}
	c.breaker = NewBreakerTransport(requestIDTransport{next: network}, opts.Breaker, opts.Logger)
	c.public = &http.Client{Transport: c.breaker, Timeout: opts.Timeout}
	c.authed = &http.Client{
		Transport: NewAuthTransport(c.breaker, tokens, c.RefreshToken, opts.Logger),
		Timeout:   opts.Timeout,
	}
	return c, nil
}

// BaseURL returns the API origin without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// MediaURL resolves a media path returned by the API. Absolute URLs are
// returned unchanged; empty paths stay empty.
func (c *Client) MediaURL(path string) string {
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	public      bool
}

func jsonRequest(method, path string, payload any) (request, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	return request{method: method, path: path, body: bytes.NewReader(b), contentType: "application/json"}, nil
}

func formRequest(method, path string, f *form) (request, error) {
	body, contentType, err := f.encode()
	if err != nil {
		return request{}, fmt.Errorf("encode form %s %s: %w", method, path, err)
	}
	return request{method: method, path: path, body: body, contentType: contentType}, nil
}

// do sends r and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	body := r.body
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", r.method, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	hc := c.authed
	if r.public {
		hc = c.public
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}

	if resp.StatusCode >= 400 {
		err := parseError(resp)
		c.log.Debug(ctx, "api error", "method", r.method, "path", r.path, "error", err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

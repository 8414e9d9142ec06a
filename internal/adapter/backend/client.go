// Package backend is the HTTP client for the diet-coach REST API. Every call
// returns a domain.Result; transport failures are tagged KindConnectivity and
// non-2xx responses KindApplication.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dietcoach/internal/domain"
	"dietcoach/internal/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const maxBodyBytes = 10 << 20

// Client talks to the backend. It holds no session state of its own; the
// token comes from the configured TokenSource on every authenticated call.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
	log     *zap.Logger
}

var (
	_ domain.AuthAPI           = (*Client)(nil)
	_ domain.SurveyAPI         = (*Client)(nil)
	_ domain.FoodAPI           = (*Client)(nil)
	_ domain.RecommendationAPI = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logging.OrNop(l).Named("backend") }
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// request describes one backend call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	auth        bool
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// response is a completed exchange with a 2xx or non-2xx status.
type response struct {
	status int
	header http.Header
	body   []byte
}

// do performs r. A nil *domain.Error means the server answered; the caller
// still has to check the status.
func (c *Client) do(ctx context.Context, r request) (*response, *domain.Error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindApplication, Message: fmt.Sprintf("build request: %v", err)}
	}
	ct := r.contentType
	if ct == "" {
		ct = "application/json"
	}
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if r.auth && c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			c.log.Debug("sending without token", zap.String("path", r.path), zap.Error(err))
		} else {
			tok.SetAuthHeader(req)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed",
			zap.String("method", r.method), zap.String("path", r.path), zap.Error(err))
		return nil, &domain.Error{Kind: domain.KindConnectivity, Message: domain.NetworkFailedMessage}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.log.Warn("reading response failed", zap.String("path", r.path), zap.Error(err))
		return nil, &domain.Error{Kind: domain.KindConnectivity, Message: domain.NetworkFailedMessage}
	}

	c.log.Debug("request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// httpError folds the status and body into an application error.
func (r *response) httpError() *domain.Error {
	return &domain.Error{
		Kind:    domain.KindApplication,
		Status:  r.status,
		Message: fmt.Sprintf("HTTP error! status: %d, message: %s", r.status, strings.TrimSpace(string(r.body))),
	}
}

// call runs r and decodes a 2xx body with decode. notFound, when set, turns a
// 404 into a KindNotFound error carrying that message.
func call[T any](ctx context.Context, c *Client, r request, notFound string, decode func(*response) (T, error)) domain.Result[T] {
	resp, derr := c.do(ctx, r)
	if derr != nil {
		return domain.Fail[T](derr)
	}
	if !resp.ok() {
		if notFound != "" && resp.status == http.StatusNotFound {
			return domain.Fail[T](&domain.Error{Kind: domain.KindNotFound, Status: resp.status, Message: notFound})
		}
		return domain.Fail[T](resp.httpError())
	}
	v, err := decode(resp)
	if err != nil {
		c.log.Warn("unexpected response body", zap.String("path", r.path), zap.Error(err))
		return domain.Fail[T](&domain.Error{
			Kind:    domain.KindApplication,
			Status:  resp.status,
			Message: fmt.Sprintf("invalid response: %v", err),
		})
	}
	return domain.OK(v)
}

func discard(*response) (struct{}, error) { return struct{}{}, nil }

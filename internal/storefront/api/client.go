// Package api is the HTTP client for the WappTienda REST API.
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

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	defaultTimeout    = 10 * time.Second
	idempotencyHeader = "Idempotency-Key"
)

var tracer = otel.Tracer("github.com/WappTienda/frontend/internal/storefront/api")

// ErrInvalidID is returned before any request when a resource id is empty or
// a dot segment that would resolve to a different endpoint.
var ErrInvalidID = errors.New("api: invalid resource id")

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// TokenSource yields the current bearer token, empty when logged out.
type TokenSource interface {
	Token() string
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient HTTPClient
	Timeout    time.Duration
	Tokens     TokenSource
	// OnUnauthorized runs when an authenticated request is rejected with 401.
	OnUnauthorized func()
	Logger         *zap.Logger
	NewRequestID   func() string
}

// Client talks to the REST API. Admin calls attach the bearer token from Tokens.
type Client struct {
	base           *url.URL
	client         HTTPClient
	tokens         TokenSource
	onUnauthorized func()
	logger         *zap.Logger
	newRequestID   func() string
}

// NewClient constructs a Client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("api: base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("api: parse base URL: %w", err)
	}
	c := &Client{
		base:           parsed,
		client:         opts.HTTPClient,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		logger:         opts.Logger,
		newRequestID:   opts.NewRequestID,
	}
	if c.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.client = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.newRequestID == nil {
		c.newRequestID = func() string { return ulid.Make().String() }
	}
	return c, nil
}

type call struct {
	op          string
	method      string
	endpoint    string
	id          string
	query       url.Values
	body        io.Reader
	contentType string
	auth        bool
	idempotent  bool
	expect      []int
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	ctx, span := tracer.Start(ctx, "api."+cl.op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", cl.method),
		attribute.String("url.template", cl.endpoint),
	)

	endpoint, err := cl.path()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid id")
		return err
	}
	target, err := c.resolve(endpoint, cl.query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolve endpoint")
		return err
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, cl.body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		ct := cl.contentType
		if ct == "" {
			ct = "application/json"
		}
		req.Header.Set("Content-Type", ct)
	}
	token := ""
	if cl.auth && c.tokens != nil {
		token = c.tokens.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if cl.idempotent {
		key := c.newRequestID()
		req.Header.Set(idempotencyHeader, key)
		span.SetAttributes(attribute.String("idempotency_key", key))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.logger.Warn("api request failed", zap.String("op", cl.op), zap.Error(err))
		return &NetworkError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if !expected(resp.StatusCode, cl.expect) {
		apiErr := errorFromResponse(resp)
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		if resp.StatusCode == http.StatusUnauthorized && token != "" && c.onUnauthorized != nil {
			c.logger.Info("api rejected session token", zap.String("op", cl.op))
			c.onUnauthorized()
		}
		return apiErr
	}
	span.SetStatus(codes.Ok, http.StatusText(resp.StatusCode))

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.RecordError(err)
		return fmt.Errorf("api: decode %s: %w", cl.op, err)
	}
	return nil
}

func expected(status int, want []int) bool {
	if len(want) == 0 {
		return status >= 200 && status < 300
	}
	for _, w := range want {
		if w == status {
			return true
		}
	}
	return false
}

// endpoint must already be escaped; see call.path.
func (c *Client) resolve(endpoint string, query url.Values) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("api: parse endpoint %q: %w", endpoint, err)
	}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	return c.base.ResolveReference(ref).String(), nil
}

func jsonBody(payload any) (io.Reader, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("api: encode payload: %w", err)
	}
	return &buf, nil
}

// path fills the {id} placeholder of the endpoint with the escaped id.
func (cl call) path() (string, error) {
	if !strings.Contains(cl.endpoint, "{id}") {
		return cl.endpoint, nil
	}
	switch id := strings.TrimSpace(cl.id); id {
	case "", ".", "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidID, cl.id)
	default:
		return strings.Replace(cl.endpoint, "{id}", url.PathEscape(id), 1), nil
	}
}

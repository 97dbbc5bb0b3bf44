package freshservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/i2y/freshservice-mcp/internal/domain"
)

const tracerName = "github.com/i2y/freshservice-mcp/internal/adapter/outbound/freshservice"

var linkRe = regexp.MustCompile(`<([^>]+)>;\s*rel="([^"]+)"`)

// BaseURL returns the API v2 root for a Freshservice domain such as
// "acme.freshservice.com".
func BaseURL(fsDomain string) string {
	return "https://" + strings.TrimSuffix(fsDomain, "/") + "/api/v2/"
}

// Client implements usecase.Gateway against the Freshservice REST API using
// net/http. It performs exactly one attempt per call.
type Client struct {
	baseURL *url.URL
	apiKey  string
	headers map[string]string
	client  *http.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithRateLimit throttles outgoing calls to r requests per second with the
// given burst. A zero rate disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithHeaders adds static headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// New creates a gateway client rooted at baseURL (see BaseURL).
func New(baseURL, apiKey string, client *http.Client, logger *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %s: %w", baseURL, err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	c := &Client{
		baseURL: u,
		apiKey:  apiKey,
		headers: make(map[string]string),
		client:  client,
		tracer:  otel.Tracer(tracerName),
		logger:  logger.With("component", "freshservice_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Call executes one upstream request and returns the payload with its
// envelope removed and pagination metadata extracted.
func (c *Client) Call(ctx context.Context, call domain.Call) (*domain.Response, error) {
	ctx, span := c.tracer.Start(ctx, "freshservice "+call.Method, trace.WithAttributes(
		attribute.String("http.request.method", call.Method),
		attribute.String("url.path", call.Path),
	))
	defer span.End()

	log := c.logger.With(slog.String("method", call.Method), slog.String("path", call.Path))

	resp, err := c.do(ctx, call, log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	return resp, nil
}

func (c *Client) do(ctx context.Context, call domain.Call, log *slog.Logger) (*domain.Response, error) {
	fail := func(kind domain.UpstreamFailureKind, status int, body string, err error) *domain.UpstreamError {
		return &domain.UpstreamError{Kind: kind, Method: call.Method, Path: call.Path, StatusCode: status, Body: body, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fail(domain.UpstreamTransport, 0, "", fmt.Errorf("rate limiter: %w", err))
		}
	}

	// --- 1. Construct URL --- //
	target := c.baseURL.JoinPath(strings.TrimPrefix(call.Path, "/"))
	if len(call.Query) > 0 {
		target.RawQuery = call.Query.Encode()
	}

	// --- 2. Construct Request Body --- //
	var body io.Reader
	if call.Body != nil {
		data, err := json.Marshal(call.Body)
		if err != nil {
			log.Error("Failed to marshal request body", slog.Any("error", err))
			return nil, fail(domain.UpstreamTransport, 0, "", fmt.Errorf("failed to marshal request body: %w", err))
		}
		body = bytes.NewReader(data)
		log.Debug("Prepared request body", slog.Int("size", len(data)))
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, target.String(), body)
	if err != nil {
		return nil, fail(domain.UpstreamTransport, 0, "", fmt.Errorf("failed to create request: %w", err))
	}
	req.SetBasicAuth(c.apiKey, "X")
	req.Header.Set("Accept", "application/json")
	// Some endpoints reject GET requests that carry a JSON content type.
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	// --- 3. Execute Request --- //
	log.Debug("Executing HTTP request", slog.String("url", target.Redacted()))
	resp, err := c.client.Do(req)
	if err != nil {
		log.Error("HTTP request failed", slog.Any("error", err))
		return nil, fail(domain.UpstreamTransport, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", slog.Any("error", err))
		return nil, fail(domain.UpstreamTransport, resp.StatusCode, "", fmt.Errorf("failed to read response body: %w", err))
	}
	log = log.With(slog.Int("status_code", resp.StatusCode))

	// --- 4. Process Response --- //
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("Received non-success status code", slog.String("response_body", string(raw)))
		return nil, fail(domain.UpstreamStatus, resp.StatusCode, string(raw), fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	out := &domain.Response{StatusCode: resp.StatusCode}
	out.Pagination = parseLinkHeader(resp.Header.Get("Link"))
	if total, err := strconv.Atoi(resp.Header.Get("X-Total-Count")); err == nil {
		out.Pagination.Total = total
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		log.Debug("Received empty response body")
		return out, nil
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Warn("Failed to unmarshal JSON response", slog.Any("error", err))
		return nil, fail(domain.UpstreamDecode, resp.StatusCode, string(raw), err)
	}

	out.Envelope, out.Payload = unwrap(payload, &out.Pagination)
	log.Debug("Received HTTP response", slog.String("envelope", out.Envelope))
	return out, nil
}

// unwrap removes a single-key envelope such as {"change": {...}} or
// {"tickets": [...]}. Paging fields next to the envelope are folded into p.
func unwrap(payload any, p *domain.Pagination) (string, any) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return "", payload
	}
	if total, ok := toInt(obj["total"]); ok && p.Total == 0 {
		p.Total = total
	}
	if meta, ok := obj["meta"].(map[string]any); ok && p.Total == 0 {
		for _, k := range []string{"total_count", "total_items", "count"} {
			if total, ok := toInt(meta[k]); ok {
				p.Total = total
				break
			}
		}
	}

	var key string
	for k := range obj {
		if k == "meta" || k == "total" {
			continue
		}
		if key != "" {
			return "", payload
		}
		key = k
	}
	switch obj[key].(type) {
	case map[string]any, []any:
		return key, obj[key]
	}
	return "", payload
}

func parseLinkHeader(header string) domain.Pagination {
	var p domain.Pagination
	for _, m := range linkRe.FindAllStringSubmatch(header, -1) {
		u, err := url.Parse(m[1])
		if err != nil {
			continue
		}
		page, err := strconv.Atoi(u.Query().Get("page"))
		if err != nil {
			continue
		}
		switch m[2] {
		case "next":
			p.NextPage = page
		case "prev":
			p.PrevPage = page
		}
	}
	return p
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

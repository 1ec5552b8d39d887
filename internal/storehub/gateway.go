package storehub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxErrorBody = 200

// Request is one upstream call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  map[string]string
	Body   any
}

// Requester is the transport the accessors depend on. Gateway implements it.
type Requester interface {
	Do(ctx context.Context, req Request, result any) error
}

type GatewayConfig struct {
	BaseURL       string
	AccountID     string
	APIKey        string
	Timeout       time.Duration
	RatePerSecond float64
}

type GatewayOption func(*Gateway)

// WithLimiter replaces the default token bucket.
func WithLimiter(limiter *rate.Limiter) GatewayOption {
	return func(g *Gateway) {
		if limiter != nil {
			g.limiter = limiter
		}
	}
}

// Gateway issues authenticated requests and owns the rate limiter.
type Gateway struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *zap.Logger
	tracer  trace.Tracer
}

func NewGateway(cfg GatewayConfig, logger *zap.Logger, opts ...GatewayOption) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetBasicAuth(cfg.AccountID, cfg.APIKey)
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}

	g := &Gateway{
		http:    httpClient,
		limiter: newLimiter(cfg.RatePerSecond),
		logger:  logger.Named("storehub"),
		tracer:  otel.Tracer("storehub_mcp/storehub"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func (g *Gateway) Do(ctx context.Context, req Request, result any) error {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	resource := resourceOf(req.Path)

	ctx, span := g.tracer.Start(ctx, "storehub."+resource, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("storehub.path", req.Path),
	))
	defer span.End()

	start := time.Now()
	if err := g.wait(ctx); err != nil {
		apiErr := &APIError{Kind: ErrNetwork, Method: method, Path: req.Path, Message: err.Error()}
		g.observe(span, resource, method, 0, time.Since(start), apiErr)
		return apiErr
	}

	r := g.http.R().SetContext(ctx)
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := r.Execute(method, req.Path)
	latency := time.Since(start)
	if err != nil {
		apiErr := &APIError{Kind: ErrNetwork, Method: method, Path: req.Path, Message: err.Error()}
		g.observe(span, resource, method, 0, latency, apiErr)
		return apiErr
	}

	status := resp.StatusCode()
	if kind := classifyStatus(status); kind != nil {
		apiErr := &APIError{
			Kind:       kind,
			Method:     method,
			Path:       req.Path,
			StatusCode: status,
			Message:    errorMessage(resp.Body()),
		}
		g.observe(span, resource, method, status, latency, apiErr)
		return apiErr
	}

	if result != nil && len(strings.TrimSpace(string(resp.Body()))) > 0 {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			apiErr := &APIError{
				Kind:       ErrServer,
				Method:     method,
				Path:       req.Path,
				StatusCode: status,
				Message:    "decode response: " + err.Error(),
			}
			g.observe(span, resource, method, status, latency, apiErr)
			return apiErr
		}
	}

	g.observe(span, resource, method, status, latency, nil)
	return nil
}

func (g *Gateway) wait(ctx context.Context) error {
	start := time.Now()
	err := g.limiter.Wait(ctx)
	waited := time.Since(start)
	rateLimitWait.Observe(waited.Seconds())
	if waited > 10*time.Millisecond {
		g.logger.Debug("rate limiter wait", zap.Duration("waited", waited))
	}
	return err
}

// observe emits the per-call log line, metrics and span status.
// Query values and credentials are intentionally absent from the log.
func (g *Gateway) observe(span trace.Span, resource, method string, status int, latency time.Duration, err error) {
	category := Category(err)
	requestsTotal.WithLabelValues(resource, method, category).Inc()
	requestDuration.WithLabelValues(resource, method).Observe(latency.Seconds())

	span.SetAttributes(
		attribute.Int("http.status_code", status),
		attribute.String("storehub.category", category),
	)

	fields := []zap.Field{
		zap.String("method", method),
		zap.String("resource", resource),
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("category", category),
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.String("path", apiErr.Path))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, category)
		g.logger.Warn("storehub request failed", append(fields, zap.Error(err))...)
		return
	}
	g.logger.Info("storehub request", fields...)
}

func classifyStatus(code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return ErrAuth
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code == http.StatusConflict:
		// StoreHub answers 409 when the per-account call budget is exhausted.
		return ErrRateLimited
	case code >= 500:
		return ErrServer
	default:
		return ErrValidation
	}
}

// errorMessage pulls the server-provided message out of an error body.
func errorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"message", "error", "errorMessage", "detail"} {
			if value, ok := payload[key].(string); ok && strings.TrimSpace(value) != "" {
				return truncate(strings.TrimSpace(value), maxErrorBody)
			}
		}
		if code, ok := payload["code"].(float64); ok {
			return "code " + strconv.Itoa(int(code))
		}
	}
	return truncate(trimmed, maxErrorBody)
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max] + "..."
}

func resourceOf(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "root"
	}
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}

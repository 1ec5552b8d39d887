package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"storehub_mcp/internal/logging"
	"storehub_mcp/internal/storehub"

	"go.uber.org/zap"
)

// Options carries the settings test_api_connection reports and the default store for writes.
type Options struct {
	StoreID   string
	AccountID string
	APIKey    string
	BaseURL   string
	RateLimit float64
}

type Dispatcher struct {
	accessor storehub.Accessor
	opts     Options
	logger   *zap.Logger
	now      func() time.Time

	definitions []Definition
	byName      map[string]Definition
}

func NewDispatcher(accessor storehub.Accessor, opts Options, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	defs := registry()
	byName := make(map[string]Definition, len(defs))
	for _, def := range defs {
		byName[def.Name] = def
	}

	return &Dispatcher{
		accessor:    accessor,
		opts:        opts,
		logger:      logger.Named("tools"),
		now:         time.Now,
		definitions: defs,
		byName:      byName,
	}
}

func (d *Dispatcher) Definitions() []Definition {
	return append([]Definition(nil), d.definitions...)
}

// Call decodes the arguments strictly, runs the tool and returns its text.
// Empty or null arguments are treated as an empty object.
func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	def, ok := d.byName[name]
	if !ok {
		toolCallsTotal.WithLabelValues("unknown", "unknown_tool").Inc()
		d.logger.Warn("unknown tool requested", zap.String("tool", name))
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	start := time.Now()
	text, err := def.run(ctx, d, args)
	elapsed := time.Since(start)
	category := storehub.Category(err)

	toolCallsTotal.WithLabelValues(name, category).Inc()
	toolDuration.WithLabelValues(name).Observe(elapsed.Seconds())

	if err != nil {
		d.logger.Warn("tool call failed", failureFields(name, category, elapsed, err)...)
		return "", err
	}

	d.logger.Info("tool call",
		zap.String("tool", name),
		zap.Duration("duration", elapsed),
		zap.Int("response_chars", len(text)),
	)
	return text, nil
}

func failureFields(name, category string, elapsed time.Duration, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("tool", name),
		zap.String("category", category),
		zap.Duration("duration", elapsed),
		zap.Error(err),
	}

	var apiErr *storehub.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.String("path", apiErr.Path), zap.Int("status", apiErr.StatusCode))
	}
	var validation *storehub.ValidationError
	if errors.As(err, &validation) && validation.Field != "" {
		fields = append(fields, zap.String("field", validation.Field))
	}
	return fields
}

func bind[P any](raw json.RawMessage) (P, error) {
	var params P
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return params, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil {
		return params, decodeError(err)
	}
	if dec.More() {
		return params, &storehub.ValidationError{Reason: "arguments must be a single JSON object"}
	}
	return params, nil
}

const unknownFieldPrefix = "json: unknown field "

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field == "" {
			return &storehub.ValidationError{Reason: "arguments must be a JSON object"}
		}
		return &storehub.ValidationError{Field: typeErr.Field, Reason: "must be " + jsonKind(typeErr.Type)}
	case errors.As(err, &syntaxErr):
		return &storehub.ValidationError{Reason: "arguments are not valid JSON"}
	case strings.HasPrefix(err.Error(), unknownFieldPrefix):
		field := strings.Trim(strings.TrimPrefix(err.Error(), unknownFieldPrefix), `"`)
		return &storehub.ValidationError{Field: field, Reason: "is not a recognised argument"}
	default:
		return &storehub.ValidationError{Reason: err.Error()}
	}
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Pointer:
		return jsonKind(t.Elem())
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

func (d *Dispatcher) testConnection(ctx context.Context) string {
	var b strings.Builder
	b.WriteString("STOREHUB CONNECTION TEST\n\n")
	fmt.Fprintf(&b, "   Mode: %s\n", d.accessor.Mode())
	if d.accessor.Mode() == storehub.ModeLive {
		fmt.Fprintf(&b, "   Base URL: %s\n", d.opts.BaseURL)
		fmt.Fprintf(&b, "   Account ID: %s\n", d.opts.AccountID)
		fmt.Fprintf(&b, "   API key: %s\n", logging.MaskSecret(d.opts.APIKey))
	}
	if d.opts.StoreID != "" {
		fmt.Fprintf(&b, "   Store ID: %s\n", d.opts.StoreID)
	} else {
		b.WriteString("   Store ID: resolved from /stores\n")
	}
	fmt.Fprintf(&b, "   Rate limit: %.1f requests/second\n\n", d.opts.RateLimit)

	stores, err := d.accessor.GetStores(ctx)
	if err != nil {
		d.logger.Warn("connection test: stores failed", zap.String("category", storehub.Category(err)), zap.Error(err))
		fmt.Fprintf(&b, "   Stores: FAILED (%s)\n", FormatError(err))
		return b.String()
	}
	fmt.Fprintf(&b, "   Stores: OK, %d store(s) accessible\n", len(stores))

	today := d.now().UTC().Format("2006-01-02")
	sales, err := d.accessor.GetSales(ctx, storehub.SalesQuery{FromDate: today, ToDate: today})
	if err != nil {
		d.logger.Warn("connection test: transactions failed", zap.String("category", storehub.Category(err)), zap.Error(err))
		fmt.Fprintf(&b, "   Transactions today: FAILED (%s)\n", FormatError(err))
		return b.String()
	}
	fmt.Fprintf(&b, "   Transactions today: %d\n", len(sales.Transactions))
	b.WriteString("\nConnection OK.\n")
	return b.String()
}

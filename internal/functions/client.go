// Package functions invokes the backend's serverless functions over HTTP.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/config"
)

var tracer = otel.Tracer("github.com/Additional-Code/funerarias/functions")

// ErrNotConfigured is returned when no functions base URL is set.
var ErrNotConfigured = errors.New("functions base url not configured")

// StatusError reports a non-2xx reply from a function.
type StatusError struct {
	Function string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("function %s status %d: %s", e.Function, e.Status, e.Body)
}

// Client calls named functions.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
	logger  *zap.Logger
}

// Module provides the functions client.
var Module = fx.Provide(NewClient)

// NewClient builds a Client from configuration.
func NewClient(cfg config.Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Functions.BaseURL, "/"),
		key:     cfg.Functions.ServiceKey,
		http:    &http.Client{Timeout: cfg.Functions.Timeout},
		logger:  logger,
	}
}

// Invoke posts payload as JSON to the function name and decodes the reply
// into out when out is non-nil. Failures are returned as is; the caller
// decides whether the action can be repeated.
func (c *Client) Invoke(ctx context.Context, name string, payload, out any) error {
	ctx, span := tracer.Start(ctx, "functions.Invoke", trace.WithAttributes(attribute.String("function.name", name)))
	defer span.End()

	if c.baseURL == "" {
		return ErrNotConfigured
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/v1/"+name, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("apikey", c.key)
		req.Header.Set("Authorization", "Bearer "+c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return fmt.Errorf("call function %s: %w", name, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := &StatusError{Function: name, Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
		span.RecordError(err)
		span.SetStatus(codes.Error, "function failed")
		return err
	}
	if c.logger != nil {
		c.logger.Debug("function invoked", zap.String("function", name), zap.Int("status", resp.StatusCode))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

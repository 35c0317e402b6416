// Package gateway is the single outbound channel to the remote decision
// service. Every call attaches the stored bearer credential, and every
// 401-class response triggers the forced-logout side effect before the
// error reaches the caller, so no caller can observe a stale-authenticated
// state after a rejected token.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credit-intake-client/internal/common/config"
	apperrors "credit-intake-client/internal/common/errors"
	"credit-intake-client/internal/common/logger"
	"credit-intake-client/internal/common/metrics"
	"credit-intake-client/internal/credstore"
)

// Gateway mediates all requests to the decision service.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
	store      credstore.Store
	log        logger.Logger
	tracer     trace.Tracer

	mu             sync.Mutex
	onUnauthorized func()
}

func New(cfg config.APIConfig, store credstore.Store, log logger.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		},
		store:  store,
		log:    log,
		tracer: otel.Tracer("credit-intake-client/gateway"),
	}
}

// SetUnauthorizedHook registers the callback invoked after a 401 response
// has cleared the credential store. The session state machine subscribes
// here; the hook runs before the AuthError is returned to the caller.
func (g *Gateway) SetUnauthorizedHook(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onUnauthorized = fn
}

// Send dispatches one request. body is JSON-encoded when non-nil; a 2xx
// response is decoded into out when out is non-nil.
func (g *Gateway) Send(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, span := g.tracer.Start(ctx, "gateway.send",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		))
	defer span.End()

	start := time.Now()
	err := g.send(ctx, method, path, body, out)
	metrics.GatewayRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	metrics.GatewayRequestsTotal.WithLabelValues(method, path, outcomeLabel(err)).Inc()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (g *Gateway) send(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	token, _ := g.store.Get(ctx)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		// No response arrived: the credential store stays untouched.
		return &apperrors.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		g.forceLogout(ctx, method, path)
		return &apperrors.AuthError{Detail: extractDetail(respBody)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apperrors.ServerError{
			Status: resp.StatusCode,
			Detail: extractDetail(respBody),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}

// forceLogout clears the stored credential and notifies the subscriber.
// Runs even when the caller has lost interest in the response.
func (g *Gateway) forceLogout(ctx context.Context, method, path string) {
	g.log.Warn("credential rejected, forcing logout", map[string]interface{}{
		"method": method,
		"path":   path,
	})
	if err := g.store.Clear(ctx); err != nil {
		g.log.Error("failed to clear credential store", map[string]interface{}{
			"error": err.Error(),
		})
	}
	metrics.ForcedLogoutsTotal.Inc()

	g.mu.Lock()
	hook := g.onUnauthorized
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
}

// extractDetail pulls the server's {"detail": ...} message out of an error
// body. FastAPI-style services send either a string or structured detail;
// anything unreadable yields an empty detail.
func extractDetail(body []byte) string {
	var wrapper struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil || len(wrapper.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(wrapper.Detail, &s); err == nil {
		return s
	}
	return string(wrapper.Detail)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.IsAuth(err):
		return "auth"
	case apperrors.IsNetwork(err):
		return "network"
	default:
		return "server"
	}
}

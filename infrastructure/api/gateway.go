// Package api implements the outbound side of the Echo contract: a
// gateway that attaches the session credential to every request, and a
// typed client for each endpoint.
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
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"echoclient/application/ports"
	apperrors "echoclient/pkg/errors"
)

// Gateway issues every outbound request for the client. Before
// transmission it loads the current credential and, when one is present,
// attaches it as a bearer authorization header; call sites never manage
// the header themselves. The gateway performs zero automatic retries;
// retry policy belongs to the user.
type Gateway struct {
	baseURL     string
	httpClient  *http.Client
	credentials ports.CredentialStore
	logger      *zap.Logger
	timeout     time.Duration
}

// NewGateway creates a gateway for the given base address. timeout bounds
// every request; a request exceeding it surfaces as a transport failure.
func NewGateway(baseURL string, timeout time.Duration, credentials ports.CredentialStore, logger *zap.Logger) *Gateway {
	return &Gateway{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
		credentials: credentials,
		logger:      logger,
		timeout:     timeout,
	}
}

// Do sends one request and decodes a 2xx response body into out when out
// is non-nil. Failures come back classified: TRANSPORT for network or
// timeout problems, AUTH for 401, SERVER for other non-2xx statuses with
// the server's own message when it sent one, MALFORMED for bodies the
// client cannot decode.
func (g *Gateway) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError("encoding request body").WithCause(err)
		}
		reader = bytes.NewReader(data)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return apperrors.NewInternalError("building request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	// The credential is read fresh for every request so a login or
	// logout takes effect immediately, with no call-site involvement.
	if token, ok := g.credentials.Load(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		classified := classifyTransportError(err)
		g.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("requestID", requestID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return classified
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewTransportError("reading response body", err)
	}

	g.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(respBody)),
		zap.Duration("duration", time.Since(start)),
		zap.String("requestID", requestID),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return apperrors.NewMalformedError(
				fmt.Sprintf("decoding %s %s response", method, path), err)
		}
	}
	return nil
}

// classifyTransportError maps low-level client errors onto the TRANSPORT
// taxonomy, distinguishing timeouts from unreachable hosts in the message.
func classifyTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return apperrors.NewTransportError("request timed out", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTransportError("request timed out", err)
	}
	return apperrors.NewTransportError("network unreachable", err)
}

// errorFromResponse turns a non-2xx response into the right error type,
// passing the server's message through verbatim when present.
func errorFromResponse(status int, body []byte) error {
	var payload errorPayload
	_ = json.Unmarshal(body, &payload) // a non-JSON error body just means no server text

	if status == http.StatusUnauthorized {
		return apperrors.NewAuthError(payload.text())
	}
	return apperrors.NewServerError(status, payload.text())
}

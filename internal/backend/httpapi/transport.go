package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"tidyup/internal/service"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Transport sends JSON requests to the API base URL and classifies failures.
// It attaches the stored bearer token when one is available. A 401 is
// reported as service.ErrAuth and nothing else: session teardown belongs to
// the session store.
type Transport struct {
	baseURL string
	client  *http.Client
	tokens  oauth2.TokenSource
	logger  *slog.Logger
}

// NewTransport creates a transport. tokens may be nil for unauthenticated use.
func NewTransport(baseURL string, client *http.Client, tokens oauth2.TokenSource, logger *slog.Logger) *Transport {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		tokens:  tokens,
		logger:  logger,
	}
}

// Send performs method on path. body is JSON-encoded when non-nil; the
// response is decoded into out when out is non-nil and the body is not empty.
func (t *Transport) Send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	t.authorize(req)

	t.logger.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := t.client.Do(req)
	if err != nil {
		return &service.Error{Kind: service.ErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	t.logger.Debug("api response", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	if err := googleapi.CheckResponse(resp); err != nil {
		return classify(err)
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &service.Error{Kind: service.ErrNetwork, Status: resp.StatusCode, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &service.Error{Kind: service.ErrServer, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}

func (t *Transport) authorize(req *http.Request) {
	if t.tokens == nil {
		return
	}
	tok, err := t.tokens.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		return
	}
	tok.SetAuthHeader(req)
}

// classify maps a googleapi error onto the service error taxonomy.
func classify(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &service.Error{Kind: service.ErrServer, Err: err}
	}

	kind := service.ErrServer
	switch gerr.Code {
	case http.StatusUnauthorized:
		kind = service.ErrAuth
	case http.StatusNotFound:
		kind = service.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		kind = service.ErrValidation
	}
	return &service.Error{
		Kind:    kind,
		Status:  gerr.Code,
		Message: errorMessage(gerr),
	}
}

// errorMessage prefers the structured message, then a plain {"error": "..."}
// body, then nothing.
func errorMessage(gerr *googleapi.Error) string {
	if gerr.Message != "" {
		return gerr.Message
	}
	var plain struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal([]byte(gerr.Body), &plain) == nil {
		if plain.Error != "" {
			return plain.Error
		}
		return plain.Message
	}
	return ""
}

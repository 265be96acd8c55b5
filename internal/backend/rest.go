package backend

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

	"github.com/kedaya2025/FastNav/internal/domain"
)

// REST talks to a PostgREST-compatible proxy in front of the same schema.
// A nil *REST fails every call with ErrNotConfigured.
type REST struct {
	base    *url.URL
	key     string
	timeout time.Duration
	client  *http.Client
}

// NewREST builds the proxy client. endpoint is the project URL; the
// /rest/v1 prefix is appended.
func NewREST(endpoint, key string, timeout time.Duration, client *http.Client) (*REST, error) {
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse rest endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("rest endpoint must be http(s), got %q", endpoint)
	}
	u.Path += "/rest/v1"
	if client == nil {
		client = &http.Client{}
	}
	return &REST{base: u, key: key, timeout: timeout, client: client}, nil
}

func (r *REST) Kind() Kind { return KindREST }

func (r *REST) Close() {
	if r != nil && r.client != nil {
		r.client.CloseIdleConnections()
	}
}

func (r *REST) HealthCheck(ctx context.Context) bool {
	if r == nil {
		return false
	}
	err := r.Do(ctx, Request{
		Method: http.MethodGet,
		Table:  "categories",
		Query:  url.Values{"select": {"id"}, "limit": {"1"}},
	}, nil)
	return err == nil
}

// Request is one call against a table resource.
type Request struct {
	Method string
	Table  string
	Query  url.Values
	Body   any
	Prefer []string
}

// Do performs req under the call timeout and decodes a 2xx JSON body into out
// when out is non-nil. Failures are classified into the domain taxonomy.
func (r *REST) Do(ctx context.Context, req Request, out any) error {
	if r == nil {
		return ErrNotConfigured
	}
	ctx, cancel := scope(ctx, r.timeout)
	defer cancel()

	target := *r.base
	target.Path += "/" + req.Table
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", req.Table, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", req.Table, err)
	}
	httpReq.Header.Set("apikey", r.key)
	httpReq.Header.Set("Authorization", "Bearer "+r.key)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if len(req.Prefer) > 0 {
		httpReq.Header.Set("Prefer", strings.Join(req.Prefer, ","))
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrConnection, req.Method, req.Table, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", domain.ErrConnection, req.Table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyREST(resp.StatusCode, payload)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &domain.BackendError{Cause: domain.CauseUnknown, Message: "decode " + req.Table + " response", Err: err}
	}
	return nil
}

type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func classifyREST(status int, payload []byte) error {
	var re restError
	_ = json.Unmarshal(payload, &re)
	if re.Message == "" {
		re.Message = strings.TrimSpace(string(payload))
	}
	if re.Message == "" {
		re.Message = http.StatusText(status)
	}

	if re.Code != "" {
		return codeError(re.Code, re.Message, re.Details, errors.New(re.Message))
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden,
		http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d: %s", domain.ErrConnection, status, re.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, re.Message)
	}
	return &domain.BackendError{Cause: domain.CauseUnknown, Code: fmt.Sprint(status), Message: re.Message}
}

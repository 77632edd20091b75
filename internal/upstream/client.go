package upstream

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

	"go.uber.org/zap"

	"github.com/lusoedu/sge-console/internal/models"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// TokenSource supplies the platform bearer credential. It is consulted at
// call time for every request, never captured at construction, so a token
// refresh elsewhere is observed by the next request.
type TokenSource interface {
	Credential() models.Credential
}

// Client is the console's HTTP binding to the school-management platform
// API. It owns error normalisation: structured {detail} rejections keep
// their message, 401/403 become auth errors, transport failures become
// upstream-unreachable.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.Logger

	// Observe, when set, receives per-request metrics.
	Observe func(method, path string, status int, elapsed time.Duration)
}

// New builds a client for the given base URL.
func New(baseURL string, timeout time.Duration, tokens TokenSource, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// detailBody is the platform's structured error payload.
type detailBody struct {
	Detail string `json:"detail"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	cred := c.credential()
	if cred.Token == "" {
		return appErrors.ErrTokenMissing
	}
	if !cred.Valid(time.Now()) {
		return appErrors.ErrSessionExpired
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode request body")
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), payload)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.log.Warn("upstream_unreachable", zap.String("method", method), zap.String("path", path), zap.Error(err))
		if c.Observe != nil {
			c.Observe(method, path, 0, elapsed)
		}
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnreachable.Code, appErrors.ErrUpstreamUnreachable.Status, appErrors.ErrUpstreamUnreachable.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	if c.Observe != nil {
		c.Observe(method, path, resp.StatusCode, elapsed)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.rejection(method, path, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstreamRejected.Code, appErrors.ErrUpstreamRejected.Status, "malformed platform response")
	}
	return nil
}

// rejection turns a non-2xx platform response into a typed error, preferring
// the structured detail message over a generic one when present.
func (c *Client) rejection(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var detail detailBody
	_ = json.Unmarshal(raw, &detail)

	message := detail.Detail
	c.log.Info("upstream_rejected",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("detail", message),
	)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return appErrors.Clone(appErrors.ErrUnauthorized, message)
	case http.StatusForbidden:
		return appErrors.Clone(appErrors.ErrForbidden, message)
	case http.StatusNotFound:
		if message == "" {
			message = appErrors.ErrNotFound.Message
		}
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	if message == "" {
		message = fmt.Sprintf("platform returned status %d", resp.StatusCode)
	}
	return appErrors.Clone(appErrors.ErrUpstreamRejected, message)
}

func (c *Client) credential() models.Credential {
	if c.tokens == nil {
		return models.Credential{}
	}
	return c.tokens.Credential()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

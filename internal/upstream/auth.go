package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lusoedu/sge-console/internal/models"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// Login exchanges credentials for a platform bearer token. The token
// endpoint takes a form-encoded body and needs no prior credential.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.TokenResponse, error) {
	form := url.Values{
		"username": []string{req.Username},
		"password": []string{req.Password},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/auth/token", nil), strings.NewReader(form.Encode()))
	if err != nil {
		return models.TokenResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if c.Observe != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.Observe(http.MethodPost, "/auth/token", status, time.Since(start))
	}
	if err != nil {
		c.log.Warn("upstream_unreachable", zap.String("path", "/auth/token"), zap.Error(err))
		return models.TokenResponse{}, appErrors.Wrap(err, appErrors.ErrUpstreamUnreachable.Code, appErrors.ErrUpstreamUnreachable.Status, appErrors.ErrUpstreamUnreachable.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.TokenResponse{}, c.rejection(http.MethodPost, "/auth/token", resp)
	}

	var token models.TokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&token); err != nil {
		return models.TokenResponse{}, appErrors.Wrap(err, appErrors.ErrUpstreamRejected.Code, appErrors.ErrUpstreamRejected.Status, "malformed token response")
	}
	if token.AccessToken == "" {
		return models.TokenResponse{}, appErrors.Clone(appErrors.ErrUnauthorized, "platform returned no token")
	}
	return token, nil
}

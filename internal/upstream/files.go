package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// ImportResult echoes the platform's bulk-import summary.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportStudents forwards a roster spreadsheet to the platform's bulk
// import endpoint as multipart/form-data.
func (c *Client) ImportStudents(ctx context.Context, filename string, file io.Reader) (ImportResult, error) {
	cred := c.credential()
	if cred.Token == "" {
		return ImportResult{}, appErrors.ErrTokenMissing
	}
	if !cred.Valid(time.Now()) {
		return ImportResult{}, appErrors.ErrSessionExpired
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return ImportResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build multipart body")
	}
	if _, err := io.Copy(part, file); err != nil {
		return ImportResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "read upload")
	}
	if err := writer.Close(); err != nil {
		return ImportResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "finalise multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/students/import", nil), body)
	if err != nil {
		return ImportResult{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+cred.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("upstream_unreachable", zap.String("path", "/students/import"), zap.Error(err))
		return ImportResult{}, appErrors.Wrap(err, appErrors.ErrUpstreamUnreachable.Code, appErrors.ErrUpstreamUnreachable.Status, appErrors.ErrUpstreamUnreachable.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ImportResult{}, c.rejection(http.MethodPost, "/students/import", resp)
	}

	var result ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ImportResult{}, appErrors.Wrap(err, appErrors.ErrUpstreamRejected.Code, appErrors.ErrUpstreamRejected.Status, "malformed import response")
	}
	return result, nil
}

package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lusoedu/sge-console/internal/models"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
)

// ListClasses fetches every turma across school years.
func (c *Client) ListClasses(ctx context.Context) ([]models.ClassSummary, error) {
	var out []models.ClassSummary
	if err := c.get(ctx, "/turmas/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClassDetails fetches the full detail payload for one class.
func (c *Client) ClassDetails(ctx context.Context, classID int) (models.ClassDetails, error) {
	var out models.ClassDetails
	if err := c.get(ctx, fmt.Sprintf("/turmas/%d/details", classID), nil, &out); err != nil {
		return models.ClassDetails{}, err
	}
	return out, nil
}

// SaveClassGrade writes one row of the class grade grid. The platform
// recomputes the final column; callers must refetch details afterwards.
func (c *Client) SaveClassGrade(ctx context.Context, classID int, draft models.ClassGradeDraft) error {
	return c.post(ctx, fmt.Sprintf("/turmas/%d/notas", classID), draft, nil)
}

// SaveClassTeachers replaces a class's discipline-teacher assignments.
func (c *Client) SaveClassTeachers(ctx context.Context, classID int, assignments []models.TeacherAssignmentDraft) error {
	payload := map[string]interface{}{"professores": assignments}
	return c.put(ctx, fmt.Sprintf("/turmas/%d/professores", classID), payload, nil)
}

// RunGlobalTransition triggers the platform's year-end transition. The
// platform enforces the promotion rules and rejects with a detail message
// when grades are missing.
func (c *Client) RunGlobalTransition(ctx context.Context) (models.TransitionResult, error) {
	var out models.TransitionResult
	if err := c.post(ctx, "/turmas/transitar-global", map[string]interface{}{}, &out); err != nil {
		return models.TransitionResult{}, err
	}
	return out, nil
}

// ExportClass streams the platform's spreadsheet export for a class. The
// caller owns the returned reader; content type and filename come from the
// platform's headers.
func (c *Client) ExportClass(ctx context.Context, classID int) (io.ReadCloser, string, error) {
	cred := c.credential()
	if cred.Token == "" {
		return nil, "", appErrors.ErrTokenMissing
	}
	if !cred.Valid(time.Now()) {
		return nil, "", appErrors.ErrSessionExpired
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(fmt.Sprintf("/turmas/%d/export", classID), nil), nil)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("upstream_unreachable", zap.String("path", req.URL.Path), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrUpstreamUnreachable.Code, appErrors.ErrUpstreamUnreachable.Status, appErrors.ErrUpstreamUnreachable.Message)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close() //nolint:errcheck
		return nil, "", c.rejection(http.MethodGet, req.URL.Path, resp)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

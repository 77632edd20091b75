package handler

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lusoedu/sge-console/internal/datasync"
	"github.com/lusoedu/sge-console/internal/middleware"
	"github.com/lusoedu/sge-console/internal/screen"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
	"github.com/lusoedu/sge-console/pkg/response"
)

// workspaceFrom resolves the request's workspace or writes the error response.
func workspaceFrom(c *gin.Context) (*screen.Workspace, bool) {
	ws, ok := middleware.Workspace(c)
	if !ok {
		response.Error(c, appErrors.ErrSessionExpired)
	}
	return ws, ok
}

func intParam(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil || value <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid "+name))
		return 0, false
	}
	return value, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// draftState reports a session's lifecycle back to the browser: the current
// draft copy, open/submitting state, and the last validation or submit error.
func draftState[D any](s *datasync.Session[D]) gin.H {
	out := gin.H{"state": s.State()}
	if s.State() != datasync.StateClosed {
		out["mode"] = s.Mode()
	}
	if draft, open := s.Draft(); open {
		out["draft"] = draft
	}
	if err := s.Err(); err != nil {
		out["error"] = appErrors.FromError(err).Message
	}
	return out
}

// patchSession applies a partial JSON body onto the open draft: absent fields
// keep their current value.
func patchSession[D any](c *gin.Context, s *datasync.Session[D]) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "unreadable draft body")
	}
	if !json.Valid(raw) {
		return appErrors.Clone(appErrors.ErrValidation, "draft body is not valid JSON")
	}
	return s.Update(func(d *D) {
		_ = json.Unmarshal(raw, d)
	})
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lusoedu/sge-console/internal/screen"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
	"github.com/lusoedu/sge-console/pkg/response"
)

// SessionHeader carries the opaque workspace id issued at login.
const SessionHeader = "X-Console-Session"

// ContextWorkspaceKey stores the resolved workspace in the gin context.
const ContextWorkspaceKey = "console_workspace"

// Session resolves the request's workspace from the session header. Requests
// without a live workspace are rejected before any handler runs.
func Session(registry *screen.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			response.Error(c, appErrors.ErrTokenMissing)
			c.Abort()
			return
		}
		ws, ok := registry.Get(id)
		if !ok {
			response.Error(c, appErrors.ErrSessionExpired)
			c.Abort()
			return
		}
		c.Set(ContextWorkspaceKey, ws)
		c.Next()
	}
}

// Workspace extracts the resolved workspace from the gin context.
func Workspace(c *gin.Context) (*screen.Workspace, bool) {
	value, exists := c.Get(ContextWorkspaceKey)
	if !exists {
		return nil, false
	}
	ws, ok := value.(*screen.Workspace)
	return ws, ok
}

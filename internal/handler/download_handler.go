package handler

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	appErrors "github.com/lusoedu/sge-console/pkg/errors"
	"github.com/lusoedu/sge-console/pkg/response"
	"github.com/lusoedu/sge-console/pkg/storage"
)

// DownloadHandler serves staged exports through signed URLs. Downloads are
// deliberately outside the session middleware: the browser opens them in a
// new tab without custom headers, and the token itself is the authorisation.
type DownloadHandler struct {
	store  *storage.LocalStorage
	signer *storage.DownloadSigner
}

// NewDownloadHandler constructs the handler.
func NewDownloadHandler(store *storage.LocalStorage, signer *storage.DownloadSigner) *DownloadHandler {
	return &DownloadHandler{store: store, signer: signer}
}

// Get streams a staged file referenced by a signed token.
func (h *DownloadHandler) Get(c *gin.Context) {
	if h.store == nil || h.signer == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export staging is not configured"))
		return
	}
	_, relPath, _, err := h.signer.Parse(c.Param("token"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download link"))
		return
	}
	file, err := h.store.Open(relPath)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "export no longer available"))
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", `attachment; filename="`+filepath.Base(relPath)+`"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, file)
}

package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lusoedu/sge-console/internal/models"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
	"github.com/lusoedu/sge-console/pkg/response"
	"github.com/lusoedu/sge-console/pkg/storage"
)

// ClassesHandler exposes the turmas screen over HTTP. Spreadsheet exports
// are staged on disk and collected through a signed download URL.
type ClassesHandler struct {
	store  *storage.LocalStorage
	signer *storage.DownloadSigner
}

// NewClassesHandler constructs the handler.
func NewClassesHandler(store *storage.LocalStorage, signer *storage.DownloadSigner) *ClassesHandler {
	return &ClassesHandler{store: store, signer: signer}
}

// List godoc
// @Summary Class lookup across school years
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /screens/classes [get]
func (h *ClassesHandler) List(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	items, err := ws.Classes.Classes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Details selects a class and returns its detail payload.
func (h *ClassesHandler) Details(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	classID, ok := intParam(c, "id")
	if !ok {
		return
	}
	_ = ws.Classes.Select(c.Request.Context(), classID)
	details, state, loaded := ws.Classes.Details()
	meta := map[string]interface{}{"list_state": state}
	if !loaded {
		response.JSON(c, http.StatusOK, nil, nil, meta)
		return
	}
	response.JSON(c, http.StatusOK, details, nil, meta)
}

// Refresh refetches the selected class's details.
func (h *ClassesHandler) Refresh(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	_ = ws.Classes.Refresh(c.Request.Context())
	details, state, loaded := ws.Classes.Details()
	meta := map[string]interface{}{"list_state": state}
	if !loaded {
		response.JSON(c, http.StatusOK, nil, nil, meta)
		return
	}
	response.JSON(c, http.StatusOK, details, nil, meta)
}

// OpenDraft opens the grade-row or teacher-assignment dialog.
func (h *ClassesHandler) OpenDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	switch c.Param("draft") {
	case "grade":
		var seed models.ClassGradeDraft
		_ = c.ShouldBindJSON(&seed)
		ws.Classes.GradeRow.OpenEdit(seed)
		response.JSON(c, http.StatusOK, draftState(ws.Classes.GradeRow), nil)
	case "teachers":
		details, _, loaded := ws.Classes.Details()
		seed := models.TeacherAssignmentsDraft{}
		if loaded {
			for _, t := range details.Teachers {
				seed.Assignments = append(seed.Assignments, models.TeacherAssignmentDraft{
					DisciplineID: t.DisciplineID,
					TeacherID:    t.TeacherID,
				})
			}
		}
		ws.Classes.Teachers.OpenEdit(seed)
		response.JSON(c, http.StatusOK, draftState(ws.Classes.Teachers), nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
	}
}

// PatchDraft applies a partial field update to the open dialog.
func (h *ClassesHandler) PatchDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	switch c.Param("draft") {
	case "grade":
		if err := patchSession(c, ws.Classes.GradeRow); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Classes.GradeRow), nil)
	case "teachers":
		var next models.TeacherAssignmentsDraft
		if err := c.ShouldBindJSON(&next); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "malformed draft body"))
			return
		}
		if err := ws.Classes.PatchTeachers(next); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Classes.Teachers), nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
	}
}

// SubmitDraft validates and submits the open dialog.
func (h *ClassesHandler) SubmitDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	switch c.Param("draft") {
	case "grade":
		if err := ws.Classes.SubmitGradeRow(ctx); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Classes.GradeRow), nil)
	case "teachers":
		if err := ws.Classes.SubmitTeachers(ctx); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Classes.Teachers), nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
	}
}

// CancelDraft discards the open dialog.
func (h *ClassesHandler) CancelDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	switch c.Param("draft") {
	case "grade":
		ws.Classes.GradeRow.Cancel()
	case "teachers":
		ws.Classes.Teachers.Cancel()
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
		return
	}
	response.NoContent(c)
}

// Transition runs the platform's year-end promotion across every class.
func (h *ClassesHandler) Transition(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	result, err := ws.Classes.Transition(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Export stages the platform's spreadsheet for the selected class and
// returns a signed, time-limited download URL.
func (h *ClassesHandler) Export(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	if h.store == nil || h.signer == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "export staging is not configured"))
		return
	}

	stream, contentType, err := ws.Classes.Export(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	defer stream.Close() //nolint:errcheck

	exportID := uuid.NewString()
	relPath := fmt.Sprintf("turmas/%d/%s.xlsx", ws.Classes.Selected(), exportID)
	if _, err := h.store.SaveStream(relPath, stream); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stage export"))
		return
	}

	token, expiresAt, err := h.signer.Generate(exportID, relPath)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign export"))
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"download_url": "/downloads/" + token,
		"content_type": contentType,
		"expires_at":   expiresAt,
	}, nil)
}

// Close discards the screen's state.
func (h *ClassesHandler) Close(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Classes.Close()
	response.NoContent(c)
}

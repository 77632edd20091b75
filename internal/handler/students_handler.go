package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lusoedu/sge-console/internal/models"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
	"github.com/lusoedu/sge-console/pkg/export"
	"github.com/lusoedu/sge-console/pkg/response"
)

// StudentsHandler exposes the roster screen over HTTP. All state lives in
// the request's workspace; the handler translates between the envelope
// contract and the screen controller.
type StudentsHandler struct{}

// NewStudentsHandler constructs the handler.
func NewStudentsHandler() *StudentsHandler {
	return &StudentsHandler{}
}

// List godoc
// @Summary Projected student roster
// @Tags Students
// @Produce json
// @Param search query string false "Search term (debounced server-side)"
// @Param page query int false "Page (1-based)"
// @Success 200 {object} response.Envelope
// @Router /screens/students [get]
func (h *StudentsHandler) List(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	if _, exists := c.GetQuery("page"); exists {
		ws.Students.SetPage(intQuery(c, "page", 1))
	}
	// a changed search term wins over the requested page
	if search, exists := c.GetQuery("search"); exists {
		ws.Students.Search(search)
	}
	if _, _, state := ws.Students.View(); !state.Loaded && state.Error == "" {
		_ = ws.Students.Load(c.Request.Context())
	}
	rows, pagination, state := ws.Students.View()
	response.JSON(c, http.StatusOK, rows, &pagination, map[string]interface{}{"list_state": state})
}

// Refresh retries the roster read immediately, bypassing the debounce window.
func (h *StudentsHandler) Refresh(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	_ = ws.Students.Refresh(c.Request.Context())
	rows, pagination, state := ws.Students.View()
	response.JSON(c, http.StatusOK, rows, &pagination, map[string]interface{}{"list_state": state})
}

// Grades selects a student and returns their grade history, optionally
// narrowed to one school year.
func (h *StudentsHandler) Grades(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	studentID, ok := intParam(c, "id")
	if !ok {
		return
	}
	_ = ws.Students.Select(c.Request.Context(), studentID)
	rows, state := ws.Students.Grades(c.Query("ano_letivo"))
	response.JSON(c, http.StatusOK, rows, nil, map[string]interface{}{"list_state": state})
}

// Disciplines serves the grade dialog's subject lookup.
func (h *StudentsHandler) Disciplines(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	items, err := ws.Students.Disciplines(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// OpenDraft opens one of the screen's dialogs: create, profile or grade.
func (h *StudentsHandler) OpenDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	var body struct {
		StudentID int `json:"student_id"`
		GradeID   int `json:"grade_id"`
	}
	_ = c.ShouldBindJSON(&body)

	switch c.Param("draft") {
	case "create":
		ws.Students.Create.OpenCreate(models.StudentCreateDraft{})
		response.JSON(c, http.StatusOK, draftState(ws.Students.Create), nil)
	case "profile":
		if err := ws.Students.OpenProfile(body.StudentID); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Students.Profile), nil)
	case "grade":
		if err := ws.Students.OpenGrade(body.GradeID); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Students.Grade), nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
	}
}

// PatchDraft applies a partial field update to the open dialog.
func (h *StudentsHandler) PatchDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	var err error
	switch c.Param("draft") {
	case "create":
		if err = patchSession(c, ws.Students.Create); err == nil {
			response.JSON(c, http.StatusOK, draftState(ws.Students.Create), nil)
			return
		}
	case "profile":
		if err = patchSession(c, ws.Students.Profile); err == nil {
			response.JSON(c, http.StatusOK, draftState(ws.Students.Profile), nil)
			return
		}
	case "grade":
		if err = patchSession(c, ws.Students.Grade); err == nil {
			response.JSON(c, http.StatusOK, draftState(ws.Students.Grade), nil)
			return
		}
	default:
		err = appErrors.Clone(appErrors.ErrValidation, "unknown draft")
	}
	response.Error(c, err)
}

// SubmitDraft validates and submits the open dialog.
func (h *StudentsHandler) SubmitDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	switch c.Param("draft") {
	case "create":
		if err := ws.Students.SubmitCreate(ctx); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Students.Create), nil)
	case "profile":
		if err := ws.Students.SubmitProfile(ctx); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Students.Profile), nil)
	case "grade":
		if err := ws.Students.SubmitGrade(ctx); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Students.Grade), nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
	}
}

// CancelDraft discards the open dialog with no side effects.
func (h *StudentsHandler) CancelDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	switch c.Param("draft") {
	case "create":
		ws.Students.Create.Cancel()
	case "profile":
		ws.Students.Profile.Cancel()
	case "grade":
		ws.Students.Grade.Cancel()
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
		return
	}
	response.NoContent(c)
}

// Delete removes a student.
func (h *StudentsHandler) Delete(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := ws.Students.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteGrade removes a grade row.
func (h *StudentsHandler) DeleteGrade(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := ws.Students.DeleteGrade(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export renders the current roster as CSV or PDF.
func (h *StudentsHandler) Export(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	dataset := export.Dataset{Headers: []string{"Nome", "Turma", "Encarregado", "Telefone"}}
	for _, st := range ws.Students.Rows() {
		dataset.AddRow(map[string]string{
			"Nome":        st.Name,
			"Turma":       st.ClassLabel,
			"Encarregado": st.GuardianName,
			"Telefone":    st.Phone,
		})
	}
	sendDataset(c, dataset, "alunos", "Alunos")
}

// Import forwards a roster spreadsheet to the platform's bulk import.
func (h *StudentsHandler) Import(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file upload is required"))
		return
	}
	defer file.Close() //nolint:errcheck

	result, err := ws.Students.Import(c.Request.Context(), header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Close discards the screen's state (unmount).
func (h *StudentsHandler) Close(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Students.Close()
	response.NoContent(c)
}

// sendDataset writes a rendered export directly to the response.
func sendDataset(c *gin.Context, dataset export.Dataset, basename, title string) {
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, err := dataset.RenderCSV()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render csv"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", basename+".csv"))
		c.Data(http.StatusOK, "text/csv", data)
	case "pdf":
		data, err := dataset.RenderPDF(title)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf"))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", basename+".pdf"))
		c.Data(http.StatusOK, "application/pdf", data)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

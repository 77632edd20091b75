package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/pkg/export"
	"github.com/lusoedu/sge-console/pkg/response"
)

// StaffHandler exposes the collaborators screen over HTTP.
type StaffHandler struct{}

// NewStaffHandler constructs the handler.
func NewStaffHandler() *StaffHandler {
	return &StaffHandler{}
}

// List godoc
// @Summary Projected staff roster
// @Tags Staff
// @Produce json
// @Param search query string false "Local search over name and email"
// @Param role query string false "Exact role filter"
// @Param page query int false "Page (1-based)"
// @Success 200 {object} response.Envelope
// @Router /screens/staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	if _, exists := c.GetQuery("page"); exists {
		ws.Staff.SetPage(intQuery(c, "page", 1))
	}
	// a changed filter wins over the requested page
	ws.Staff.SetFilters(c.Query("search"), c.Query("role"))
	if _, _, state := ws.Staff.View(); !state.Loaded && state.Error == "" {
		_ = ws.Staff.Load(c.Request.Context())
	}
	rows, pagination, state := ws.Staff.View()
	response.JSON(c, http.StatusOK, rows, &pagination, map[string]interface{}{"list_state": state})
}

// Refresh retries the staff read.
func (h *StaffHandler) Refresh(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	if _, exists := c.GetQuery("page"); exists {
		ws.Staff.SetPage(intQuery(c, "page", 1))
	}
	ws.Staff.SetFilters(c.Query("search"), c.Query("role"))
	_ = ws.Staff.Load(c.Request.Context())
	rows, pagination, state := ws.Staff.View()
	response.JSON(c, http.StatusOK, rows, &pagination, map[string]interface{}{"list_state": state})
}

// Departments serves the dialog's department lookup.
func (h *StaffHandler) Departments(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	items, err := ws.Staff.Departments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// OpenDraft opens the new-collaborator dialog.
func (h *StaffHandler) OpenDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Staff.Create.OpenCreate(models.StaffDraft{Role: "staff"})
	response.JSON(c, http.StatusOK, draftState(ws.Staff.Create), nil)
}

// PatchDraft applies a partial field update.
func (h *StaffHandler) PatchDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	if err := patchSession(c, ws.Staff.Create); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draftState(ws.Staff.Create), nil)
}

// SubmitDraft validates and submits the dialog.
func (h *StaffHandler) SubmitDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	if err := ws.Staff.SubmitCreate(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draftState(ws.Staff.Create), nil)
}

// CancelDraft discards the dialog.
func (h *StaffHandler) CancelDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Staff.Create.Cancel()
	response.NoContent(c)
}

// Export renders the current filtered staff view as CSV or PDF.
func (h *StaffHandler) Export(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	dataset := export.Dataset{Headers: []string{"Nome", "Email", "Cargo", "Perfil"}}
	for _, m := range ws.Staff.Filtered(c.Query("search"), c.Query("role")) {
		dataset.AddRow(map[string]string{
			"Nome":   m.Name,
			"Email":  m.Email,
			"Cargo":  m.Position,
			"Perfil": m.Role,
		})
	}
	sendDataset(c, dataset, "colaboradores", "Colaboradores")
}

// Close discards the screen's state.
func (h *StaffHandler) Close(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Staff.Close()
	response.NoContent(c)
}

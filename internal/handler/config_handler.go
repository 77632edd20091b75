package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lusoedu/sge-console/internal/models"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
	"github.com/lusoedu/sge-console/pkg/response"
)

// ConfigHandler exposes the school-structure screen: one CRUD surface
// instantiated per kind (disciplinas, departamentos, escaloes).
type ConfigHandler struct{}

// NewConfigHandler constructs the handler.
func NewConfigHandler() *ConfigHandler {
	return &ConfigHandler{}
}

func configKind(c *gin.Context) (models.ConfigKind, bool) {
	kind := models.ConfigKind(c.Param("kind"))
	if !models.ValidConfigKind(kind) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown config kind"))
		return "", false
	}
	return kind, true
}

// List godoc
// @Summary School-structure records for one tab
// @Tags Config
// @Produce json
// @Param kind path string true "disciplinas | departamentos | escaloes"
// @Param search query string false "Local search over the name"
// @Success 200 {object} response.Envelope
// @Router /screens/config/{kind} [get]
func (h *ConfigHandler) List(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	kind, ok := configKind(c)
	if !ok {
		return
	}
	if _, state, _ := ws.Structure.View(kind, ""); !state.Loaded && state.Error == "" {
		_ = ws.Structure.Load(c.Request.Context(), kind)
	}
	rows, state, err := ws.Structure.View(kind, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, map[string]interface{}{"list_state": state})
}

// Refresh retries one tab's read.
func (h *ConfigHandler) Refresh(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	kind, ok := configKind(c)
	if !ok {
		return
	}
	_ = ws.Structure.Load(c.Request.Context(), kind)
	rows, state, err := ws.Structure.View(kind, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil, map[string]interface{}{"list_state": state})
}

// Departments serves the discipline dialog's department lookup.
func (h *ConfigHandler) Departments(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	items, err := ws.Structure.Departments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// OpenDraft opens the create or edit dialog for one tab.
func (h *ConfigHandler) OpenDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	kind, ok := configKind(c)
	if !ok {
		return
	}
	var body struct {
		ID int `json:"id"`
	}
	_ = c.ShouldBindJSON(&body)

	var err error
	if body.ID != 0 {
		err = ws.Structure.OpenEdit(kind, body.ID)
	} else {
		err = ws.Structure.OpenCreate(kind)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draftState(ws.Structure.Draft), nil)
}

// PatchDraft applies a partial field update to the open dialog.
func (h *ConfigHandler) PatchDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	if err := patchSession(c, ws.Structure.Draft); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draftState(ws.Structure.Draft), nil)
}

// SubmitDraft validates and submits the open dialog.
func (h *ConfigHandler) SubmitDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	if err := ws.Structure.Submit(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, draftState(ws.Structure.Draft), nil)
}

// CancelDraft discards the open dialog.
func (h *ConfigHandler) CancelDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Structure.Draft.Cancel()
	response.NoContent(c)
}

// Delete removes a record from one tab.
func (h *ConfigHandler) Delete(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	kind, ok := configKind(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := ws.Structure.Delete(c.Request.Context(), kind, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Close discards the screen's state.
func (h *ConfigHandler) Close(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Structure.Close()
	response.NoContent(c)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lusoedu/sge-console/pkg/response"
)

// ReferenceHandler exposes the read-only screens: dashboard, consultas and
// AI insights.
type ReferenceHandler struct{}

// NewReferenceHandler constructs the handler.
func NewReferenceHandler() *ReferenceHandler {
	return &ReferenceHandler{}
}

// Dashboard godoc
// @Summary Landing-page summary
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /screens/dashboard [get]
func (h *ReferenceHandler) Dashboard(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	if _, state, _ := ws.Dashboard.Stats(); !state.Loaded && state.Error == "" {
		_ = ws.Dashboard.Load(c.Request.Context())
	}
	stats, state, loaded := ws.Dashboard.Stats()
	meta := map[string]interface{}{"list_state": state}
	if !loaded {
		response.JSON(c, http.StatusOK, nil, nil, meta)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, meta)
}

// DashboardRefresh retries the summary read.
func (h *ReferenceHandler) DashboardRefresh(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	_ = ws.Dashboard.Load(c.Request.Context())
	h.Dashboard(c)
}

// ConsultasYears serves the school-year dropdown.
func (h *ReferenceHandler) ConsultasYears(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	years, err := ws.Consultas.Years(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, years, nil)
}

// Consultas loads the performance report for one school year.
func (h *ReferenceHandler) Consultas(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	_ = ws.Consultas.SelectYear(c.Request.Context(), c.Query("ano_letivo"))
	report, state, loaded := ws.Consultas.Report()
	meta := map[string]interface{}{"list_state": state}
	if !loaded {
		response.JSON(c, http.StatusOK, nil, nil, meta)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, meta)
}

// Insights loads the AI-insight categories.
func (h *ReferenceHandler) Insights(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	if _, state := ws.Insights.View(); !state.Loaded && state.Error == "" {
		_ = ws.Insights.Load(c.Request.Context())
	}
	categories, state := ws.Insights.View()
	response.JSON(c, http.StatusOK, categories, nil, map[string]interface{}{"list_state": state})
}

// InsightsRefresh retries the insight read.
func (h *ReferenceHandler) InsightsRefresh(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	_ = ws.Insights.Load(c.Request.Context())
	categories, state := ws.Insights.View()
	response.JSON(c, http.StatusOK, categories, nil, map[string]interface{}{"list_state": state})
}

// CloseDashboard discards the dashboard state.
func (h *ReferenceHandler) CloseDashboard(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Dashboard.Close()
	response.NoContent(c)
}

// CloseConsultas discards the consultas state.
func (h *ReferenceHandler) CloseConsultas(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Consultas.Close()
	response.NoContent(c)
}

// CloseInsights discards the insights state.
func (h *ReferenceHandler) CloseInsights(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Insights.Close()
	response.NoContent(c)
}

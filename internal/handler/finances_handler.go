package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/internal/screen"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
	"github.com/lusoedu/sge-console/pkg/response"
)

// FinancesHandler exposes the finance screen over HTTP.
type FinancesHandler struct{}

// NewFinancesHandler constructs the handler.
func NewFinancesHandler() *FinancesHandler {
	return &FinancesHandler{}
}

// financeView is the combined payload the finance page renders.
type financeView struct {
	Balance     *models.Balance     `json:"balanco,omitempty"`
	Investments []models.Investment `json:"investimentos"`
	Expenses    []models.Expense    `json:"despesas"`
}

// View godoc
// @Summary Finance screen payload
// @Tags Finances
// @Produce json
// @Param ano query int false "Calendar year (defaults to current)"
// @Param mes query int false "Month for the monthly balance; 0 selects annual"
// @Success 200 {object} response.Envelope
// @Router /screens/finances [get]
func (h *FinancesHandler) View(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	year := intQuery(c, "ano", time.Now().Year())
	month := intQuery(c, "mes", 0)

	if _, state, _ := ws.Finances.Balance(); !state.Loaded && state.Error == "" {
		_ = ws.Finances.Load(ctx, year)
	}
	if y, m := ws.Finances.Period(); y != year || m != month {
		_ = ws.Finances.SetPeriod(ctx, year, month)
	}
	h.respond(c, ws)
}

// Refresh refetches every finance list.
func (h *FinancesHandler) Refresh(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	year := intQuery(c, "ano", time.Now().Year())
	_ = ws.Finances.Load(c.Request.Context(), year)
	h.respond(c, ws)
}

func (h *FinancesHandler) respond(c *gin.Context, ws *screen.Workspace) {
	balance, balanceState, haveBalance := ws.Finances.Balance()
	investments, investmentsState := ws.Finances.Investments()
	expenses, expensesState := ws.Finances.Expenses()

	view := financeView{Investments: investments, Expenses: expenses}
	if haveBalance {
		view.Balance = &balance
	}
	response.JSON(c, http.StatusOK, view, nil, map[string]interface{}{
		"balance_state":     balanceState,
		"investments_state": investmentsState,
		"expenses_state":    expensesState,
	})
}

// OpenDraft opens the new-funding or new-expense dialog.
func (h *FinancesHandler) OpenDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	switch c.Param("draft") {
	case "investment":
		ws.Finances.Investment.OpenCreate(models.InvestmentDraft{FundingYear: time.Now().Year()})
		response.JSON(c, http.StatusOK, draftState(ws.Finances.Investment), nil)
	case "expense":
		ws.Finances.Expense.OpenCreate(models.ExpenseDraft{})
		response.JSON(c, http.StatusOK, draftState(ws.Finances.Expense), nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
	}
}

// PatchDraft applies a partial field update to the open dialog.
func (h *FinancesHandler) PatchDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	switch c.Param("draft") {
	case "investment":
		if err := patchSession(c, ws.Finances.Investment); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Finances.Investment), nil)
	case "expense":
		if err := patchSession(c, ws.Finances.Expense); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Finances.Expense), nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
	}
}

// SubmitDraft validates and submits the open dialog.
func (h *FinancesHandler) SubmitDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	switch c.Param("draft") {
	case "investment":
		if err := ws.Finances.SubmitInvestment(ctx); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Finances.Investment), nil)
	case "expense":
		if err := ws.Finances.SubmitExpense(ctx); err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, draftState(ws.Finances.Expense), nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
	}
}

// CancelDraft discards the open dialog.
func (h *FinancesHandler) CancelDraft(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	switch c.Param("draft") {
	case "investment":
		ws.Finances.Investment.Cancel()
	case "expense":
		ws.Finances.Expense.Cancel()
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown draft"))
		return
	}
	response.NoContent(c)
}

// DeleteExpense removes an expense; platform dependency refusals surface
// their detail message.
func (h *FinancesHandler) DeleteExpense(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := ws.Finances.DeleteExpense(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Close discards the screen's state.
func (h *FinancesHandler) Close(c *gin.Context) {
	ws, ok := workspaceFrom(c)
	if !ok {
		return
	}
	ws.Finances.Close()
	response.NoContent(c)
}

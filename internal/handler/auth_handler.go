package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lusoedu/sge-console/internal/middleware"
	"github.com/lusoedu/sge-console/internal/models"
	"github.com/lusoedu/sge-console/internal/screen"
	"github.com/lusoedu/sge-console/internal/upstream"
	appErrors "github.com/lusoedu/sge-console/pkg/errors"
	"github.com/lusoedu/sge-console/pkg/jobs"
	"github.com/lusoedu/sge-console/pkg/response"
)

// AuthHandler exchanges console logins for platform tokens and workspaces.
type AuthHandler struct {
	client   *upstream.Client
	registry *screen.Registry
	warmup   *jobs.Queue
	log      *zap.Logger
}

// NewAuthHandler constructs the handler. client needs no token source; the
// login call is the one unauthenticated platform request. warmup, when set,
// preloads the lookup caches right after login.
func NewAuthHandler(client *upstream.Client, registry *screen.Registry, warmup *jobs.Queue, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{client: client, registry: registry, warmup: warmup, log: log}
}

// Login godoc
// @Summary Open a console session
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Platform credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "username and password are required"))
		return
	}
	if req.Username == "" || req.Password == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "username and password are required"))
		return
	}

	token, err := h.client.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	cred := models.ParseCredential(token.AccessToken)
	ws := h.registry.Create(cred)
	h.enqueueWarmup(ws)

	response.JSON(c, http.StatusOK, models.LoginResponse{
		SessionID:   ws.ID,
		TokenExpiry: cred.Expiry,
	}, nil)
}

// Logout godoc
// @Summary Close a console session
// @Tags Auth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if id := c.GetHeader(middleware.SessionHeader); id != "" {
		h.registry.Remove(id)
	}
	response.NoContent(c)
}

// enqueueWarmup preloads the shared lookup caches so the first screen paint
// does not wait on reference reads.
func (h *AuthHandler) enqueueWarmup(ws *screen.Workspace) {
	if h.warmup == nil {
		return
	}
	tasks := []jobs.Task{
		{ID: ws.ID + ":turmas", Name: "warmup_turmas", Run: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			_, err := ws.Classes.Classes(ctx)
			return err
		}},
		{ID: ws.ID + ":disciplinas", Name: "warmup_disciplinas", Run: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			_, err := ws.Students.Disciplines(ctx)
			return err
		}},
		{ID: ws.ID + ":anos-letivos", Name: "warmup_anos_letivos", Run: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			_, err := ws.Consultas.Years(ctx)
			return err
		}},
	}
	for _, task := range tasks {
		if err := h.warmup.Enqueue(task); err != nil {
			h.log.Warn("warmup_enqueue_failed", zap.String("task", task.Name), zap.Error(err))
			return
		}
	}
}

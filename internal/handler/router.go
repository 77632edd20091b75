package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/lusoedu/sge-console/internal/metrics"
	"github.com/lusoedu/sge-console/internal/middleware"
	"github.com/lusoedu/sge-console/internal/screen"
	"github.com/lusoedu/sge-console/internal/upstream"
	"github.com/lusoedu/sge-console/pkg/config"
	"github.com/lusoedu/sge-console/pkg/jobs"
	"github.com/lusoedu/sge-console/pkg/logger"
	corsmiddleware "github.com/lusoedu/sge-console/pkg/middleware/cors"
	reqidmiddleware "github.com/lusoedu/sge-console/pkg/middleware/requestid"
	"github.com/lusoedu/sge-console/pkg/storage"
)

// RouterDeps carries everything the console router wires together.
type RouterDeps struct {
	Config      *config.Config
	Log         *zap.Logger
	Registry    *screen.Registry
	LoginClient *upstream.Client
	Metrics     *metrics.Metrics
	Warmup      *jobs.Queue
	Store       *storage.LocalStorage
	Signer      *storage.DownloadSigner
}

// NewRouter assembles the console's HTTP surface.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Log))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := NewAuthHandler(deps.LoginClient, deps.Registry, deps.Warmup, deps.Log)
	r.POST("/auth/login", auth.Login)
	r.POST("/auth/logout", auth.Logout)

	downloads := NewDownloadHandler(deps.Store, deps.Signer)
	r.GET("/downloads/:token", downloads.Get)

	screens := r.Group("/screens", middleware.Session(deps.Registry))

	students := NewStudentsHandler()
	screens.GET("/students", students.List)
	screens.POST("/students/refresh", students.Refresh)
	screens.GET("/students/:id/grades", students.Grades)
	screens.GET("/students/disciplinas", students.Disciplines)
	screens.POST("/students/drafts/:draft", students.OpenDraft)
	screens.PUT("/students/drafts/:draft", students.PatchDraft)
	screens.POST("/students/drafts/:draft/submit", students.SubmitDraft)
	screens.DELETE("/students/drafts/:draft", students.CancelDraft)
	screens.DELETE("/students/:id", students.Delete)
	screens.DELETE("/students/grades/:id", students.DeleteGrade)
	screens.GET("/students/export", students.Export)
	screens.POST("/students/import", students.Import)
	screens.POST("/students/close", students.Close)

	staff := NewStaffHandler()
	screens.GET("/staff", staff.List)
	screens.POST("/staff/refresh", staff.Refresh)
	screens.GET("/staff/departamentos", staff.Departments)
	screens.POST("/staff/drafts/create", staff.OpenDraft)
	screens.PUT("/staff/drafts/create", staff.PatchDraft)
	screens.POST("/staff/drafts/create/submit", staff.SubmitDraft)
	screens.DELETE("/staff/drafts/create", staff.CancelDraft)
	screens.GET("/staff/export", staff.Export)
	screens.POST("/staff/close", staff.Close)

	classes := NewClassesHandler(deps.Store, deps.Signer)
	screens.GET("/classes", classes.List)
	screens.GET("/classes/:id/details", classes.Details)
	screens.POST("/classes/refresh", classes.Refresh)
	screens.POST("/classes/drafts/:draft", classes.OpenDraft)
	screens.PUT("/classes/drafts/:draft", classes.PatchDraft)
	screens.POST("/classes/drafts/:draft/submit", classes.SubmitDraft)
	screens.DELETE("/classes/drafts/:draft", classes.CancelDraft)
	screens.POST("/classes/transition", classes.Transition)
	screens.POST("/classes/export", classes.Export)
	screens.POST("/classes/close", classes.Close)

	finances := NewFinancesHandler()
	screens.GET("/finances", finances.View)
	screens.POST("/finances/refresh", finances.Refresh)
	screens.POST("/finances/drafts/:draft", finances.OpenDraft)
	screens.PUT("/finances/drafts/:draft", finances.PatchDraft)
	screens.POST("/finances/drafts/:draft/submit", finances.SubmitDraft)
	screens.DELETE("/finances/drafts/:draft", finances.CancelDraft)
	screens.DELETE("/finances/despesas/:id", finances.DeleteExpense)
	screens.POST("/finances/close", finances.Close)

	reference := NewReferenceHandler()
	screens.GET("/dashboard", reference.Dashboard)
	screens.POST("/dashboard/refresh", reference.DashboardRefresh)
	screens.POST("/dashboard/close", reference.CloseDashboard)
	screens.GET("/consultas", reference.Consultas)
	screens.GET("/consultas/anos-letivos", reference.ConsultasYears)
	screens.POST("/consultas/close", reference.CloseConsultas)
	screens.GET("/insights", reference.Insights)
	screens.POST("/insights/refresh", reference.InsightsRefresh)
	screens.POST("/insights/close", reference.CloseInsights)

	cfg := NewConfigHandler()
	screens.GET("/config/departamentos-lookup", cfg.Departments)
	screens.GET("/config/:kind", cfg.List)
	screens.POST("/config/:kind/refresh", cfg.Refresh)
	screens.POST("/config/:kind/drafts", cfg.OpenDraft)
	screens.PUT("/config/:kind/drafts", cfg.PatchDraft)
	screens.POST("/config/:kind/drafts/submit", cfg.SubmitDraft)
	screens.DELETE("/config/:kind/drafts", cfg.CancelDraft)
	screens.DELETE("/config/:kind/:id", cfg.Delete)
	screens.POST("/config/:kind/close", cfg.Close)

	return r
}

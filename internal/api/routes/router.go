package routes

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	_ "github.com/sustentai/ods-platform/docs"
	"github.com/sustentai/ods-platform/internal/api/handlers"
	"github.com/sustentai/ods-platform/internal/api/middleware"
	"github.com/sustentai/ods-platform/internal/config"
	"github.com/sustentai/ods-platform/internal/filestore"
	"github.com/sustentai/ods-platform/pkg/response"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Config   *config.Config
	Log      *zap.Logger
	JWT      *middleware.JWT
	Handlers *handlers.Handlers
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(d.Log))
	r.Use(middleware.CORS(d.Config.CORSOrigins))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, response.MessageResponse{Message: "ok"}) })

	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if d.Config.Upload.Driver == config.StorageDriverLocal {
		r.Static("/"+filestore.UploadsPrefix, filepath.Join(d.Config.Upload.Root, filestore.UploadsPrefix))
	}

	RegisterRoutes(r.Group("/api"), d.JWT, d.Handlers)
	return r
}

func RegisterRoutes(api *gin.RouterGroup, jwt *middleware.JWT, h *handlers.Handlers) {
	projetos := api.Group("/projetos")
	{
		projetos.GET("", h.Project.ListProjects)
		projetos.GET("/buscar", h.Project.SearchProjects)
		projetos.GET("/categoria/:ods", h.Project.ListByOds)
		projetos.GET("/:id", h.Project.GetProject)
		projetos.POST("", h.Project.SubmitProject)
		projetos.PUT("/solicitar-atualizacao/:id", h.Project.RequestUpdate)
		projetos.POST("/solicitar-exclusao/:id", h.Project.RequestDeletion)
	}

	api.POST("/admin/login", h.Admin.Login)
	admin := api.Group("/admin")
	admin.Use(jwt.Authenticate(), middleware.Admin())
	{
		admin.GET("/pending", h.Admin.ListPending)
		admin.POST("/approve/:id", h.Admin.Approve)
		admin.POST("/reject/:id", h.Admin.Reject)
		admin.POST("/edit-and-approve/:id", h.Admin.EditAndApprove)
		admin.GET("/projetos-ativos", h.Admin.ListActive)
		admin.GET("/projetos/export.csv", h.Admin.ExportCSV)
		admin.GET("/projeto/:id", h.Admin.GetProject)
		admin.PATCH("/projeto/:id", h.Admin.UpdateProject)
		admin.DELETE("/projeto/:id", h.Admin.DeleteProject)
		admin.POST("/projeto/:id/status", h.Admin.SetVisibility)
		admin.DELETE("/avaliacoes/:id", h.Admin.DeleteReview)
		admin.GET("/auditoria", h.Admin.ListAudit)
	}

	avaliacoes := api.Group("/avaliacoes")
	{
		avaliacoes.GET("/projeto/:id", h.Review.ListByProject)

		auth := avaliacoes.Group("")
		auth.Use(jwt.Authenticate())
		auth.POST("", h.Review.CreateReview)
		auth.PUT("/:id", h.Review.UpdateReview)
		auth.DELETE("/:id", h.Review.DeleteReview)
	}
}

package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sustentai/ods-platform/internal/application"
	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/internal/repository"
	"github.com/sustentai/ods-platform/pkg/response"
	"github.com/sustentai/ods-platform/pkg/utils"
)

type AdminHandler struct {
	admin      *application.AdminService
	moderation *application.ModerationService
	projects   *application.ProjectService
	reviews    *application.ReviewService
	audit      *application.AuditService
	uploads    *Uploader
}

func NewAdminHandler(svc *application.Services, uploads *Uploader) *AdminHandler {
	return &AdminHandler{
		admin:      svc.Admin,
		moderation: svc.Moderation,
		projects:   svc.Project,
		reviews:    svc.Review,
		audit:      svc.Audit,
		uploads:    uploads,
	}
}

// actorContext tags the request context with the admin's username.
func actorContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if claims, err := utils.GetClaimsFromContext(c); err == nil {
		ctx = application.WithActor(ctx, claims.Username)
	}
	return ctx
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login godoc
// @Summary Admin login
// @Tags admin
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} response.TokenResponse "JWT token"
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 401 {object} response.ErrorResponse "Invalid username or password"
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "Invalid input"})
		return
	}

	token, ttl, err := h.admin.Login(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", token, int(ttl/time.Second), "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, response.TokenResponse{
		Token:     token,
		Username:  req.Username,
		IsAdmin:   true,
		ExpiresIn: int64(ttl / time.Second),
	})
}

// ListPending godoc
// @Summary Moderation queue
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} project.PendingDTO
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/pending [get]
func (h *AdminHandler) ListPending(c *gin.Context) {
	pending, err := h.moderation.ListPending()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// Approve godoc
// @Summary Approve the pending request of a project
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} project.ModerationResult
// @Failure 400 {object} response.ErrorResponse "Nothing to approve"
// @Failure 404 {object} response.ErrorResponse "Project not found"
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/approve/{id} [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	res, err := h.moderation.Approve(actorContext(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Reject godoc
// @Summary Reject the pending request of a project
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "Project ID"
// @Param body body project.RejectDTO false "Reason"
// @Success 200 {object} project.ModerationResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/reject/{id} [post]
func (h *AdminHandler) Reject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	var input project.RejectDTO
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
			return
		}
	}
	res, err := h.moderation.Reject(actorContext(c), id, input.Motivo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// EditAndApprove godoc
// @Summary Apply admin edits and approve in one step
// @Tags admin
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} project.ModerationResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/edit-and-approve/{id} [post]
func (h *AdminHandler) EditAndApprove(c *gin.Context) {
	h.edit(c, h.moderation.EditAndApprove)
}

// UpdateProject godoc
// @Summary Edit a live project directly
// @Description Flat field keys. logoUrl null or removerLogo removes the logo; imagensExcluidas lists image URLs to drop.
// @Tags admin
// @Security BearerAuth
// @Accept json,mpfd
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} project.ModerationResult
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/projeto/{id} [patch]
func (h *AdminHandler) UpdateProject(c *gin.Context) {
	h.edit(c, h.moderation.AdminDirectUpdate)
}

type editFunc func(ctx context.Context, id uint, in application.AdminEditInput) (*project.ModerationResult, error)

func (h *AdminHandler) edit(c *gin.Context, apply editFunc) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	input, err := bindAdminEdit(c)
	if err != nil {
		respondError(c, err)
		return
	}
	files, err := h.uploads.Collect(c)
	if err != nil {
		respondError(c, err)
		return
	}
	input.Files = files

	res, err := apply(actorContext(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListActive godoc
// @Summary List every project in status ativo, visible or hidden
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {array} project.Project
// @Router /admin/projetos-ativos [get]
func (h *AdminHandler) ListActive(c *gin.Context) {
	projects, err := h.projects.ListAllActive()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProject godoc
// @Summary Get any project, including its pending change
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} project.Project
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/projeto/{id} [get]
func (h *AdminHandler) GetProject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	p, err := h.projects.GetProject(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProject godoc
// @Summary Hard delete a project and its files
// @Tags admin
// @Security BearerAuth
// @Param id path uint true "Project ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/projeto/{id} [delete]
func (h *AdminHandler) DeleteProject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	if err := h.moderation.AdminDelete(actorContext(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetVisibility godoc
// @Summary Show or hide a project
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "Project ID"
// @Param body body project.VisibilityDTO true "Visibility"
// @Success 200 {object} project.ModerationResult
// @Failure 400 {object} response.ErrorResponse "ativo must be a boolean"
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/projeto/{id}/status [post]
func (h *AdminHandler) SetVisibility(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	var input project.VisibilityDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "ativo must be a boolean"})
		return
	}
	res, err := h.moderation.SetVisibility(actorContext(c), id, *input.Ativo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExportCSV godoc
// @Summary Export active projects as CSV
// @Tags admin
// @Security BearerAuth
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Router /admin/projetos/export.csv [get]
func (h *AdminHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.projects.ExportCSV(&buf); err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("projetos-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// DeleteReview godoc
// @Summary Remove any review and its replies
// @Tags admin
// @Security BearerAuth
// @Param id path uint true "Review ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/avaliacoes/{id} [delete]
func (h *AdminHandler) DeleteReview(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid review id"})
		return
	}
	if err := h.reviews.AdminDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type AuditQuery struct {
	ProjetoID *uint      `form:"projeto"`
	Acao      *string    `form:"acao"`
	Desde     *time.Time `form:"desde" time_format:"2006-01-02T15:04:05Z07:00"`
	Ate       *time.Time `form:"ate" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit     int        `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset    int        `form:"offset" binding:"omitempty,min=0"`
}

// ListAudit godoc
// @Summary List moderation audit entries, newest first
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param projeto query uint false "Project ID"
// @Param acao query string false "Action"
// @Param desde query string false "From (RFC3339)"
// @Param ate query string false "Until (RFC3339)"
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {array} audit.Entry
// @Failure 400 {object} response.ErrorResponse
// @Router /admin/auditoria [get]
func (h *AdminHandler) ListAudit(c *gin.Context) {
	var q AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	logs, err := h.audit.QueryAuditLogs(repository.AuditQueryParams{
		ProjetoID: q.ProjetoID,
		Action:    q.Acao,
		StartTime: q.Desde,
		EndTime:   q.Ate,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

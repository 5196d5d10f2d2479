package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sustentai/ods-platform/internal/application"
	"github.com/sustentai/ods-platform/internal/domain/project"
	"github.com/sustentai/ods-platform/pkg/response"
	"github.com/sustentai/ods-platform/pkg/utils"
)

type ProjectHandler struct {
	svc     *application.ProjectService
	uploads *Uploader
}

func NewProjectHandler(svc *application.ProjectService, uploads *Uploader) *ProjectHandler {
	return &ProjectHandler{svc: svc, uploads: uploads}
}

type ProjectMessageResponse struct {
	Message string           `json:"message"`
	Project *project.Project `json:"projeto"`
}

// ListProjects godoc
// @Summary List public projects
// @Tags projetos
// @Produce json
// @Param nome query string false "Name substring"
// @Param ods query string false "ODS category"
// @Success 200 {array} project.Project
// @Failure 500 {object} response.ErrorResponse
// @Router /projetos [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.svc.ListPublic(project.ActiveFilter{
		Name: c.Query("nome"),
		Ods:  c.Query("ods"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// SearchProjects godoc
// @Summary Search public projects by name
// @Tags projetos
// @Produce json
// @Param nome query string true "Name substring"
// @Success 200 {array} project.Project
// @Failure 400 {object} response.ErrorResponse
// @Router /projetos/buscar [get]
func (h *ProjectHandler) SearchProjects(c *gin.Context) {
	name := strings.TrimSpace(c.Query("nome"))
	if name == "" {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "query parameter nome is required"})
		return
	}
	projects, err := h.svc.ListPublic(project.ActiveFilter{Name: name})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// ListByOds godoc
// @Summary List public projects of one ODS category
// @Tags projetos
// @Produce json
// @Param ods path string true "ODS category"
// @Success 200 {array} project.Project
// @Router /projetos/categoria/{ods} [get]
func (h *ProjectHandler) ListByOds(c *gin.Context) {
	projects, err := h.svc.ListPublic(project.ActiveFilter{Ods: c.Param("ods")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// GetProject godoc
// @Summary Get a public project with its average rating
// @Tags projetos
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} project.DetailDTO
// @Failure 400 {object} response.ErrorResponse "Invalid project id"
// @Failure 404 {object} response.ErrorResponse "Project not found"
// @Router /projetos/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	detail, err := h.svc.GetPublic(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// SubmitProject godoc
// @Summary Submit a project for approval
// @Tags projetos
// @Accept multipart/form-data,json
// @Produce json
// @Param nomeProjeto formData string true "Project name"
// @Param ods formData string true "ODS category"
// @Param emailContato formData string true "Contact email"
// @Param logo formData file false "Logo"
// @Param oficio formData file false "Official letter"
// @Param imagens formData file false "Portfolio images (up to 5)"
// @Success 201 {object} ProjectMessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /projetos [post]
func (h *ProjectHandler) SubmitProject(c *gin.Context) {
	fields, err := bindFields(c)
	if err != nil {
		respondError(c, err)
		return
	}
	files, err := h.uploads.Collect(c)
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := h.svc.Submit(c.Request.Context(), application.SubmitInput{
		Fields: fields,
		Files:  files,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ProjectMessageResponse{
		Message: "project submitted for approval",
		Project: p,
	})
}

// RequestUpdate godoc
// @Summary Request changes to a live project
// @Tags projetos
// @Accept multipart/form-data,json
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {object} ProjectMessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projetos/solicitar-atualizacao/{id} [put]
func (h *ProjectHandler) RequestUpdate(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	fields, err := bindFields(c)
	if err != nil {
		respondError(c, err)
		return
	}
	files, err := h.uploads.Collect(c)
	if err != nil {
		respondError(c, err)
		return
	}
	p, err := h.svc.RequestUpdate(c.Request.Context(), id, application.SubmitInput{
		Fields: fields,
		Files:  files,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProjectMessageResponse{
		Message: "update request sent for approval",
		Project: p,
	})
}

// RequestDeletion godoc
// @Summary Request removal of a live project
// @Tags projetos
// @Accept json
// @Produce json
// @Param id path uint true "Project ID"
// @Param body body project.DeletionRequestDTO true "Justification"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /projetos/solicitar-exclusao/{id} [post]
func (h *ProjectHandler) RequestDeletion(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	var input project.DeletionRequestDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "a reason (motivo) is required"})
		return
	}
	if _, err := h.svc.RequestDeletion(c.Request.Context(), id, input.Motivo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.MessageResponse{Message: "deletion request sent for approval"})
}

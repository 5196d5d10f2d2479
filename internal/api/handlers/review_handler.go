package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sustentai/ods-platform/internal/application"
	"github.com/sustentai/ods-platform/internal/domain/review"
	"github.com/sustentai/ods-platform/pkg/response"
	"github.com/sustentai/ods-platform/pkg/utils"
)

type ReviewHandler struct {
	svc *application.ReviewService
}

func NewReviewHandler(svc *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// ListByProject godoc
// @Summary List reviews of a project
// @Description Root reviews newest first, each with its replies oldest first.
// @Tags avaliacoes
// @Produce json
// @Param id path uint true "Project ID"
// @Success 200 {array} review.Review
// @Failure 404 {object} response.ErrorResponse
// @Router /avaliacoes/projeto/{id} [get]
func (h *ReviewHandler) ListByProject(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid project id"})
		return
	}
	reviews, err := h.svc.ListByProject(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// CreateReview godoc
// @Summary Rate a project or reply to a rating
// @Tags avaliacoes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body review.CreateReviewDTO true "Review"
// @Success 201 {object} review.Review
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /avaliacoes [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	var input review.CreateReviewDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	rv, err := h.svc.Submit(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// UpdateReview godoc
// @Summary Edit one of your reviews
// @Tags avaliacoes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path uint true "Review ID"
// @Param body body review.UpdateReviewDTO true "Changes"
// @Success 200 {object} review.Review
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /avaliacoes/{id} [put]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid review id"})
		return
	}
	var input review.UpdateReviewDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: err.Error()})
		return
	}
	rv, err := h.svc.Update(c.Request.Context(), userID, id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rv)
}

// DeleteReview godoc
// @Summary Delete one of your reviews
// @Tags avaliacoes
// @Security BearerAuth
// @Param id path uint true "Review ID"
// @Success 204 "No Content"
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /avaliacoes/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid review id"})
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

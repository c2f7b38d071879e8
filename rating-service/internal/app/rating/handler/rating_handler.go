package handler

import (
	"context"
	"errors"
	"net/http"

	"revulink/rating-service/internal/app/rating/entity"
	"revulink/rating-service/internal/app/rating/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type RatingServiceInterface interface {
	GetLinkInfo(ctx context.Context, linkCode string) (*entity.LinkInfoResponse, error)
	SubmitRating(ctx context.Context, linkCode string, stars int) (*entity.SubmitRatingResponse, error)
	GetFeedbackContext(ctx context.Context, ratingID uuid.UUID) (*entity.FeedbackContextResponse, error)
	SubmitFeedback(ctx context.Context, req *entity.SubmitFeedbackRequest) (*entity.SubmitFeedbackResponse, error)
	GetActiveDiscount(ctx context.Context) (*entity.DiscountCode, error)
}

type RatingHandler struct {
	ratingService RatingServiceInterface
	validator     *validator.Validate
}

func NewRatingHandler(ratingService RatingServiceInterface) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		validator:     validator.New(),
	}
}

// GetLink отдает данные активной ссылки для страницы оценки
func (h *RatingHandler) GetLink(c *gin.Context) {
	linkCode := c.Param("linkCode")
	if linkCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Link code is required"})
		return
	}

	info, err := h.ratingService.GetLinkInfo(c.Request.Context(), linkCode)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "This review link may be invalid or expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review link"})
		return
	}

	c.JSON(http.StatusOK, info)
}

// SubmitRating принимает оценку и возвращает решение о маршрутизации
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	linkCode := c.Param("linkCode")
	if linkCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Link code is required"})
		return
	}

	var req entity.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	result, err := h.ratingService.SubmitRating(c.Request.Context(), linkCode, req.Rating)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "This review link may be invalid or expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit rating"})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetFeedbackContext отдает имя бизнеса и логотип для формы обратной связи
func (h *RatingHandler) GetFeedbackContext(c *gin.Context) {
	ratingID, err := uuid.Parse(c.Query("rating_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid rating_id is required"})
		return
	}

	resp, err := h.ratingService.GetFeedbackContext(c.Request.Context(), ratingID)
	if err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback context"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitFeedback принимает приватный отзыв
func (h *RatingHandler) SubmitFeedback(c *gin.Context) {
	var req entity.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	result, err := h.ratingService.SubmitFeedback(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyFeedback) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide your feedback before submitting"})
			return
		}
		if errors.Is(err, service.ErrRatingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "This feedback link is invalid"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit feedback"})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetDiscount отдает промокод для страницы благодарности (204 если пул пуст)
func (h *RatingHandler) GetDiscount(c *gin.Context) {
	code, err := h.ratingService.GetActiveDiscount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load discount code"})
		return
	}

	if code == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, entity.DiscountResponse{
		Code:    code.Code,
		Message: code.Message,
	})
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}

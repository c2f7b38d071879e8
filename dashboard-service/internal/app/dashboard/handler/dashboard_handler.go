package handler

import (
	"errors"
	"net/http"

	"revulink/dashboard-service/internal/app/dashboard/entity"
	"revulink/dashboard-service/internal/app/dashboard/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type DashboardHandler struct {
	dashboardService service.DashboardServiceInterface
	validator        *validator.Validate
}

func NewDashboardHandler(dashboardService service.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		validator:        validator.New(),
	}
}

// CreateLink создает новую ссылку для сбора оценок
func (h *DashboardHandler) CreateLink(c *gin.Context) {
	var req entity.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	link, err := h.dashboardService.CreateLink(c.Request.Context(), GetScope(c), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
		return
	}

	c.JSON(http.StatusCreated, link)
}

// ListLinks возвращает ссылки пользователя
func (h *DashboardHandler) ListLinks(c *gin.Context) {
	links, err := h.dashboardService.ListLinks(c.Request.Context(), GetScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list links"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"links": links, "total": len(links)})
}

// GetLink возвращает одну ссылку с числом оценок
func (h *DashboardHandler) GetLink(c *gin.Context) {
	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return
	}

	link, err := h.dashboardService.GetLink(c.Request.Context(), GetScope(c), linkID)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get link"})
		return
	}

	c.JSON(http.StatusOK, link)
}

// UpdateLink обновляет ссылку
func (h *DashboardHandler) UpdateLink(c *gin.Context) {
	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return
	}

	var req entity.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	link, err := h.dashboardService.UpdateLink(c.Request.Context(), GetScope(c), linkID, &req)
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update link"})
		return
	}

	c.JSON(http.StatusOK, link)
}

// DeleteLink удаляет ссылку вместе с оценками
func (h *DashboardHandler) DeleteLink(c *gin.Context) {
	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link id"})
		return
	}

	if err := h.dashboardService.DeleteLink(c.Request.Context(), GetScope(c), linkID); err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link deleted"})
}

// ListReviews возвращает отзывы с фильтрами
func (h *DashboardHandler) ListReviews(c *gin.Context) {
	var query entity.ReviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	reviews, err := h.dashboardService.ListReviews(c.Request.Context(), GetScope(c), query)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid range, expected 7d, 30d, 90d or 1y"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// ExportReviews выгружает отзывы пользователя в CSV
func (h *DashboardHandler) ExportReviews(c *gin.Context) {
	var query entity.ReviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	filename, data, err := h.dashboardService.ExportReviewsCSV(c.Request.Context(), GetScope(c), query)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid range, expected 7d, 30d, 90d or 1y"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export reviews"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// Analytics возвращает агрегаты по оценкам за окно
func (h *DashboardHandler) Analytics(c *gin.Context) {
	data, err := h.dashboardService.Analytics(c.Request.Context(), GetScope(c), c.Query("range"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid range, expected 7d, 30d, 90d or 1y"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// CreateDiscount создает промокод
func (h *DashboardHandler) CreateDiscount(c *gin.Context) {
	var req entity.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	code, err := h.dashboardService.CreateDiscount(c.Request.Context(), GetScope(c), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create discount code"})
		return
	}

	c.JSON(http.StatusCreated, code)
}

// ListDiscounts возвращает промокоды пользователя
func (h *DashboardHandler) ListDiscounts(c *gin.Context) {
	codes, err := h.dashboardService.ListDiscounts(c.Request.Context(), GetScope(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list discount codes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"discount_codes": codes, "total": len(codes)})
}

// UpdateDiscount обновляет промокод
func (h *DashboardHandler) UpdateDiscount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount id"})
		return
	}

	var req entity.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	code, err := h.dashboardService.UpdateDiscount(c.Request.Context(), GetScope(c), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Discount code not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update discount code"})
		return
	}

	c.JSON(http.StatusOK, code)
}

// DeleteDiscount удаляет промокод
func (h *DashboardHandler) DeleteDiscount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount id"})
		return
	}

	if err := h.dashboardService.DeleteDiscount(c.Request.Context(), GetScope(c), id); err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Discount code not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete discount code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Discount code deleted"})
}

// GetProfile возвращает профиль текущего пользователя
func (h *DashboardHandler) GetProfile(c *gin.Context) {
	profile, err := h.dashboardService.GetProfile(c.Request.Context(), GetScope(c))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile обновляет профиль
func (h *DashboardHandler) UpdateProfile(c *gin.Context) {
	var req entity.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	profile, err := h.dashboardService.UpdateProfile(c.Request.Context(), GetScope(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SetLogo устанавливает логотип профиля
func (h *DashboardHandler) SetLogo(c *gin.Context) {
	var req entity.LogoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	profile, err := h.dashboardService.SetLogo(c.Request.Context(), GetScope(c), req.LogoURL)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set logo"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// RemoveLogo убирает логотип профиля
func (h *DashboardHandler) RemoveLogo(c *gin.Context) {
	profile, err := h.dashboardService.SetLogo(c.Request.Context(), GetScope(c), "")
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove logo"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CompleteOnboarding выполняет первичную настройку аккаунта
func (h *DashboardHandler) CompleteOnboarding(c *gin.Context) {
	var req entity.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	result, err := h.dashboardService.CompleteOnboarding(c.Request.Context(), GetScope(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete onboarding"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListUsers возвращает всех пользователей (админка)
func (h *DashboardHandler) ListUsers(c *gin.Context) {
	users, err := h.dashboardService.ListUsers(c.Request.Context(), GetScope(c))
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

// ListAllReviews возвращает отзывы всех пользователей (админка)
func (h *DashboardHandler) ListAllReviews(c *gin.Context) {
	var query entity.ReviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	reviews, err := h.dashboardService.ListAllReviews(c.Request.Context(), GetScope(c), query)
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		if errors.Is(err, service.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid range, expected 7d, 30d, 90d or 1y"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// ExportAllReviews выгружает отзывы всех пользователей в CSV (админка)
func (h *DashboardHandler) ExportAllReviews(c *gin.Context) {
	var query entity.ReviewsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	filename, data, err := h.dashboardService.ExportAllReviewsCSV(c.Request.Context(), GetScope(c), query)
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		if errors.Is(err, service.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid range, expected 7d, 30d, 90d or 1y"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export reviews"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// StartImpersonation включает работу от имени пользователя (админка)
func (h *DashboardHandler) StartImpersonation(c *gin.Context) {
	var req entity.ImpersonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	if err := h.dashboardService.StartImpersonation(c.Request.Context(), GetScope(c), req.UserID); err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		if errors.Is(err, service.ErrImpersonationTarget) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start impersonation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Impersonation started"})
}

// StopImpersonation завершает имперсонацию (админка)
func (h *DashboardHandler) StopImpersonation(c *gin.Context) {
	if err := h.dashboardService.StopImpersonation(c.Request.Context(), GetScope(c)); err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to stop impersonation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Impersonation stopped"})
}

// GetImpersonationStatus возвращает состояние имперсонации (админка)
func (h *DashboardHandler) GetImpersonationStatus(c *gin.Context) {
	status, err := h.dashboardService.GetImpersonationStatus(c.Request.Context(), GetScope(c))
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get impersonation status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}

package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"revulink/pkg/logger"
	"revulink/pkg/metrics"
)

// SetupRoutes собирает маршруты кабинета владельца и админки
func SetupRoutes(dashboardHandler *DashboardHandler, authMiddleware *AuthMiddleware) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("dashboard-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "dashboard-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	links := router.Group("/links")
	links.Use(authMiddleware.Authenticate())
	{
		links.GET("", dashboardHandler.ListLinks)
		links.POST("", dashboardHandler.CreateLink)
		links.GET("/:id", dashboardHandler.GetLink)
		links.PATCH("/:id", dashboardHandler.UpdateLink)
		links.DELETE("/:id", dashboardHandler.DeleteLink)
	}

	reviews := router.Group("/reviews")
	reviews.Use(authMiddleware.Authenticate())
	{
		reviews.GET("", dashboardHandler.ListReviews)
		reviews.GET("/export", dashboardHandler.ExportReviews)
	}

	router.GET("/analytics", authMiddleware.Authenticate(), dashboardHandler.Analytics)

	discounts := router.Group("/discounts")
	discounts.Use(authMiddleware.Authenticate())
	{
		discounts.GET("", dashboardHandler.ListDiscounts)
		discounts.POST("", dashboardHandler.CreateDiscount)
		discounts.PATCH("/:id", dashboardHandler.UpdateDiscount)
		discounts.DELETE("/:id", dashboardHandler.DeleteDiscount)
	}

	profile := router.Group("/profile")
	profile.Use(authMiddleware.Authenticate())
	{
		profile.GET("", dashboardHandler.GetProfile)
		profile.PATCH("", dashboardHandler.UpdateProfile)
		profile.PUT("/logo", dashboardHandler.SetLogo)
		profile.DELETE("/logo", dashboardHandler.RemoveLogo)
	}

	router.POST("/onboarding", authMiddleware.Authenticate(), dashboardHandler.CompleteOnboarding)

	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate(), authMiddleware.RequireAdmin())
	{
		admin.GET("/users", dashboardHandler.ListUsers)
		admin.GET("/reviews", dashboardHandler.ListAllReviews)
		admin.GET("/reviews/export", dashboardHandler.ExportAllReviews)
		admin.GET("/impersonation", dashboardHandler.GetImpersonationStatus)
		admin.POST("/impersonation", dashboardHandler.StartImpersonation)
		admin.DELETE("/impersonation", dashboardHandler.StopImpersonation)
	}

	return router
}

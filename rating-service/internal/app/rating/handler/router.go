package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"revulink/pkg/logger"
	"revulink/pkg/metrics"
)

// SetupRoutes собирает публичные маршруты клиентского потока оценки.
// Аутентификация здесь не нужна: все эндпоинты открыты для конечных клиентов.
func SetupRoutes(ratingHandler *RatingHandler) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("rating-service"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "rating-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rate := router.Group("/rate")
	{
		rate.GET("/:linkCode", ratingHandler.GetLink)
		rate.POST("/:linkCode", ratingHandler.SubmitRating)
	}

	feedback := router.Group("/feedback")
	{
		feedback.GET("/context", ratingHandler.GetFeedbackContext)
		feedback.POST("/", ratingHandler.SubmitFeedback)
	}

	router.GET("/thank-you/discount", ratingHandler.GetDiscount)

	return router
}

package api

import (
	"github.com/SlpAus/penny-dreadful-cards-backend/internal/cardapi"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册全部API路由
func SetupRoutes(r *gin.Engine) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/card/:name", cardapi.GetCard)
		apiGroup.GET("/search", cardapi.Search)
		apiGroup.GET("/rotation", cardapi.GetRotation)
		apiGroup.GET("/health", cardapi.Health)
	}
}

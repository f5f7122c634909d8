package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/", h.index)

	// Генерация плана действий
	api.POST("/generate-plan", h.generatePlan)

	// Сохраненные планы
	plans := api.Group("/plans")
	{
		plans.GET("/current", h.currentPlan)
		plans.GET("/history", h.listHistory)
		plans.GET("/history/:key", h.historyPlan)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}

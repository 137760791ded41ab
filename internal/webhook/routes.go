package webhook

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps the service-hook ingress endpoint.
func RegisterRoutes(rg *gin.RouterGroup, h *handler) {
	rg.POST("/azure-devops", h.Handle)
}

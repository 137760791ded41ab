package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
func RegisterRoutes(rg *gin.RouterGroup, h *handler) {
	users := rg.Group("/users")
	{
		users.POST("", h.RegisterUser)
		users.PUT("/:id/credentials", h.StoreCredential)
		users.PATCH("/:id/service", h.SetServiceEnabled)
		users.GET("/:id/settings", h.GetSettings)
		users.PUT("/:id/settings", h.UpdateSettings)

		users.POST("/:id/repositories", h.ConnectRepository)
		users.GET("/:id/repositories", h.ListRepositories)
		users.DELETE("/:id/repositories/:repo_id", h.DisconnectRepository)
	}
}

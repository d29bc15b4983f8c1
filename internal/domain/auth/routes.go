package auth

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts registration and login. limit guards every route.
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup, limit gin.HandlerFunc) {
	authGroup := api.Group("", limit)
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/verify", h.Verify)
		authGroup.POST("/verify/resend", h.Resend)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/me", h.GetMe)
}

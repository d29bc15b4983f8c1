package wallet

import "github.com/gin-gonic/gin"

// RegisterRoutes — authenticated users.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/wallet", h.GetMyWallet)
	r.GET("/wallet/transactions", h.ListMyTransactions)
	r.GET("/packages", h.ListPackages)
	r.POST("/packages/:id/buy", h.BuyPackage)
	r.POST("/payments/topup", h.TopUp)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.POST("/packages", h.CreatePackage)
}

// RegisterPublicRoutes — the bank calls the webhook without a JWT; the body is signed instead.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/payments/webhook", h.Webhook)
}

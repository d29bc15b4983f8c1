package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"beautybook/internal/pkg/jwt"
	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/response"
)

// WSHandler upgrades authenticated requests to the live notification feed.
type WSHandler struct {
	hub      *Hub
	tokens   *jwt.Service
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *Hub, tokens *jwt.Service, log *logger.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// пустой список или "*" = любой origin (dev)
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// HandleWebSocket
// @Summary		Live-лента событий бронирования
// @Tags		Notifications
// @Param		token	query	string	true	"JWT (браузер не умеет слать заголовки в websocket)"
// @Success		101
// @Failure		401	{object}	response.Envelope
// @Router		/ws/notifications [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required. Use ?token=YOUR_JWT_TOKEN")
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "user_id", claims.UserID, "error", err.Error())
		return
	}

	h.log.Debug("websocket connected", "user_id", claims.UserID)
	h.hub.Serve(conn, claims.UserID)
	h.log.Debug("websocket disconnected", "user_id", claims.UserID)
}

func (h *WSHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ws/notifications", h.HandleWebSocket)
}

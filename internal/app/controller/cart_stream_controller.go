package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/vellalasercare/storefront-gateway/internal/app/service"
	apperrors "github.com/vellalasercare/storefront-gateway/internal/errors"
	"github.com/vellalasercare/storefront-gateway/internal/middleware"
	ws "github.com/vellalasercare/storefront-gateway/internal/websocket"
)

// CartStreamController pushes cart snapshots to every open tab of a session
type CartStreamController struct {
	cartService service.CartService
	hub         *ws.Hub
	upgrader    websocket.Upgrader
}

func NewCartStreamController(cartService service.CartService, hub *ws.Hub, allowedOrigins []string) *CartStreamController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &CartStreamController{
		cartService: cartService,
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// Stream upgrades the request and sends the current cart first
// GET /api/v1/cart/ws?session=<id>
func (ctrl *CartStreamController) Stream(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID := middleware.GetSessionID(c)

	snapshot, err := ctrl.cartService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		apperrors.ParseAndRespond(c, err)
		return
	}
	initial, err := ws.EncodeCartEvent(snapshot)
	if err != nil {
		log.Error("Failed to encode cart event", err)
		apperrors.InternalError(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, sessionID)
	client.Send <- initial
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Cart stream opened")
}

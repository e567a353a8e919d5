package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/server/websocket"
	"github.com/oxventura/wishd/pkg/config"
)

type LiveUpdatesHandler struct {
	logger   zerolog.Logger
	wsHub    *websocket.WsHub
	upgrader gws.Upgrader
}

func NewLiveUpdatesHandler(wsHub *websocket.WsHub, cfg config.WebSocketConfig, logger zerolog.Logger) *LiveUpdatesHandler {
	upgrader := gws.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
	}
	if !cfg.CheckOrigin {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return &LiveUpdatesHandler{
		logger:   logger,
		wsHub:    wsHub,
		upgrader: upgrader,
	}
}

// HandleWebSocket upgrades the request and registers the connection under
// the authenticated wallet address.
func (h *LiveUpdatesHandler) HandleWebSocket(c *gin.Context) {
	address := c.GetString("address")
	if address == "" {
		h.logger.Error().Msg("Address not found in context")
		c.JSON(http.StatusUnauthorized, domain.ApiResponse{
			Message: "Wallet not authenticated",
			Success: false,
			Status:  http.StatusUnauthorized,
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Err(err).
			Str("address", address).
			Msg("Failed to upgrade to WebSocket")
		c.JSON(http.StatusInternalServerError, domain.ApiResponse{
			Message: "Failed to establish WebSocket connection: " + err.Error(),
			Success: false,
			Status:  http.StatusInternalServerError,
		})
		return
	}

	client := &websocket.WsClient{
		Address: address,
		Conn:    conn,
	}
	h.wsHub.Register <- client
	h.logger.Info().
		Str("address", address).
		Msg("WebSocket client registration sent")

	go func() {
		defer func() {
			h.wsHub.Unregister <- client
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.logger.Err(err).
					Str("address", address).
					Msg("WebSocket read error")
				break
			}
		}
	}()
}

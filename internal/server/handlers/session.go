package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	authservice "github.com/oxventura/wishd/internal/application/auth"
	"github.com/oxventura/wishd/internal/application/netgate"
	"github.com/oxventura/wishd/internal/application/session"
	"github.com/oxventura/wishd/internal/server/websocket"
)

type SessionHandler struct {
	sessionSvc session.ISessionService
	gate       netgate.INetworkGate
	authSvc    authservice.IAuthService
	wsHub      *websocket.WsHub
	logger     zerolog.Logger
}

func NewSessionHandler(sessionSvc session.ISessionService, gate netgate.INetworkGate, authSvc authservice.IAuthService, wsHub *websocket.WsHub, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
		gate:       gate,
		authSvc:    authSvc,
		wsHub:      wsHub,
		logger:     logger,
	}
}

// Connect establishes the wallet session and issues the bearer token the
// rest of the API requires.
func (h *SessionHandler) Connect(c *gin.Context) {
	snapshot, err := h.sessionSvc.Connect(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Wallet connect failed")
		respondError(c, err)
		return
	}

	token, err := h.authSvc.GenerateToken(c.Request.Context(), snapshot.Address)
	if err != nil {
		h.logger.Error().Err(err).Msg("Token issuance failed")
		respondError(c, err)
		return
	}

	h.wsHub.BroadcastSession(snapshot)

	respondOK(c, "Wallet connected", gin.H{
		"session": snapshot,
		"token":   token,
	})
}

func (h *SessionHandler) Disconnect(c *gin.Context) {
	h.sessionSvc.Disconnect()
	h.wsHub.BroadcastSession(h.sessionSvc.Snapshot())
	respondOK(c, "Wallet disconnected", nil)
}

func (h *SessionHandler) Snapshot(c *gin.Context) {
	respondOK(c, "Session state", h.sessionSvc.Snapshot())
}

// SwitchNetwork drives the switch/add protocol toward the target chain.
func (h *SessionHandler) SwitchNetwork(c *gin.Context) {
	if err := h.gate.SwitchToTarget(c.Request.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Network switch failed")
		respondError(c, err)
		return
	}

	snapshot := h.sessionSvc.Snapshot()
	h.wsHub.BroadcastSession(snapshot)
	respondOK(c, "Switched to target network", snapshot)
}

func (h *SessionHandler) TargetNetwork(c *gin.Context) {
	respondOK(c, "Target network", h.gate.Target())
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/application/referral"
	"github.com/oxventura/wishd/internal/application/rewards"
	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/server/websocket"
)

type ReferralHandler struct {
	referralSvc referral.IReferralService
	rewardSvc   rewards.IRewardService
	wsHub       *websocket.WsHub
	logger      zerolog.Logger
}

func NewReferralHandler(referralSvc referral.IReferralService, rewardSvc rewards.IRewardService, wsHub *websocket.WsHub, logger zerolog.Logger) *ReferralHandler {
	return &ReferralHandler{
		referralSvc: referralSvc,
		rewardSvc:   rewardSvc,
		wsHub:       wsHub,
		logger:      logger,
	}
}

func (h *ReferralHandler) Profile(c *gin.Context) {
	profile, link, err := h.referralSvc.Profile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Referral profile", gin.H{
		"profile":       profile,
		"referral_link": link,
	})
}

type attributionRequest struct {
	Referrer string `json:"referrer" binding:"required"`
}

// Attribute records the ?ref= parameter the connected address arrived
// with. Invalid or repeat attributions are accepted and ignored.
func (h *ReferralHandler) Attribute(c *gin.Context) {
	var req attributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrValidation)
		return
	}

	if err := h.referralSvc.Attribute(c.Request.Context(), req.Referrer); err != nil {
		h.logger.Error().Err(err).Msg("Referral attribution failed")
		respondError(c, err)
		return
	}
	respondOK(c, "Attribution processed", nil)
}

func (h *ReferralHandler) Claim(c *gin.Context) {
	result, err := h.rewardSvc.ClaimReferral(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Referral claim failed")
		respondError(c, err)
		return
	}

	h.wsHub.BroadcastClaim(c.GetString("address"), result)
	respondOK(c, "Referral rewards claimed", result)
}

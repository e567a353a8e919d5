package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/application/rewards"
	"github.com/oxventura/wishd/internal/server/websocket"
)

type RewardsHandler struct {
	rewardSvc rewards.IRewardService
	wsHub     *websocket.WsHub
	logger    zerolog.Logger
}

func NewRewardsHandler(rewardSvc rewards.IRewardService, wsHub *websocket.WsHub, logger zerolog.Logger) *RewardsHandler {
	return &RewardsHandler{
		rewardSvc: rewardSvc,
		wsHub:     wsHub,
		logger:    logger,
	}
}

func (h *RewardsHandler) Tasks(c *gin.Context) {
	tasks, totalEarned, err := h.rewardSvc.Tasks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Social tasks", gin.H{
		"tasks":        tasks,
		"total_earned": totalEarned,
	})
}

func (h *RewardsHandler) RecordAction(c *gin.Context) {
	taskID := c.Param("id")
	if err := h.rewardSvc.RecordTaskAction(c.Request.Context(), taskID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Task action recorded", gin.H{"task_id": taskID})
}

func (h *RewardsHandler) Claim(c *gin.Context) {
	taskID := c.Param("id")
	result, err := h.rewardSvc.Claim(c.Request.Context(), taskID)
	if err != nil {
		h.logger.Error().Err(err).Str("task_id", taskID).Msg("Task claim failed")
		respondError(c, err)
		return
	}

	h.wsHub.BroadcastClaim(c.GetString("address"), result)
	respondOK(c, "Reward claimed", result)
}

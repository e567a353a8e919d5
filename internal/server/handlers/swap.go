package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/application/swap"
	"github.com/oxventura/wishd/internal/domain"
)

type SwapHandler struct {
	swapSvc swap.ISwapService
	logger  zerolog.Logger
}

func NewSwapHandler(swapSvc swap.ISwapService, logger zerolog.Logger) *SwapHandler {
	return &SwapHandler{
		swapSvc: swapSvc,
		logger:  logger,
	}
}

func (h *SwapHandler) Quote(c *gin.Context) {
	amount := c.Query("amount")
	direction := domain.SwapDirection(c.DefaultQuery("direction", string(domain.SwapUSDCToWISH)))

	quote, err := h.swapSvc.Quote(amount, direction)
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("reversed") == "true" {
		quote = h.swapSvc.Reverse(quote)
	}
	respondOK(c, "Swap quote", quote)
}

func (h *SwapHandler) Balances(c *gin.Context) {
	balances, err := h.swapSvc.Balances(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Token balances", balances)
}

type swapRequest struct {
	Amount    string `json:"amount" binding:"required"`
	Direction string `json:"direction" binding:"required"`
}

func (h *SwapHandler) Swap(c *gin.Context) {
	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrValidation)
		return
	}

	result, err := h.swapSvc.Swap(c.Request.Context(), req.Amount, domain.SwapDirection(req.Direction))
	if err != nil {
		h.logger.Error().Err(err).Msg("Swap failed")
		respondError(c, err)
		return
	}
	respondOK(c, "Swap executed", result)
}

func (h *SwapHandler) State(c *gin.Context) {
	respondOK(c, "Swap state", gin.H{"state": h.swapSvc.State()})
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/application/mint"
	"github.com/oxventura/wishd/internal/domain"
)

type MintHandler struct {
	mintSvc mint.IMintService
	logger  zerolog.Logger
}

func NewMintHandler(mintSvc mint.IMintService, logger zerolog.Logger) *MintHandler {
	return &MintHandler{
		mintSvc: mintSvc,
		logger:  logger,
	}
}

func (h *MintHandler) Status(c *gin.Context) {
	status, err := h.mintSvc.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Mint status", gin.H{
		"status":          status,
		"reset_countdown": domain.FormatReset(status.TimeUntilReset),
	})
}

type mintRequest struct {
	WishText string `json:"wish_text" binding:"required"`
	Receiver string `json:"receiver"`
}

func (h *MintHandler) Mint(c *gin.Context) {
	var req mintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.ErrValidation)
		return
	}

	receiver := req.Receiver
	if receiver == "" {
		receiver = c.GetString("address")
	}

	receipt, err := h.mintSvc.Mint(c.Request.Context(), req.WishText, receiver)
	if err != nil {
		h.logger.Error().Err(err).Msg("Mint failed")
		respondError(c, err)
		return
	}
	respondOK(c, "Wish minted", receipt)
}

func (h *MintHandler) Wishes(c *gin.Context) {
	wishes, err := h.mintSvc.Wishes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Wish history", gin.H{
		"wishes": wishes,
		"total":  len(wishes),
	})
}

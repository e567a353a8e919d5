package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	authservice "github.com/oxventura/wishd/internal/application/auth"
	"github.com/oxventura/wishd/internal/application/mint"
	"github.com/oxventura/wishd/internal/application/netgate"
	"github.com/oxventura/wishd/internal/application/referral"
	"github.com/oxventura/wishd/internal/application/rewards"
	"github.com/oxventura/wishd/internal/application/session"
	"github.com/oxventura/wishd/internal/application/swap"
	"github.com/oxventura/wishd/internal/server/middleware"
	"github.com/oxventura/wishd/internal/server/websocket"
	"github.com/oxventura/wishd/pkg/config"
)

type Handlers struct {
	SessionSvc  session.ISessionService
	Gate        netgate.INetworkGate
	MintSvc     mint.IMintService
	SwapSvc     swap.ISwapService
	RewardSvc   rewards.IRewardService
	ReferralSvc referral.IReferralService
	AuthSvc     authservice.IAuthService
	Logger      zerolog.Logger
	Config      *config.Config
	WsHub       *websocket.WsHub
}

func New(
	sessionSvc session.ISessionService,
	gate netgate.INetworkGate,
	mintSvc mint.IMintService,
	swapSvc swap.ISwapService,
	rewardSvc rewards.IRewardService,
	referralSvc referral.IReferralService,
	authSvc authservice.IAuthService,
	logger zerolog.Logger,
	config *config.Config,
	wsHub *websocket.WsHub,
) *Handlers {
	return &Handlers{
		SessionSvc:  sessionSvc,
		Gate:        gate,
		MintSvc:     mintSvc,
		SwapSvc:     swapSvc,
		RewardSvc:   rewardSvc,
		ReferralSvc: referralSvc,
		AuthSvc:     authSvc,
		Logger:      logger,
		Config:      config,
		WsHub:       wsHub,
	}
}

func (h *Handlers) SetupHandlers(router *gin.Engine) {
	mw := middleware.NewMiddleware(h.AuthSvc, h.Logger)
	mw.SetupMiddleware(router)

	sessionHandler := NewSessionHandler(h.SessionSvc, h.Gate, h.AuthSvc, h.WsHub, h.Logger)
	mintHandler := NewMintHandler(h.MintSvc, h.Logger)
	swapHandler := NewSwapHandler(h.SwapSvc, h.Logger)
	rewardsHandler := NewRewardsHandler(h.RewardSvc, h.WsHub, h.Logger)
	referralHandler := NewReferralHandler(h.ReferralSvc, h.RewardSvc, h.WsHub, h.Logger)
	liveHandler := NewLiveUpdatesHandler(h.WsHub, h.Config.WebSocket, h.Logger)
	healthHandler := NewHealthHandler()

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Live updates endpoint, token via header or ?token= query param.
	router.GET("/ws", mw.AuthMiddleware(), liveHandler.HandleWebSocket)

	v1 := router.Group("/v1")
	{
		sessions := v1.Group("/session")
		{
			sessions.POST("/connect", sessionHandler.Connect)
			sessions.POST("/disconnect", mw.AuthMiddleware(), sessionHandler.Disconnect)
			sessions.GET("", mw.AuthMiddleware(), sessionHandler.Snapshot)
		}

		network := v1.Group("/network", mw.AuthMiddleware())
		{
			network.GET("/target", sessionHandler.TargetNetwork)
			network.POST("/switch", sessionHandler.SwitchNetwork)
		}

		mints := v1.Group("/mint", mw.AuthMiddleware())
		{
			mints.GET("/status", mintHandler.Status)
			mints.POST("", mintHandler.Mint)
			mints.GET("/wishes", mintHandler.Wishes)
		}

		swaps := v1.Group("/swap", mw.AuthMiddleware())
		{
			swaps.GET("/quote", swapHandler.Quote)
			swaps.GET("/balances", swapHandler.Balances)
			swaps.GET("/state", swapHandler.State)
			swaps.POST("", swapHandler.Swap)
		}

		tasks := v1.Group("/tasks", mw.AuthMiddleware())
		{
			tasks.GET("", rewardsHandler.Tasks)
			tasks.POST("/:id/action", rewardsHandler.RecordAction)
			tasks.POST("/:id/claim", rewardsHandler.Claim)
		}

		referrals := v1.Group("/referral", mw.AuthMiddleware())
		{
			referrals.GET("", referralHandler.Profile)
			referrals.POST("/attribution", referralHandler.Attribute)
			referrals.POST("/claim", referralHandler.Claim)
		}
	}
}

package main

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	authservice "github.com/oxventura/wishd/internal/application/auth"
	"github.com/oxventura/wishd/internal/application/mint"
	"github.com/oxventura/wishd/internal/application/netgate"
	"github.com/oxventura/wishd/internal/application/referral"
	"github.com/oxventura/wishd/internal/application/rewards"
	"github.com/oxventura/wishd/internal/application/session"
	"github.com/oxventura/wishd/internal/application/swap"
	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/infrastructure/chain"
	"github.com/oxventura/wishd/internal/infrastructure/localstore"
	"github.com/oxventura/wishd/internal/infrastructure/walletrpc"
	"github.com/oxventura/wishd/internal/repositories/claimrepo"
	"github.com/oxventura/wishd/internal/repositories/referralrepo"
	"github.com/oxventura/wishd/internal/server"
	"github.com/oxventura/wishd/internal/server/websocket"
	"github.com/oxventura/wishd/pkg/config"
	"github.com/oxventura/wishd/pkg/logger"
)

func main() {
	logger := logger.New()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	target := domain.ChainDescriptor{
		ChainID:       cfg.Chain.ChainID,
		ChainName:     cfg.Chain.ChainName,
		RPCURL:        cfg.Chain.RPCURL,
		BlockExplorer: cfg.Chain.BlockExplorer,
		NativeCurrency: domain.NativeCurrency{
			Name:     cfg.Chain.NativeCurrency.Name,
			Symbol:   cfg.Chain.NativeCurrency.Symbol,
			Decimals: cfg.Chain.NativeCurrency.Decimals,
		},
	}
	contracts := domain.ContractSet{
		WishNFT:       common.HexToAddress(cfg.Contracts.WishNFT),
		WishToken:     common.HexToAddress(cfg.Contracts.WishToken),
		USDCToken:     common.HexToAddress(cfg.Contracts.USDCToken),
		WishDecimals:  cfg.Contracts.WishDecimals,
		USDCDecimals:  cfg.Contracts.USDCDecimals,
		ClaimGasLimit: cfg.Contracts.ClaimGasLimit,
	}

	store, err := localstore.Open(cfg.Storage.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open local store")
	}
	defer store.Close()

	provider := walletrpc.New(&cfg.Bridge, logger)

	mintLedger, err := chain.NewMintLedgerClient(contracts.WishNFT, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build mint ledger client")
	}
	tokenLedger, err := chain.NewTokenLedgerClient(contracts.WishToken, contracts.ClaimGasLimit, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build token ledger client")
	}

	claimRepo := claimrepo.New(store, logger)
	referralRepo := referralrepo.New(store, logger)

	sessionSvc := session.NewSessionService(provider, target, logger)
	gate := netgate.New(provider, sessionSvc, target, cfg.Bridge.SwitchSettleDelay, logger)
	mintSvc := mint.NewMintService(sessionSvc, gate, mintLedger, contracts, cfg.Mint, logger)
	swapSvc := swap.NewSwapService(sessionSvc, gate, tokenLedger, contracts, swap.FixedRate(cfg.Swap.ExchangeRate), cfg.Swap, logger)
	rewardSvc := rewards.NewRewardService(sessionSvc, gate, tokenLedger, claimRepo, referralRepo, contracts, cfg.Rewards, logger)
	referralSvc := referral.NewReferralService(sessionSvc, referralRepo, cfg.Referral, logger)
	authSvc := authservice.NewAuthService(cfg, logger)

	wsHub := websocket.NewWsHub(logger)
	go wsHub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go mintSvc.StartStatusPolling(ctx, wsHub.BroadcastMintStatus)
	go swapSvc.StartBalancePolling(ctx, wsHub.BroadcastBalances)
	sessionSvc.OnChange(wsHub.BroadcastSession)

	srv := server.New(cfg, sessionSvc, gate, mintSvc, swapSvc, rewardSvc, referralSvc, authSvc, logger, wsHub)
	srv.Start()
}

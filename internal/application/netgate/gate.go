package netgate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/application/session"
	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
)

type INetworkGate interface {
	IsOnTargetChain() bool
	// SwitchToTarget drives the switch/add-chain protocol against the
	// provider and refreshes the session's chain id and signer on success.
	SwitchToTarget(ctx context.Context) error
	Target() domain.ChainDescriptor
}

type networkGate struct {
	provider    interfaces.WalletProvider
	session     session.ISessionService
	target      domain.ChainDescriptor
	settleDelay time.Duration
	logger      zerolog.Logger
}

func New(provider interfaces.WalletProvider, sess session.ISessionService, target domain.ChainDescriptor, settleDelay time.Duration, logger zerolog.Logger) INetworkGate {
	return &networkGate{
		provider:    provider,
		session:     sess,
		target:      target,
		settleDelay: settleDelay,
		logger:      logger.With().Str("component", "network_gate").Logger(),
	}
}

func (g *networkGate) IsOnTargetChain() bool {
	snap := g.session.Snapshot()
	return snap.Connected() && snap.ChainID == g.target.ChainID
}

func (g *networkGate) Target() domain.ChainDescriptor {
	return g.target
}

// SwitchToTarget tries the cheap switch call first: most wallets recognize
// previously-added chains and the switch avoids an extra user prompt. Only
// an unrecognized-chain response falls back to the add-chain request.
func (g *networkGate) SwitchToTarget(ctx context.Context) error {
	err := g.provider.SwitchChain(ctx, g.target.ChainID)
	switch {
	case err == nil:
		return g.finishSwitch(ctx)
	case errors.Is(err, domain.ErrUserRejected):
		g.logger.Warn().Msg("Chain switch rejected by user")
		return fmt.Errorf("%w: %v", domain.ErrSwitchRejected, err)
	case errors.Is(err, domain.ErrChainNotRecognized):
		g.logger.Info().
			Str("chain_name", g.target.ChainName).
			Msg("Chain unknown to wallet, requesting chain add")
	default:
		g.logger.Error().Err(err).Msg("Chain switch failed")
		return fmt.Errorf("%w: %v", domain.ErrSwitchFailed, err)
	}

	if err := g.provider.AddChain(ctx, g.target); err != nil {
		if errors.Is(err, domain.ErrUserRejected) {
			g.logger.Warn().Msg("Chain add rejected by user")
			return fmt.Errorf("%w: %v", domain.ErrAddRejected, err)
		}
		g.logger.Error().Err(err).Msg("Chain add failed")
		return fmt.Errorf("%w: %v", domain.ErrSwitchFailed, err)
	}

	return g.finishSwitch(ctx)
}

// finishSwitch waits out wallet-side settling, refreshes the session (a
// chain switch invalidates prior signer capabilities) and verifies the
// switch actually landed on the target chain.
func (g *networkGate) finishSwitch(ctx context.Context) error {
	if g.settleDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.settleDelay):
		}
	}

	if err := g.session.ResyncChain(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSwitchFailed, err)
	}
	if !g.IsOnTargetChain() {
		return fmt.Errorf("%w: wallet stayed on chain %d", domain.ErrSwitchFailed, g.session.Snapshot().ChainID)
	}

	g.logger.Info().
		Uint64("chain_id", g.target.ChainID).
		Str("chain_name", g.target.ChainName).
		Msg("Switched to target chain")
	return nil
}

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
)

type sessionService struct {
	provider interfaces.WalletProvider
	target   domain.ChainDescriptor
	logger   zerolog.Logger

	mu        sync.Mutex
	status    domain.SessionStatus
	address   common.Address
	chainID   uint64
	signer    *signerHandle
	watchStop context.CancelFunc
	listeners []func(domain.SessionSnapshot)
}

func NewSessionService(provider interfaces.WalletProvider, target domain.ChainDescriptor, logger zerolog.Logger) ISessionService {
	return &sessionService{
		provider: provider,
		target:   target,
		status:   domain.SessionDisconnected,
		logger:   logger.With().Str("component", "wallet_session").Logger(),
	}
}

func (s *sessionService) Connect(ctx context.Context) (domain.SessionSnapshot, error) {
	if s.provider == nil {
		return s.Snapshot(), domain.ErrProviderUnavailable
	}

	s.mu.Lock()
	if s.status == domain.SessionConnected {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, nil
	}
	s.status = domain.SessionConnecting
	s.mu.Unlock()
	s.notify()

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		s.resetLocked()
		if errors.Is(err, domain.ErrUserRejected) {
			s.logger.Warn().Msg("Wallet connection rejected by user")
			return s.Snapshot(), err
		}
		s.logger.Error().Err(err).Msg("Failed to request wallet accounts")
		return s.Snapshot(), fmt.Errorf("requesting accounts: %w", err)
	}
	if len(accounts) == 0 {
		s.resetLocked()
		return s.Snapshot(), domain.ErrNoAccounts
	}

	chainID, err := s.provider.ChainID(ctx)
	if err != nil {
		s.resetLocked()
		s.logger.Error().Err(err).Msg("Failed to read active chain id")
		return s.Snapshot(), fmt.Errorf("reading chain id: %w", err)
	}

	address := common.HexToAddress(accounts[0])

	s.mu.Lock()
	s.address = address
	s.chainID = chainID
	s.signer = newSignerHandle(s.provider, address, chainID, uuid.New().String())
	s.status = domain.SessionConnected

	watchCtx, cancel := context.WithCancel(context.Background())
	s.watchStop = cancel
	snap := s.snapshotLocked()
	s.mu.Unlock()

	go s.watchChainChanges(watchCtx)

	s.logger.Info().
		Str("address", snap.Address).
		Uint64("chain_id", chainID).
		Bool("on_target_chain", snap.OnTargetChain).
		Msg("Wallet connected")

	s.notify()
	return snap, nil
}

func (s *sessionService) Disconnect() {
	s.mu.Lock()
	if s.watchStop != nil {
		s.watchStop()
		s.watchStop = nil
	}
	if s.signer != nil {
		s.signer.revoke()
		s.signer = nil
	}
	s.address = common.Address{}
	s.chainID = 0
	s.status = domain.SessionDisconnected
	s.mu.Unlock()

	s.logger.Info().Msg("Wallet disconnected, session state reset")
	s.notify()
}

func (s *sessionService) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *sessionService) snapshotLocked() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		Status:        s.status,
		ChainID:       s.chainID,
		OnTargetChain: s.status == domain.SessionConnected && s.chainID == s.target.ChainID,
	}
	if s.status == domain.SessionConnected {
		snap.Address = strings.ToLower(s.address.Hex())
	}
	if s.signer != nil {
		snap.SignerGeneration = s.signer.generation
	}
	return snap
}

func (s *sessionService) Signer() (interfaces.Signer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != domain.SessionConnected || s.signer == nil {
		return nil, domain.ErrNotConnected
	}
	return s.signer, nil
}

func (s *sessionService) ResyncChain(ctx context.Context) error {
	chainID, err := s.provider.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("reading chain id: %w", err)
	}
	s.rotateSigner(chainID)
	return nil
}

func (s *sessionService) OnChange(fn func(domain.SessionSnapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// watchChainChanges keeps the session in sync with the provider. A chain
// change re-enters connected with updated chain fields; it never resets
// the session to disconnected.
func (s *sessionService) watchChainChanges(ctx context.Context) {
	ch, err := s.provider.SubscribeChainChanged(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Chain-change subscription unavailable")
		return
	}
	for chainID := range ch {
		s.logger.Info().Uint64("chain_id", chainID).Msg("Active chain changed, rotating signer")
		s.rotateSigner(chainID)
	}
}

// rotateSigner invalidates the current signer handle and mints a new one
// bound to the given chain. Only the session mutates the handle.
func (s *sessionService) rotateSigner(chainID uint64) {
	s.mu.Lock()
	if s.status != domain.SessionConnected {
		s.mu.Unlock()
		return
	}
	if s.signer != nil {
		s.signer.revoke()
	}
	s.chainID = chainID
	s.signer = newSignerHandle(s.provider, s.address, chainID, uuid.New().String())
	s.mu.Unlock()

	s.notify()
}

func (s *sessionService) resetLocked() {
	s.mu.Lock()
	s.address = common.Address{}
	s.chainID = 0
	s.signer = nil
	s.status = domain.SessionDisconnected
	s.mu.Unlock()
	s.notify()
}

func (s *sessionService) notify() {
	s.mu.Lock()
	snap := s.snapshotLocked()
	listeners := make([]func(domain.SessionSnapshot), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

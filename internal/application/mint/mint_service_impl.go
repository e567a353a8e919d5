package mint

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/application/netgate"
	"github.com/oxventura/wishd/internal/application/session"
	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
	"github.com/oxventura/wishd/internal/observability"
	"github.com/oxventura/wishd/pkg/config"
)

type mintService struct {
	session   session.ISessionService
	gate      netgate.INetworkGate
	ledger    interfaces.MintLedger
	contracts domain.ContractSet
	config    config.MintConfig
	logger    zerolog.Logger

	// Advisory streak counters, not ledger-verified. They reset on
	// disconnect or process restart; true history is available through
	// Wishes.
	mu      sync.Mutex
	streaks map[string]int

	now func() time.Time
}

func NewMintService(
	sess session.ISessionService,
	gate netgate.INetworkGate,
	ledger interfaces.MintLedger,
	contracts domain.ContractSet,
	cfg config.MintConfig,
	logger zerolog.Logger,
) IMintService {
	svc := &mintService{
		session:   sess,
		gate:      gate,
		ledger:    ledger,
		contracts: contracts,
		config:    cfg,
		streaks:   make(map[string]int),
		now:       time.Now,
		logger:    logger.With().Str("component", "daily_mint_gate").Logger(),
	}
	sess.OnChange(func(snap domain.SessionSnapshot) {
		if !snap.Connected() {
			svc.mu.Lock()
			svc.streaks = make(map[string]int)
			svc.mu.Unlock()
		}
	})
	return svc
}

func (s *mintService) Status(ctx context.Context) (domain.MintStatus, error) {
	snap := s.session.Snapshot()
	if !snap.Connected() {
		return domain.MintStatus{}, domain.ErrNotConnected
	}

	now := s.now()
	status := domain.MintStatus{
		DateKey:        domain.DateKey(now),
		TimeUntilReset: domain.TimeUntilReset(now),
		Streak:         s.streak(snap.Address),
	}

	if !s.gate.IsOnTargetChain() || !s.contracts.WishNFTDeployed() {
		return status, nil
	}

	signer, err := s.session.Signer()
	if err != nil {
		return status, nil
	}

	minted, err := s.ledger.HasMintedToday(ctx, signer, signer.Address(), status.DateKey)
	if err != nil {
		s.logger.Warn().Err(err).Str("date_key", status.DateKey).Msg("Mint status check failed, leaving gate unchecked")
		return status, nil
	}

	status.HasMintedToday = minted
	status.LedgerChecked = true
	return status, nil
}

func (s *mintService) Mint(ctx context.Context, wishText, receiver string) (domain.MintReceipt, error) {
	signer, err := s.session.Signer()
	if err != nil {
		return domain.MintReceipt{}, err
	}

	// Validation resolves entirely client-side; nothing below reaches the
	// ledger until every check passes.
	if strings.TrimSpace(wishText) == "" {
		return domain.MintReceipt{}, fmt.Errorf("%w: wish text is required", domain.ErrValidation)
	}
	if len(wishText) > s.maxWishLength() {
		return domain.MintReceipt{}, fmt.Errorf("%w: wish text must be %d characters or less", domain.ErrValidation, s.maxWishLength())
	}
	if !common.IsHexAddress(receiver) {
		return domain.MintReceipt{}, fmt.Errorf("%w: invalid receiver address", domain.ErrValidation)
	}
	if !s.gate.IsOnTargetChain() {
		return domain.MintReceipt{}, domain.ErrWrongNetwork
	}
	if !s.contracts.WishNFTDeployed() {
		return domain.MintReceipt{}, fmt.Errorf("%w: wish contract not deployed", domain.ErrContractNotConfigured)
	}

	dateKey := domain.DateKey(s.now())
	address := strings.ToLower(signer.Address().Hex())

	receipt, err := s.ledger.MintWish(ctx, signer, common.HexToAddress(receiver), wishText, dateKey)
	if err != nil {
		// The ledger enforces (address, dateKey) uniqueness; a rejected
		// second mint must not flip local state.
		s.logger.Error().Err(err).Str("date_key", dateKey).Msg("Mint failed")
		return domain.MintReceipt{}, err
	}

	streak := s.bumpStreak(address)
	observability.MintsTotal.Inc()

	s.logger.Info().
		Str("tx_hash", receipt.TxHash).
		Str("date_key", dateKey).
		Int("streak", streak).
		Msg("Daily wish minted")

	return domain.MintReceipt{
		TxHash:  receipt.TxHash,
		DateKey: dateKey,
		Streak:  streak,
	}, nil
}

func (s *mintService) Wishes(ctx context.Context) ([]domain.Wish, error) {
	signer, err := s.session.Signer()
	if err != nil {
		return nil, err
	}
	if !s.contracts.WishNFTDeployed() {
		return nil, fmt.Errorf("%w: wish contract not deployed", domain.ErrContractNotConfigured)
	}
	return s.ledger.WishesByAddress(ctx, signer, signer.Address())
}

func (s *mintService) StartStatusPolling(ctx context.Context, onUpdate func(address string, status domain.MintStatus)) {
	interval := s.config.StatusPollInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug().Msg("Mint status polling stopped")
			return
		case <-ticker.C:
			snap := s.session.Snapshot()
			if !snap.Connected() {
				continue
			}
			status, err := s.Status(ctx)
			if err != nil {
				continue
			}
			onUpdate(snap.Address, status)
		}
	}
}

func (s *mintService) maxWishLength() int {
	if s.config.MaxWishLength > 0 {
		return s.config.MaxWishLength
	}
	return domain.MaxWishLength
}

func (s *mintService) streak(address string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaks[address]
}

func (s *mintService) bumpStreak(address string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streaks[address]++
	return s.streaks[address]
}

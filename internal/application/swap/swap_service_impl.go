package swap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/application/netgate"
	"github.com/oxventura/wishd/internal/application/session"
	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
	"github.com/oxventura/wishd/internal/observability"
	"github.com/oxventura/wishd/pkg/config"
	"github.com/oxventura/wishd/pkg/units"
)

type swapService struct {
	session   session.ISessionService
	gate      netgate.INetworkGate
	ledger    interfaces.TokenLedger
	contracts domain.ContractSet
	rate      RateSource
	config    config.SwapConfig
	logger    zerolog.Logger

	mu    sync.Mutex
	state domain.SwapState
}

func NewSwapService(
	sess session.ISessionService,
	gate netgate.INetworkGate,
	ledger interfaces.TokenLedger,
	contracts domain.ContractSet,
	rate RateSource,
	cfg config.SwapConfig,
	logger zerolog.Logger,
) ISwapService {
	return &swapService{
		session:   sess,
		gate:      gate,
		ledger:    ledger,
		contracts: contracts,
		rate:      rate,
		config:    cfg,
		state:     domain.SwapIdle,
		logger:    logger.With().Str("component", "swap_engine").Logger(),
	}
}

func (s *swapService) Quote(fromAmount string, direction domain.SwapDirection) (domain.SwapQuote, error) {
	return domain.ComputeQuote(fromAmount, direction, s.rate.Rate())
}

func (s *swapService) Reverse(quote domain.SwapQuote) domain.SwapQuote {
	return quote.Reversed()
}

func (s *swapService) Balances(ctx context.Context) (domain.Balances, error) {
	signer, err := s.session.Signer()
	if err != nil {
		return domain.Balances{}, err
	}

	// Balance reads degrade per-asset: a failing read shows as zero rather
	// than failing the whole refresh.
	balances := domain.Balances{USDC: "0", WISH: "0"}
	owner := signer.Address()

	if s.contracts.USDCConfigured() {
		if v, err := s.ledger.BalanceOf(ctx, signer, s.contracts.USDCToken, owner); err != nil {
			s.logger.Warn().Err(err).Msg("USDC balance read failed")
		} else {
			balances.USDC = units.Format(v, s.contracts.USDCDecimals)
		}
	}
	if s.contracts.WishTokenDeployed() {
		if v, err := s.ledger.BalanceOf(ctx, signer, s.contracts.WishToken, owner); err != nil {
			s.logger.Warn().Err(err).Msg("WISH balance read failed")
		} else {
			balances.WISH = units.Format(v, s.contracts.WishDecimals)
		}
	}
	return balances, nil
}

func (s *swapService) Swap(ctx context.Context, fromAmount string, direction domain.SwapDirection) (domain.SwapResult, error) {
	// Validation chain, first failing check short-circuits.
	signer, err := s.session.Signer()
	if err != nil {
		return domain.SwapResult{}, err
	}
	if !s.gate.IsOnTargetChain() {
		return domain.SwapResult{}, domain.ErrWrongNetwork
	}
	if !s.contracts.WishTokenDeployed() || !s.contracts.USDCConfigured() {
		return domain.SwapResult{}, fmt.Errorf("%w: token contracts not configured", domain.ErrContractNotConfigured)
	}
	if !direction.Valid() {
		return domain.SwapResult{}, fmt.Errorf("%w: unknown swap direction %q", domain.ErrValidation, direction)
	}

	srcToken := s.contracts.USDCToken
	srcDecimals := s.contracts.USDCDecimals
	srcSymbol := "USDC"
	if direction == domain.SwapWISHToUSDC {
		srcToken = s.contracts.WishToken
		srcDecimals = s.contracts.WishDecimals
		srcSymbol = "WISH"
	}

	amount, err := units.Parse(fromAmount, srcDecimals)
	if err != nil || amount.Sign() <= 0 {
		return domain.SwapResult{}, fmt.Errorf("%w: enter a valid %s amount", domain.ErrValidation, srcSymbol)
	}

	owner := signer.Address()
	balance, err := s.ledger.BalanceOf(ctx, signer, srcToken, owner)
	if err != nil {
		return domain.SwapResult{}, fmt.Errorf("%w: reading %s balance: %v", domain.ErrLedgerUnavailable, srcSymbol, err)
	}
	if balance.Cmp(amount) < 0 {
		return domain.SwapResult{}, fmt.Errorf("%w: insufficient %s balance", domain.ErrInsufficientBalance, srcSymbol)
	}

	quote, err := s.Quote(fromAmount, direction)
	if err != nil {
		return domain.SwapResult{}, err
	}

	result := domain.SwapResult{
		Direction:  direction,
		FromAmount: quote.FromAmount,
		ToAmount:   quote.ToAmount,
	}

	// Allowance phase. Skipped when the standing allowance already covers
	// the amount, avoiding a redundant wallet prompt.
	s.setState(domain.SwapApproving)
	spender := s.contracts.WishToken
	allowance, err := s.ledger.Allowance(ctx, signer, srcToken, owner, spender)
	if err != nil {
		s.setState(domain.SwapErrored)
		return domain.SwapResult{}, fmt.Errorf("%w: reading allowance: %v", domain.ErrLedgerUnavailable, err)
	}
	if allowance.Cmp(amount) < 0 {
		receipt, err := s.ledger.Approve(ctx, signer, srcToken, spender, amount)
		if err != nil {
			s.setState(domain.SwapErrored)
			return domain.SwapResult{}, err
		}
		result.ApprovalTxHash = receipt.TxHash
		observability.ApprovalsTotal.Inc()
	}

	// Exchange phase. The approval confirmation above always precedes this
	// submission.
	s.setState(domain.SwapSwapping)
	var receipt *domain.Receipt
	if direction == domain.SwapUSDCToWISH {
		receipt, err = s.ledger.SwapUSDCForWISH(ctx, signer, amount)
	} else {
		receipt, err = s.ledger.SwapWISHForUSDC(ctx, signer, amount)
	}
	if err != nil {
		s.setState(domain.SwapErrored)
		return domain.SwapResult{}, err
	}

	result.TxHash = receipt.TxHash
	s.setState(domain.SwapSucceeded)
	s.scheduleReset()
	observability.SwapsTotal.WithLabelValues(string(direction)).Inc()

	s.logger.Info().
		Str("tx_hash", receipt.TxHash).
		Str("direction", string(direction)).
		Str("from_amount", quote.FromAmount).
		Str("to_amount", quote.ToAmount).
		Msg("Swap confirmed")

	return result, nil
}

func (s *swapService) State() domain.SwapState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *swapService) StartBalancePolling(ctx context.Context, onUpdate func(address string, balances domain.Balances)) {
	interval := s.config.BalancePollInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug().Msg("Balance polling stopped")
			return
		case <-ticker.C:
			// Suspended while disconnected or off-network to avoid needless
			// calls against a stale signer.
			snap := s.session.Snapshot()
			if !snap.Connected() || !s.gate.IsOnTargetChain() {
				continue
			}
			balances, err := s.Balances(ctx)
			if err != nil {
				continue
			}
			onUpdate(snap.Address, balances)
		}
	}
}

func (s *swapService) setState(state domain.SwapState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// scheduleReset returns the engine to idle after a short display delay on
// success.
func (s *swapService) scheduleReset() {
	delay := s.config.ResetDelay
	if delay <= 0 {
		delay = 3 * time.Second
	}
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.state == domain.SwapSucceeded {
			s.state = domain.SwapIdle
		}
		s.mu.Unlock()
	})
}

package swap

import (
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
	"github.com/oxventura/wishd/pkg/config"
	"github.com/oxventura/wishd/pkg/logger"
	"github.com/oxventura/wishd/pkg/units"
)

type fakeSigner struct {
	address common.Address
}

func (f *fakeSigner) Address() common.Address { return f.address }
func (f *fakeSigner) ChainID() uint64         { return 5042002 }
func (f *fakeSigner) Generation() string      { return "gen-1" }

func (f *fakeSigner) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return nil, nil
}

func (f *fakeSigner) Send(ctx context.Context, to common.Address, data []byte, gas uint64) (string, error) {
	return "0xdead", nil
}

func (f *fakeSigner) WaitMined(ctx context.Context, txHash string) (*domain.Receipt, error) {
	return &domain.Receipt{TxHash: txHash, Status: 1}, nil
}

type fakeSession struct {
	snapshot  domain.SessionSnapshot
	signer    interfaces.Signer
	signerErr error
}

func (f *fakeSession) Connect(ctx context.Context) (domain.SessionSnapshot, error) {
	return f.snapshot, nil
}
func (f *fakeSession) Disconnect()                           {}
func (f *fakeSession) Snapshot() domain.SessionSnapshot      { return f.snapshot }
func (f *fakeSession) ResyncChain(ctx context.Context) error { return nil }
func (f *fakeSession) OnChange(fn func(domain.SessionSnapshot)) {}

func (f *fakeSession) Signer() (interfaces.Signer, error) {
	if f.signerErr != nil {
		return nil, f.signerErr
	}
	return f.signer, nil
}

type fakeGate struct {
	onTarget bool
}

func (f *fakeGate) IsOnTargetChain() bool                    { return f.onTarget }
func (f *fakeGate) SwitchToTarget(ctx context.Context) error { return nil }
func (f *fakeGate) Target() domain.ChainDescriptor           { return domain.ChainDescriptor{} }

type fakeTokenLedger struct {
	balances     map[common.Address]*big.Int
	balanceErr   error
	allowance    *big.Int
	allowanceErr error
	approveErr   error
	approvals    int
	swaps        int
	swapErr      error
}

func (f *fakeTokenLedger) BalanceOf(ctx context.Context, s interfaces.Signer, token, owner common.Address) (*big.Int, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	if v, ok := f.balances[token]; ok {
		return v, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeTokenLedger) Allowance(ctx context.Context, s interfaces.Signer, token, owner, spender common.Address) (*big.Int, error) {
	if f.allowanceErr != nil {
		return nil, f.allowanceErr
	}
	if f.allowance == nil {
		return big.NewInt(0), nil
	}
	return f.allowance, nil
}

func (f *fakeTokenLedger) Approve(ctx context.Context, s interfaces.Signer, token, spender common.Address, amount *big.Int) (*domain.Receipt, error) {
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	f.approvals++
	f.allowance = amount
	return &domain.Receipt{TxHash: "0xapprove", Status: 1}, nil
}

func (f *fakeTokenLedger) SwapUSDCForWISH(ctx context.Context, s interfaces.Signer, amount *big.Int) (*domain.Receipt, error) {
	if f.swapErr != nil {
		return nil, f.swapErr
	}
	f.swaps++
	return &domain.Receipt{TxHash: "0xswap", Status: 1}, nil
}

func (f *fakeTokenLedger) SwapWISHForUSDC(ctx context.Context, s interfaces.Signer, amount *big.Int) (*domain.Receipt, error) {
	return f.SwapUSDCForWISH(ctx, s, amount)
}

var (
	userAddr  = common.HexToAddress("0xAbCd000000000000000000000000000000000001")
	contracts = domain.ContractSet{
		WishToken:    common.HexToAddress("0x7adf36ef2f3775096298101a6e88e44c5ada4b95"),
		USDCToken:    common.HexToAddress("0x3600000000000000000000000000000000000000"),
		WishDecimals: 18,
		USDCDecimals: 6,
	}
)

func connectedSession() *fakeSession {
	return &fakeSession{
		snapshot: domain.SessionSnapshot{
			Address:       strings.ToLower(userAddr.Hex()),
			ChainID:       5042002,
			Status:        domain.SessionConnected,
			OnTargetChain: true,
		},
		signer: &fakeSigner{address: userAddr},
	}
}

func newService(ledger *fakeTokenLedger, gate *fakeGate) ISwapService {
	cfg := config.SwapConfig{ExchangeRate: 100, ResetDelay: 10 * time.Millisecond}
	return NewSwapService(connectedSession(), gate, ledger, contracts, FixedRate(100), cfg, logger.New())
}

func fundedLedger() *fakeTokenLedger {
	return &fakeTokenLedger{
		balances: map[common.Address]*big.Int{
			contracts.USDCToken: units.Whole(1000, contracts.USDCDecimals),
			contracts.WishToken: units.Whole(5000, contracts.WishDecimals),
		},
	}
}

func TestSwapWithNoStandingAllowanceApprovesOnce(t *testing.T) {
	ledger := fundedLedger()
	svc := newService(ledger, &fakeGate{onTarget: true})

	result, err := svc.Swap(context.Background(), "10", domain.SwapUSDCToWISH)
	require.NoError(t, err)
	require.Equal(t, "0xswap", result.TxHash)
	require.Equal(t, "0xapprove", result.ApprovalTxHash)
	require.Equal(t, 1, ledger.approvals)
	require.Equal(t, 1, ledger.swaps)
	require.Equal(t, "1000.00", result.ToAmount)
}

func TestSwapWithSufficientAllowanceSkipsApproval(t *testing.T) {
	ledger := fundedLedger()
	ledger.allowance = units.Whole(1000, contracts.USDCDecimals)
	svc := newService(ledger, &fakeGate{onTarget: true})

	result, err := svc.Swap(context.Background(), "10", domain.SwapUSDCToWISH)
	require.NoError(t, err)
	require.Empty(t, result.ApprovalTxHash)
	require.Zero(t, ledger.approvals)
	require.Equal(t, 1, ledger.swaps)
}

func TestSwapInsufficientBalance(t *testing.T) {
	ledger := &fakeTokenLedger{
		balances: map[common.Address]*big.Int{
			contracts.USDCToken: units.Whole(5, contracts.USDCDecimals),
		},
	}
	svc := newService(ledger, &fakeGate{onTarget: true})

	_, err := svc.Swap(context.Background(), "10", domain.SwapUSDCToWISH)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	require.Zero(t, ledger.swaps)
}

func TestSwapValidatesAmount(t *testing.T) {
	ledger := fundedLedger()
	svc := newService(ledger, &fakeGate{onTarget: true})

	for _, amount := range []string{"", "0", "-5", "abc"} {
		_, err := svc.Swap(context.Background(), amount, domain.SwapUSDCToWISH)
		require.ErrorIs(t, err, domain.ErrValidation, "amount %q", amount)
	}
	require.Zero(t, ledger.swaps)
}

func TestSwapRequiresTargetNetwork(t *testing.T) {
	ledger := fundedLedger()
	svc := newService(ledger, &fakeGate{onTarget: false})

	_, err := svc.Swap(context.Background(), "10", domain.SwapUSDCToWISH)
	require.ErrorIs(t, err, domain.ErrWrongNetwork)
}

func TestSwapApprovalRejectionStopsExchange(t *testing.T) {
	ledger := fundedLedger()
	ledger.approveErr = domain.ErrUserRejected
	svc := newService(ledger, &fakeGate{onTarget: true})

	_, err := svc.Swap(context.Background(), "10", domain.SwapUSDCToWISH)
	require.ErrorIs(t, err, domain.ErrUserRejected)
	require.Zero(t, ledger.swaps)
	require.Equal(t, domain.SwapErrored, svc.State())
}

func TestSwapStateReturnsToIdleAfterSuccess(t *testing.T) {
	ledger := fundedLedger()
	svc := newService(ledger, &fakeGate{onTarget: true})

	_, err := svc.Swap(context.Background(), "10", domain.SwapUSDCToWISH)
	require.NoError(t, err)
	require.Equal(t, domain.SwapSucceeded, svc.State())

	require.Eventually(t, func() bool {
		return svc.State() == domain.SwapIdle
	}, time.Second, 5*time.Millisecond)
}

func TestBalancesDegradePerAsset(t *testing.T) {
	ledger := fundedLedger()
	svc := newService(ledger, &fakeGate{onTarget: true})

	balances, err := svc.Balances(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1000", balances.USDC)
	require.Equal(t, "5000", balances.WISH)

	ledger.balanceErr = context.DeadlineExceeded
	balances, err = svc.Balances(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0", balances.USDC)
	require.Equal(t, "0", balances.WISH)
}

func TestWishToUSDCQuoteUsesSixDecimals(t *testing.T) {
	svc := newService(fundedLedger(), &fakeGate{onTarget: true})

	quote, err := svc.Quote("250", domain.SwapWISHToUSDC)
	require.NoError(t, err)
	require.Equal(t, "2.500000", quote.ToAmount)
}

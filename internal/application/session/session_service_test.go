package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/pkg/logger"
)

type fakeProvider struct {
	accounts    []string
	accountsErr error
	chainID     uint64
	chainIDErr  error
	chainEvents chan uint64
}

func (f *fakeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeProvider) ChainID(ctx context.Context) (uint64, error) {
	return f.chainID, f.chainIDErr
}

func (f *fakeProvider) SwitchChain(ctx context.Context, chainID uint64) error { return nil }

func (f *fakeProvider) AddChain(ctx context.Context, desc domain.ChainDescriptor) error { return nil }

func (f *fakeProvider) Call(ctx context.Context, msg domain.CallMsg) ([]byte, error) {
	return nil, nil
}

func (f *fakeProvider) SendTransaction(ctx context.Context, msg domain.CallMsg) (string, error) {
	return "0xdead", nil
}

func (f *fakeProvider) WaitMined(ctx context.Context, txHash string) (*domain.Receipt, error) {
	return &domain.Receipt{TxHash: txHash, Status: 1}, nil
}

func (f *fakeProvider) SubscribeChainChanged(ctx context.Context) (<-chan uint64, error) {
	if f.chainEvents == nil {
		f.chainEvents = make(chan uint64)
	}
	return f.chainEvents, nil
}

var target = domain.ChainDescriptor{ChainID: 5042002, ChainName: "Arc Testnet"}

func TestConnectSuccess(t *testing.T) {
	provider := &fakeProvider{
		accounts: []string{"0xAbCd000000000000000000000000000000000001"},
		chainID:  5042002,
	}
	svc := NewSessionService(provider, target, logger.New())

	snap, err := svc.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.SessionConnected, snap.Status)
	require.Equal(t, "0xabcd000000000000000000000000000000000001", snap.Address)
	require.True(t, snap.OnTargetChain)
	require.NotEmpty(t, snap.SignerGeneration)

	signer, err := svc.Signer()
	require.NoError(t, err)
	require.Equal(t, uint64(5042002), signer.ChainID())
}

func TestConnectIsIdempotentWhileConnected(t *testing.T) {
	provider := &fakeProvider{
		accounts: []string{"0xAbCd000000000000000000000000000000000001"},
		chainID:  5042002,
	}
	svc := NewSessionService(provider, target, logger.New())

	first, err := svc.Connect(context.Background())
	require.NoError(t, err)
	second, err := svc.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, first.SignerGeneration, second.SignerGeneration)
}

func TestConnectUserRejected(t *testing.T) {
	provider := &fakeProvider{accountsErr: domain.ErrUserRejected}
	svc := NewSessionService(provider, target, logger.New())

	snap, err := svc.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrUserRejected)
	require.Equal(t, domain.SessionDisconnected, snap.Status)
	require.Empty(t, snap.Address)
}

func TestConnectNoAccounts(t *testing.T) {
	provider := &fakeProvider{accounts: []string{}}
	svc := NewSessionService(provider, target, logger.New())

	_, err := svc.Connect(context.Background())
	require.ErrorIs(t, err, domain.ErrNoAccounts)

	_, err = svc.Signer()
	require.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestDisconnectRevokesSigner(t *testing.T) {
	provider := &fakeProvider{
		accounts: []string{"0xAbCd000000000000000000000000000000000001"},
		chainID:  5042002,
	}
	svc := NewSessionService(provider, target, logger.New())

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)
	signer, err := svc.Signer()
	require.NoError(t, err)

	svc.Disconnect()

	require.Equal(t, domain.SessionDisconnected, svc.Snapshot().Status)
	_, err = svc.Signer()
	require.ErrorIs(t, err, domain.ErrNotConnected)

	// The old handle is dead even if a caller kept a reference.
	_, err = signer.Call(context.Background(), signer.Address(), nil)
	require.ErrorIs(t, err, domain.ErrStaleSigner)
}

func TestChainChangeRotatesSigner(t *testing.T) {
	provider := &fakeProvider{
		accounts:    []string{"0xAbCd000000000000000000000000000000000001"},
		chainID:     5042002,
		chainEvents: make(chan uint64),
	}
	svc := NewSessionService(provider, target, logger.New())

	first, err := svc.Connect(context.Background())
	require.NoError(t, err)
	require.True(t, first.OnTargetChain)
	oldSigner, err := svc.Signer()
	require.NoError(t, err)

	provider.chainEvents <- 1

	require.Eventually(t, func() bool {
		snap := svc.Snapshot()
		return snap.ChainID == 1 && snap.SignerGeneration != first.SignerGeneration
	}, time.Second, 10*time.Millisecond)

	snap := svc.Snapshot()
	require.Equal(t, domain.SessionConnected, snap.Status)
	require.False(t, snap.OnTargetChain)

	// Pre-change signer handles must refuse to act on the new chain.
	_, err = oldSigner.Call(context.Background(), oldSigner.Address(), nil)
	require.ErrorIs(t, err, domain.ErrStaleSigner)
}

func TestOnChangeNotifiesListeners(t *testing.T) {
	provider := &fakeProvider{
		accounts: []string{"0xAbCd000000000000000000000000000000000001"},
		chainID:  5042002,
	}
	svc := NewSessionService(provider, target, logger.New())

	updates := make(chan domain.SessionSnapshot, 10)
	svc.OnChange(func(snap domain.SessionSnapshot) { updates <- snap })

	_, err := svc.Connect(context.Background())
	require.NoError(t, err)

	var statuses []domain.SessionStatus
	for len(updates) > 0 {
		statuses = append(statuses, (<-updates).Status)
	}
	require.Contains(t, statuses, domain.SessionConnecting)
	require.Contains(t, statuses, domain.SessionConnected)
}

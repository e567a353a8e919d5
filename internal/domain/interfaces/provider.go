package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/oxventura/wishd/internal/domain"
)

// WalletProvider is the injected-wallet boundary (EIP-1193 surface reached
// through the bridge). Every method can suspend on a user prompt.
type WalletProvider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	ChainID(ctx context.Context) (uint64, error)
	SwitchChain(ctx context.Context, chainID uint64) error
	AddChain(ctx context.Context, desc domain.ChainDescriptor) error

	Call(ctx context.Context, msg domain.CallMsg) ([]byte, error)
	SendTransaction(ctx context.Context, msg domain.CallMsg) (string, error)
	WaitMined(ctx context.Context, txHash string) (*domain.Receipt, error)

	// SubscribeChainChanged delivers the new chain id whenever the active
	// chain changes underneath the session. The channel closes when ctx is
	// cancelled.
	SubscribeChainChanged(ctx context.Context) (<-chan uint64, error)
}

// Signer is the opaque capability bound to the current provider and chain.
// The wallet session is the only component that mints or invalidates one;
// everything else borrows it for a single operation.
type Signer interface {
	Address() common.Address
	ChainID() uint64
	Generation() string

	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	Send(ctx context.Context, to common.Address, data []byte, gas uint64) (string, error)
	WaitMined(ctx context.Context, txHash string) (*domain.Receipt, error)
}

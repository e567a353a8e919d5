package session

import (
	"context"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
)

// signerHandle is the opaque signing capability bound to one
// provider+chain pairing. A chain change revokes the old handle and mints
// a new generation, so any poller still holding the stale one fails fast
// instead of signing against the wrong chain.
type signerHandle struct {
	provider   interfaces.WalletProvider
	address    common.Address
	chainID    uint64
	generation string
	revoked    atomic.Bool
}

func newSignerHandle(provider interfaces.WalletProvider, address common.Address, chainID uint64, generation string) *signerHandle {
	return &signerHandle{
		provider:   provider,
		address:    address,
		chainID:    chainID,
		generation: generation,
	}
}

func (h *signerHandle) Address() common.Address { return h.address }
func (h *signerHandle) ChainID() uint64         { return h.chainID }
func (h *signerHandle) Generation() string      { return h.generation }

func (h *signerHandle) revoke() { h.revoked.Store(true) }

func (h *signerHandle) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	if h.revoked.Load() {
		return nil, domain.ErrStaleSigner
	}
	return h.provider.Call(ctx, domain.CallMsg{From: h.address, To: to, Data: data})
}

func (h *signerHandle) Send(ctx context.Context, to common.Address, data []byte, gas uint64) (string, error) {
	if h.revoked.Load() {
		return "", domain.ErrStaleSigner
	}
	return h.provider.SendTransaction(ctx, domain.CallMsg{From: h.address, To: to, Data: data, Gas: gas})
}

func (h *signerHandle) WaitMined(ctx context.Context, txHash string) (*domain.Receipt, error) {
	// A submitted transaction belongs to the ledger; waiting on its receipt
	// stays valid even after a signer rotation.
	return h.provider.WaitMined(ctx, txHash)
}

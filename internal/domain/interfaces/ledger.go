package interfaces

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/oxventura/wishd/internal/domain"
)

// MintLedger is the wish-NFT contract capability.
type MintLedger interface {
	HasMintedToday(ctx context.Context, s Signer, user common.Address, dateKey string) (bool, error)
	MintWish(ctx context.Context, s Signer, to common.Address, wishText, dateKey string) (*domain.Receipt, error)
	WishesByAddress(ctx context.Context, s Signer, owner common.Address) ([]domain.Wish, error)
}

// TokenLedger is the fungible-asset capability: ERC-20 reads, approvals and
// the two swap entry points on the WISH token contract.
type TokenLedger interface {
	BalanceOf(ctx context.Context, s Signer, token, owner common.Address) (*big.Int, error)
	Allowance(ctx context.Context, s Signer, token, owner, spender common.Address) (*big.Int, error)
	Approve(ctx context.Context, s Signer, token, spender common.Address, amount *big.Int) (*domain.Receipt, error)
	SwapUSDCForWISH(ctx context.Context, s Signer, amount *big.Int) (*domain.Receipt, error)
	SwapWISHForUSDC(ctx context.Context, s Signer, amount *big.Int) (*domain.Receipt, error)
}

// RewardLedger is the reward-settlement capability on the WISH token
// contract.
type RewardLedger interface {
	HasClaimedTask(ctx context.Context, s Signer, user common.Address, taskID string) (bool, error)
	PoolBalance(ctx context.Context, s Signer) (*big.Int, error)
	ClaimReward(ctx context.Context, s Signer, taskID string, amount *big.Int) (*domain.Receipt, error)
}

// KVStore is the locally persisted state boundary: key → JSON blob, read
// returns absent-or-value, write is whole-value replace. No transactions
// across keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
)

// TokenLedgerClient implements interfaces.TokenLedger and
// interfaces.RewardLedger. Both capabilities live on the WISH token
// contract; plain ERC-20 reads are addressed per token so USDC reuses the
// same codec.
type TokenLedgerClient struct {
	wishToken     common.Address
	claimGasLimit uint64
	abi           abi.ABI
	logger        zerolog.Logger
}

func NewTokenLedgerClient(wishToken common.Address, claimGasLimit uint64, logger zerolog.Logger) (*TokenLedgerClient, error) {
	parsed, err := parseABI(wishTokenABI)
	if err != nil {
		return nil, err
	}
	return &TokenLedgerClient{
		wishToken:     wishToken,
		claimGasLimit: claimGasLimit,
		abi:           parsed,
		logger:        logger.With().Str("component", "token_ledger_client").Logger(),
	}, nil
}

func (c *TokenLedgerClient) BalanceOf(ctx context.Context, s interfaces.Signer, token, owner common.Address) (*big.Int, error) {
	return c.readUint(ctx, s, token, "balanceOf", owner)
}

func (c *TokenLedgerClient) Allowance(ctx context.Context, s interfaces.Signer, token, owner, spender common.Address) (*big.Int, error) {
	return c.readUint(ctx, s, token, "allowance", owner, spender)
}

func (c *TokenLedgerClient) Approve(ctx context.Context, s interfaces.Signer, token, spender common.Address, amount *big.Int) (*domain.Receipt, error) {
	data, err := c.abi.Pack("approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("packing approve: %w", err)
	}

	txHash, err := s.Send(ctx, token, data, 0)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("tx_hash", txHash).
		Str("token", token.Hex()).
		Str("spender", spender.Hex()).
		Msg("Approval transaction submitted")

	return s.WaitMined(ctx, txHash)
}

func (c *TokenLedgerClient) SwapUSDCForWISH(ctx context.Context, s interfaces.Signer, amount *big.Int) (*domain.Receipt, error) {
	return c.submitSwap(ctx, s, "swapUSDCForWISH", amount)
}

func (c *TokenLedgerClient) SwapWISHForUSDC(ctx context.Context, s interfaces.Signer, amount *big.Int) (*domain.Receipt, error) {
	return c.submitSwap(ctx, s, "swapWISHForUSDC", amount)
}

func (c *TokenLedgerClient) submitSwap(ctx context.Context, s interfaces.Signer, method string, amount *big.Int) (*domain.Receipt, error) {
	data, err := c.abi.Pack(method, amount)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	txHash, err := s.Send(ctx, c.wishToken, data, 0)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("tx_hash", txHash).
		Str("method", method).
		Str("amount", amount.String()).
		Msg("Swap transaction submitted")

	return s.WaitMined(ctx, txHash)
}

func (c *TokenLedgerClient) HasClaimedTask(ctx context.Context, s interfaces.Signer, user common.Address, taskID string) (bool, error) {
	data, err := c.abi.Pack("hasClaimedTask", user, taskID)
	if err != nil {
		return false, fmt.Errorf("packing hasClaimedTask: %w", err)
	}

	ret, err := s.Call(ctx, c.wishToken, data)
	if err != nil {
		return false, fmt.Errorf("%w: hasClaimedTask: %v", domain.ErrLedgerUnavailable, err)
	}

	out, err := c.abi.Unpack("hasClaimedTask", ret)
	if err != nil {
		return false, fmt.Errorf("unpacking hasClaimedTask: %w", err)
	}
	return out[0].(bool), nil
}

// PoolBalance reads the reward pool held by the WISH token contract itself.
func (c *TokenLedgerClient) PoolBalance(ctx context.Context, s interfaces.Signer) (*big.Int, error) {
	return c.readUint(ctx, s, c.wishToken, "getContractWISHBalance")
}

func (c *TokenLedgerClient) ClaimReward(ctx context.Context, s interfaces.Signer, taskID string, amount *big.Int) (*domain.Receipt, error) {
	data, err := c.abi.Pack("claimSocialReward", taskID, amount)
	if err != nil {
		return nil, fmt.Errorf("packing claimSocialReward: %w", err)
	}

	txHash, err := s.Send(ctx, c.wishToken, data, c.claimGasLimit)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("tx_hash", txHash).
		Str("task_id", taskID).
		Str("amount", amount.String()).
		Msg("Claim transaction submitted")

	return s.WaitMined(ctx, txHash)
}

func (c *TokenLedgerClient) readUint(ctx context.Context, s interfaces.Signer, contract common.Address, method string, args ...interface{}) (*big.Int, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	ret, err := s.Call(ctx, contract, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLedgerUnavailable, method, err)
	}

	out, err := c.abi.Unpack(method, ret)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s: %w", method, err)
	}
	return out[0].(*big.Int), nil
}

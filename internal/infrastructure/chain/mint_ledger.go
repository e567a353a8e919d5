package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
)

// MintLedgerClient implements interfaces.MintLedger against the wish-NFT
// contract. Reads go through eth_call, writes through the borrowed signer.
type MintLedgerClient struct {
	contract common.Address
	abi      abi.ABI
	logger   zerolog.Logger
}

func NewMintLedgerClient(contract common.Address, logger zerolog.Logger) (*MintLedgerClient, error) {
	parsed, err := parseABI(wishNFTABI)
	if err != nil {
		return nil, err
	}
	return &MintLedgerClient{
		contract: contract,
		abi:      parsed,
		logger:   logger.With().Str("component", "mint_ledger_client").Logger(),
	}, nil
}

func (c *MintLedgerClient) HasMintedToday(ctx context.Context, s interfaces.Signer, user common.Address, dateKey string) (bool, error) {
	data, err := c.abi.Pack("hasMintedToday", user, dateKey)
	if err != nil {
		return false, fmt.Errorf("packing hasMintedToday: %w", err)
	}

	ret, err := s.Call(ctx, c.contract, data)
	if err != nil {
		return false, fmt.Errorf("%w: hasMintedToday: %v", domain.ErrLedgerUnavailable, err)
	}

	out, err := c.abi.Unpack("hasMintedToday", ret)
	if err != nil {
		return false, fmt.Errorf("unpacking hasMintedToday: %w", err)
	}
	return out[0].(bool), nil
}

func (c *MintLedgerClient) MintWish(ctx context.Context, s interfaces.Signer, to common.Address, wishText, dateKey string) (*domain.Receipt, error) {
	data, err := c.abi.Pack("mintWish", to, wishText, dateKey)
	if err != nil {
		return nil, fmt.Errorf("packing mintWish: %w", err)
	}

	txHash, err := s.Send(ctx, c.contract, data, 0)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("tx_hash", txHash).
		Str("date_key", dateKey).
		Str("receiver", to.Hex()).
		Msg("Mint transaction submitted")

	return s.WaitMined(ctx, txHash)
}

type wishTuple struct {
	TokenId   *big.Int
	WishText  string
	DateKey   string
	Timestamp *big.Int
}

func (c *MintLedgerClient) WishesByAddress(ctx context.Context, s interfaces.Signer, owner common.Address) ([]domain.Wish, error) {
	data, err := c.abi.Pack("getWishesByAddress", owner)
	if err != nil {
		return nil, fmt.Errorf("packing getWishesByAddress: %w", err)
	}

	ret, err := s.Call(ctx, c.contract, data)
	if err != nil {
		return nil, fmt.Errorf("%w: getWishesByAddress: %v", domain.ErrLedgerUnavailable, err)
	}

	out, err := c.abi.Unpack("getWishesByAddress", ret)
	if err != nil {
		return nil, fmt.Errorf("unpacking getWishesByAddress: %w", err)
	}
	raw := *abi.ConvertType(out[0], new([]wishTuple)).(*[]wishTuple)

	wishes := make([]domain.Wish, 0, len(raw))
	for _, w := range raw {
		wishes = append(wishes, domain.Wish{
			TokenID:  w.TokenId.Uint64(),
			WishText: w.WishText,
			DateKey:  w.DateKey,
			MintedAt: time.Unix(w.Timestamp.Int64(), 0).UTC(),
		})
	}
	return wishes, nil
}

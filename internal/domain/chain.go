package domain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// ChainDescriptor carries everything a wallet needs to add the chain
// (wallet_addEthereumChain payload).
type ChainDescriptor struct {
	ChainID        uint64         `json:"chain_id"`
	ChainName      string         `json:"chain_name"`
	RPCURL         string         `json:"rpc_url"`
	BlockExplorer  string         `json:"block_explorer"`
	NativeCurrency NativeCurrency `json:"native_currency"`
}

func (d ChainDescriptor) ChainIDHex() string {
	return hexutil.EncodeUint64(d.ChainID)
}

// ContractSet holds the deployed contract addresses this service talks to.
// A zero address means the contract is not deployed yet and the dependent
// flow stays gated off.
type ContractSet struct {
	WishNFT       common.Address
	WishToken     common.Address
	USDCToken     common.Address
	WishDecimals  uint8
	USDCDecimals  uint8
	ClaimGasLimit uint64
}

func (c ContractSet) WishNFTDeployed() bool {
	return c.WishNFT != (common.Address{})
}

func (c ContractSet) WishTokenDeployed() bool {
	return c.WishToken != (common.Address{})
}

func (c ContractSet) USDCConfigured() bool {
	return c.USDCToken != (common.Address{})
}

// CallMsg is a contract call descriptor, read (eth_call) or write
// (eth_sendTransaction).
type CallMsg struct {
	From common.Address
	To   common.Address
	Data []byte
	Gas  uint64
}

type Receipt struct {
	TxHash      string `json:"tx_hash"`
	Status      uint64 `json:"status"`
	BlockNumber uint64 `json:"block_number"`
}

func (r *Receipt) Succeeded() bool {
	return r != nil && r.Status == 1
}

package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/oxventura/wishd/pkg/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Chain     ChainConfig     `yaml:"chain"`
	Contracts ContractsConfig `yaml:"contracts"`
	Bridge    BridgeConfig    `yaml:"bridge"`
	Mint      MintConfig      `yaml:"mint"`
	Swap      SwapConfig      `yaml:"swap"`
	Rewards   RewardsConfig   `yaml:"rewards"`
	Referral  ReferralConfig  `yaml:"referral"`
	Storage   StorageConfig   `yaml:"storage"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	JWT       JWTConfig       `yaml:"jwt"`
	Logger    logger.Config   `yaml:"logger"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

// ChainConfig describes the single target chain every privileged action is
// gated on. The full descriptor is needed for wallet_addEthereumChain.
type ChainConfig struct {
	ChainID        uint64               `yaml:"chain_id"`
	ChainName      string               `yaml:"chain_name"`
	RPCURL         string               `yaml:"rpc_url"`
	BlockExplorer  string               `yaml:"block_explorer"`
	NativeCurrency NativeCurrencyConfig `yaml:"native_currency"`
}

type NativeCurrencyConfig struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals uint8  `yaml:"decimals"`
}

type ContractsConfig struct {
	WishNFT       string `yaml:"wish_nft"`
	WishToken     string `yaml:"wish_token"`
	USDCToken     string `yaml:"usdc_token"`
	WishDecimals  uint8  `yaml:"wish_decimals"`
	USDCDecimals  uint8  `yaml:"usdc_decimals"`
	ClaimGasLimit uint64 `yaml:"claim_gas_limit"`
}

type BridgeConfig struct {
	BaseURL             string        `yaml:"base_url"`
	WsURL               string        `yaml:"ws_url"`
	Timeout             int           `yaml:"timeout"`
	MaxRetries          int           `yaml:"max_retries"`
	RetryBackoffBase    int           `yaml:"retry_backoff_base"`
	ReceiptPollInterval time.Duration `yaml:"receipt_poll_interval"`
	ChainPollInterval   time.Duration `yaml:"chain_poll_interval"`
	SwitchSettleDelay   time.Duration `yaml:"switch_settle_delay"`
}

type MintConfig struct {
	StatusPollInterval time.Duration `yaml:"status_poll_interval"`
	MaxWishLength      int           `yaml:"max_wish_length"`
}

type SwapConfig struct {
	ExchangeRate        float64       `yaml:"exchange_rate"`
	BalancePollInterval time.Duration `yaml:"balance_poll_interval"`
	ResetDelay          time.Duration `yaml:"reset_delay"`
}

type RewardsConfig struct {
	SettleLatency time.Duration `yaml:"settle_latency"`
	ResetDelay    time.Duration `yaml:"reset_delay"`
}

type ReferralConfig struct {
	Reward   int64  `yaml:"reward"`
	LinkBase string `yaml:"link_base"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type WebSocketConfig struct {
	ReadBufferSize  int  `yaml:"read_buffer_size"`
	WriteBufferSize int  `yaml:"write_buffer_size"`
	CheckOrigin     bool `yaml:"check_origin"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		return nil, err
	}

	var config Config
	configData, err := os.ReadFile("./config.yaml")
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(configData, &config); err != nil {
		return nil, err
	}

	if secret := os.Getenv("WISHD_JWT_SECRET"); secret != "" {
		config.JWT.Secret = secret
	}

	return &config, nil
}

package walletrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/pkg/config"
)

// EIP-1193 provider error codes surfaced by wallets.
const (
	codeUserRejected       = 4001
	codeChainNotRecognized = 4902
)

// Client talks JSON-RPC 2.0 to the wallet bridge, which forwards requests
// to the injected provider. It implements interfaces.WalletProvider.
type Client struct {
	baseURL    string
	wsURL      string
	httpClient *http.Client
	config     *config.BridgeConfig
	logger     zerolog.Logger
	nextID     atomic.Uint64
}

func New(cfg *config.BridgeConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		wsURL:   cfg.WsURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
		config: cfg,
		logger: logger.With().Str("component", "wallet_bridge_client").Logger(),
	}
}

type rpcRequest struct {
	Jsonrpc string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

func (c *Client) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := c.call(ctx, "eth_requestAccounts", []interface{}{}, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	var raw string
	if err := c.call(ctx, "eth_chainId", []interface{}{}, &raw); err != nil {
		return 0, err
	}
	id, err := hexutil.DecodeUint64(raw)
	if err != nil {
		return 0, fmt.Errorf("decoding chain id %q: %w", raw, err)
	}
	return id, nil
}

func (c *Client) SwitchChain(ctx context.Context, chainID uint64) error {
	params := []interface{}{
		map[string]string{"chainId": hexutil.EncodeUint64(chainID)},
	}
	return c.call(ctx, "wallet_switchEthereumChain", params, nil)
}

func (c *Client) AddChain(ctx context.Context, desc domain.ChainDescriptor) error {
	params := []interface{}{
		map[string]interface{}{
			"chainId":   desc.ChainIDHex(),
			"chainName": desc.ChainName,
			"rpcUrls":   []string{desc.RPCURL},
			"nativeCurrency": map[string]interface{}{
				"name":     desc.NativeCurrency.Name,
				"symbol":   desc.NativeCurrency.Symbol,
				"decimals": desc.NativeCurrency.Decimals,
			},
			"blockExplorerUrls": []string{desc.BlockExplorer},
		},
	}
	return c.call(ctx, "wallet_addEthereumChain", params, nil)
}

func (c *Client) Call(ctx context.Context, msg domain.CallMsg) ([]byte, error) {
	params := []interface{}{callObject(msg), "latest"}
	var raw string
	if err := c.call(ctx, "eth_call", params, &raw); err != nil {
		return nil, err
	}
	data, err := hexutil.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding call result: %w", err)
	}
	return data, nil
}

func (c *Client) SendTransaction(ctx context.Context, msg domain.CallMsg) (string, error) {
	params := []interface{}{callObject(msg)}
	var hash string
	if err := c.call(ctx, "eth_sendTransaction", params, &hash); err != nil {
		return "", err
	}
	return hash, nil
}

type rpcReceipt struct {
	TransactionHash string `json:"transactionHash"`
	Status          string `json:"status"`
	BlockNumber     string `json:"blockNumber"`
}

// WaitMined polls the bridge until the transaction is mined. There is no
// mid-flight cancellation of a submitted transaction; cancelling ctx only
// stops the client-side wait.
func (c *Client) WaitMined(ctx context.Context, txHash string) (*domain.Receipt, error) {
	interval := c.config.ReceiptPollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var raw json.RawMessage
		if err := c.call(ctx, "eth_getTransactionReceipt", []interface{}{txHash}, &raw); err != nil {
			return nil, err
		}
		if len(raw) > 0 && string(raw) != "null" {
			var rec rpcReceipt
			if err := json.Unmarshal(raw, &rec); err != nil {
				return nil, fmt.Errorf("decoding receipt: %w", err)
			}
			receipt, err := rec.toDomain()
			if err != nil {
				return nil, err
			}
			if !receipt.Succeeded() {
				return receipt, fmt.Errorf("%w: transaction %s reverted", domain.ErrTransactionFailed, txHash)
			}
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r rpcReceipt) toDomain() (*domain.Receipt, error) {
	status, err := hexutil.DecodeUint64(r.Status)
	if err != nil {
		return nil, fmt.Errorf("decoding receipt status %q: %w", r.Status, err)
	}
	block, err := hexutil.DecodeUint64(r.BlockNumber)
	if err != nil {
		return nil, fmt.Errorf("decoding receipt block %q: %w", r.BlockNumber, err)
	}
	return &domain.Receipt{
		TxHash:      r.TransactionHash,
		Status:      status,
		BlockNumber: block,
	}, nil
}

func callObject(msg domain.CallMsg) map[string]string {
	obj := map[string]string{
		"from": msg.From.Hex(),
		"to":   msg.To.Hex(),
		"data": hexutil.Encode(msg.Data),
	}
	if msg.Gas > 0 {
		obj["gas"] = hexutil.EncodeUint64(msg.Gas)
	}
	return obj
}

func (c *Client) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	return c.callWithRetry(ctx, method, params, result, 0)
}

func (c *Client) callWithRetry(ctx context.Context, method string, params interface{}, result interface{}, attempt int) error {
	body, err := json.Marshal(rpcRequest{
		Jsonrpc: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if shouldRetry(err) && attempt < c.config.MaxRetries {
			backoff := calculateBackoff(attempt, c.config.RetryBackoffBase)
			c.logger.Info().
				Err(err).
				Str("method", method).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Bridge request failed, retrying after backoff")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			return c.callWithRetry(ctx, method, params, result, attempt+1)
		}
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if shouldRetryStatusCode(resp.StatusCode) && attempt < c.config.MaxRetries {
			backoff := calculateBackoff(attempt, c.config.RetryBackoffBase)
			c.logger.Warn().
				Int("status_code", resp.StatusCode).
				Str("method", method).
				Int("attempt", attempt+1).
				Dur("backoff", backoff).
				Msg("Bridge returned non-200 status, retrying after backoff")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			return c.callWithRetry(ctx, method, params, result, attempt+1)
		}
		return fmt.Errorf("%w: bridge returned status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(payload, &rpcResp); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if rpcResp.Error != nil {
		return mapProviderError(rpcResp.Error)
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decoding result for %s: %w", method, err)
		}
	}
	return nil
}

// mapProviderError translates EIP-1193 error codes into domain sentinels so
// callers can branch on user refusal vs. availability problems.
func mapProviderError(e *rpcError) error {
	switch e.Code {
	case codeUserRejected:
		return fmt.Errorf("%w: %s", domain.ErrUserRejected, e.Message)
	case codeChainNotRecognized:
		return fmt.Errorf("%w: %s", domain.ErrChainNotRecognized, e.Message)
	default:
		return e
	}
}

func shouldRetry(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}

func shouldRetryStatusCode(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func calculateBackoff(attempt, base int) time.Duration {
	if base <= 0 {
		base = 1
	}
	return time.Duration(base<<attempt) * time.Second
}

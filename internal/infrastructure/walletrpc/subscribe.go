package walletrpc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
)

type chainEvent struct {
	Type    string `json:"type"`
	ChainID string `json:"chainId"`
}

// SubscribeChainChanged streams chain-change notifications. When the bridge
// exposes a websocket feed it is preferred; otherwise the active chain id
// is polled and changes are synthesized. Either way the channel closes when
// ctx is cancelled, so pollers never outlive their owner.
func (c *Client) SubscribeChainChanged(ctx context.Context) (<-chan uint64, error) {
	ch := make(chan uint64, 1)

	if c.wsURL != "" {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL, nil)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Bridge websocket unavailable, falling back to chain polling")
			go c.pollChainChanges(ctx, ch)
			return ch, nil
		}
		go c.readChainFeed(ctx, conn, ch)
		return ch, nil
	}

	go c.pollChainChanges(ctx, ch)
	return ch, nil
}

func (c *Client) readChainFeed(ctx context.Context, conn *websocket.Conn, ch chan<- uint64) {
	defer close(ch)
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Warn().Err(err).Msg("Bridge websocket closed, chain feed ended")
			}
			return
		}

		var event chainEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			c.logger.Debug().Err(err).Msg("Skipping malformed chain feed message")
			continue
		}
		if event.Type != "chainChanged" {
			continue
		}
		id, err := hexutil.DecodeUint64(event.ChainID)
		if err != nil {
			c.logger.Debug().Err(err).Str("chain_id", event.ChainID).Msg("Skipping chain feed message with bad chain id")
			continue
		}

		select {
		case ch <- id:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) pollChainChanges(ctx context.Context, ch chan<- uint64) {
	defer close(ch)

	interval := c.config.ChainPollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last uint64
	known := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			id, err := c.ChainID(ctx)
			if err != nil {
				c.logger.Debug().Err(err).Msg("Chain poll failed")
				continue
			}
			if known && id == last {
				continue
			}
			if known {
				select {
				case ch <- id:
				case <-ctx.Done():
					return
				}
			}
			last = id
			known = true
		}
	}
}

package websocket

import (
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/oxventura/wishd/internal/domain"
)

// WsHub fans live updates out to connected clients, keyed by wallet
// address. Session updates go to every client; everything else only to the
// clients of the affected address.
type WsHub struct {
	Clients    map[string]map[*websocket.Conn]bool
	Broadcast  chan WsMessage
	Register   chan *WsClient
	Unregister chan *WsClient
	Logger     zerolog.Logger
}

type WsClient struct {
	Address string
	Conn    *websocket.Conn
}

type WsMessage struct {
	Type     string                  `json:"type"`
	Address  string                  `json:"address,omitempty"`
	Session  *domain.SessionSnapshot `json:"session,omitempty"`
	Mint     *domain.MintStatus      `json:"mint,omitempty"`
	Balances *domain.Balances        `json:"balances,omitempty"`
	Claim    *domain.ClaimResult     `json:"claim,omitempty"`
}

func NewWsHub(logger zerolog.Logger) *WsHub {
	return &WsHub{
		Clients:    make(map[string]map[*websocket.Conn]bool),
		Broadcast:  make(chan WsMessage, 100),
		Register:   make(chan *WsClient, 100),
		Unregister: make(chan *WsClient, 100),
		Logger:     logger,
	}
}

func (h *WsHub) Run() {
	for {
		select {
		case client := <-h.Register:
			if h.Clients[client.Address] == nil {
				h.Clients[client.Address] = make(map[*websocket.Conn]bool)
			}
			h.Clients[client.Address][client.Conn] = true
			h.Logger.Info().
				Str("address", client.Address).
				Int("connection_count", len(h.Clients[client.Address])).
				Msg("WebSocket client registered")

		case client := <-h.Unregister:
			if clients, ok := h.Clients[client.Address]; ok {
				delete(clients, client.Conn)
				h.Logger.Info().
					Str("address", client.Address).
					Int("connection_count", len(clients)).
					Msg("WebSocket client unregistered")
				if len(clients) == 0 {
					delete(h.Clients, client.Address)
				}
				client.Conn.Close()
			}

		case message := <-h.Broadcast:
			if message.Address == "" {
				// Session-level updates are relevant to every client.
				for address, clients := range h.Clients {
					h.sendToClients(address, clients, message)
				}
				continue
			}

			clients, ok := h.Clients[message.Address]
			if !ok {
				continue
			}
			h.sendToClients(message.Address, clients, message)
			if len(clients) == 0 {
				delete(h.Clients, message.Address)
			}
		}
	}
}

func (h *WsHub) sendToClients(address string, clients map[*websocket.Conn]bool, message WsMessage) {
	for conn := range clients {
		if err := conn.WriteJSON(message); err != nil {
			h.Logger.Err(err).
				Str("address", address).
				Str("type", message.Type).
				Msg("Failed to send WebSocket message")
			conn.Close()
			delete(clients, conn)
		}
	}
}

func (h *WsHub) BroadcastSession(snapshot domain.SessionSnapshot) {
	h.Broadcast <- WsMessage{
		Type:    "session",
		Session: &snapshot,
	}
}

func (h *WsHub) BroadcastMintStatus(address string, status domain.MintStatus) {
	h.Broadcast <- WsMessage{
		Type:    "mint_status",
		Address: address,
		Mint:    &status,
	}
}

func (h *WsHub) BroadcastBalances(address string, balances domain.Balances) {
	h.Broadcast <- WsMessage{
		Type:     "balances",
		Address:  address,
		Balances: &balances,
	}
}

func (h *WsHub) BroadcastClaim(address string, result domain.ClaimResult) {
	h.Broadcast <- WsMessage{
		Type:    "claim",
		Address: address,
		Claim:   &result,
	}
}

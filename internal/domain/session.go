package domain

type SessionStatus string

const (
	SessionDisconnected SessionStatus = "disconnected"
	SessionConnecting   SessionStatus = "connecting"
	SessionConnected    SessionStatus = "connected"
)

// SessionSnapshot is the read-only view of the wallet session handed to the
// gates and engines. Address is non-empty iff Status is connected.
type SessionSnapshot struct {
	Address          string        `json:"address,omitempty"`
	ChainID          uint64        `json:"chain_id,omitempty"`
	Status           SessionStatus `json:"status"`
	OnTargetChain    bool          `json:"on_target_chain"`
	SignerGeneration string        `json:"signer_generation,omitempty"`
}

func (s SessionSnapshot) Connected() bool {
	return s.Status == SessionConnected
}

package session

import (
	"context"

	"github.com/oxventura/wishd/internal/domain"
	"github.com/oxventura/wishd/internal/domain/interfaces"
)

type ISessionService interface {
	// Connect requests account access from the wallet provider and, on
	// success, registers a chain-change listener that resynchronizes the
	// chain id and signer handle for the life of the session.
	Connect(ctx context.Context) (domain.SessionSnapshot, error)

	// Disconnect resets all session state locally. Providers have no
	// programmatic disconnect, so the provider is never called.
	Disconnect()

	Snapshot() domain.SessionSnapshot

	// Signer returns the current signing capability, or ErrNotConnected.
	Signer() (interfaces.Signer, error)

	// ResyncChain re-reads the active chain id and rotates the signer
	// handle. The network gate calls this after a successful switch.
	ResyncChain(ctx context.Context) error

	// OnChange registers a listener notified on every snapshot change.
	OnChange(fn func(domain.SessionSnapshot))
}

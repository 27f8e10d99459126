package services

import (
	"github.com/dailypizza/pizza-orders-api/internal/auth"
)

// IdentityProvider is the slice of the identity provider the
// state-synchronization services depend on: the active identity and the
// ordered stream of identity transitions.
type IdentityProvider interface {
	// Current returns the active identity, or nil when signed out.
	Current() *auth.Identity
	// OnChange registers a handler for identity transitions; handlers
	// receive the new identity, or nil on sign-out.
	OnChange(fn func(*auth.Identity))
}

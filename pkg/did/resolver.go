package did

import (
	"context"

	"github.com/tcfw/didvault/pkg/vault"
)

// Resolver resolves DIDs of a single method to identities
type Resolver interface {
	Method() string
	Resolve(ctx context.Context, did string) (*Identity, error)
}

// Registrar creates and publishes new identities backed by keys in a vault
type Registrar interface {
	Method() string
	Create(ctx context.Context, provider vault.KeyProvider, pass string) (*Identity, error)
}

package wallet

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/did"
	"github.com/tcfw/didvault/pkg/vault"
)

// FromProvider maps identity's keys against the provider and builds the wallet
func FromProvider(ctx context.Context, identity *did.Identity, provider vault.KeyProvider, pass string) (*IdentityWallet, error) {
	if identity == nil || provider == nil {
		return nil, ErrInvalidCreationArgs
	}

	keys, err := provider.PubKeys(ctx, pass)
	if err != nil {
		return nil, err
	}

	meta, err := MapPublicKeys(identity, keys)
	if err != nil {
		return nil, err
	}

	return New(identity, meta, provider)
}

// CreateIdentityFromKeyProvider registers a new identity backed by provider's
// vault and returns a wallet for it
func CreateIdentityFromKeyProvider(ctx context.Context, provider vault.KeyProvider, pass string, registrar did.Registrar) (*IdentityWallet, error) {
	identity, err := registrar.Create(ctx, provider, pass)
	if err != nil {
		return nil, errors.Wrap(err, "registering identity")
	}

	logging.WithField("did", identity.DID()).Debug("registered identity")

	return FromProvider(ctx, identity, provider, pass)
}

// IdentityOrResolver is either a known identity or a resolver to find it with
type IdentityOrResolver struct {
	Identity *did.Identity
	Resolver did.Resolver
}

// AuthAsIdentityFromKeyProvider builds a wallet for an existing identity. Without
// a known identity the resolver is asked for the provider's wallet id.
func AuthAsIdentityFromKeyProvider(ctx context.Context, provider vault.KeyProvider, pass string, src IdentityOrResolver) (*IdentityWallet, error) {
	if provider == nil {
		return nil, ErrInvalidCreationArgs
	}

	identity := src.Identity
	if identity == nil {
		if src.Resolver == nil {
			return nil, ErrInvalidCreationArgs
		}

		var err error
		identity, err = src.Resolver.Resolve(ctx, provider.ID())
		if err != nil {
			return nil, errors.Wrap(err, "resolving identity")
		}
	}

	return FromProvider(ctx, identity, provider, pass)
}

package wallet

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tcfw/didvault/pkg/did"
	"github.com/tcfw/didvault/pkg/did/w3cdid"
	"github.com/tcfw/didvault/pkg/vault"
)

var (
	ErrInvalidCreationArgs = errors.New("identity wallet requires an identity, key metadata and a key provider")
	ErrNoEncryptionKey     = errors.New("identity has no encryption key")
)

// IdentityWallet signs as an identity using the vault keys resolved for it at
// construction. The provider is shared, not owned.
type IdentityWallet struct {
	identity *did.Identity
	meta     KeyMetadata
	provider vault.KeyProvider
}

func New(identity *did.Identity, meta *KeyMetadata, provider vault.KeyProvider) (*IdentityWallet, error) {
	if identity == nil || meta == nil || provider == nil {
		return nil, ErrInvalidCreationArgs
	}

	return &IdentityWallet{identity: identity, meta: *meta, provider: provider}, nil
}

func (w *IdentityWallet) DID() string {
	return w.identity.DID()
}

func (w *IdentityWallet) Identity() *did.Identity {
	return w.identity
}

func (w *IdentityWallet) Document() *w3cdid.Document {
	return w.identity.Document()
}

// KeyMetadata returns a copy of the metadata computed at construction
func (w *IdentityWallet) KeyMetadata() KeyMetadata {
	return w.meta
}

// Sign always signs with the signing key resolved at construction
func (w *IdentityWallet) Sign(ctx context.Context, data []byte, pass string) ([]byte, error) {
	return w.provider.Sign(ctx, pass, w.meta.SigningKeyID, data)
}

// PublicKeys lists every key in the provider, not only this identity's
func (w *IdentityWallet) PublicKeys(ctx context.Context, pass string) ([]vault.PublicKeyInfo, error) {
	return w.provider.PubKeys(ctx, pass)
}

func (w *IdentityWallet) Decrypt(ctx context.Context, data []byte, pass string) ([]byte, error) {
	if !w.meta.HasEncryptionKey() {
		return nil, ErrNoEncryptionKey
	}

	return w.provider.Decrypt(ctx, pass, w.meta.EncryptionKeyID, data)
}

func (w *IdentityWallet) KeyAgreement(ctx context.Context, pubKey []byte, pass string) ([]byte, error) {
	if !w.meta.HasEncryptionKey() {
		return nil, ErrNoEncryptionKey
	}

	return w.provider.ECDHKeyAgreement(ctx, pass, w.meta.EncryptionKeyID, pubKey)
}

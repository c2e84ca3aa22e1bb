package local

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"

	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/cryptography"
	"github.com/tcfw/didvault/pkg/did"
	"github.com/tcfw/didvault/pkg/did/w3cdid"
	"github.com/tcfw/didvault/pkg/vault"
)

const (
	ProofType = "Ed25519Signature2018"

	nonceSize = 8
)

var (
	_ did.Registrar = (*Registrar)(nil)
)

type Registrar struct {
	store  DocumentStore
	crypto *vault.CryptoProvider
}

func NewRegistrar(store DocumentStore, crypto *vault.CryptoProvider) *Registrar {
	return &Registrar{store: store, crypto: crypto}
}

func (r *Registrar) Method() string {
	return Method
}

// Create generates a signing and an encryption key in the provider, renames the
// wallet to the derived DID and publishes the signed document.
//
// The provider is changed in place before the document is published. On error
// it may already hold the new keys and carry the new id; callers wanting to
// roll back keep the previous EncryptedWallet and ID and reload from them.
func (r *Registrar) Create(ctx context.Context, provider vault.KeyProvider, pass string) (*did.Identity, error) {
	signing, err := provider.NewKeyPair(ctx, pass, cryptography.Ed25519VerificationKey2018, "")
	if err != nil {
		return nil, errors.Wrap(err, "creating signing key")
	}

	signingPub, err := signing.PublicKey()
	if err != nil {
		return nil, err
	}

	id, err := DeriveDID(signingPub)
	if err != nil {
		return nil, err
	}

	signingRef := id + SigningKeyFragment
	encRef := id + EncryptionKeyFragment

	if err := provider.SetKeyController(ctx, pass, signing.ID, signingRef); err != nil {
		return nil, errors.Wrap(err, "binding signing key")
	}

	enc, err := provider.NewKeyPair(ctx, pass, cryptography.X25519KeyAgreementKey2019, encRef)
	if err != nil {
		return nil, errors.Wrap(err, "creating encryption key")
	}

	if err := provider.ChangeID(ctx, pass, id); err != nil {
		return nil, errors.Wrap(err, "renaming wallet")
	}

	created := time.Now().UTC().Truncate(time.Second)

	doc := w3cdid.NewDocument(id,
		w3cdid.PublicKeySection{
			ID:           SigningKeyFragment,
			Type:         signing.Type.String(),
			Controller:   id,
			PublicKeyHex: signing.PublicKeyHex,
		},
		w3cdid.PublicKeySection{
			ID:           EncryptionKeyFragment,
			Type:         enc.Type.String(),
			Controller:   id,
			PublicKeyHex: enc.PublicKeyHex,
		},
	)
	doc.Created = &created

	if err := r.sign(ctx, doc, provider, pass, signingRef, created); err != nil {
		return nil, err
	}

	if err := r.store.PutDocument(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "publishing document")
	}

	logging.WithField("did", id).Debug("created identity")

	return did.NewIdentity(doc)
}

func (r *Registrar) sign(ctx context.Context, doc *w3cdid.Document, provider vault.KeyProvider, pass, keyRef string, created time.Time) error {
	nonce, err := r.crypto.GetRandom(ctx, nonceSize)
	if err != nil {
		return errors.Wrap(err, "generating nonce")
	}

	payload, err := doc.SigningPayload()
	if err != nil {
		return err
	}

	sig, err := provider.Sign(ctx, pass, keyRef, payload)
	if err != nil {
		return errors.Wrap(err, "signing document")
	}

	doc.Proof = &w3cdid.LinkedDataSignature{
		Type:           ProofType,
		Created:        created,
		Creator:        keyRef,
		Nonce:          hex.EncodeToString(nonce),
		SignatureValue: hex.EncodeToString(sig),
	}

	return nil
}

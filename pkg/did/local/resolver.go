package local

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"github.com/tcfw/didvault/internal/utils/logging"
	"github.com/tcfw/didvault/pkg/did"
	"github.com/tcfw/didvault/pkg/did/w3cdid"
	"github.com/tcfw/didvault/pkg/vault"
)

var (
	_ did.Resolver = (*Resolver)(nil)

	ErrInvalidProof = errors.New("invalid document proof")
)

type Resolver struct {
	store  DocumentStore
	crypto *vault.CryptoProvider
}

func NewResolver(store DocumentStore, crypto *vault.CryptoProvider) *Resolver {
	return &Resolver{store: store, crypto: crypto}
}

func (r *Resolver) Method() string {
	return Method
}

// Resolve loads the published document for id and checks its proof
func (r *Resolver) Resolve(ctx context.Context, id string) (*did.Identity, error) {
	if !strings.HasPrefix(id, Prefix) {
		return nil, errors.Wrap(ErrNotLocalDID, id)
	}

	doc, err := r.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.VerifyDocument(ctx, doc); err != nil {
		logging.Entry().WithError(err).WithField("did", id).Debug("rejected document")
		return nil, err
	}

	return did.NewIdentity(doc)
}

// VerifyDocument checks the proof was made by the key the DID was derived from
func (r *Resolver) VerifyDocument(ctx context.Context, doc *w3cdid.Document) error {
	if err := doc.IsValid(); err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}

	if doc.Proof == nil {
		return errors.Wrap(ErrInvalidProof, "missing proof")
	}

	key, ok := doc.FindPublicKey(doc.Proof.Creator)
	if !ok {
		return errors.Wrap(ErrInvalidProof, "unknown creator")
	}

	kt, err := key.KeyType()
	if err != nil {
		return err
	}

	pk, err := key.PublicKey()
	if err != nil {
		return errors.Wrap(ErrInvalidProof, err.Error())
	}

	if !MatchesKey(doc.ID, pk) {
		return errors.Wrap(ErrInvalidProof, "did does not match creator key")
	}

	sig, err := hex.DecodeString(doc.Proof.SignatureValue)
	if err != nil {
		return errors.Wrap(ErrInvalidProof, "signature encoding")
	}

	payload, err := doc.SigningPayload()
	if err != nil {
		return err
	}

	valid, err := r.crypto.VerifyStrict(ctx, pk, kt, payload, sig)
	if err != nil {
		return errors.Wrap(err, "verifying proof")
	}

	if !valid {
		return ErrInvalidProof
	}

	return nil
}

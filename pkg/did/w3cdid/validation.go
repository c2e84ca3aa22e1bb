package w3cdid

import "github.com/pkg/errors"

var (
	ErrInvalidDID             = errors.New("document id is not a DID")
	ErrProofCreatorNotInKeys  = errors.New("proof creator is not a public key of the document")
	ErrPublicKeySectionNoType = errors.New("public key section has no type")
)

// IsValid checks the document is publishable: it has a DID, at least one
// public key, and any proof is created by one of its keys.
func (d *Document) IsValid() error {
	if !IsDID(d.ID) {
		return errors.Wrapf(ErrInvalidDID, "%q", d.ID)
	}

	if len(d.PublicKey) == 0 {
		return ErrNoSigningKey
	}

	for _, pk := range d.PublicKey {
		if pk.Type == "" {
			return errors.Wrap(ErrPublicKeySectionNoType, pk.ID)
		}
	}

	if d.Proof != nil {
		if _, ok := d.FindPublicKey(d.Proof.Creator); !ok {
			return errors.Wrap(ErrProofCreatorNotInKeys, d.Proof.Creator)
		}
	}

	return nil
}

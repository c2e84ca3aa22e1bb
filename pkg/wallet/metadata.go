package wallet

import (
	"github.com/pkg/errors"

	"github.com/tcfw/didvault/pkg/cryptography"
	"github.com/tcfw/didvault/pkg/did"
	"github.com/tcfw/didvault/pkg/did/w3cdid"
	"github.com/tcfw/didvault/pkg/vault"
)

var (
	ErrPublicKeyNotFound = errors.New("no vault key controls the document signing key")
)

// KeyMetadata links an identity's document keys to the vault keys backing them.
// An empty EncryptionKeyID means the document declares no key agreement key.
type KeyMetadata struct {
	SigningKeyID    string `json:"signingKeyId"`
	EncryptionKeyID string `json:"encryptionKeyId,omitempty"`
}

func (k *KeyMetadata) HasEncryptionKey() bool {
	return k.EncryptionKeyID != ""
}

// MapPublicKeys resolves the identity's signing and encryption key refs and
// checks that a vault key controls the signing ref. When controllers are not
// unique the first key in list order is taken.
func MapPublicKeys(identity *did.Identity, keys []vault.PublicKeyInfo) (*KeyMetadata, error) {
	if identity == nil || identity.Document() == nil {
		return nil, ErrInvalidCreationArgs
	}

	doc := identity.Document()

	signer, err := doc.Signer()
	if err != nil {
		return nil, err
	}

	meta := &KeyMetadata{
		SigningKeyID: w3cdid.Qualify(signer.DID, signer.KeyID),
	}

	for _, pk := range doc.PublicKey {
		if pk.Type == cryptography.X25519KeyAgreementKey2019.String() {
			meta.EncryptionKeyID = w3cdid.Qualify(pk.Controller, pk.ID)
			break
		}
	}

	for i := range keys {
		if keys[i].HasController(meta.SigningKeyID) {
			return meta, nil
		}
	}

	return nil, errors.Wrap(ErrPublicKeyNotFound, meta.SigningKeyID)
}

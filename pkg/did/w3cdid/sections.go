package w3cdid

import (
	"encoding/hex"

	"github.com/tcfw/didvault/pkg/cryptography"
)

// PublicKeySection is the document side projection of a public key
type PublicKeySection struct {
	ID           string
	Type         string
	Controller   string
	PublicKeyHex string
}

// NewPublicKeySectionFromEcdsa builds a secp256k1 section for publicKey owned by did
func NewPublicKeySectionFromEcdsa(publicKey []byte, id string, did string) PublicKeySection {
	return PublicKeySection{
		ID:           id,
		Type:         cryptography.EcdsaSecp256k1VerificationKey2019.String(),
		Controller:   did,
		PublicKeyHex: hex.EncodeToString(publicKey),
	}
}

func (p *PublicKeySection) PublicKey() ([]byte, error) {
	return hex.DecodeString(p.PublicKeyHex)
}

// KeyType returns the section's suite if it is one a vault can hold
func (p *PublicKeySection) KeyType() (cryptography.KeyType, error) {
	return cryptography.ParseKeyType(p.Type)
}

// QualifiedID returns the section id as a full DID URL. Relative ids are
// resolved against the controller, or did when there is none.
func (p *PublicKeySection) QualifiedID(did string) string {
	base := p.Controller
	if base == "" {
		base = did
	}

	return Qualify(base, p.ID)
}

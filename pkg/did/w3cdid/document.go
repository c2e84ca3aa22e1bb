package w3cdid

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultContext = "https://w3id.org/did/v1"
)

var (
	ErrNoSigningKey = errors.New("document has no proof creator and no public keys")
)

// Document is the publishable DID document: the DID, its public key sections
// and an optional linked data proof.
type Document struct {
	Context   []string
	ID        string
	PublicKey []PublicKeySection
	Service   []Service
	Created   *time.Time
	Proof     *LinkedDataSignature
}

type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
	Description     string `json:"description,omitempty"`
}

// LinkedDataSignature is the proof attached to a signed document
type LinkedDataSignature struct {
	Type           string
	Created        time.Time
	Creator        string
	Nonce          string
	SignatureValue string
	ID             string
}

// Signer identifies the key a document was, or will be, signed with
type Signer struct {
	DID   string
	KeyID string
}

func NewDocument(did string, keys ...PublicKeySection) *Document {
	return &Document{
		Context:   []string{DefaultContext},
		ID:        did,
		PublicKey: keys,
	}
}

// Signer prefers the proof's creator and falls back to the first public key
func (d *Document) Signer() (Signer, error) {
	if d.Proof != nil && d.Proof.Creator != "" {
		return Signer{DID: d.ID, KeyID: d.Proof.Creator}, nil
	}

	if len(d.PublicKey) == 0 {
		return Signer{}, ErrNoSigningKey
	}

	return Signer{DID: d.ID, KeyID: d.PublicKey[0].ID}, nil
}

// FindPublicKey returns the section a possibly document relative key ref points to
func (d *Document) FindPublicKey(ref string) (*PublicKeySection, bool) {
	want := Qualify(d.ID, ref)

	for i := range d.PublicKey {
		pk := &d.PublicKey[i]
		if pk.QualifiedID(d.ID) == want {
			return pk, true
		}
	}

	return nil, false
}

// Unsigned returns a shallow copy of d without its proof
func (d *Document) Unsigned() *Document {
	c := *d
	c.Proof = nil
	return &c
}

// SigningPayload is the canonical byte form of the document without its proof.
// Object keys are emitted in sorted order.
func (d *Document) SigningPayload() ([]byte, error) {
	b, err := json.Marshal(d.Unsigned())
	if err != nil {
		return nil, errors.Wrap(err, "marshalling document")
	}

	var generic interface{}
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, errors.Wrap(err, "normalising document")
	}

	return json.Marshal(generic)
}

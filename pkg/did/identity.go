package did

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/tcfw/didvault/pkg/did/w3cdid"
)

var (
	ErrNoDocument = errors.New("identity requires a did document")
)

// Identity owns exactly one DID document
type Identity struct {
	document *w3cdid.Document
}

func NewIdentity(doc *w3cdid.Document) (*Identity, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	return &Identity{document: doc}, nil
}

func (i *Identity) DID() string {
	return i.document.ID
}

func (i *Identity) Document() *w3cdid.Document {
	return i.document
}

type identityJSON struct {
	DidDocument *w3cdid.Document `json:"didDocument"`
}

func (i *Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(identityJSON{DidDocument: i.document})
}

func (i *Identity) UnmarshalJSON(b []byte) error {
	w := identityJSON{}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	if w.DidDocument == nil {
		return ErrNoDocument
	}

	i.document = w.DidDocument
	return nil
}

// KeyIDToDID returns the DID part of a key id, e.g. did:example:abc for
// did:example:abc#keys-1. Key ids without a fragment yield an empty string.
func KeyIDToDID(keyID string) string {
	i := strings.Index(keyID, "#")
	if i < 0 {
		return ""
	}

	return keyID[:i]
}

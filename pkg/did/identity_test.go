package did

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcfw/didvault/pkg/did/w3cdid"
)

func TestIdentity(t *testing.T) {
	_, err := NewIdentity(nil)
	assert.Equal(t, ErrNoDocument, err)

	doc := w3cdid.NewDocument("did:example:abc", w3cdid.PublicKeySection{
		ID:           "#keys-1",
		Type:         "Ed25519VerificationKey2018",
		Controller:   "did:example:abc",
		PublicKeyHex: "01",
	})

	id, err := NewIdentity(doc)
	require.NoError(t, err)
	assert.Equal(t, "did:example:abc", id.DID())
	assert.Same(t, doc, id.Document())

	b, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"didDocument":{`)

	decoded := &Identity{}
	require.NoError(t, json.Unmarshal(b, decoded))
	assert.Equal(t, id.DID(), decoded.DID())
	assert.Equal(t, doc.PublicKey, decoded.Document().PublicKey)

	assert.Equal(t, ErrNoDocument, json.Unmarshal([]byte(`{}`), &Identity{}))
}

func TestKeyIDToDID(t *testing.T) {
	assert.Equal(t, "did:jolo:abc", KeyIDToDID("did:jolo:abc#keys-1"))
	assert.Equal(t, "", KeyIDToDID("did:jolo:abc"))
}

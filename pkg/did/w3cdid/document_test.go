package w3cdid

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcfw/didvault/pkg/cryptography"
)

func testDocument() *Document {
	created := time.Date(2020, 3, 4, 10, 11, 12, 0, time.UTC)

	doc := NewDocument("did:example:abc",
		PublicKeySection{
			ID:           "#keys-1",
			Type:         cryptography.Ed25519VerificationKey2018.String(),
			Controller:   "did:example:abc",
			PublicKeyHex: "aabbcc",
		},
		PublicKeySection{
			ID:           "did:example:abc#keys-2",
			Type:         cryptography.X25519KeyAgreementKey2019.String(),
			Controller:   "did:example:abc",
			PublicKeyHex: "ddeeff",
		},
	)
	doc.Created = &created
	doc.Service = []Service{{ID: "did:example:abc;hub", Type: "Hub", ServiceEndpoint: "https://hub.example.com"}}
	doc.Proof = &LinkedDataSignature{
		Type:           "Ed25519Signature2018",
		Created:        created,
		Creator:        "did:example:abc#keys-1",
		Nonce:          "0102",
		SignatureValue: "ff00",
	}

	return doc
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := testDocument()

	b, err := json.Marshal(doc)
	require.NoError(t, err)

	decoded := &Document{}
	require.NoError(t, json.Unmarshal(b, decoded))

	assert.Equal(t, doc.ID, decoded.ID)
	assert.Equal(t, doc.PublicKey, decoded.PublicKey)
	assert.Equal(t, doc.Proof, decoded.Proof)
	assert.Equal(t, doc.Service, decoded.Service)
	assert.Equal(t, doc.Created, decoded.Created)
	assert.Equal(t, doc.Context, decoded.Context)
}

func TestDocumentRoundTripSubSecond(t *testing.T) {
	doc := testDocument()
	created := time.Date(2020, 3, 4, 10, 11, 12, 500000000, time.UTC)
	doc.Created = &created
	doc.Proof.Created = created.Add(250 * time.Millisecond)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"created":"2020-03-04T10:11:12.5Z"`)

	decoded := &Document{}
	require.NoError(t, json.Unmarshal(b, decoded))

	assert.Equal(t, doc.Created, decoded.Created)
	assert.Equal(t, doc.Proof, decoded.Proof)
}

func TestDocumentJSONShape(t *testing.T) {
	b, err := json.Marshal(testDocument())
	require.NoError(t, err)

	m := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, DefaultContext, m["@context"])
	assert.Equal(t, "did:example:abc", m["id"])
	assert.Equal(t, "2020-03-04T10:11:12Z", m["created"])
	assert.Len(t, m["publicKey"], 2)
	assert.NotContains(t, m, "verificationMethod")

	proof := m["proof"].(map[string]interface{})
	assert.Equal(t, "did:example:abc#keys-1", proof["creator"])
	assert.Equal(t, "ff00", proof["signatureValue"])
	assert.NotContains(t, proof, "id")
}

func TestDocumentMergesVerificationMethod(t *testing.T) {
	raw := `{
		"@context": ["https://www.w3.org/ns/did/v1", {"@vocab": "x"}],
		"id": "did:example:abc",
		"publicKey": [{"id": "#keys-1", "type": "Ed25519VerificationKey2018", "controller": "did:example:abc", "publicKeyHex": "01"}],
		"verificationMethod": [{"id": "#keys-2", "type": "X25519KeyAgreementKey2019", "controller": "did:example:abc", "publicKeyHex": "02"}]
	}`

	doc := &Document{}
	require.NoError(t, json.Unmarshal([]byte(raw), doc))

	assert.Equal(t, []string{"https://www.w3.org/ns/did/v1"}, doc.Context)
	require.Len(t, doc.PublicKey, 2)
	assert.Equal(t, "#keys-1", doc.PublicKey[0].ID)
	assert.Equal(t, "#keys-2", doc.PublicKey[1].ID)
	assert.Nil(t, doc.Proof)
}

func TestPublicKeySectionEncodings(t *testing.T) {
	pk, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	want := hex.EncodeToString(pk)

	mb, err := cryptography.EncodeMultibase(pk)
	require.NoError(t, err)

	tests := map[string]string{
		"base58":    `{"id":"#k","type":"Ed25519VerificationKey2018","publicKeyBase58":"` + base58.Encode(pk) + `"}`,
		"multibase": `{"id":"#k","type":"Ed25519VerificationKey2018","publicKeyMultibase":"` + mb + `"}`,
		"jwk":       `{"id":"#k","type":"JwsVerificationKey2020","publicKeyJwk":{"kty":"OKP","crv":"Ed25519","x":"` + base64.RawURLEncoding.EncodeToString(pk) + `"}}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			s := PublicKeySection{}
			require.NoError(t, json.Unmarshal([]byte(raw), &s))
			assert.Equal(t, want, s.PublicKeyHex)

			out, err := json.Marshal(s)
			require.NoError(t, err)
			assert.Contains(t, string(out), `"publicKeyHex":"`+want+`"`)
		})
	}
}

func TestNewPublicKeySectionFromEcdsa(t *testing.T) {
	s := NewPublicKeySectionFromEcdsa([]byte{0x02, 0xab}, "#keys-1", "did:example:abc")

	assert.Equal(t, "#keys-1", s.ID)
	assert.Equal(t, "did:example:abc", s.Controller)
	assert.Equal(t, "02ab", s.PublicKeyHex)

	kt, err := s.KeyType()
	require.NoError(t, err)
	assert.Equal(t, cryptography.EcdsaSecp256k1VerificationKey2019, kt)
	assert.Equal(t, "did:example:abc#keys-1", s.QualifiedID("did:example:other"))
}

func TestSigner(t *testing.T) {
	doc := testDocument()

	signer, err := doc.Signer()
	require.NoError(t, err)
	assert.Equal(t, Signer{DID: "did:example:abc", KeyID: "did:example:abc#keys-1"}, signer)

	//proof creator takes precedence over position
	doc.Proof.Creator = "did:example:abc#keys-2"
	signer, err = doc.Signer()
	require.NoError(t, err)
	assert.Equal(t, "did:example:abc#keys-2", signer.KeyID)

	doc.Proof = nil
	signer, err = doc.Signer()
	require.NoError(t, err)
	assert.Equal(t, "#keys-1", signer.KeyID)

	doc.PublicKey = nil
	_, err = doc.Signer()
	assert.True(t, errors.Is(err, ErrNoSigningKey))
}

func TestSigningPayloadExcludesProof(t *testing.T) {
	doc := testDocument()

	p1, err := doc.SigningPayload()
	require.NoError(t, err)

	doc.Proof.SignatureValue = "changed"
	p2, err := doc.SigningPayload()
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.NotContains(t, string(p1), "proof")

	doc.PublicKey[0].PublicKeyHex = "00"
	p3, err := doc.SigningPayload()
	require.NoError(t, err)
	assert.NotEqual(t, p1, p3)
}

func TestIsValid(t *testing.T) {
	assert.NoError(t, testDocument().IsValid())

	doc := testDocument()
	doc.ID = "example:abc"
	assert.True(t, errors.Is(doc.IsValid(), ErrInvalidDID))

	doc = testDocument()
	doc.Proof.Creator = "did:example:abc#keys-9"
	assert.True(t, errors.Is(doc.IsValid(), ErrProofCreatorNotInKeys))

	doc = testDocument()
	doc.PublicKey = nil
	assert.True(t, errors.Is(doc.IsValid(), ErrNoSigningKey))

	doc = testDocument()
	doc.PublicKey[1].Type = ""
	assert.True(t, errors.Is(doc.IsValid(), ErrPublicKeySectionNoType))
}

func TestFindPublicKey(t *testing.T) {
	doc := testDocument()

	pk, ok := doc.FindPublicKey("#keys-2")
	require.True(t, ok)
	assert.Equal(t, "ddeeff", pk.PublicKeyHex)

	pk, ok = doc.FindPublicKey("did:example:abc#keys-1")
	require.True(t, ok)
	assert.Equal(t, "aabbcc", pk.PublicKeyHex)

	_, ok = doc.FindPublicKey("#keys-3")
	assert.False(t, ok)
}

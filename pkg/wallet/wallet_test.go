package wallet

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcfw/didvault/pkg/cryptography"
	"github.com/tcfw/didvault/pkg/did"
	"github.com/tcfw/didvault/pkg/did/local"
	"github.com/tcfw/didvault/pkg/did/w3cdid"
	"github.com/tcfw/didvault/pkg/vault"
	"github.com/tcfw/didvault/pkg/vault/software"
)

const testPass = "pass"

func testProvider(t *testing.T, id string) *vault.Provider {
	e, err := software.NewEngine(software.WithKDFParams(1, 64, 1))
	require.NoError(t, err)

	p, err := vault.NewEmptyWallet(context.Background(), e, id, testPass)
	require.NoError(t, err)

	return p
}

func exampleIdentity(t *testing.T, keys ...w3cdid.PublicKeySection) *did.Identity {
	if len(keys) == 0 {
		keys = []w3cdid.PublicKeySection{{
			ID:         "#keys-1",
			Type:       cryptography.Ed25519VerificationKey2018.String(),
			Controller: "did:example:abc",
		}}
	}

	ident, err := did.NewIdentity(w3cdid.NewDocument("did:example:abc", keys...))
	require.NoError(t, err)

	return ident
}

func TestMapPublicKeysScenario(t *testing.T) {
	ctx := context.Background()
	p := testProvider(t, "wallet-1")

	_, err := p.NewKeyPair(ctx, testPass, cryptography.Ed25519VerificationKey2018, "did:example:abc#keys-1")
	require.NoError(t, err)

	keys, err := p.PubKeys(ctx, testPass)
	require.NoError(t, err)

	meta, err := MapPublicKeys(exampleIdentity(t), keys)
	require.NoError(t, err)
	assert.Equal(t, &KeyMetadata{SigningKeyID: "did:example:abc#keys-1"}, meta)
	assert.False(t, meta.HasEncryptionKey())
}

func TestMapPublicKeysNoMatchingController(t *testing.T) {
	ctx := context.Background()
	p := testProvider(t, "wallet-1")

	_, err := p.NewKeyPair(ctx, testPass, cryptography.Ed25519VerificationKey2018, "did:example:other#keys-1")
	require.NoError(t, err)

	keys, err := p.PubKeys(ctx, testPass)
	require.NoError(t, err)

	meta, err := MapPublicKeys(exampleIdentity(t), keys)
	assert.True(t, errors.Is(err, ErrPublicKeyNotFound))
	assert.Nil(t, meta)

	w, err := FromProvider(ctx, exampleIdentity(t), p, testPass)
	assert.True(t, errors.Is(err, ErrPublicKeyNotFound))
	assert.Nil(t, w)
}

func TestMapPublicKeysRefs(t *testing.T) {
	keys := []vault.PublicKeyInfo{
		{ID: "urn:uuid:1", Controller: []string{"did:example:abc#keys-1"}},
	}

	tests := map[string]struct {
		keys    []w3cdid.PublicKeySection
		signing string
		enc     string
	}{
		"relative": {
			keys: []w3cdid.PublicKeySection{
				{ID: "#keys-1", Type: cryptography.Ed25519VerificationKey2018.String(), Controller: "did:example:abc"},
				{ID: "#keys-2", Type: cryptography.X25519KeyAgreementKey2019.String(), Controller: "did:example:abc"},
				{ID: "#keys-3", Type: cryptography.X25519KeyAgreementKey2019.String(), Controller: "did:example:abc"},
			},
			signing: "did:example:abc#keys-1",
			enc:     "did:example:abc#keys-2",
		},
		"qualified": {
			keys: []w3cdid.PublicKeySection{
				{ID: "did:example:abc#keys-1", Type: cryptography.Ed25519VerificationKey2018.String()},
				{ID: "did:example:xyz#enc", Type: cryptography.X25519KeyAgreementKey2019.String(), Controller: "did:example:abc"},
			},
			signing: "did:example:abc#keys-1",
			enc:     "did:example:xyz#enc",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			meta, err := MapPublicKeys(exampleIdentity(t, tc.keys...), keys)
			require.NoError(t, err)
			assert.Equal(t, tc.signing, meta.SigningKeyID)
			assert.Equal(t, tc.enc, meta.EncryptionKeyID)
		})
	}
}

func TestMapPublicKeysPrefersProofCreator(t *testing.T) {
	ident := exampleIdentity(t,
		w3cdid.PublicKeySection{ID: "#keys-1", Type: cryptography.Ed25519VerificationKey2018.String()},
		w3cdid.PublicKeySection{ID: "#keys-9", Type: cryptography.Ed25519VerificationKey2018.String()},
	)
	ident.Document().Proof = &w3cdid.LinkedDataSignature{Creator: "#keys-9"}

	keys := []vault.PublicKeyInfo{{ID: "urn:uuid:9", Controller: []string{"did:example:abc#keys-9"}}}

	meta, err := MapPublicKeys(ident, keys)
	require.NoError(t, err)
	assert.Equal(t, "did:example:abc#keys-9", meta.SigningKeyID)
}

func TestMapPublicKeysEmptyDocument(t *testing.T) {
	ident, err := did.NewIdentity(w3cdid.NewDocument("did:example:abc"))
	require.NoError(t, err)

	_, err = MapPublicKeys(ident, nil)
	assert.True(t, errors.Is(err, w3cdid.ErrNoSigningKey))
}

func TestMapPublicKeysNilIdentity(t *testing.T) {
	meta, err := MapPublicKeys(nil, []vault.PublicKeyInfo{{ID: "urn:uuid:1"}})
	assert.Equal(t, ErrInvalidCreationArgs, err)
	assert.Nil(t, meta)

	_, err = MapPublicKeys(&did.Identity{}, nil)
	assert.Equal(t, ErrInvalidCreationArgs, err)
}

func TestNewRequiresAllArgs(t *testing.T) {
	p := testProvider(t, "wallet-1")
	ident := exampleIdentity(t)
	meta := &KeyMetadata{SigningKeyID: "did:example:abc#keys-1"}

	_, err := New(nil, meta, p)
	assert.Equal(t, ErrInvalidCreationArgs, err)

	_, err = New(ident, nil, p)
	assert.Equal(t, ErrInvalidCreationArgs, err)

	_, err = New(ident, meta, nil)
	assert.Equal(t, ErrInvalidCreationArgs, err)

	w, err := New(ident, meta, p)
	require.NoError(t, err)
	assert.Equal(t, "did:example:abc", w.DID())
	assert.Equal(t, *meta, w.KeyMetadata())
}

func TestSignUsesResolvedKey(t *testing.T) {
	ctx := context.Background()
	p := testProvider(t, "wallet-1")

	_, err := p.NewKeyPair(ctx, testPass, cryptography.Ed25519VerificationKey2018, "did:example:other#keys-1")
	require.NoError(t, err)
	signing, err := p.NewKeyPair(ctx, testPass, cryptography.Ed25519VerificationKey2018, "did:example:abc#keys-1")
	require.NoError(t, err)

	w, err := FromProvider(ctx, exampleIdentity(t), p, testPass)
	require.NoError(t, err)

	msg := []byte("hello")
	sig, err := w.Sign(ctx, msg, testPass)
	require.NoError(t, err)

	pk, err := signing.PublicKey()
	require.NoError(t, err)

	c := vault.NewCryptoProvider(software.NewCrypto())
	assert.True(t, c.Verify(ctx, pk, cryptography.Ed25519VerificationKey2018, msg, sig))

	all, err := w.PublicKeys(ctx, testPass)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = w.Decrypt(ctx, []byte("x"), testPass)
	assert.Equal(t, ErrNoEncryptionKey, err)

	_, err = w.KeyAgreement(ctx, make([]byte, 32), testPass)
	assert.Equal(t, ErrNoEncryptionKey, err)

	_, err = w.Sign(ctx, msg, "wrong")
	assert.True(t, errors.Is(err, vault.ErrAuthentication))
}

func TestCreateAndAuthAsIdentity(t *testing.T) {
	ctx := context.Background()
	p := testProvider(t, "fresh")

	store := local.NewMemStore()
	c := vault.NewCryptoProvider(software.NewCrypto())

	created, err := CreateIdentityFromKeyProvider(ctx, p, testPass, local.NewRegistrar(store, c))
	require.NoError(t, err)
	assert.Equal(t, created.DID(), p.ID())
	assert.Equal(t, created.DID()+local.SigningKeyFragment, created.KeyMetadata().SigningKeyID)
	assert.Equal(t, created.DID()+local.EncryptionKeyFragment, created.KeyMetadata().EncryptionKeyID)

	authed, err := AuthAsIdentityFromKeyProvider(ctx, p, testPass, IdentityOrResolver{Resolver: local.NewResolver(store, c)})
	require.NoError(t, err)
	assert.Equal(t, created.KeyMetadata(), authed.KeyMetadata())

	byIdentity, err := AuthAsIdentityFromKeyProvider(ctx, p, testPass, IdentityOrResolver{Identity: created.Identity()})
	require.NoError(t, err)
	assert.Equal(t, created.DID(), byIdentity.DID())

	//encryption round trip through the identity's key agreement key
	encKey, ok := created.Document().FindPublicKey(local.EncryptionKeyFragment)
	require.True(t, ok)
	pub, err := encKey.PublicKey()
	require.NoError(t, err)

	ct, err := c.Encrypt(ctx, pub, cryptography.X25519KeyAgreementKey2019, []byte("secret"))
	require.NoError(t, err)

	pt, err := authed.Decrypt(ctx, ct, testPass)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pt)

	_, err = AuthAsIdentityFromKeyProvider(ctx, p, testPass, IdentityOrResolver{})
	assert.Equal(t, ErrInvalidCreationArgs, err)
}

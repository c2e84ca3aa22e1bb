package cryptography

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyType(t *testing.T) {
	for _, kt := range KeyTypes {
		parsed, err := ParseKeyType(kt.String())
		require.NoError(t, err)
		assert.Equal(t, kt, parsed)
	}

	_, err := ParseKeyType("Secp256k1VerificationKey2018")
	assert.True(t, errors.Is(err, ErrUnknownKeyType))

	var kt KeyType
	err = kt.UnmarshalText([]byte(""))
	assert.True(t, errors.Is(err, ErrUnknownKeyType))

	_, err = KeyType("bogus").MarshalText()
	assert.Error(t, err)
}

func TestEd25519GoodSignature(t *testing.T) {
	pk, sk, err := GenerateEd25519()
	require.NoError(t, err)

	msg := []byte("test")
	sig, err := SignJWS(sk, msg)
	require.NoError(t, err)

	ok, err := Validate(JwsVerificationKey2020, pk, sig, msg)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = Validate(JwsVerificationKey2020, pk, sig, []byte("other"))
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestSecp256k1Signatures(t *testing.T) {
	sk, err := NewEcdsaSecp256k1PrivateKey()
	require.NoError(t, err)

	pub := sk.Public().(*Secp256k1PublicKey).Bytes()
	assert.Len(t, pub, 33)

	msg := []byte("abc")

	compact, err := sk.SignCompact(msg)
	require.NoError(t, err)
	assert.Len(t, compact, 64)

	ok, err := Validate(EcdsaSecp256k1VerificationKey2019, pub, compact, msg)
	require.NoError(t, err)
	assert.True(t, ok)

	recoverable, err := sk.Sign(nil, msg, nil)
	require.NoError(t, err)

	ok, err = Validate(EcdsaSecp256k1RecoveryMethod2020, pub, recoverable, msg)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Validate(EcdsaSecp256k1RecoveryMethod2020, pub, recoverable, []byte("abd"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Validate(EcdsaSecp256k1RecoveryMethod2020, pub, compact, msg)
	assert.True(t, errors.Is(err, ErrInvalidSignatureShape))

	restored, err := NewSecp256k1PrivateKeyFromBytes(sk.Bytes())
	require.NoError(t, err)
	assert.True(t, restored.Equal(sk.PrivateKey))
}

func TestX25519(t *testing.T) {
	apub, apriv, err := GenerateX25519()
	require.NoError(t, err)
	bpub, bpriv, err := GenerateX25519()
	require.NoError(t, err)

	s1, err := ECDH(apriv, bpub)
	require.NoError(t, err)
	s2, err := ECDH(bpriv, apub)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	ct, err := AnonEncrypt(apub, []byte("secret"))
	require.NoError(t, err)

	pt, err := AnonDecrypt(apub, apriv, ct)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pt)

	_, err = AnonDecrypt(bpub, bpriv, ct)
	assert.True(t, errors.Is(err, ErrDecryptionFailed))

	_, err = Validate(X25519KeyAgreementKey2019, apub, nil, nil)
	assert.True(t, errors.Is(err, ErrUnsupportedKeyType))
}

func TestMultibase(t *testing.T) {
	raw := []byte{1, 2, 3, 4}
	mb, err := EncodeMultibase(raw)
	require.NoError(t, err)
	assert.Equal(t, byte('z'), mb[0])

	d, err := DecodeMultibase(mb)
	require.NoError(t, err)
	assert.Equal(t, raw, d)
}
